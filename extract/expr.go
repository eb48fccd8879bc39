package extract

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/zoobzio/shiftz"
	"github.com/zoobzio/shiftz/match"
)

// Expr extracts the result of an expr-lang expression. The expression sees
// the same environment as match.Expr: value and flags.
//
//	total, err := extract.Expr(`sum(map(value.Lines, .Price * .Qty))`)
//
// An expression that errors at run time, or evaluates to nil, is a failure.
func Expr(source string, opts ...expr.Option) (shiftz.Processor, error) {
	program, err := expr.Compile(source, opts...)
	if err != nil {
		return shiftz.Processor{}, fmt.Errorf("error compiling extractor %q: %w", source, err)
	}
	return shiftz.Wrap("expr", func(ctx context.Context, value any) (any, error) {
		out, err := expr.Run(program, match.Env(ctx, value))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shiftz.ErrExtract, err)
		}
		if out == nil {
			return nil, fmt.Errorf("%w: %q produced nil", shiftz.ErrExtract, source)
		}
		return out, nil
	}), nil
}
