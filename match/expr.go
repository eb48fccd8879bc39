package match

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zoobzio/shiftz"
)

// Expression is a Matcher defined by a boolean expr-lang expression.
//
// The expression sees two variables: value, the value being matched, and
// flags, the flags of the invocation keyed by their full name.
//
//	adult, err := match.Expr(`value.Age >= 18`)
//	strict, err := match.Expr(`flags["checkout.strict"] == true && value > 0`)
type Expression struct {
	program *vm.Program
	source  string
}

// Expr compiles source into an Expression. Syntax errors and expressions
// that cannot produce a boolean are reported here. opts are passed to the
// compiler, e.g. expr.Function to make helpers available.
func Expr(source string, opts ...expr.Option) (*Expression, error) {
	program, err := expr.Compile(source, append([]expr.Option{expr.AsBool()}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error compiling matcher %q: %w", source, err)
	}
	return &Expression{program: program, source: source}, nil
}

// Match implements shiftz.Matcher.
func (e *Expression) Match(ctx context.Context, value any) (bool, error) {
	out, err := expr.Run(e.program, Env(ctx, value))
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("expression %q produced %T, not bool", e.source, out)
	}
	return ok, nil
}

// Name returns the name of the expression.
func (*Expression) Name() shiftz.Name {
	return "expr"
}

// Source returns the expression text.
func (e *Expression) Source() string {
	return e.source
}

// Env builds the environment expressions run against.
func Env(ctx context.Context, value any) map[string]any {
	return map[string]any{
		"value": value,
		"flags": shiftz.FlagsFrom(ctx).Map(),
	}
}
