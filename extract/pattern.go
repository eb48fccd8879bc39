package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/zoobzio/shiftz"
)

// PatternGroup overrides the group a Pattern extracts.
var PatternGroup = shiftz.NewKey[int]("extract.pattern", "group")

// Pattern extracts a capture group of the first match of re in a string.
// Group 0 is the whole match. A value that is not a string, a string with
// no match, or a group that did not participate in the match is a failure.
func Pattern(re string, group int) (shiftz.Processor, error) {
	compiled, err := regexp.Compile(re)
	if err != nil {
		return shiftz.Processor{}, &shiftz.ChainError{Op: "pattern", Operand: re, Reason: err.Error()}
	}
	if group < 0 || group > compiled.NumSubexp() {
		return shiftz.Processor{}, &shiftz.ChainError{
			Op:      "pattern",
			Operand: re,
			Reason:  fmt.Sprintf("group %d out of range, pattern has %d", group, compiled.NumSubexp()),
		}
	}

	name := "pattern[" + re + "]"
	return shiftz.Wrap(name, func(ctx context.Context, value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a string", shiftz.ErrExtract, value)
		}
		g := PatternGroup.Get(ctx, group)
		loc := compiled.FindStringSubmatchIndex(s)
		if loc == nil {
			return nil, fmt.Errorf("%w: no match in %q", shiftz.ErrExtract, s)
		}
		if g < 0 || g > compiled.NumSubexp() || loc[2*g] < 0 {
			return nil, fmt.Errorf("%w: group %d did not match", shiftz.ErrExtract, g)
		}
		return s[loc[2*g]:loc[2*g+1]], nil
	}), nil
}
