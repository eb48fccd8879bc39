package match

import (
	"context"

	"github.com/zoobzio/shiftz"
)

// Filter passes values that m matches through unchanged and fails with
// shiftz.ErrMatch on the rest. In an alternation it routes a value to the
// first member whose filter accepts it:
//
//	route := shiftz.Must(shiftz.OrElse(
//	    shiftz.Must(shiftz.Then(match.Filter(match.IsType[string]()), parseString)),
//	    shiftz.Must(shiftz.Then(match.Filter(match.IsType[int]()), fromInt)),
//	))
func Filter(m shiftz.Matcher) shiftz.Processor {
	name := "filter-" + m.Name()
	return shiftz.Wrap(name, func(ctx context.Context, value any) (any, error) {
		ok, err := m.Match(ctx, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shiftz.Fail(name, value, shiftz.ErrMatch)
		}
		return value, nil
	})
}
