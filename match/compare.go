package match

import (
	"cmp"
	"context"
	"fmt"

	"github.com/zoobzio/shiftz"
)

// Lenient makes the ordered comparisons treat a value of the wrong type as a
// non-match instead of an evaluation error.
var Lenient = shiftz.NewKey[bool]("match.compare", "lenient")

// Less matches values below bound.
func Less[T cmp.Ordered](bound T) Predicate {
	return compare("less", bound, func(c int) bool { return c < 0 })
}

// LessOrEqual matches values at or below bound.
func LessOrEqual[T cmp.Ordered](bound T) Predicate {
	return compare("less-or-equal", bound, func(c int) bool { return c <= 0 })
}

// Greater matches values above bound.
func Greater[T cmp.Ordered](bound T) Predicate {
	return compare("greater", bound, func(c int) bool { return c > 0 })
}

// GreaterOrEqual matches values at or above bound.
func GreaterOrEqual[T cmp.Ordered](bound T) Predicate {
	return compare("greater-or-equal", bound, func(c int) bool { return c >= 0 })
}

func compare[T cmp.Ordered](name shiftz.Name, bound T, accept func(int) bool) Predicate {
	return Func(name, func(ctx context.Context, value any) (bool, error) {
		v, ok := value.(T)
		if !ok {
			if Lenient.Get(ctx, false) {
				return false, nil
			}
			return false, fmt.Errorf("cannot compare %T with %T", value, bound)
		}
		return accept(cmp.Compare(v, bound)), nil
	})
}
