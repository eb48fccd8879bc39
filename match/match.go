// Package match provides Matchers: predicates over pipeline values used by
// shiftz.When, shiftz.BreakIf, the collect package and Filter.
//
// A Matcher answers true or false. It returns an error only when it cannot
// evaluate the value at all; nodes that use the matcher report such errors as
// transformation failures.
package match

import (
	"context"
	"reflect"

	"github.com/zoobzio/shiftz"
)

// Predicate is a named Matcher backed by a function.
type Predicate struct {
	fn   func(context.Context, any) (bool, error)
	name shiftz.Name
}

// Func creates a Predicate from fn.
func Func(name shiftz.Name, fn func(context.Context, any) (bool, error)) Predicate {
	return Predicate{name: name, fn: fn}
}

// Typed creates a Predicate over values of type T. Values of any other type
// do not match.
func Typed[T any](name shiftz.Name, fn func(context.Context, T) bool) Predicate {
	return Func(name, func(ctx context.Context, value any) (bool, error) {
		v, ok := value.(T)
		if !ok {
			return false, nil
		}
		return fn(ctx, v), nil
	})
}

// Match implements shiftz.Matcher.
func (p Predicate) Match(ctx context.Context, value any) (bool, error) {
	return p.fn(ctx, value)
}

// Name returns the name of the predicate.
func (p Predicate) Name() shiftz.Name {
	return p.name
}

// IsType matches values whose dynamic type is T, or implements T when T is
// an interface.
func IsType[T any]() Predicate {
	return Func("is-"+reflect.TypeFor[T]().String(), func(_ context.Context, value any) (bool, error) {
		_, ok := value.(T)
		return ok, nil
	})
}

// Equal matches values of type T equal to v.
func Equal[T comparable](v T) Predicate {
	return Typed("equal", func(_ context.Context, value T) bool {
		return value == v
	})
}

// NotEqual matches every value that is not a T equal to v. A value of
// another dynamic type matches, so NotEqual(v) is exactly Not(Equal(v)).
func NotEqual[T comparable](v T) Predicate {
	return Func("not-equal", func(_ context.Context, value any) (bool, error) {
		t, ok := value.(T)
		return !ok || t != v, nil
	})
}

// Always matches every value.
func Always() Predicate {
	return Func("always", func(context.Context, any) (bool, error) {
		return true, nil
	})
}
