package shiftz

import (
	"context"
	"reflect"
)

// Transform creates a Processor from a pure function that cannot fail.
// Transform is the simplest leaf: use it for formatting, arithmetic, field
// mapping and anything else that always produces a result.
//
// The input is asserted to In. Feeding a value of another dynamic type is a
// misuse of the pipeline and yields a *TypeError, which no combinator
// absorbs.
//
// Example:
//
//	double := shiftz.Transform("double", func(_ context.Context, n int) int {
//	    return n * 2
//	})
func Transform[In, Out any](name Name, fn func(context.Context, In) Out) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) (result any, err error) {
			defer recoverFromPanic(&result, &err, name)
			in, err := assertInput[In](name, value)
			if err != nil {
				return nil, err
			}
			return fn(ctx, in), nil
		},
	}
}

// Value creates a Processor that ignores its input and always returns v.
// Value never fails. It is also how builders lift plain operands.
func Value(v any) Processor {
	return Processor{
		name: ValueName,
		fn: func(context.Context, any) (any, error) {
			return v, nil
		},
	}
}

var identity = Processor{
	name: IdentityName,
	fn: func(_ context.Context, value any) (any, error) {
		return value, nil
	},
}

// Identity returns the pass-through transformer. It never fails and is the
// neutral element of Then: Then(Identity(), t) and Then(t, Identity())
// behave exactly like t. The same Processor is returned on every call.
func Identity() Processor {
	return identity
}

// assertInput converts value to In. A nil value is accepted as the zero In
// when In is an interface type.
func assertInput[In any](name Name, value any) (In, error) {
	if in, ok := value.(In); ok {
		return in, nil
	}
	var zero In
	typ := reflect.TypeFor[In]()
	if value == nil && typ.Kind() == reflect.Interface {
		return zero, nil
	}
	return zero, &TypeError{Name: name, Value: value, Expected: typ.String()}
}
