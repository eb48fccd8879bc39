package shiftz

import (
	"context"
)

// Mutate creates a Processor that applies transformer only when condition
// holds; otherwise the value passes through unchanged. It is the leaf form
// of When(m).Then(t) for plain functions over one type.
//
// Example:
//
//	discount := shiftz.Mutate("premium-discount",
//	    func(_ context.Context, o Order) Order {
//	        o.Total *= 0.9
//	        return o
//	    },
//	    func(_ context.Context, o Order) bool {
//	        return o.Tier == "premium"
//	    },
//	)
func Mutate[T any](name Name, transformer func(context.Context, T) T, condition func(context.Context, T) bool) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) (result any, err error) {
			defer recoverFromPanic(&result, &err, name)
			in, err := assertInput[T](name, value)
			if err != nil {
				return nil, err
			}
			if !condition(ctx, in) {
				return value, nil
			}
			return transformer(ctx, in), nil
		},
	}
}
