package shiftz

import (
	"context"
)

// Enrich creates a Processor that attempts to enhance a value and keeps the
// original when it cannot. It is the leaf form of OrElse(apply, Identity()).
//
// Only errors that Apply would turn into failures are swallowed: a context
// error from fn, a panic or an input of the wrong type still propagates.
//
// Example:
//
//	addRegion := shiftz.Enrich("add-region", func(ctx context.Context, o Order) (Order, error) {
//	    region, err := regions.Lookup(ctx, o.Country)
//	    if err != nil {
//	        return o, err
//	    }
//	    o.Region = region
//	    return o, nil
//	})
func Enrich[T any](name Name, fn func(context.Context, T) (T, error)) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) (result any, err error) {
			defer recoverFromPanic(&result, &err, name)
			in, err := assertInput[T](name, value)
			if err != nil {
				return nil, err
			}
			enriched, err := fn(ctx, in)
			if err != nil {
				if isContextErr(err) {
					return nil, err
				}
				return value, nil
			}
			return enriched, nil
		},
	}
}
