package shiftz

import (
	"context"
)

// Apply creates a Processor from a function that may fail.
// Apply is the workhorse leaf: parsing, lookups and validation that
// transforms all belong here.
//
// Any error fn returns becomes a recoverable *Error with this processor's
// name as its path, so Alternation and Fallback can absorb it. Two kinds of
// error are passed through untouched instead: context cancellation or
// deadline errors, and errors that already carry an *Error.
//
// Example:
//
//	parsePrice := shiftz.Apply("parse-price", func(_ context.Context, s string) (float64, error) {
//	    return strconv.ParseFloat(s, 64)
//	})
func Apply[In, Out any](name Name, fn func(context.Context, In) (Out, error)) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) (result any, err error) {
			defer recoverFromPanic(&result, &err, name)
			in, err := assertInput[In](name, value)
			if err != nil {
				return nil, err
			}
			out, err := fn(ctx, in)
			if err != nil {
				return nil, failure(name, value, err)
			}
			return out, nil
		},
	}
}

// Wrap creates an untyped Processor. It follows the same error rules as
// Apply and suits leaves that inspect values of several types.
func Wrap(name Name, fn func(context.Context, any) (any, error)) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) (result any, err error) {
			defer recoverFromPanic(&result, &err, name)
			out, err := fn(ctx, value)
			if err != nil {
				return nil, failure(name, value, err)
			}
			return out, nil
		},
	}
}

// failure turns an error returned by a user function into a recoverable
// *Error unless it is a context error or already a transformation failure.
func failure(name Name, input any, err error) error {
	if isContextErr(err) || IsFailure(err) {
		return err
	}
	return Fail(name, input, err)
}
