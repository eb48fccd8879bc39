package shiftz

import (
	"context"
)

// Effect creates a Processor that inspects the value without changing it.
// The input always passes through on success; a returned error follows the
// same rules as Apply. Use it for validation that does not transform, or for
// recording what flows through a pipeline.
//
// Example:
//
//	nonEmpty := shiftz.Effect("non-empty", func(_ context.Context, s string) error {
//	    if s == "" {
//	        return errors.New("empty string")
//	    }
//	    return nil
//	})
func Effect[In any](name Name, fn func(context.Context, In) error) Processor {
	return Processor{
		name: name,
		fn: func(ctx context.Context, value any) (result any, err error) {
			defer recoverFromPanic(&result, &err, name)
			in, err := assertInput[In](name, value)
			if err != nil {
				return nil, err
			}
			if err := fn(ctx, in); err != nil {
				return nil, failure(name, value, err)
			}
			return value, nil
		},
	}
}
