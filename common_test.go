package shiftz

import (
	"context"
	"errors"
	"sync/atomic"
)

// Shared fixtures for the package tests.

var (
	addOne = Transform("add-one", func(_ context.Context, n int) int { return n + 1 })
	double = Transform("double", func(_ context.Context, n int) int { return n * 2 })
	square = Transform("square", func(_ context.Context, n int) int { return n * n })
)

// failing returns a leaf that always fails recoverably.
func failing(name Name) Processor {
	return Wrap(name, func(context.Context, any) (any, error) {
		return nil, ErrFailed
	})
}

// broken returns a leaf that always fails with a plain error, the way a
// custom Transformer that ignores the failure contract would.
type broken struct {
	err  error
	name Name
}

func (b broken) Process(context.Context, any) (any, error) { return nil, b.err }
func (b broken) Name() Name                               { return b.name }

var errBug = errors.New("bug")

// counter counts its invocations and echoes its input.
type counter struct {
	name  Name
	calls atomic.Int64
}

func (c *counter) Process(_ context.Context, value any) (any, error) {
	c.calls.Add(1)
	return value, nil
}

func (c *counter) Name() Name { return c.name }

// flagReader returns the value of key as seen in the flags at call time.
func flagReader(key string) Processor {
	return Wrap("read-flag", func(ctx context.Context, _ any) (any, error) {
		v, _ := FlagsFrom(ctx).Lookup(key)
		return v, nil
	})
}

// matchFunc adapts a function to Matcher.
type matchFunc func(context.Context, any) (bool, error)

func (f matchFunc) Match(ctx context.Context, value any) (bool, error) { return f(ctx, value) }
func (matchFunc) Name() Name                                           { return "match-func" }

func isInt() Matcher {
	return matchFunc(func(_ context.Context, v any) (bool, error) {
		_, ok := v.(int)
		return ok, nil
	})
}

func negative() Matcher {
	return matchFunc(func(_ context.Context, v any) (bool, error) {
		n, ok := v.(int)
		return ok && n < 0, nil
	})
}
