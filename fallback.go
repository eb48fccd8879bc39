package shiftz

import (
	"context"
)

// DefaultMarker is the default-value marker created by Default. Like
// Injector it is only valid on the right of Then, where it wraps everything
// to its left in a Fallback.
type DefaultMarker struct {
	value any
}

// Default creates the tail marker form of WithDefault:
//
//	price, err := shiftz.Then(extractPrice, parsePrice, shiftz.Default(0.0))
func Default(v any) DefaultMarker {
	return DefaultMarker{value: v}
}

// Value returns the substitute value.
func (d DefaultMarker) Value() any {
	return d.value
}

// Fallback returns a fixed value when its inner transformer fails.
//
// Only transformation failures are absorbed. Panics, type errors, context
// errors and any other error keep propagating, so a Fallback never hides a
// bug. The substitute is a plain value and is returned as is, never
// evaluated.
//
// Example:
//
//	country, err := shiftz.WithDefault(lookupCountry, "unknown")
type Fallback struct {
	inner    Transformer
	fallback any
	name     Name
}

// NewFallback creates a named Fallback.
func NewFallback(name Name, inner any, fallback any) (*Fallback, error) {
	t, err := lift("fallback", inner)
	if err != nil {
		return nil, err
	}
	return &Fallback{name: name, fallback: fallback, inner: t}, nil
}

// WithDefault wraps inner so that its failures yield fallback instead.
func WithDefault(inner any, fallback any) (*Fallback, error) {
	return NewFallback(FallbackName, inner, fallback)
}

// Process implements the Transformer interface.
func (f *Fallback) Process(ctx context.Context, value any) (any, error) {
	result, err := f.inner.Process(ctx, value)
	if err == nil {
		return result, nil
	}
	if IsFailure(err) {
		return f.fallback, nil
	}
	return nil, err
}

// Name returns the name of the node.
func (f *Fallback) Name() Name {
	return f.name
}

// Default returns the substitute value.
func (f *Fallback) Default() any {
	return f.fallback
}

// Inner returns the wrapped transformer.
func (f *Fallback) Inner() Transformer {
	return f.inner
}
