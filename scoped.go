package shiftz

import (
	"context"
)

// Injector is the flags marker. It is not a Transformer: placed on the right
// of Then it wraps everything to its left in a Scoped node, so the bindings
// reach every step of that pipeline without being repeated at each step.
//
//	lazy, err := shiftz.Then(split, fanOut, shiftz.Inject(shiftz.CombinationLazy.Bind(true)))
//
// Anywhere else (as the left operand, inside OrElse or Both) it is a
// composition error.
type Injector struct {
	flags Flags
}

// Inject creates an Injector from bindings.
func Inject(bindings ...Binding) Injector {
	return Injector{flags: NewFlags(bindings...)}
}

// InjectFlags creates an Injector from existing Flags, e.g. ones loaded with
// ParseFlags.
func InjectFlags(f Flags) Injector {
	return Injector{flags: f}
}

// Flags returns the bindings carried by the marker.
func (i Injector) Flags() Flags {
	return i.flags
}

// Scoped runs its inner transformer with extra flags in ctx and returns the
// inner result as is.
//
// Injected flags sit between the call site and component defaults: a key the
// caller (or an enclosing Scoped) already bound keeps its value, and a key
// nobody bound overrides the default of the component that reads it.
type Scoped struct {
	inner Transformer
	flags Flags
	name  Name
}

// NewScoped creates a named Scoped node around inner.
func NewScoped(name Name, inner any, bindings ...Binding) (*Scoped, error) {
	t, err := lift("scoped", inner)
	if err != nil {
		return nil, err
	}
	return &Scoped{name: name, flags: NewFlags(bindings...), inner: t}, nil
}

// Process implements the Transformer interface.
func (s *Scoped) Process(ctx context.Context, value any) (any, error) {
	return s.inner.Process(underFlags(ctx, s.flags), value)
}

// Name returns the name of the node.
func (s *Scoped) Name() Name {
	return s.name
}

// Flags returns the injected flags.
func (s *Scoped) Flags() Flags {
	return s.flags
}

// Inner returns the wrapped transformer.
func (s *Scoped) Inner() Transformer {
	return s.inner
}
