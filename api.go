package shiftz

import "context"

// Transformer defines the interface for any component that can turn one value
// into another. Every leaf, every composition node and every Pipeline
// implements it, so all of them compose with Then, OrElse, Both and
// WithDefault in exactly the same way.
//
// Process returns either a result or an error. An error that carries an
// *Error is a recoverable failure ("this transformer could not produce a
// result for this input"); Alternation and Fallback absorb those and only
// those. Any other error propagates through every combinator untouched.
//
// Flags travel inside ctx (see FlagsFrom). Implementations must not keep
// mutable state that depends on the order of independent calls.
type Transformer interface {
	Process(ctx context.Context, value any) (any, error)
	Name() Name
}

// Name is a type alias for transformer names.
// Names appear in Error.Path, so stable, descriptive names make failures
// easy to locate:
//
//	const (
//	    ParsePriceName Name = "parse-price"
//	    ApplyTaxName   Name = "apply-tax"
//	)
type Name = string

// Names used by the composition nodes when built through the short builders.
const (
	ChainName       Name = "chain"
	AlternationName Name = "alternation"
	CombinationName Name = "combination"
	GatherName      Name = "gather"
	FallbackName    Name = "fallback"
	ScopedName      Name = "scoped"
	ValueName       Name = "value"
	IdentityName    Name = "identity"
)

// Processor is a named leaf transformer wrapping a function.
//
// Processor values are created by the adapter functions (Transform, Apply,
// Effect, Wrap, Value, Identity). The fn field is private so every Processor
// goes through an adapter and gets consistent failure and panic handling.
type Processor struct {
	fn   func(context.Context, any) (any, error)
	name Name
}

// Process implements the Transformer interface.
func (p Processor) Process(ctx context.Context, value any) (any, error) {
	return p.fn(ctx, value)
}

// Name returns the name of the processor.
func (p Processor) Name() Name {
	return p.name
}
