package shiftz

import (
	"context"
	"slices"
)

// Chain runs its stages in order, feeding each stage's output to the next.
// Every stage sees the same ctx, and therefore the same flags.
//
// Chains built by Then are anonymous and flatten: Then(Then(a, b), c) and
// Then(a, Then(b, c)) both build the stage list [a, b, c], so the two
// groupings are indistinguishable, failure paths included. A chain built
// with NewChain stays a single stage wherever it is reused, even when it is
// named ChainName.
//
// A failing stage stops the chain. Transformation failures get the chain's
// name prepended to their path; other errors pass through untouched.
type Chain struct {
	name      Name
	stages    []Transformer
	anonymous bool
}

// NewChain creates a named Chain from at least two operands. Operands that
// are not Transformers are lifted with Value.
func NewChain(name Name, first, second any, rest ...any) (*Chain, error) {
	stages, err := liftAll("chain", append([]any{first, second}, rest...))
	if err != nil {
		return nil, err
	}
	c := &Chain{name: name}
	for _, s := range stages {
		c.stages = appendStage(c.stages, s)
	}
	return c, nil
}

// Then composes left with each of rights in order, left to right: the
// builder form of `left >> r1 >> r2`.
//
// Two tail markers change what Then builds instead of adding a stage:
//   - Inject(...) wraps everything to its left in a Scoped node
//   - Default(v) wraps everything to its left in a Fallback node
//
// Invalid operands are reported here, at composition time.
func Then(left any, rights ...any) (Transformer, error) {
	current, err := lift("then", left)
	if err != nil {
		return nil, err
	}
	for _, right := range rights {
		current, err = then(current, right)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

func then(left Transformer, right any) (Transformer, error) {
	switch marker := right.(type) {
	case Injector:
		return &Scoped{name: ScopedName, flags: marker.flags, inner: left}, nil
	case DefaultMarker:
		return &Fallback{name: FallbackName, fallback: marker.value, inner: left}, nil
	}
	rt, err := lift("then", right)
	if err != nil {
		return nil, err
	}
	stages := appendStage(nil, left)
	stages = appendStage(stages, rt)
	return &Chain{name: ChainName, stages: stages, anonymous: true}, nil
}

// appendStage adds t to stages, splicing in the stages of an anonymous chain.
func appendStage(stages []Transformer, t Transformer) []Transformer {
	if c, ok := t.(*Chain); ok && c.anonymous {
		return append(stages, c.stages...)
	}
	return append(stages, t)
}

// Insert splices stage into t just before its last step: the builder form of
// `(a >> b) << c`, which yields a >> c >> b.
//
// When t ends in a tail marker (a Scoped or Fallback node), stage is added at
// the end of the wrapped pipeline so the marker keeps applying to all of it.
// Inserting into anything else is a composition error.
func Insert(t Transformer, stage any) (Transformer, error) {
	s, err := lift("insert", stage)
	if err != nil {
		return nil, err
	}
	switch node := t.(type) {
	case *Scoped:
		inner, err := then(node.inner, s)
		if err != nil {
			return nil, err
		}
		return &Scoped{name: node.name, flags: node.flags, inner: inner}, nil
	case *Fallback:
		inner, err := then(node.inner, s)
		if err != nil {
			return nil, err
		}
		return &Fallback{name: node.name, fallback: node.fallback, inner: inner}, nil
	case *Chain:
		last := len(node.stages) - 1
		stages := slices.Clone(node.stages[:last])
		stages = appendStage(stages, s)
		stages = append(stages, node.stages[last])
		return &Chain{name: node.name, stages: stages, anonymous: node.anonymous}, nil
	}
	return nil, &ChainError{Op: "insert", Operand: t, Reason: "insert requires a chain or a tail marker node"}
}

// Process implements the Transformer interface.
func (c *Chain) Process(ctx context.Context, value any) (any, error) {
	result := value
	for _, stage := range c.stages {
		next, err := stage.Process(ctx, result)
		if err != nil {
			return nil, prefix(c.name, err)
		}
		result = next
	}
	return result, nil
}

// Name returns the name of the chain.
func (c *Chain) Name() Name {
	return c.name
}

// Stages returns a copy of the stages in order.
func (c *Chain) Stages() []Transformer {
	return slices.Clone(c.stages)
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}
