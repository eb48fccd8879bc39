package shiftz

import (
	"context"
	"iter"
	"slices"
)

// CombinationLazy selects lazy evaluation for Combination. Unset, each
// Combination uses the mode it was constructed with.
var CombinationLazy = NewKey[bool]("combination", "lazy")

// Combination applies every member to the same input and collects the
// results in member order. It is the builder form of `a & b & c`.
//
// Members run one after another on the calling goroutine, each with the
// identical input and ctx. In eager mode Process returns a []any. In lazy
// mode it returns an iter.Seq2[any, error] that evaluates members as it is
// ranged over and can be ranged over only once.
//
// The first failing member aborts the combination and its error propagates
// with the combination's name prepended. Partial results are discarded; use
// Gather to keep going past failures.
//
// Example:
//
//	stats, err := shiftz.Both(minimum, maximum, mean)
//	result, err := stats.Process(ctx, samples) // []any{min, max, mean}
type Combination struct {
	name      Name
	members   []Transformer
	lazy      bool
	anonymous bool
}

// NewCombination creates a named Combination. lazy is the mode used when
// the CombinationLazy flag is not set. At least one member is required.
// Anonymous combinations with the same mode are flattened in place; the
// result itself is never anonymous, whatever its name.
func NewCombination(name Name, lazy bool, members ...any) (*Combination, error) {
	return newCombination(name, lazy, false, members)
}

func newCombination(name Name, lazy, anonymous bool, members []any) (*Combination, error) {
	if len(members) == 0 {
		return nil, &ChainError{Op: "combination", Reason: "at least one member is required"}
	}
	ts, err := liftAll("combination", members)
	if err != nil {
		return nil, err
	}
	c := &Combination{name: name, lazy: lazy, anonymous: anonymous}
	for _, t := range ts {
		if nested, ok := t.(*Combination); ok && nested.anonymous && nested.lazy == lazy {
			c.members = append(c.members, nested.members...)
			continue
		}
		c.members = append(c.members, t)
	}
	return c, nil
}

// Both builds an anonymous, eager Combination: first, then each of rest.
func Both(first any, rest ...any) (*Combination, error) {
	return newCombination(CombinationName, false, true, append([]any{first}, rest...))
}

// Process implements the Transformer interface.
func (c *Combination) Process(ctx context.Context, value any) (any, error) {
	if CombinationLazy.Get(ctx, c.lazy) {
		return c.stream(ctx, value), nil
	}

	results := make([]any, 0, len(c.members))
	for _, member := range c.members {
		result, err := member.Process(ctx, value)
		if err != nil {
			return nil, prefix(c.name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Combination) stream(ctx context.Context, value any) iter.Seq2[any, error] {
	return Once[any](func(yield func(any, error) bool) {
		for _, member := range c.members {
			result, err := member.Process(ctx, value)
			if err != nil {
				yield(nil, prefix(c.name, err))
				return
			}
			if !yield(result, nil) {
				return
			}
		}
	})
}

// Name returns the name of the combination.
func (c *Combination) Name() Name {
	return c.name
}

// Lazy reports the mode used when the CombinationLazy flag is unset.
func (c *Combination) Lazy() bool {
	return c.lazy
}

// Members returns a copy of the members in order.
func (c *Combination) Members() []Transformer {
	return slices.Clone(c.members)
}

// Len returns the number of members.
func (c *Combination) Len() int {
	return len(c.members)
}
