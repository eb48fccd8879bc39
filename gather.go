package shiftz

import (
	"context"
	"slices"
)

// Outcome is the result of one Gather member: either a value or the
// transformation failure that member produced.
type Outcome struct {
	Value any
	Err   error
}

// Gather applies every member to the same input and keeps going past
// transformation failures, returning one Outcome per member in member order.
//
// Gather is a separate combinator from Combination on purpose: Combination
// aborts on the first failure, Gather reports every failure next to the
// successes. Errors that are not transformation failures still abort
// Gather, since they signal a bug rather than an unusable input.
//
// Example:
//
//	checks, err := shiftz.NewGather("checks", hasEmail, hasPhone, hasAddress)
//	out, err := checks.Process(ctx, contact) // []shiftz.Outcome
type Gather struct {
	name    Name
	members []Transformer
}

// NewGather creates a named Gather. At least one member is required.
func NewGather(name Name, members ...any) (*Gather, error) {
	if len(members) == 0 {
		return nil, &ChainError{Op: "gather", Reason: "at least one member is required"}
	}
	ts, err := liftAll("gather", members)
	if err != nil {
		return nil, err
	}
	return &Gather{name: name, members: ts}, nil
}

// Process implements the Transformer interface. The result is a []Outcome.
func (g *Gather) Process(ctx context.Context, value any) (any, error) {
	outcomes := make([]Outcome, 0, len(g.members))
	for _, member := range g.members {
		result, err := member.Process(ctx, value)
		if err != nil && !IsFailure(err) {
			return nil, err
		}
		if err != nil {
			outcomes = append(outcomes, Outcome{Err: prefix(g.name, err)})
			continue
		}
		outcomes = append(outcomes, Outcome{Value: result})
	}
	return outcomes, nil
}

// Name returns the name of the gather.
func (g *Gather) Name() Name {
	return g.name
}

// Members returns a copy of the members in order.
func (g *Gather) Members() []Transformer {
	return slices.Clone(g.members)
}
