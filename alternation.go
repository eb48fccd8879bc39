package shiftz

import (
	"context"
	"errors"
	"slices"
	"time"
)

// Alternation tries its members in order and returns the first success.
// It is the builder form of `a | b | c`.
//
// A member that fails with a transformation failure hands the input to the
// next member. A member that fails any other way (a panic, a type error, a
// cancelled context, a plain error from a custom Transformer) stops the
// alternation and that error propagates unchanged.
//
// When every member fails the alternation fails once, with its own name as
// the path, the input it was given as InputData and an error joining
// ErrExhausted with each member's failure.
//
// Common use cases:
//   - Accepting several input shapes (try the JSON parser, then the CSV one)
//   - Primary/secondary lookups
//   - Graceful degradation with a final Value(...) member
//
// Example:
//
//	price, err := shiftz.OrElse(parseCents, parseDecimal, 0)
type Alternation struct {
	name      Name
	members   []Transformer
	anonymous bool
}

// NewAlternation creates a named Alternation. At least one member is
// required. Anonymous alternations among the members are flattened in place;
// the result itself is never anonymous, whatever its name.
func NewAlternation(name Name, members ...any) (*Alternation, error) {
	return newAlternation(name, false, members)
}

func newAlternation(name Name, anonymous bool, members []any) (*Alternation, error) {
	if len(members) == 0 {
		return nil, &ChainError{Op: "alternation", Reason: "at least one member is required"}
	}
	ts, err := liftAll("alternation", members)
	if err != nil {
		return nil, err
	}
	a := &Alternation{name: name, anonymous: anonymous}
	for _, t := range ts {
		if nested, ok := t.(*Alternation); ok && nested.anonymous {
			a.members = append(a.members, nested.members...)
			continue
		}
		a.members = append(a.members, t)
	}
	return a, nil
}

// OrElse builds an anonymous Alternation: first, then each of rest.
// OrElse(OrElse(a, b), c) and OrElse(a, OrElse(b, c)) both yield the members
// [a, b, c].
func OrElse(first any, rest ...any) (*Alternation, error) {
	return newAlternation(AlternationName, true, append([]any{first}, rest...))
}

// Process implements the Transformer interface.
func (a *Alternation) Process(ctx context.Context, value any) (any, error) {
	failures := make([]error, 0, len(a.members)+1)
	failures = append(failures, ErrExhausted)

	for _, member := range a.members {
		result, err := member.Process(ctx, value)
		if err == nil {
			return result, nil
		}
		if !IsFailure(err) {
			return nil, err
		}
		failures = append(failures, err)
	}

	return nil, &Error{
		Timestamp: time.Now(),
		InputData: value,
		Err:       errors.Join(failures...),
		Path:      []Name{a.name},
	}
}

// Name returns the name of the alternation.
func (a *Alternation) Name() Name {
	return a.name
}

// Members returns a copy of the members in order.
func (a *Alternation) Members() []Transformer {
	return slices.Clone(a.members)
}

// Len returns the number of members.
func (a *Alternation) Len() int {
	return len(a.members)
}
