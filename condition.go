package shiftz

import (
	"context"
)

// Matcher is the contract for predicates over pipeline values. The match
// package provides implementations; any type with these methods works.
//
// A Matcher returns an error only when it cannot evaluate the value at all.
// Plain errors are reported as transformation failures by the nodes that use
// the matcher, and other errors keep their own semantics.
type Matcher interface {
	Match(ctx context.Context, value any) (bool, error)
	Name() Name
}

// Condition routes a value to one of two branches depending on a Matcher.
// Both branches default to Identity, so a bare condition passes values
// through. Then and Otherwise return modified copies; a Condition is never
// changed after it is built.
//
// A nil matcher or branch is recorded rather than reported straight away.
// Err reports it, and composing or running the condition fails with it.
//
// Example:
//
//	normalize := shiftz.When(isString).
//	    Then(trimSpace).
//	    Otherwise(shiftz.Break())
type Condition struct {
	matcher   Matcher
	then      Transformer
	otherwise Transformer
	err       error
	name      Name
	negate    bool
}

// When creates a Condition that takes the Then branch when m matches.
func When(m Matcher) *Condition {
	c := &Condition{
		name:      "when",
		matcher:   m,
		then:      Identity(),
		otherwise: Identity(),
	}
	if m == nil || isNilPointer(m) {
		c.err = &ChainError{Op: "when", Operand: m, Reason: "matcher is nil"}
	}
	return c
}

// Unless creates a Condition that takes the Then branch when m does not
// match.
func Unless(m Matcher) *Condition {
	c := When(m)
	c.name = "unless"
	c.negate = true
	return c
}

// Then returns a copy of c whose matching branch is t.
func (c *Condition) Then(t Transformer) *Condition {
	next := *c
	next.then, next.err = c.branch("then", t)
	return &next
}

// Otherwise returns a copy of c whose non-matching branch is t.
func (c *Condition) Otherwise(t Transformer) *Condition {
	next := *c
	next.otherwise, next.err = c.branch("otherwise", t)
	return &next
}

// branch validates a new branch, keeping the first error recorded on c.
func (c *Condition) branch(op string, t Transformer) (Transformer, error) {
	if c.err != nil {
		return t, c.err
	}
	if t == nil {
		return t, &ChainError{Op: op, Operand: t, Reason: "branch is nil"}
	}
	return lift(op, t)
}

// Err returns the first invalid matcher or branch given to c, if any.
func (c *Condition) Err() error {
	return c.err
}

// Named returns a copy of c with a different name.
func (c *Condition) Named(name Name) *Condition {
	next := *c
	next.name = name
	return &next
}

// Process implements the Transformer interface.
func (c *Condition) Process(ctx context.Context, value any) (any, error) {
	if c.err != nil {
		return nil, c.err
	}
	matched, err := c.matcher.Match(ctx, value)
	if err != nil {
		return nil, prefix(c.name, failure(c.matcher.Name(), value, err))
	}
	branch := c.otherwise
	if matched != c.negate {
		branch = c.then
	}
	result, err := branch.Process(ctx, value)
	if err != nil {
		return nil, prefix(c.name, err)
	}
	return result, nil
}

// Name returns the name of the condition.
func (c *Condition) Name() Name {
	return c.name
}

// Break returns a transformer that always fails with ErrBreak. As the last
// stage of a branch it stops the pipeline in a way Alternation and Fallback
// can recover from.
func Break() Processor {
	return Processor{
		name: "break",
		fn: func(_ context.Context, value any) (any, error) {
			return nil, Fail("break", value, ErrBreak)
		},
	}
}

// BreakIf passes values through unless m matches, in which case it fails
// with ErrBreak.
func BreakIf(m Matcher) *Condition {
	return When(m).Then(Break()).Named("break-if")
}

// BreakUnless passes values through when m matches and fails with ErrBreak
// otherwise.
func BreakUnless(m Matcher) *Condition {
	return Unless(m).Then(Break()).Named("break-unless")
}
