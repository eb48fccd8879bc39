package match

import (
	"context"
	"slices"

	"github.com/zoobzio/shiftz"
)

type mode int

const (
	allOf mode = iota
	anyOf
	noneOf
)

// Composite combines matchers with boolean logic. Members are evaluated in
// order and evaluation stops as soon as the answer is known. An evaluation
// error from a member stops it too and is returned.
type Composite struct {
	name    shiftz.Name
	members []shiftz.Matcher
	mode    mode
}

// Must matches when every member matches. Nested Must composites are
// flattened.
func Must(members ...shiftz.Matcher) (*Composite, error) {
	return newComposite("must", allOf, members)
}

// Should matches when at least one member matches. Nested Should composites
// are flattened.
func Should(members ...shiftz.Matcher) (*Composite, error) {
	return newComposite("should", anyOf, members)
}

// MustNot matches when no member matches.
func MustNot(members ...shiftz.Matcher) (*Composite, error) {
	return newComposite("must-not", noneOf, members)
}

func newComposite(name shiftz.Name, m mode, members []shiftz.Matcher) (*Composite, error) {
	if len(members) == 0 {
		return nil, &shiftz.ChainError{Op: name, Reason: "at least one matcher is required"}
	}
	c := &Composite{name: name, mode: m}
	for _, member := range members {
		if member == nil {
			return nil, &shiftz.ChainError{Op: name, Reason: "matcher is nil"}
		}
		if nested, ok := member.(*Composite); ok && nested.mode == m && m != noneOf {
			c.members = append(c.members, nested.members...)
			continue
		}
		c.members = append(c.members, member)
	}
	return c, nil
}

// Match implements shiftz.Matcher.
func (c *Composite) Match(ctx context.Context, value any) (bool, error) {
	for _, member := range c.members {
		ok, err := member.Match(ctx, value)
		if err != nil {
			return false, err
		}
		switch {
		case c.mode == allOf && !ok:
			return false, nil
		case c.mode == anyOf && ok:
			return true, nil
		case c.mode == noneOf && ok:
			return false, nil
		}
	}
	return c.mode != anyOf, nil
}

// Name returns the name of the composite.
func (c *Composite) Name() shiftz.Name {
	return c.name
}

// Members returns a copy of the members in order.
func (c *Composite) Members() []shiftz.Matcher {
	return slices.Clone(c.members)
}

// Not inverts m. Evaluation errors pass through.
func Not(m shiftz.Matcher) Predicate {
	return Func("not-"+m.Name(), func(ctx context.Context, value any) (bool, error) {
		ok, err := m.Match(ctx, value)
		if err != nil {
			return false, err
		}
		return !ok, nil
	})
}
