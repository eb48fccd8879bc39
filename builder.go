package shiftz

// Builder is the fluent form of the composition builders. Each step applies
// to everything built so far, reading left to right:
//
//	pipeline, err := shiftz.From(extractPrice).
//	    Then(parsePrice).
//	    OrElse(0.0).
//	    Flags(RoundingMode.Bind("half-even")).
//	    Build()
//
// The first composition error sticks: later steps are skipped and Build
// reports it, so a pipeline is either fully assembled or not returned at all.
type Builder struct {
	current Transformer
	err     error
}

// From starts a Builder with operand as its first step.
func From(operand any) *Builder {
	t, err := lift("from", operand)
	return &Builder{current: t, err: err}
}

func (b *Builder) step(fn func(Transformer) (Transformer, error)) *Builder {
	if b.err != nil {
		return b
	}
	t, err := fn(b.current)
	if err != nil {
		return &Builder{err: err}
	}
	return &Builder{current: t}
}

// Then appends stages, as Then does.
func (b *Builder) Then(stages ...any) *Builder {
	return b.step(func(t Transformer) (Transformer, error) {
		return Then(t, stages...)
	})
}

// OrElse makes everything built so far the first alternative.
func (b *Builder) OrElse(alternatives ...any) *Builder {
	return b.step(func(t Transformer) (Transformer, error) {
		return OrElse(t, alternatives...)
	})
}

// Both makes everything built so far the first member of a Combination.
func (b *Builder) Both(members ...any) *Builder {
	return b.step(func(t Transformer) (Transformer, error) {
		return Both(t, members...)
	})
}

// Default substitutes v when everything built so far fails.
func (b *Builder) Default(v any) *Builder {
	return b.step(func(t Transformer) (Transformer, error) {
		return Then(t, Default(v))
	})
}

// Flags injects bindings into everything built so far.
func (b *Builder) Flags(bindings ...Binding) *Builder {
	return b.step(func(t Transformer) (Transformer, error) {
		return Then(t, Inject(bindings...))
	})
}

// Insert splices stage before the last step, as Insert does.
func (b *Builder) Insert(stage any) *Builder {
	return b.step(func(t Transformer) (Transformer, error) {
		return Insert(t, stage)
	})
}

// Build returns the assembled transformer or the first composition error.
func (b *Builder) Build() (Transformer, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.current, nil
}

// Must returns t and panics if err is not nil. It suits package-level
// pipelines, in the spirit of regexp.MustCompile:
//
//	var parse = shiftz.Must(shiftz.OrElse(parseJSON, parseYAML))
func Must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}
	return t
}
