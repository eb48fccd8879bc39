package collect

import (
	"context"
	"iter"

	"github.com/zoobzio/shiftz"
)

// Flags selecting lazy mode per operation.
var (
	MapLazy       = shiftz.NewKey[bool]("collect.map", "lazy")
	FilterLazy    = shiftz.NewKey[bool]("collect.filter", "lazy")
	TakeWhileLazy = shiftz.NewKey[bool]("collect.take_while", "lazy")
	DropWhileLazy = shiftz.NewKey[bool]("collect.drop_while", "lazy")
	FlattenLazy   = shiftz.NewKey[bool]("collect.flatten", "lazy")
)

// Map applies t to every element. The first failing element stops the
// operation and its failure propagates with "map" prepended to the path.
// A non-Transformer operand is lifted with shiftz.Value.
func Map(t any) (*Operation, error) {
	tr, err := shiftz.Lift(t)
	if err != nil {
		return nil, err
	}
	const name = "map"
	return &Operation{
		name: name,
		key:  MapLazy,
		run: func(ctx context.Context, seq iter.Seq2[any, error]) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for v, err := range seq {
					if err != nil {
						yield(nil, err)
						return
					}
					out, err := tr.Process(ctx, v)
					if err != nil {
						yield(nil, shiftz.Within(name, err))
						return
					}
					if !yield(out, nil) {
						return
					}
				}
			}
		},
	}, nil
}

// Filter keeps the elements m matches.
func Filter(m shiftz.Matcher) *Operation {
	const name = "filter"
	return &Operation{
		name: name,
		key:  FilterLazy,
		run: func(ctx context.Context, seq iter.Seq2[any, error]) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for v, err := range seq {
					if err != nil {
						yield(nil, err)
						return
					}
					ok, err := test(ctx, name, m, v)
					if err != nil {
						yield(nil, err)
						return
					}
					if ok && !yield(v, nil) {
						return
					}
				}
			}
		},
	}
}

// TakeWhile keeps elements up to, not including, the first one m does not
// match.
func TakeWhile(m shiftz.Matcher) *Operation {
	const name = "take-while"
	return &Operation{
		name: name,
		key:  TakeWhileLazy,
		run: func(ctx context.Context, seq iter.Seq2[any, error]) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for v, err := range seq {
					if err != nil {
						yield(nil, err)
						return
					}
					ok, err := test(ctx, name, m, v)
					if err != nil {
						yield(nil, err)
						return
					}
					if !ok || !yield(v, nil) {
						return
					}
				}
			}
		},
	}
}

// DropWhile skips elements until the first one m does not match and keeps
// everything from there on.
func DropWhile(m shiftz.Matcher) *Operation {
	const name = "drop-while"
	return &Operation{
		name: name,
		key:  DropWhileLazy,
		run: func(ctx context.Context, seq iter.Seq2[any, error]) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				dropping := true
				for v, err := range seq {
					if err != nil {
						yield(nil, err)
						return
					}
					if dropping {
						ok, err := test(ctx, name, m, v)
						if err != nil {
							yield(nil, err)
							return
						}
						if ok {
							continue
						}
						dropping = false
					}
					if !yield(v, nil) {
						return
					}
				}
			}
		},
	}
}

// Flatten concatenates a sequence of sequences. An element that is not
// itself a sequence is a failure.
func Flatten() *Operation {
	const name = "flatten"
	return &Operation{
		name: name,
		key:  FlattenLazy,
		run: func(_ context.Context, seq iter.Seq2[any, error]) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for outer, err := range seq {
					if err != nil {
						yield(nil, err)
						return
					}
					inner, ok := Sequence(outer)
					if !ok {
						yield(nil, shiftz.Failf(name, outer, "cannot flatten %T", outer))
						return
					}
					for v, err := range inner {
						if err != nil {
							yield(nil, err)
							return
						}
						if !yield(v, nil) {
							return
						}
					}
				}
			}
		},
	}
}
