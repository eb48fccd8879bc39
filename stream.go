package shiftz

import (
	"context"
	"iter"
	"sync/atomic"
)

// Once guards seq so it can be ranged over a single time. Later ranges yield
// nothing. Lazy results are produced through Once because their members run
// while the sequence is consumed.
func Once[V any](seq iter.Seq2[V, error]) iter.Seq2[V, error] {
	var used atomic.Bool
	return func(yield func(V, error) bool) {
		if !used.CompareAndSwap(false, true) {
			return
		}
		seq(yield)
	}
}

// Collect drains a lazy result into a slice, stopping at the first error.
func Collect(seq iter.Seq2[any, error]) ([]any, error) {
	results := []any{}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

// Realize returns a transformer that drains a lazy result into a []any.
// Any other value passes through, so Realize can end a pipeline whose
// Combination may run in either mode.
func Realize() Processor {
	return Processor{
		name: "realize",
		fn: func(_ context.Context, value any) (any, error) {
			seq, ok := value.(iter.Seq2[any, error])
			if !ok {
				return value, nil
			}
			return Collect(seq)
		},
	}
}
