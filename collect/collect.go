// Package collect provides transformers over collections: Map, Filter,
// TakeWhile, DropWhile and Flatten, plus the slicing helpers Head, Last,
// Tail, Take, TakeRight, Drop, DropRight, Partition and Find.
//
// Each operation accepts a slice, an array or a lazy result
// (iter.Seq2[any, error], as produced by a lazy Combination or another lazy
// operation). It returns a []any, or in lazy mode a single-pass
// iter.Seq2[any, error] that does its work while it is ranged over.
//
// The mode comes from the operation's flag, "collect.<op>.lazy", and falls
// back to the default the operation was built with:
//
//	words := shiftz.Must(collect.Map(trim))
//	out, err := pipeline.Run(ctx, lines, collect.MapLazy.Bind(true))
//
// The slicing helpers are always eager and return a []any or a single
// element. Head, Take and Find stop reading a lazy input as soon as they
// have their answer.
package collect

import (
	"context"
	"errors"
	"iter"
	"reflect"

	"github.com/zoobzio/shiftz"
)

// Operation is a collection transformer. Every constructor in this package
// returns one.
type Operation struct {
	run  func(context.Context, iter.Seq2[any, error]) iter.Seq2[any, error]
	key  shiftz.Key[bool]
	name shiftz.Name
	lazy bool
}

// Lazy returns a copy of o whose default mode is lazy. The flag still
// overrides it.
func (o *Operation) Lazy(lazy bool) *Operation {
	next := *o
	next.lazy = lazy
	return &next
}

// IsLazy reports the default mode.
func (o *Operation) IsLazy() bool {
	return o.lazy
}

// Process implements shiftz.Transformer.
func (o *Operation) Process(ctx context.Context, value any) (any, error) {
	seq, ok := Sequence(value)
	if !ok {
		return nil, shiftz.Failf(o.name, value, "cannot iterate over %T", value)
	}
	out := o.run(ctx, seq)
	if o.key.Get(ctx, o.lazy) {
		return shiftz.Once(out), nil
	}
	results, err := shiftz.Collect(out)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Name returns the name of the operation.
func (o *Operation) Name() shiftz.Name {
	return o.name
}

// Sequence views value as a sequence of elements. Slices, arrays and lazy
// results qualify; strings, maps and scalars do not.
func Sequence(value any) (iter.Seq2[any, error], bool) {
	switch v := value.(type) {
	case iter.Seq2[any, error]:
		return v, true
	case []any:
		return func(yield func(any, error) bool) {
			for _, e := range v {
				if !yield(e, nil) {
					return
				}
			}
		}, true
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	return func(yield func(any, error) bool) {
		for i := range rv.Len() {
			if !yield(rv.Index(i).Interface(), nil) {
				return
			}
		}
	}, true
}

// test evaluates m for one element and turns an evaluation error into a
// failure of the operation.
func test(ctx context.Context, name shiftz.Name, m shiftz.Matcher, v any) (bool, error) {
	ok, err := m.Match(ctx, v)
	if err == nil {
		return ok, nil
	}
	if shiftz.IsFailure(err) {
		return false, shiftz.Within(name, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, err
	}
	return false, shiftz.Fail(name, v, err)
}
