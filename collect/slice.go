package collect

import (
	"context"
	"fmt"

	"github.com/zoobzio/shiftz"
)

// Head returns the first element. An empty collection fails with
// shiftz.ErrExtract. A lazy input is consumed no further than its first
// element.
func Head() shiftz.Processor {
	const name = "head"
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		elems, err := elements(name, value, 1)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return nil, shiftz.Failf(name, value, "%w: collection is empty", shiftz.ErrExtract)
		}
		return elems[0], nil
	})
}

// Last returns the final element. An empty collection fails with
// shiftz.ErrExtract.
func Last() shiftz.Processor {
	const name = "last"
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		elems, err := elements(name, value, -1)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return nil, shiftz.Failf(name, value, "%w: collection is empty", shiftz.ErrExtract)
		}
		return elems[len(elems)-1], nil
	})
}

// Tail returns every element but the first. Unlike Drop(1), an empty
// collection has no tail and fails with shiftz.ErrExtract.
func Tail() shiftz.Processor {
	const name = "tail"
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		elems, err := elements(name, value, -1)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return nil, shiftz.Failf(name, value, "%w: collection is empty", shiftz.ErrExtract)
		}
		return elems[1:], nil
	})
}

// Take returns the first n elements, or all of them when there are fewer.
// A negative n counts as zero. A lazy input is consumed no further than
// needed.
func Take(n int) shiftz.Processor {
	name := fmt.Sprintf("take[%d]", n)
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		return elements(name, value, max(n, 0))
	})
}

// TakeRight returns the last n elements, or all of them when there are
// fewer. A negative n counts as zero.
func TakeRight(n int) shiftz.Processor {
	name := fmt.Sprintf("take-right[%d]", n)
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		elems, err := elements(name, value, -1)
		if err != nil {
			return nil, err
		}
		return elems[len(elems)-clamp(n, len(elems)):], nil
	})
}

// Drop returns everything after the first n elements. A negative n counts
// as zero.
func Drop(n int) shiftz.Processor {
	name := fmt.Sprintf("drop[%d]", n)
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		elems, err := elements(name, value, -1)
		if err != nil {
			return nil, err
		}
		return elems[clamp(n, len(elems)):], nil
	})
}

// DropRight returns everything before the last n elements. A negative n
// counts as zero.
func DropRight(n int) shiftz.Processor {
	name := fmt.Sprintf("drop-right[%d]", n)
	return shiftz.Wrap(name, func(_ context.Context, value any) (any, error) {
		elems, err := elements(name, value, -1)
		if err != nil {
			return nil, err
		}
		return elems[:len(elems)-clamp(n, len(elems))], nil
	})
}

// Partition splits the elements in two, keeping their order: the result is
// a two element []any holding the elements m matches and then the rest,
// each as a []any. extract.Item(0) and extract.Item(1) read the halves.
func Partition(m shiftz.Matcher) shiftz.Processor {
	const name = "partition"
	return shiftz.Wrap(name, func(ctx context.Context, value any) (any, error) {
		elems, err := elements(name, value, -1)
		if err != nil {
			return nil, err
		}
		matched, rest := []any{}, []any{}
		for _, v := range elems {
			ok, err := test(ctx, name, m, v)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = append(matched, v)
			} else {
				rest = append(rest, v)
			}
		}
		return []any{matched, rest}, nil
	})
}

// Find returns the first element m matches and fails with shiftz.ErrExtract
// when there is none. A lazy input is consumed no further than the match.
func Find(m shiftz.Matcher) shiftz.Processor {
	const name = "find"
	return shiftz.Wrap(name, func(ctx context.Context, value any) (any, error) {
		seq, ok := Sequence(value)
		if !ok {
			return nil, shiftz.Failf(name, value, "%w: cannot iterate over %T", shiftz.ErrExtract, value)
		}
		for v, err := range seq {
			if err != nil {
				return nil, err
			}
			ok, err := test(ctx, name, m, v)
			if err != nil {
				return nil, err
			}
			if ok {
				return v, nil
			}
		}
		return nil, shiftz.Failf(name, value, "%w: no element matches %s", shiftz.ErrExtract, m.Name())
	})
}

// elements reads value into a fresh []any, stopping after limit elements
// unless limit is negative. Errors from a lazy input pass through as they
// are.
func elements(name shiftz.Name, value any, limit int) ([]any, error) {
	seq, ok := Sequence(value)
	if !ok {
		return nil, shiftz.Failf(name, value, "%w: cannot iterate over %T", shiftz.ErrExtract, value)
	}
	out := []any{}
	if limit == 0 {
		return out, nil
	}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// clamp bounds n to [0, size].
func clamp(n, size int) int {
	return min(max(n, 0), size)
}
