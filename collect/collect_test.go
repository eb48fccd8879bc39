package collect

import (
	"context"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/shiftz"
	"github.com/zoobzio/shiftz/match"
)

var (
	upper = shiftz.Transform("upper", func(_ context.Context, s string) string {
		return strings.ToUpper(s)
	})
	positive = match.Greater(0)
	small    = match.Less(3)
)

func TestMap(t *testing.T) {
	ctx := context.Background()

	m, err := Map(upper)
	require.NoError(t, err)

	out, err := m.Process(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "B"}, out)

	t.Run("empty input yields an empty slice", func(t *testing.T) {
		out, err := m.Process(ctx, []string{})
		require.NoError(t, err)
		assert.Equal(t, []any{}, out)
	})

	t.Run("element failure is prefixed", func(t *testing.T) {
		parse := shiftz.Apply("parse", func(_ context.Context, s string) (int, error) {
			if s == "" {
				return 0, shiftz.ErrExtract
			}
			return len(s), nil
		})
		m, err := Map(parse)
		require.NoError(t, err)

		_, err = m.Process(ctx, []string{"ab", ""})
		var failure *shiftz.Error
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, []shiftz.Name{"map", "parse"}, failure.Path)
		assert.Equal(t, "", failure.InputData)
	})

	t.Run("non-collections fail", func(t *testing.T) {
		_, err := m.Process(ctx, "abc")
		assert.True(t, shiftz.IsFailure(err))
	})

	t.Run("invalid operand", func(t *testing.T) {
		_, err := Map(nil)
		var chainErr *shiftz.ChainError
		assert.ErrorAs(t, err, &chainErr)
	})
}

func TestLazy(t *testing.T) {
	ctx := context.Background()

	calls := 0
	count := shiftz.Transform("count", func(_ context.Context, n int) int {
		calls++
		return n
	})
	m, err := Map(count)
	require.NoError(t, err)

	t.Run("flag selects lazy mode", func(t *testing.T) {
		calls = 0
		out, err := m.Process(shiftz.WithFlags(ctx, MapLazy.Bind(true)), []int{1, 2, 3})
		require.NoError(t, err)
		assert.Zero(t, calls, "lazy map runs nothing until ranged over")

		seq, ok := out.(iter.Seq2[any, error])
		require.True(t, ok)
		for v, err := range seq {
			require.NoError(t, err)
			if v == 2 {
				break
			}
		}
		assert.Equal(t, 2, calls)

		again, err := shiftz.Collect(seq)
		require.NoError(t, err)
		assert.Empty(t, again, "lazy results are single pass")
	})

	t.Run("constructor default is overridden by the flag", func(t *testing.T) {
		lazy := m.Lazy(true)
		assert.True(t, lazy.IsLazy())
		assert.False(t, m.IsLazy())

		out, err := lazy.Process(shiftz.WithFlags(ctx, MapLazy.Bind(false)), []int{1})
		require.NoError(t, err)
		assert.Equal(t, []any{1}, out)
	})

	t.Run("lazy stages chain", func(t *testing.T) {
		pipeline := shiftz.Must(shiftz.Then(
			Filter(positive).Lazy(true),
			TakeWhile(small).Lazy(true),
			shiftz.Realize(),
		))
		out, err := pipeline.Process(ctx, []int{-1, 1, 2, 3, 1})
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, out)
	})
}

func TestFilterTakeDrop(t *testing.T) {
	ctx := context.Background()
	input := []int{1, 2, -1, 5, 0, 2}

	out, err := Filter(positive).Process(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 5, 2}, out)

	out, err = TakeWhile(positive).Process(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, out)

	out, err = DropWhile(positive).Process(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, []any{-1, 5, 0, 2}, out)

	out, err = DropWhile(positive).Process(ctx, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)

	t.Run("matcher errors become failures", func(t *testing.T) {
		_, err := Filter(positive).Process(ctx, []any{1, "two"})
		var failure *shiftz.Error
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, []shiftz.Name{"filter"}, failure.Path)
	})

	t.Run("lenient comparisons skip instead", func(t *testing.T) {
		lenient := shiftz.WithFlags(ctx, match.Lenient.Bind(true))
		out, err := Filter(positive).Process(lenient, []any{1, "two", 3})
		require.NoError(t, err)
		assert.Equal(t, []any{1, 3}, out)
	})
}

func TestFlatten(t *testing.T) {
	ctx := context.Background()

	out, err := Flatten().Process(ctx, [][]int{{1, 2}, {}, {3}})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, out)

	out, err = Flatten().Process(ctx, []any{[]string{"a"}, [1]string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)

	_, err = Flatten().Process(ctx, []any{[]int{1}, 2})
	assert.True(t, shiftz.IsFailure(err))

	t.Run("flattens a lazy combination", func(t *testing.T) {
		pair, err := shiftz.NewCombination("pair", true,
			shiftz.Value([]int{1, 2}),
			shiftz.Value([]int{3}),
		)
		require.NoError(t, err)
		flat := shiftz.Must(shiftz.Then(pair, Flatten()))

		out, err := flat.Process(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 3}, out)
	})
}

func TestSlicing(t *testing.T) {
	ctx := context.Background()
	nums := []int{1, 2, 3, 4, 5}

	tests := []struct {
		op    shiftz.Processor
		input any
		want  any
		name  string
	}{
		{name: "head", op: Head(), input: nums, want: 1},
		{name: "last", op: Last(), input: nums, want: 5},
		{name: "tail", op: Tail(), input: nums, want: []any{2, 3, 4, 5}},
		{name: "tail of one", op: Tail(), input: []string{"a"}, want: []any{}},
		{name: "take", op: Take(2), input: nums, want: []any{1, 2}},
		{name: "take more than there is", op: Take(9), input: nums, want: []any{1, 2, 3, 4, 5}},
		{name: "take zero", op: Take(0), input: nums, want: []any{}},
		{name: "take negative", op: Take(-1), input: nums, want: []any{}},
		{name: "take right", op: TakeRight(2), input: nums, want: []any{4, 5}},
		{name: "take right zero", op: TakeRight(0), input: nums, want: []any{}},
		{name: "take right more than there is", op: TakeRight(9), input: [2]int{1, 2}, want: []any{1, 2}},
		{name: "drop", op: Drop(2), input: nums, want: []any{3, 4, 5}},
		{name: "drop everything", op: Drop(9), input: nums, want: []any{}},
		{name: "drop right", op: DropRight(2), input: nums, want: []any{1, 2, 3}},
		{name: "drop right zero", op: DropRight(0), input: nums, want: []any{1, 2, 3, 4, 5}},
		{name: "drop on empty", op: Drop(1), input: []int{}, want: []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.op.Process(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	t.Run("empty collections have no head, last or tail", func(t *testing.T) {
		for _, op := range []shiftz.Processor{Head(), Last(), Tail()} {
			_, err := op.Process(ctx, []int{})
			assert.ErrorIs(t, err, shiftz.ErrExtract, op.Name())

			var failure *shiftz.Error
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, []shiftz.Name{op.Name()}, failure.Path)
		}
	})

	t.Run("non-collections fail", func(t *testing.T) {
		for _, op := range []shiftz.Processor{Head(), Take(1), DropRight(1), Find(positive)} {
			_, err := op.Process(ctx, "abc")
			assert.ErrorIs(t, err, shiftz.ErrExtract, op.Name())
		}
	})

	t.Run("head stops reading a lazy input", func(t *testing.T) {
		broken := shiftz.Wrap("broken", func(_ context.Context, v any) (any, error) {
			return nil, shiftz.Fail("broken", v, nil)
		})
		pair, err := shiftz.NewCombination("pair", true, shiftz.Value(1), broken)
		require.NoError(t, err)

		first := shiftz.Must(shiftz.Then(pair, Head()))
		out, err := first.Process(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, out)

		whole := shiftz.Must(shiftz.Then(pair, Last()))
		_, err = whole.Process(ctx, nil)
		var failure *shiftz.Error
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, []shiftz.Name{shiftz.ChainName, "pair", "broken"}, failure.Path)
	})
}

func TestPartitionFind(t *testing.T) {
	ctx := context.Background()

	t.Run("partition keeps order", func(t *testing.T) {
		out, err := Partition(small).Process(ctx, []int{5, 1, 4, 2})
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{1, 2}, []any{5, 4}}, out)

		out, err = Partition(small).Process(ctx, []int{})
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{}, []any{}}, out)
	})

	t.Run("find returns the first match", func(t *testing.T) {
		out, err := Find(small).Process(ctx, []int{5, 2, 1})
		require.NoError(t, err)
		assert.Equal(t, 2, out)
	})

	t.Run("find without a match fails", func(t *testing.T) {
		_, err := Find(small).Process(ctx, []int{5, 6})
		assert.ErrorIs(t, err, shiftz.ErrExtract)

		orZero := shiftz.Must(shiftz.Then(Find(small), shiftz.Default(0)))
		out, err := orZero.Process(ctx, []int{5, 6})
		require.NoError(t, err)
		assert.Equal(t, 0, out)
	})

	t.Run("matcher errors become failures", func(t *testing.T) {
		_, err := Partition(positive).Process(ctx, []any{1, "two"})
		var failure *shiftz.Error
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, []shiftz.Name{"partition"}, failure.Path)

		_, err = Find(positive).Process(ctx, []any{"two", 1})
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, []shiftz.Name{"find"}, failure.Path)
	})
}
