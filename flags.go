package shiftz

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/goccy/go-yaml"
)

// Flags is the side channel that travels with a value through a pipeline.
// It is an immutable mapping from option key to value: every operation that
// changes it returns a new Flags and leaves the receiver untouched, so a
// child invocation can never disturb the flags its parent or siblings see.
//
// Keys are namespaced by the component that reads them,
// "<namespace>.<option>", e.g. "combination.lazy". Use NewKey for typed
// access to a single option.
type Flags struct {
	values map[string]any
}

// Binding pairs a flag key with a value.
type Binding struct {
	Value any
	Key   string
}

// Bind creates a Binding for a raw key. Prefer Key.Bind for typed options.
func Bind(key string, value any) Binding {
	return Binding{Key: key, Value: value}
}

// NewFlags creates Flags from bindings. Later bindings win over earlier ones
// with the same key.
func NewFlags(bindings ...Binding) Flags {
	return Flags{}.With(bindings...)
}

// Lookup returns the value bound to key and whether it was present.
func (f Flags) Lookup(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Get returns the value bound to key, or def when it is absent.
func (f Flags) Get(key string, def any) any {
	if v, ok := f.values[key]; ok {
		return v
	}
	return def
}

// Len returns the number of bound keys.
func (f Flags) Len() int {
	return len(f.values)
}

// Keys returns the bound keys in sorted order.
func (f Flags) Keys() []string {
	return slices.Sorted(maps.Keys(f.values))
}

// Map returns the bindings as a new map. It is never nil.
func (f Flags) Map() map[string]any {
	values := make(map[string]any, len(f.values))
	maps.Copy(values, f.values)
	return values
}

// With returns a copy of f extended with bindings. The bindings win.
func (f Flags) With(bindings ...Binding) Flags {
	if len(bindings) == 0 {
		return f
	}
	values := make(map[string]any, len(f.values)+len(bindings))
	maps.Copy(values, f.values)
	for _, b := range bindings {
		values[b.Key] = b.Value
	}
	return Flags{values: values}
}

// Merge returns the union of f and over. Where both bind a key, over wins.
func (f Flags) Merge(over Flags) Flags {
	if len(over.values) == 0 {
		return f
	}
	if len(f.values) == 0 {
		return over
	}
	values := make(map[string]any, len(f.values)+len(over.values))
	maps.Copy(values, f.values)
	maps.Copy(values, over.values)
	return Flags{values: values}
}

type flagsKey struct{}

// FlagsFrom returns the flags carried by ctx. A context without flags yields
// empty Flags.
func FlagsFrom(ctx context.Context) Flags {
	if ctx == nil {
		return Flags{}
	}
	f, _ := ctx.Value(flagsKey{}).(Flags)
	return f
}

// WithFlags returns a context whose flags are the flags of ctx overridden by
// bindings. This is the call-site form: bindings given here take precedence
// over anything injected further down the pipeline.
func WithFlags(ctx context.Context, bindings ...Binding) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(bindings) == 0 {
		return ctx
	}
	return context.WithValue(ctx, flagsKey{}, FlagsFrom(ctx).With(bindings...))
}

// underFlags returns a context where injected fills in keys that ctx does
// not already bind. Flags already present, which come from the call site or
// an enclosing injection, keep precedence.
func underFlags(ctx context.Context, injected Flags) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if injected.Len() == 0 {
		return ctx
	}
	return context.WithValue(ctx, flagsKey{}, injected.Merge(FlagsFrom(ctx)))
}

// Key is a typed, namespaced flag option.
//
//	var RetryLimit = shiftz.NewKey[int]("retry", "limit")
//
//	limit := RetryLimit.Get(ctx, 3)
type Key[V any] struct {
	name string
}

// NewKey creates a typed key named "<namespace>.<option>".
func NewKey[V any](namespace, option string) Key[V] {
	return Key[V]{name: namespace + "." + option}
}

// String returns the full key name.
func (k Key[V]) String() string {
	return k.name
}

// Bind creates a Binding of this key to v.
func (k Key[V]) Bind(v V) Binding {
	return Binding{Key: k.name, Value: v}
}

// Lookup reads the key from f. A value of another type counts as absent.
func (k Key[V]) Lookup(f Flags) (V, bool) {
	raw, ok := f.Lookup(k.name)
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := raw.(V)
	return v, ok
}

// From reads the key from the flags carried by ctx.
func (k Key[V]) From(ctx context.Context) (V, bool) {
	return k.Lookup(FlagsFrom(ctx))
}

// Get reads the key from ctx, returning def when it is absent. Components
// pass their constructor default as def, which gives the precedence
// call site > injected > component default.
func (k Key[V]) Get(ctx context.Context, def V) V {
	if v, ok := k.From(ctx); ok {
		return v
	}
	return def
}

// ParseFlags loads Flags from a YAML document. Nested mappings flatten into
// dotted keys, so
//
//	combination:
//	  lazy: true
//	collect.map.lazy: false
//
// binds "combination.lazy" and "collect.map.lazy". Integers that fit are
// stored as int. A key reached both through nesting and as a dotted name is
// an error rather than a race between the two.
func ParseFlags(data []byte) (Flags, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Flags{}, fmt.Errorf("error decoding flags: %w", err)
	}
	values := make(map[string]any)
	if err := flatten("", doc, values); err != nil {
		return Flags{}, err
	}
	return Flags{values: values}, nil
}

func flatten(parent string, doc map[string]any, into map[string]any) error {
	for key, raw := range doc {
		if parent != "" {
			key = parent + "." + key
		}
		switch v := raw.(type) {
		case map[string]any:
			if err := flatten(key, v, into); err != nil {
				return err
			}
		case map[any]any:
			nested := make(map[string]any, len(v))
			for nk, nv := range v {
				s, ok := nk.(string)
				if !ok {
					return fmt.Errorf("flag key %v under %q is not a string", nk, key)
				}
				nested[s] = nv
			}
			if err := flatten(key, nested, into); err != nil {
				return err
			}
		default:
			if _, dup := into[key]; dup {
				return fmt.Errorf("flag %q is bound more than once", key)
			}
			into[key] = normalize(v)
		}
	}
	return nil
}

func normalize(v any) any {
	switch n := v.(type) {
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n)
		}
	case uint64:
		if n <= math.MaxInt {
			return int(n)
		}
	}
	return v
}
