// Package shiftz provides an algebra of composable transformers for Go.
//
// # Overview
//
// A transformer turns one value into another, or fails. shiftz lets small
// transformers be combined into larger ones with a handful of operators, so a
// data-shaping pipeline reads as a single expression instead of a tangle of
// if-err blocks. Every composite is itself a transformer and composes further
// in exactly the same way.
//
// # Core Concepts
//
//   - Transformer: the single interface, Process(context.Context, any) (any, error)
//   - Leaves: functions wrapped by adapters (Transform, Apply, Effect, Wrap),
//     constants (Value) and the pass-through Identity
//   - Composition nodes: Chain, Alternation, Combination, Gather, Fallback,
//     Scoped and Condition
//   - Flags: an immutable side channel of options that travels in the context
//
// # Operators
//
// Go has no operator overloading, so each operator of the algebra is a
// builder function:
//
//   - Then(a, b, c): chain, a >> b >> c. Each output feeds the next stage
//   - Insert(t, s): splice s before the last stage of t, (a >> b) << s
//   - OrElse(a, b, c): alternation, a | b | c. The first success wins
//   - Both(a, b, c): combination, a & b & c. Every member sees the same input
//   - WithDefault(t, v) or Then(t, Default(v)): substitute v on failure
//   - Then(t, Inject(...)): run t with extra flags
//
// Operands that are not transformers are lifted with Value, so
// OrElse(parse, 0) falls back to the constant 0. Functions, nil and misplaced
// markers are rejected with a *ChainError when the pipeline is built, never
// when it runs. From offers the same builders as a fluent chain.
//
// # Failures
//
// A transformer that cannot produce a result for its input returns an *Error.
// That is the only kind of error Alternation and Fallback recover from, and
// Error.Path records every composition node the failure crossed. Panics,
// type mismatches, context cancellation and any other error propagate
// through every combinator untouched.
//
// # Flags
//
// Options reach components through Flags carried by the context. The
// precedence is fixed: flags given at the call site win over flags injected
// inside the pipeline, which win over the component's own default.
//
//	out, err := pipeline.Run(ctx, input, shiftz.CombinationLazy.Bind(true))
//
// # Usage Example
//
//	parseInt := shiftz.Apply("parse-int", func(_ context.Context, s string) (int, error) {
//	    return strconv.Atoi(strings.TrimSpace(s))
//	})
//	double := shiftz.Transform("double", func(_ context.Context, n int) int {
//	    return n * 2
//	})
//
//	doubled := shiftz.Must(shiftz.From(parseInt).
//	    Then(double).
//	    Default(0).
//	    Build())
//
//	n, err := doubled.Process(ctx, " 21 ") // 42, nil
//	n, err = doubled.Process(ctx, "x")     // 0, nil
//
// # Subpackages
//
//   - match: Matchers for Condition and the Filter transformer
//   - extract: transformers that pull a part out of a value
//   - collect: Map, Filter and Flatten over sequences, plus slicing helpers
//   - testing: mock transformers and assertion helpers
//
// Composition nodes run their children one after another on the calling
// goroutine and hold no mutable state, so a built pipeline is safe to share
// between goroutines. Pipeline adds metrics, traces and hooks around a run.
package shiftz
