package shiftz

import (
	"context"
	"iter"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for Pipeline.
const (
	// Metrics.
	PipelineRunsTotal      = metricz.Key("pipeline.runs.total")
	PipelineSuccessesTotal = metricz.Key("pipeline.successes.total")
	PipelineFailuresTotal  = metricz.Key("pipeline.failures.total")
	PipelineErrorsTotal    = metricz.Key("pipeline.errors.total")
	PipelineDurationMs     = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineRunSpan = tracez.Key("pipeline.run")

	// Tags.
	PipelineTagName      = tracez.Tag("pipeline.name")
	PipelineTagRunID     = tracez.Tag("pipeline.run_id")
	PipelineTagFlagCount = tracez.Tag("pipeline.flag_count")
	PipelineTagSuccess   = tracez.Tag("pipeline.success")
	PipelineTagError     = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventSucceeded = hookz.Key("pipeline.succeeded")
	PipelineEventFailed    = hookz.Key("pipeline.failed")
)

// RunEvent describes one finished Pipeline run. It is delivered to hook
// handlers registered with OnSuccess and OnFailure.
type RunEvent struct {
	Timestamp time.Time     // When the run finished
	Input     any           // Value the run started with
	Output    any           // Result, nil on failure
	Error     error         // Failure, nil on success
	Name      Name          // Pipeline name
	RunID     string        // Unique id of the run
	Duration  time.Duration // How long the run took
	Failure   bool          // Whether Error is a transformation failure
}

// Pipeline is the top-level entry point for running a composed transformer.
// Each call to Run is one invocation: it creates the flag context from the
// call-site bindings, evaluates the tree and records what happened.
//
// The composition nodes themselves stay free of instrumentation; Pipeline is
// where a run becomes observable.
//
// # Observability
//
// Metrics:
//   - pipeline.runs.total: Counter of runs
//   - pipeline.successes.total: Counter of successful runs
//   - pipeline.failures.total: Counter of runs ending in a transformation failure
//   - pipeline.errors.total: Counter of runs ending in any other error
//   - pipeline.duration.ms: Gauge of the last run's duration
//
// Traces:
//   - pipeline.run: Span per run, tagged with name, run id, flag count,
//     success and error
//
// Events (via hooks):
//   - pipeline.succeeded: Fired after a successful run
//   - pipeline.failed: Fired after a failed run
//
// Example:
//
//	checkout, err := shiftz.NewPipeline("checkout", priceChain)
//	checkout.OnFailure(func(ctx context.Context, e shiftz.RunEvent) error {
//	    alert.Warn("checkout failed for %v: %v", e.Input, e.Error)
//	    return nil
//	})
//	total, err := checkout.Run(ctx, cart, RoundingMode.Bind("half-even"))
type Pipeline struct {
	root    Transformer
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[RunEvent]
	name    Name
	mu      sync.RWMutex
	realize bool
}

// NewPipeline creates a Pipeline around root. A root that is not a
// Transformer is lifted with Value.
func NewPipeline(name Name, root any) (*Pipeline, error) {
	t, err := lift("pipeline", root)
	if err != nil {
		return nil, err
	}

	metrics := metricz.New()
	metrics.Counter(PipelineRunsTotal)
	metrics.Counter(PipelineSuccessesTotal)
	metrics.Counter(PipelineFailuresTotal)
	metrics.Counter(PipelineErrorsTotal)
	metrics.Gauge(PipelineDurationMs)

	return &Pipeline{
		name:    name,
		root:    t,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[RunEvent](),
	}, nil
}

// Run invokes the pipeline on value. bindings are the call-site flags: they
// take precedence over flags injected anywhere in the tree and over
// component defaults.
//
// A transformation failure comes back as an *Error whose path starts with
// the pipeline name. A panic in a custom Transformer is recovered into a
// *PanicError.
//
// A lazy result (an iter.Seq2[any, error], as a lazy Combination returns) is
// handed back unevaluated by default and the run is recorded as a success.
// Errors that surface while the caller ranges over it belong to no run: they
// carry no pipeline name and are not counted. WithRealize(true) makes Run
// drain the sequence into a []any itself, so those errors are part of the
// run.
func (p *Pipeline) Run(ctx context.Context, value any, bindings ...Binding) (result any, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = WithFlags(ctx, bindings...)

	clock := p.getClock()
	runID := uuid.NewString()
	start := clock.Now()
	p.metrics.Counter(PipelineRunsTotal).Inc()

	ctx, span := p.tracer.StartSpan(ctx, PipelineRunSpan)
	span.SetTag(PipelineTagName, p.name)
	span.SetTag(PipelineTagRunID, runID)
	span.SetTag(PipelineTagFlagCount, strconv.Itoa(FlagsFrom(ctx).Len()))

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &PanicError{Name: p.name, Value: r}
		}

		elapsed := clock.Since(start)
		p.metrics.Gauge(PipelineDurationMs).Set(float64(elapsed.Milliseconds()))

		event := RunEvent{
			Name:      p.name,
			RunID:     runID,
			Input:     value,
			Output:    result,
			Error:     err,
			Duration:  elapsed,
			Timestamp: clock.Now(),
		}

		if err == nil {
			span.SetTag(PipelineTagSuccess, "true")
			p.metrics.Counter(PipelineSuccessesTotal).Inc()
			_ = p.hooks.Emit(ctx, PipelineEventSucceeded, event) //nolint:errcheck
		} else {
			span.SetTag(PipelineTagSuccess, "false")
			span.SetTag(PipelineTagError, err.Error())
			event.Failure = IsFailure(err)
			if event.Failure {
				p.metrics.Counter(PipelineFailuresTotal).Inc()
			} else {
				p.metrics.Counter(PipelineErrorsTotal).Inc()
			}
			_ = p.hooks.Emit(ctx, PipelineEventFailed, event) //nolint:errcheck
		}
		span.Finish()
	}()

	result, err = p.root.Process(ctx, value)
	if err == nil && p.realizes() {
		if seq, ok := result.(iter.Seq2[any, error]); ok {
			result, err = Collect(seq)
		}
	}
	if err != nil {
		return nil, prefix(p.name, err)
	}
	return result, nil
}

// Process implements the Transformer interface, so a Pipeline can be a
// stage of another pipeline. Flags already in ctx are kept.
func (p *Pipeline) Process(ctx context.Context, value any) (any, error) {
	return p.Run(ctx, value)
}

// Name returns the name of the pipeline.
func (p *Pipeline) Name() Name {
	return p.name
}

// Root returns the transformer the pipeline runs.
func (p *Pipeline) Root() Transformer {
	return p.root
}

// Metrics returns the metrics registry for this pipeline.
func (p *Pipeline) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this pipeline.
func (p *Pipeline) Tracer() *tracez.Tracer {
	return p.tracer
}

// WithClock sets a custom clock for testing.
func (p *Pipeline) WithClock(clock clockz.Clock) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
	return p
}

// WithRealize controls whether Run drains lazy results before returning.
func (p *Pipeline) WithRealize(realize bool) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.realize = realize
	return p
}

func (p *Pipeline) realizes() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.realize
}

func (p *Pipeline) getClock() clockz.Clock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.clock == nil {
		return clockz.RealClock
	}
	return p.clock
}

// Close gracefully shuts down observability components.
func (p *Pipeline) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}

// OnSuccess registers a handler for successful runs.
// The handler is called asynchronously after the run completes.
func (p *Pipeline) OnSuccess(handler func(context.Context, RunEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventSucceeded, handler)
	return err
}

// OnFailure registers a handler for failed runs, whatever the kind of error.
// The handler is called asynchronously after the run completes.
func (p *Pipeline) OnFailure(handler func(context.Context, RunEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventFailed, handler)
	return err
}
