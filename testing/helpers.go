// Package testing provides test utilities and helpers for shiftz-based applications.
//
// This package includes mock transformers and assertion helpers to make
// testing shiftz pipelines easier.
//
// Example usage:
//
//	func TestPricing(t *testing.T) {
//		parse := sztest.NewMockTransformer(t, "parse").WithFailure(shiftz.ErrExtract)
//
//		price := shiftz.Must(shiftz.OrElse(parse, 0.0))
//		result, err := price.Process(context.Background(), "n/a")
//
//		sztest.AssertResult(t, result, err, 0.0)
//		sztest.AssertProcessed(t, parse, 1)
//	}
package testing

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/shiftz"
)

// MockTransformer is a configurable shiftz.Transformer for tests. It records
// every call together with the flags it saw and returns whatever it was
// configured to return.
type MockTransformer struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        string
	callCount   int64
	returnVal   any
	returnErr   error
	failure     error
	echo        bool
	panicMsg    string
	mu          sync.RWMutex
	callHistory []MockCall
	maxHistory  int
}

// MockCall represents a single call to the mock transformer.
type MockCall struct {
	Input     any
	Flags     shiftz.Flags
	Timestamp time.Time
}

// NewMockTransformer creates a new mock transformer. Until configured it
// echoes its input.
func NewMockTransformer(t *testing.T, name string) *MockTransformer {
	return &MockTransformer{
		t:          t,
		name:       name,
		echo:       true,
		maxHistory: 100, // Keep last 100 calls by default
	}
}

// WithReturn configures the mock to return specific values.
// The mock will return these values for all subsequent calls.
func (m *MockTransformer) WithReturn(val any, err error) *MockTransformer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnVal = val
	m.returnErr = err
	m.failure = nil
	m.echo = false
	return m
}

// WithFailure configures the mock to fail with a recoverable transformation
// failure whose cause is cause. A fresh *shiftz.Error is built per call.
func (m *MockTransformer) WithFailure(cause error) *MockTransformer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cause == nil {
		cause = shiftz.ErrFailed
	}
	m.failure = cause
	m.echo = false
	return m
}

// WithPanic configures the mock to panic with a specific message.
// This is useful for testing that panics are never absorbed.
func (m *MockTransformer) WithPanic(msg string) *MockTransformer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize configures how many calls to keep in history.
// Set to 0 to disable history tracking.
func (m *MockTransformer) WithHistorySize(size int) *MockTransformer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	if size == 0 {
		m.callHistory = nil
	} else if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name returns the name of the mock transformer.
func (m *MockTransformer) Name() shiftz.Name {
	return m.name
}

// Process implements shiftz.Transformer. It records the call and returns
// the configured values.
func (m *MockTransformer) Process(ctx context.Context, value any) (any, error) {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	if m.maxHistory > 0 {
		m.callHistory = append(m.callHistory, MockCall{
			Input:     value,
			Flags:     shiftz.FlagsFrom(ctx),
			Timestamp: time.Now(),
		})
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:] // Remove oldest
		}
	}
	returnVal, returnErr := m.returnVal, m.returnErr
	failure, echo, panicMsg := m.failure, m.echo, m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, shiftz.Fail(m.name, value, failure)
	}
	if echo {
		return value, nil
	}
	return returnVal, returnErr
}

// CallCount returns the number of times Process has been called.
func (m *MockTransformer) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastCall returns the most recent recorded call.
func (m *MockTransformer) LastCall() (MockCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.callHistory) == 0 {
		return MockCall{}, false
	}
	return m.callHistory[len(m.callHistory)-1], true
}

// CallHistory returns a copy of all recorded calls.
// Returns nil if history tracking is disabled.
func (m *MockTransformer) CallHistory() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxHistory == 0 {
		return nil
	}
	return slices.Clone(m.callHistory)
}

// Reset clears all call tracking.
func (m *MockTransformer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.callHistory = nil
}

// Assertion Helpers

// AssertProcessed verifies that a mock transformer was called exactly n times.
func AssertProcessed(t *testing.T, mock *MockTransformer, expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock transformer %s to be called %d times, but was called %d times",
			mock.name, expectedCalls, actualCalls)
	}
}

// AssertNotProcessed verifies that a mock transformer was never called.
func AssertNotProcessed(t *testing.T, mock *MockTransformer) {
	t.Helper()
	AssertProcessed(t, mock, 0)
}

// AssertProcessedWith verifies the input of the most recent call.
func AssertProcessedWith(t *testing.T, mock *MockTransformer, expectedInput any) {
	t.Helper()
	call, ok := mock.LastCall()
	if !ok {
		t.Errorf("expected mock transformer %s to be called with input %v, but it was never called",
			mock.name, expectedInput)
		return
	}
	if diff := cmp.Diff(expectedInput, call.Input); diff != "" {
		t.Errorf("mock transformer %s input mismatch (-want +got):\n%s", mock.name, diff)
	}
}

// AssertSawFlag verifies the most recent call saw key bound to want.
func AssertSawFlag(t *testing.T, mock *MockTransformer, key string, want any) {
	t.Helper()
	call, ok := mock.LastCall()
	if !ok {
		t.Errorf("expected mock transformer %s to see flag %s, but it was never called", mock.name, key)
		return
	}
	got, ok := call.Flags.Lookup(key)
	if !ok {
		t.Errorf("expected mock transformer %s to see flag %s=%v, but it was unset", mock.name, key, want)
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mock transformer %s flag %s mismatch (-want +got):\n%s", mock.name, key, diff)
	}
}

// AssertResult verifies that a run succeeded with want. On mismatch the
// full structure of both values is dumped.
func AssertResult(t *testing.T, got any, err error, want any) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s\nwant: %sgot:  %s", diff, spew.Sdump(want), spew.Sdump(got))
	}
}

// AssertFailure verifies that err is a transformation failure whose path is
// exactly path.
func AssertFailure(t *testing.T, err error, path ...shiftz.Name) *shiftz.Error {
	t.Helper()
	var failure *shiftz.Error
	if !errors.As(err, &failure) {
		t.Fatalf("expected a transformation failure, got %s", spew.Sdump(err))
	}
	if diff := cmp.Diff(path, failure.Path); diff != "" {
		t.Errorf("failure path mismatch (-want +got):\n%s", diff)
	}
	return failure
}

// AssertNotFailure verifies that err is an error that no combinator may
// absorb.
func AssertNotFailure(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if shiftz.IsFailure(err) {
		t.Errorf("expected a non-recoverable error, got transformation failure %v", err)
	}
}

// ParallelTest runs a test function in parallel with multiple goroutines.
// Useful for checking that a built pipeline can be shared.
func ParallelTest(t *testing.T, goroutines int, testFunc func(int)) {
	t.Helper()

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			testFunc(id)
		}(i)
	}

	wg.Wait()
}
