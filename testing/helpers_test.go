package testing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/zoobzio/shiftz"
)

func TestMockTransformer(t *testing.T) {
	ctx := context.Background()

	t.Run("Echoes Input By Default", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-echo")

		result, err := mock.Process(ctx, "input")
		AssertResult(t, result, err, "input")
		AssertProcessed(t, mock, 1)
	})

	t.Run("Returns Configured Value", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-test").WithReturn("mocked", nil)

		result, err := mock.Process(ctx, "input")
		AssertResult(t, result, err, "mocked")
		AssertProcessedWith(t, mock, "input")
	})

	t.Run("Returns Configured Error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		mock := NewMockTransformer(t, "mock-error").WithReturn(nil, expectedErr)

		_, err := mock.Process(ctx, "input")
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if shiftz.IsFailure(err) {
			t.Error("plain error should not be a transformation failure")
		}
	})

	t.Run("Fails Recoverably", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-fail").WithFailure(shiftz.ErrExtract)

		_, err := mock.Process(ctx, "input")
		failure := AssertFailure(t, err, "mock-fail")
		if !errors.Is(failure, shiftz.ErrExtract) {
			t.Errorf("expected ErrExtract cause, got %v", failure.Err)
		}
		if failure.InputData != "input" {
			t.Errorf("expected input 'input', got %v", failure.InputData)
		}
	})

	t.Run("Panics", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-panic").WithPanic("boom")

		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected panic 'boom', got %v", r)
			}
		}()
		_, _ = mock.Process(ctx, "input") //nolint:errcheck
		t.Error("expected panic")
	})

	t.Run("Honors Cancelled Context", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-cancel")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := mock.Process(cancelled, "input")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Records Flags", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-flags")
		flagged := shiftz.WithFlags(ctx, shiftz.Bind("demo.mode", "strict"))

		_, _ = mock.Process(flagged, 1) //nolint:errcheck
		AssertSawFlag(t, mock, "demo.mode", "strict")
	})

	t.Run("History Size", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-history").WithHistorySize(2)
		for i := 0; i < 5; i++ {
			_, _ = mock.Process(ctx, i) //nolint:errcheck
		}

		history := mock.CallHistory()
		if len(history) != 2 {
			t.Fatalf("expected 2 calls in history, got %d", len(history))
		}
		if history[0].Input != 3 || history[1].Input != 4 {
			t.Errorf("expected last two inputs [3 4], got [%v %v]", history[0].Input, history[1].Input)
		}
		AssertProcessed(t, mock, 5)

		mock.WithHistorySize(0)
		if mock.CallHistory() != nil {
			t.Error("expected nil history when disabled")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		mock := NewMockTransformer(t, "mock-reset")
		_, _ = mock.Process(ctx, "input") //nolint:errcheck

		mock.Reset()
		AssertNotProcessed(t, mock)
		if _, ok := mock.LastCall(); ok {
			t.Error("expected no last call after reset")
		}
	})
}

func TestMockInPipeline(t *testing.T) {
	ctx := context.Background()

	first := NewMockTransformer(t, "first").WithFailure(nil)
	second := NewMockTransformer(t, "second").WithReturn(42, nil)
	third := NewMockTransformer(t, "third")

	alt := shiftz.Must(shiftz.OrElse(first, second, third))
	result, err := alt.Process(ctx, "x")

	AssertResult(t, result, err, 42)
	AssertProcessed(t, first, 1)
	AssertProcessed(t, second, 1)
	AssertNotProcessed(t, third)
}

func TestParallelTest(t *testing.T) {
	var calls int64
	ParallelTest(t, 8, func(int) {
		atomic.AddInt64(&calls, 1)
	})
	if calls != 8 {
		t.Errorf("expected 8 calls, got %d", calls)
	}
}

func TestAssertNotFailure(t *testing.T) {
	AssertNotFailure(t, &shiftz.PanicError{Name: "p", Value: "boom"})
}
