package shiftz

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply(t *testing.T) {
	ctx := context.Background()
	parseInt := Apply("parse-int", func(_ context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	})

	t.Run("Success", func(t *testing.T) {
		result, err := parseInt.Process(ctx, "42")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 42 {
			t.Errorf("expected 42, got %v", result)
		}
	})

	t.Run("Error Becomes Failure", func(t *testing.T) {
		_, err := parseInt.Process(ctx, "forty-two")
		var failure *Error
		if !errors.As(err, &failure) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if diff := cmp.Diff([]Name{"parse-int"}, failure.Path); diff != "" {
			t.Errorf("path mismatch (-want +got):\n%s", diff)
		}
		if failure.InputData != "forty-two" {
			t.Errorf("expected input 'forty-two', got %v", failure.InputData)
		}
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) {
			t.Errorf("expected cause to stay reachable, got %v", failure.Err)
		}
	})

	t.Run("Sentinel Cause Preserved", func(t *testing.T) {
		lookup := Apply("lookup", func(_ context.Context, key string) (string, error) {
			return "", ErrExtract
		})
		_, err := lookup.Process(ctx, "k")
		if !errors.Is(err, ErrExtract) {
			t.Errorf("expected ErrExtract, got %v", err)
		}
	})

	t.Run("Context Errors Pass Through", func(t *testing.T) {
		slow := Apply("slow", func(ctx context.Context, _ int) (int, error) {
			return 0, ctx.Err()
		})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := slow.Process(cancelled, 1)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if IsFailure(err) {
			t.Error("context errors must not be transformation failures")
		}
	})

	t.Run("Existing Failure Kept", func(t *testing.T) {
		inner := Fail("inner", 1, ErrMatch)
		outer := Apply("outer", func(_ context.Context, _ int) (int, error) {
			return 0, inner
		})

		_, err := outer.Process(ctx, 1)
		var failure *Error
		if !errors.As(err, &failure) || failure != inner {
			t.Errorf("expected the original failure, got %v", err)
		}
	})
}

func TestWrap(t *testing.T) {
	ctx := context.Background()
	describe := Wrap("describe", func(_ context.Context, v any) (any, error) {
		switch v.(type) {
		case int:
			return "number", nil
		case string:
			return "text", nil
		}
		return nil, errors.New("unsupported")
	})

	for input, want := range map[any]any{1: "number", "a": "text"} {
		result, err := describe.Process(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != want {
			t.Errorf("expected %v, got %v", want, result)
		}
	}

	_, err := describe.Process(ctx, 1.5)
	if !IsFailure(err) {
		t.Errorf("expected a transformation failure, got %v", err)
	}
}
