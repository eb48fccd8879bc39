package shiftz

import (
	"context"
	"errors"
	"testing"
)

type order struct {
	Country string
	Region  string
	Tier    string
	Total   float64
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()
	regions := map[string]string{"PT": "EU"}

	addRegion := Enrich("add-region", func(_ context.Context, o order) (order, error) {
		region, ok := regions[o.Country]
		if !ok {
			return o, errors.New("unknown country")
		}
		o.Region = region
		return o, nil
	})

	t.Run("Enriches", func(t *testing.T) {
		result, err := addRegion.Process(ctx, order{Country: "PT"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.(order).Region != "EU" {
			t.Errorf("expected region EU, got %+v", result)
		}
	})

	t.Run("Keeps Original On Error", func(t *testing.T) {
		in := order{Country: "XX"}
		result, err := addRegion.Process(ctx, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != in {
			t.Errorf("expected original order, got %+v", result)
		}
	})

	t.Run("Context Errors Propagate", func(t *testing.T) {
		waiting := Enrich("waiting", func(ctx context.Context, o order) (order, error) {
			return o, ctx.Err()
		})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := waiting.Process(cancelled, order{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Wrong Type Propagates", func(t *testing.T) {
		_, err := addRegion.Process(ctx, "PT")
		var typeErr *TypeError
		if !errors.As(err, &typeErr) {
			t.Errorf("expected *TypeError, got %v", err)
		}
	})
}
