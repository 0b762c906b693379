package itemctx

import (
	"context"
	"testing"
	"time"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	intctx "github.com/jdziat/simple-serial-queue/pkg/internal/context"
)

func TestItemFromContext(t *testing.T) {
	t.Run("returns a copy of the item", func(t *testing.T) {
		// Arrange
		item := &core.WorkItem{ID: 7, EnqueuedAt: 1_700_000_000_000, Payload: "p"}
		ctx := intctx.WithItemContext(context.Background(), &intctx.ItemContext{Item: item})

		// Act
		result := ItemFromContext(ctx)
		result.Payload = "changed"

		// Assert
		if result.ID != 7 {
			t.Errorf("expected item ID %d, got %d", 7, result.ID)
		}
		if item.Payload != "p" {
			t.Errorf("expected original payload to be untouched, got %q", item.Payload)
		}
	})

	t.Run("returns nil when not set in context", func(t *testing.T) {
		if result := ItemFromContext(context.Background()); result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})
}

func TestAccessors(t *testing.T) {
	// Arrange
	item := &core.WorkItem{ID: 3, EnqueuedAt: 1_700_000_000_000}
	ctx := intctx.WithItemContext(context.Background(), &intctx.ItemContext{
		Item:  item,
		Store: "geocache",
		RunID: "run-9",
	})

	// Act & Assert
	if got := ItemIDFromContext(ctx); got != 3 {
		t.Errorf("expected item ID 3, got %d", got)
	}
	if got := StoreFromContext(ctx); got != "geocache" {
		t.Errorf("expected store %q, got %q", "geocache", got)
	}
	if got := RunIDFromContext(ctx); got != "run-9" {
		t.Errorf("expected run ID %q, got %q", "run-9", got)
	}
	at, ok := EnqueuedAtFromContext(ctx)
	if !ok || !at.Equal(time.UnixMilli(1_700_000_000_000)) {
		t.Errorf("unexpected enqueued time %v (ok=%v)", at, ok)
	}
}

func TestAccessors_OutsideProcess(t *testing.T) {
	ctx := context.Background()

	if got := ItemIDFromContext(ctx); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := StoreFromContext(ctx); got != "" {
		t.Errorf("expected empty store, got %q", got)
	}
	if got := RunIDFromContext(ctx); got != "" {
		t.Errorf("expected empty run ID, got %q", got)
	}
	if _, ok := EnqueuedAtFromContext(ctx); ok {
		t.Error("expected ok=false outside Process")
	}
}
