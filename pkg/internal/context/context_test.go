package context

import (
	"context"
	"testing"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

func TestWithItemContextAndGetItemContext(t *testing.T) {
	t.Run("stores and retrieves item context", func(t *testing.T) {
		// Arrange
		baseCtx := context.Background()
		item := &core.WorkItem{ID: 42, Payload: "abc"}
		ic := &ItemContext{
			Item:  item,
			Store: "geocache",
			RunID: "run-1",
		}

		// Act
		ctx := WithItemContext(baseCtx, ic)
		retrieved := GetItemContext(ctx)

		// Assert
		if retrieved == nil || retrieved.Item == nil {
			t.Fatal("item context or item is nil")
		}
		if retrieved.Item.ID != 42 {
			t.Errorf("expected item ID %d, got %d", 42, retrieved.Item.ID)
		}
		if retrieved.Store != "geocache" {
			t.Errorf("expected store %q, got %q", "geocache", retrieved.Store)
		}
		if retrieved.RunID != "run-1" {
			t.Errorf("expected run ID %q, got %q", "run-1", retrieved.RunID)
		}
	})

	t.Run("returns nil when item context not set", func(t *testing.T) {
		// Arrange
		ctx := context.Background()

		// Act
		ic := GetItemContext(ctx)

		// Assert
		if ic != nil {
			t.Errorf("expected nil, got %v", ic)
		}
	})

	t.Run("ignores values of the wrong type", func(t *testing.T) {
		// Arrange
		ctx := context.WithValue(context.Background(), ItemContextKey{}, "not an item context")

		// Act
		ic := GetItemContext(ctx)

		// Assert
		if ic != nil {
			t.Errorf("expected nil, got %v", ic)
		}
	})
}
