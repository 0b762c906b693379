// Package itemctx provides public access to the item being processed.
package itemctx

import (
	"context"
	"time"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	intctx "github.com/jdziat/simple-serial-queue/pkg/internal/context"
)

// ItemFromContext returns the WorkItem being processed, or nil outside Process.
// The item is a copy; changing it has no effect on the store.
func ItemFromContext(ctx context.Context) *core.WorkItem {
	ic := intctx.GetItemContext(ctx)
	if ic == nil || ic.Item == nil {
		return nil
	}
	item := *ic.Item
	return &item
}

// ItemIDFromContext returns the id of the item being processed, or 0 outside Process.
func ItemIDFromContext(ctx context.Context) int64 {
	ic := intctx.GetItemContext(ctx)
	if ic == nil || ic.Item == nil {
		return 0
	}
	return ic.Item.ID
}

// EnqueuedAtFromContext returns when the item being processed was enqueued.
func EnqueuedAtFromContext(ctx context.Context) (time.Time, bool) {
	ic := intctx.GetItemContext(ctx)
	if ic == nil || ic.Item == nil {
		return time.Time{}, false
	}
	return ic.Item.Time(), true
}

// StoreFromContext returns the store name of the queue processing the item.
func StoreFromContext(ctx context.Context) string {
	if ic := intctx.GetItemContext(ctx); ic != nil {
		return ic.Store
	}
	return ""
}

// RunIDFromContext returns the id of the worker run processing the item.
// Use it to correlate handler logs with the queue's.
func RunIDFromContext(ctx context.Context) string {
	if ic := intctx.GetItemContext(ctx); ic != nil {
		return ic.RunID
	}
	return ""
}
