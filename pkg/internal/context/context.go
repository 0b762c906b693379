// Package context provides context helpers for the serialq package.
package context

import (
	"context"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// ItemContextKey is the key for storing item context in context.Context.
type ItemContextKey struct{}

// ItemContext holds the item being processed and where it came from.
type ItemContext struct {
	Item  *core.WorkItem
	Store string
	RunID string
}

// GetItemContext retrieves the item context from a context.Context.
func GetItemContext(ctx context.Context) *ItemContext {
	if ic, ok := ctx.Value(ItemContextKey{}).(*ItemContext); ok {
		return ic
	}
	return nil
}

// WithItemContext adds item context to a context.Context.
func WithItemContext(ctx context.Context, ic *ItemContext) context.Context {
	return context.WithValue(ctx, ItemContextKey{}, ic)
}
