package core

import (
	"context"
)

// Store is the durable, ordered collection of work items backing one logical
// queue. Implementations guard every operation with a single mutex and report
// failures as *StorageError.
type Store interface {
	// Name returns the logical store name the store was opened with.
	Name() string

	// Append persists payload with a fresh id and the current timestamp.
	Append(ctx context.Context, payload string) (int64, error)

	// PeekEarliest returns the earliest item without removing it, or nil when
	// the store is empty.
	PeekEarliest(ctx context.Context) (*WorkItem, error)

	// RemoveEarliest deletes the earliest item. It is a no-op on an empty store.
	RemoveEarliest(ctx context.Context) error

	// Remove deletes the item with the given id. Missing ids are not an error.
	Remove(ctx context.Context, id int64) error

	// Count returns the number of stored items.
	Count(ctx context.Context) (int64, error)

	// Clear deletes every item.
	Clear(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Lister is implemented by stores that can enumerate their items in order.
type Lister interface {
	// List returns up to limit items, earliest first. A limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*WorkItem, error)
}

// Backend opens stores by logical name. The name must be unique per logical
// queue within the backend's persistence namespace.
type Backend interface {
	Open(ctx context.Context, name string) (Store, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, name string) (Store, error)

// Open calls f.
func (f BackendFunc) Open(ctx context.Context, name string) (Store, error) {
	return f(ctx, name)
}
