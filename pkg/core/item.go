// Package core provides the domain models and interfaces for the serialq package.
package core

import (
	"time"
)

// WorkItem is one opaque, serialized unit of work held in a store.
//
// Items are ordered by EnqueuedAt, ties broken by ID. They are never
// mutated after insertion.
type WorkItem struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	EnqueuedAt int64  `gorm:"not null"` // unix milliseconds
	Payload    string `gorm:"type:text;not null"`
}

// Time returns EnqueuedAt as a time.Time.
func (w *WorkItem) Time() time.Time {
	return time.UnixMilli(w.EnqueuedAt)
}

// Before reports whether w sorts ahead of other.
func (w *WorkItem) Before(other *WorkItem) bool {
	if w.EnqueuedAt != other.EnqueuedAt {
		return w.EnqueuedAt < other.EnqueuedAt
	}
	return w.ID < other.ID
}
