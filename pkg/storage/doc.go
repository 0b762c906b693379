// Package storage provides durable store backends for serial queues.
//
// This package includes:
//   - GormStorage: a GORM implementation, one table per logical queue
//   - SQLiteStorage: a pure-Go SQLite implementation on database/sql
//   - MemoryStorage: a volatile implementation for tests and examples
//
// The Store and Backend interfaces are defined in pkg/core. Every store
// serializes its operations with a single mutex, keeps items ordered by
// (enqueued_at, id) and reports failures as *core.StorageError.
package storage
