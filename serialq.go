// Package serialq provides a durable, strictly serial work queue.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Open storage and a consumer
//	backend, _ := serialq.OpenSQLite("queue.db")
//	c := serialq.NewConsumer("emails", func(ctx context.Context, to string) serialq.Directive {
//	    if err := send(ctx, to); err != nil {
//	        return serialq.Pause
//	    }
//	    return serialq.Continue
//	})
//
//	// Start the queue
//	q, _ := serialq.New(ctx, backend, c)
//	defer q.Close(ctx)
//
//	// Submit work
//	q.Submit(ctx, "user@example.com")
//
//	// After a pause, or a restart with a backlog
//	q.SendCommand(ctx, serialq.CommandResume)
package serialq

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/jdziat/simple-serial-queue/pkg/consumer"
	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/itemctx"
	"github.com/jdziat/simple-serial-queue/pkg/queue"
	"github.com/jdziat/simple-serial-queue/pkg/schedule"
	"github.com/jdziat/simple-serial-queue/pkg/security"
	"github.com/jdziat/simple-serial-queue/pkg/storage"
)

// Type aliases for the public API
type (
	// WorkItem is one stored unit of work.
	WorkItem = core.WorkItem

	// Phase is the engine's coarse state.
	Phase = core.Phase

	// Directive is what Process tells the worker to do next.
	Directive = core.Directive

	// Command is a control request for a paused queue.
	Command = core.Command

	// Request is the envelope accepted by Queue.Dispatch.
	Request = core.Request

	// Consumer is the callback set a host supplies.
	Consumer = core.Consumer

	// Store is a durable ordered collection of work items.
	Store = core.Store

	// Backend opens stores by name.
	Backend = core.Backend

	// Event is the interface for all queue events.
	Event = core.Event

	// ItemEnqueued is emitted when a data request has been persisted.
	ItemEnqueued = core.ItemEnqueued

	// QueueStarted is emitted when a worker run begins.
	QueueStarted = core.QueueStarted

	// ItemProcessed is emitted after Process returns for an item.
	ItemProcessed = core.ItemProcessed

	// ItemSkipped is emitted when an item is discarded unprocessed.
	ItemSkipped = core.ItemSkipped

	// QueuePaused is emitted when the engine pauses.
	QueuePaused = core.QueuePaused

	// QueueResumed is emitted when a command restarts a paused queue.
	QueueResumed = core.QueueResumed

	// QueueEnded is emitted when a run ends and the engine stops.
	QueueEnded = core.QueueEnded

	// CommandRejected is emitted when a command is refused.
	CommandRejected = core.CommandRejected

	// WorkerFailed is emitted when a storage failure ends a worker run.
	WorkerFailed = core.WorkerFailed

	// StorageError reports a failure of the durable store.
	StorageError = core.StorageError

	// ProtocolError reports a rejected control request.
	ProtocolError = core.ProtocolError

	// Queue is the single entry point for one logical queue.
	Queue = queue.Queue

	// Option modifies queue Options.
	Option = queue.Option

	// Options holds queue configuration.
	Options = queue.Options

	// Schedule defines when a paused queue should resume next.
	Schedule = schedule.Schedule

	// GormStorage stores items through GORM.
	GormStorage = storage.GormStorage

	// SQLiteStorage stores items in a pure-Go SQLite database.
	SQLiteStorage = storage.SQLiteStorage

	// MemoryStorage keeps items in process memory.
	MemoryStorage = storage.MemoryStorage

	// TypedConsumer is a Consumer for payloads of type T.
	TypedConsumer[T any] = consumer.Typed[T]

	// ConsumerOption configures consumers built by NewConsumer.
	ConsumerOption = consumer.Option
)

// Phase constants
const (
	PhaseRunning = core.PhaseRunning
	PhasePaused  = core.PhasePaused
	PhaseStopped = core.PhaseStopped
)

// Directive constants
const (
	Continue = core.Continue
	Pause    = core.Pause
	Stop     = core.Stop
)

// Command codes
const (
	CommandResume          = int(core.CommandResume)
	CommandResumeSkipFirst = int(core.CommandResumeSkipFirst)
	CommandAbort           = int(core.CommandAbort)
)

// Security limits
const (
	MaxStoreNameLength = security.MaxStoreNameLength
	MaxPayloadSize     = security.MaxPayloadSize
	MaxMailboxSize     = security.MaxMailboxSize
)

// New opens consumer's store on backend and starts its dispatcher.
// A store that already holds items starts paused.
func New(ctx context.Context, backend Backend, c Consumer, opts ...Option) (*Queue, error) {
	return queue.New(ctx, backend, c, opts...)
}

// NewGormStorage creates a GORM-backed storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return storage.NewGormStorage(db)
}

// OpenSQLite opens a pure-Go SQLite storage at path.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	return storage.OpenSQLite(path)
}

// NewMemoryStorage creates a volatile storage.
func NewMemoryStorage() *MemoryStorage {
	return storage.NewMemoryStorage()
}

// NewConsumer creates a consumer that stores payloads of type T as JSON.
func NewConsumer[T any](name string, process func(ctx context.Context, payload T) Directive, opts ...ConsumerOption) *TypedConsumer[T] {
	return consumer.New(name, process, opts...)
}

// NewFallibleConsumer creates a consumer from an error-returning process
// function: nil continues, ErrStop stops, anything else pauses.
func NewFallibleConsumer[T any](name string, process func(ctx context.Context, payload T) error, opts ...ConsumerOption) *TypedConsumer[T] {
	return consumer.NewFallible(name, process, opts...)
}

// ValidateStoreName validates a store name.
func ValidateStoreName(name string) error {
	return security.ValidateStoreName(name)
}

// Queue option functions

// WithLogger sets the queue's logger.
func WithLogger(l *slog.Logger) Option {
	return queue.WithLogger(l)
}

// WithMailboxSize sets the dispatcher's request buffer.
func WithMailboxSize(n int) Option {
	return queue.WithMailboxSize(n)
}

// WithErrorHandler sets a handler for storage failures that end a worker run.
func WithErrorHandler(fn func(error)) Option {
	return queue.WithErrorHandler(fn)
}

// WithResumeSchedule resumes a paused queue when s is due.
func WithResumeSchedule(s Schedule) Option {
	return queue.WithResumeSchedule(s)
}

// WithLockFile holds an exclusive lock on path for the queue's lifetime.
func WithLockFile(path string) Option {
	return queue.WithLockFile(path)
}

// Consumer option functions

// WithResumeOnNewItem makes a new item restart a paused queue.
func WithResumeOnNewItem() ConsumerOption {
	return consumer.WithResumeOnNewItem()
}

// OnPausing registers a callback for the payload that paused the queue.
func OnPausing(fn func(payload any)) ConsumerOption {
	return consumer.OnPausing(fn)
}

// OnEnded registers a callback for the end of a run.
func OnEnded(fn func(allProcessed bool)) ConsumerOption {
	return consumer.OnEnded(fn)
}

// Schedule functions

// Every creates a schedule that fires at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Daily creates a schedule that fires at a specific time each day.
func Daily(hour, minute int) Schedule {
	return schedule.Daily(hour, minute)
}

// Cron creates a schedule from a cron expression.
func Cron(expr string) Schedule {
	return schedule.Cron(expr)
}

// ItemFromContext returns the item being processed, or nil outside Process.
func ItemFromContext(ctx context.Context) *WorkItem {
	return itemctx.ItemFromContext(ctx)
}

// ItemIDFromContext returns the ID of the item being processed, or 0.
func ItemIDFromContext(ctx context.Context) int64 {
	return itemctx.ItemIDFromContext(ctx)
}
