package core

import "time"

// Event is the interface for all queue events.
type Event interface {
	eventMarker()
}

// ItemEnqueued is emitted when a data request has been persisted.
type ItemEnqueued struct {
	Store     string
	ItemID    int64
	Timestamp time.Time
}

func (*ItemEnqueued) eventMarker() {}

// QueueStarted is emitted when a worker run begins.
type QueueStarted struct {
	Store     string
	RunID     string
	Pending   int64
	Timestamp time.Time
}

func (*QueueStarted) eventMarker() {}

// ItemProcessed is emitted after Process returns for an item.
type ItemProcessed struct {
	Store     string
	RunID     string
	Item      *WorkItem
	Directive Directive
	Duration  time.Duration
	Timestamp time.Time
}

func (*ItemProcessed) eventMarker() {}

// ItemSkipped is emitted when an item is discarded without being processed.
type ItemSkipped struct {
	Store  string
	ItemID int64
	// Reason is "invalid" for rows Deserialize rejected and "command" for a
	// ResumeSkipFirst discard.
	Reason    string
	Timestamp time.Time
}

func (*ItemSkipped) eventMarker() {}

// QueuePaused is emitted when the engine enters the paused phase.
type QueuePaused struct {
	Store     string
	RunID     string
	ItemID    int64
	Timestamp time.Time
}

func (*QueuePaused) eventMarker() {}

// QueueResumed is emitted when a control command restarts a paused queue.
type QueueResumed struct {
	Store     string
	Command   Command
	Timestamp time.Time
}

func (*QueueResumed) eventMarker() {}

// QueueEnded is emitted when a run ends and the engine stops.
type QueueEnded struct {
	Store        string
	RunID        string
	AllProcessed bool
	Discarded    int64
	Timestamp    time.Time
}

func (*QueueEnded) eventMarker() {}

// CommandRejected is emitted when a control request is refused.
type CommandRejected struct {
	Store     string
	Command   int
	Error     error
	Timestamp time.Time
}

func (*CommandRejected) eventMarker() {}

// WorkerFailed is emitted when a storage failure ends a worker run.
type WorkerFailed struct {
	Store     string
	RunID     string
	Error     error
	Timestamp time.Time
}

func (*WorkerFailed) eventMarker() {}
