package core

import "context"

// Consumer is the callback set a host application supplies to the engine.
//
// The engine never inspects payloads; it passes them to Serialize on the way
// in and hands whatever Deserialize returns to Process on the way out.
//
// OnQueueStarting, OnQueuePausing and OnQueueEnded are called while the engine
// holds its critical section so they are ordered with the transitions they
// report. They must return promptly and must not call back into the queue
// other than IsPaused and Phase. Use a goroutine to submit from a callback.
type Consumer interface {
	// Serialize turns a payload into a storable string. An empty result is
	// stored as an empty payload.
	Serialize(payload any) string

	// Deserialize rebuilds a payload. Returning false drops the row without
	// calling Process.
	Deserialize(data string) (any, bool)

	// Process does the work for one payload. It runs on the worker goroutine,
	// never on the dispatcher. ctx is cancelled when the queue closes or the
	// worker is interrupted.
	Process(ctx context.Context, payload any) Directive

	// OnQueueStarting is called at the start of every worker run, before the
	// first item is examined.
	OnQueueStarting()

	// OnQueuePausing is called with the payload whose Process returned Pause.
	OnQueuePausing(payload any)

	// OnQueueEnded is called when a run ends. allProcessed is false when a
	// Stop directive or Abort command is about to discard the store.
	OnQueueEnded(allProcessed bool)

	// ResumeOnNewItem reports whether a new item arriving while paused should
	// restart the worker.
	ResumeOnNewItem() bool

	// StoreIdentifier names the backing store. It must be stable and unique
	// per logical queue.
	StoreIdentifier() string
}
