package core

import "fmt"

// Phase is the engine's coarse state.
type Phase int32

const (
	// PhaseRunning means a worker may drain the store. A running engine with
	// no active worker starts one as soon as work arrives.
	PhaseRunning Phase = iota
	// PhasePaused means the store is kept as-is until a control command or a
	// resume-on-new-item policy restarts the worker.
	PhasePaused
	// PhaseStopped means the last run ended, either because the store drained
	// or because a Stop directive or Abort command discarded it.
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Directive is the result a Consumer's Process returns to tell the worker
// what to do next.
type Directive int

const (
	// Continue means processing succeeded. The item is removed and the worker
	// moves on to the next one.
	Continue Directive = iota
	// Pause stops the worker and leaves the item that caused it at the head
	// of the store, to be retried on resume.
	Pause
	// Stop ends the queue: every remaining item, the current one included, is
	// discarded.
	Stop
)

func (d Directive) String() string {
	switch d {
	case Continue:
		return "continue"
	case Pause:
		return "pause"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("directive(%d)", int(d))
	}
}
