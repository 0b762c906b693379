package worker

import (
	"sync"
	"sync/atomic"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// State is the engine state shared by the dispatcher and the worker: the
// phase plus the handle of the active worker run, if any.
//
// Every read-then-act sequence over the store and the state runs inside Do.
// Phase and IsPaused are lock-free and may be called from anywhere,
// including lifecycle callbacks.
type State struct {
	mu     sync.Mutex
	phase  atomic.Int32
	active *Handle
}

// NewState returns a State in the given phase with no active worker.
func NewState(initial core.Phase) *State {
	s := &State{}
	s.phase.Store(int32(initial))
	return s
}

// Phase returns the current phase without taking the lock.
func (s *State) Phase() core.Phase {
	return core.Phase(s.phase.Load())
}

// IsPaused reports whether the engine is paused.
func (s *State) IsPaused() bool {
	return s.Phase() == core.PhasePaused
}

// Do runs fn inside the critical section.
func (s *State) Do(fn func(t *Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Txn{s: s}
	defer func() { t.s = nil }()
	return fn(t)
}

// Txn is the view of State inside the critical section. It must not be
// retained after the function passed to Do returns.
type Txn struct {
	s *State
}

// Phase returns the current phase.
func (t *Txn) Phase() core.Phase {
	return t.s.Phase()
}

// Active returns the active worker handle, or nil.
func (t *Txn) Active() *Handle {
	return t.s.active
}

// Owns reports whether h is the active worker handle.
func (t *Txn) Owns(h *Handle) bool {
	return h != nil && t.s.active == h
}

// StartWorker records h as the active run and moves to Running.
func (t *Txn) StartWorker(h *Handle) {
	t.s.active = h
	t.setPhase(core.PhaseRunning)
}

// RequestPause ends run h and moves to Paused.
func (t *Txn) RequestPause(h *Handle) {
	t.release(h)
	t.setPhase(core.PhasePaused)
}

// RequestStop ends run h after a Stop directive and moves to Stopped.
func (t *Txn) RequestStop(h *Handle) {
	t.release(h)
	t.setPhase(core.PhaseStopped)
}

// Complete ends run h after the store drained and moves to Stopped.
func (t *Txn) Complete(h *Handle) {
	t.release(h)
	t.setPhase(core.PhaseStopped)
}

// Detach ends run h without changing the phase. A Running engine with no
// active worker starts a new one on the next data request.
func (t *Txn) Detach(h *Handle) {
	t.release(h)
}

// Abort moves to Stopped without a worker run, as the Abort command does.
func (t *Txn) Abort() {
	t.setPhase(core.PhaseStopped)
}

func (t *Txn) release(h *Handle) {
	if t.s.active == h {
		t.s.active = nil
	}
}

func (t *Txn) setPhase(p core.Phase) {
	t.s.phase.Store(int32(p))
}
