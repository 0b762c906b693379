package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Handle identifies one worker run.
type Handle struct {
	ID        string
	StartedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newHandle(parent context.Context) *Handle {
	ctx, cancel := context.WithCancel(parent)
	return &Handle{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Interrupt asks the run to stop. The run notices between items or when
// Process honours its context.
func (h *Handle) Interrupt() {
	h.cancel()
}

// Done is closed when the run's goroutine has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Interrupted reports whether Interrupt was called or the parent context
// ended.
func (h *Handle) Interrupted() bool {
	return h.ctx.Err() != nil
}
