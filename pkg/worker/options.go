package worker

import (
	"log/slog"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// WorkerOption configures a Worker.
type WorkerOption interface {
	ApplyWorker(*WorkerConfig)
}

type workerOptionFunc func(*WorkerConfig)

func (f workerOptionFunc) ApplyWorker(c *WorkerConfig) { f(c) }

// WorkerConfig holds worker configuration.
type WorkerConfig struct {
	Logger  *slog.Logger
	Emit    func(core.Event)
	OnError func(error)
}

// WithLogger sets the worker's logger.
func WithLogger(l *slog.Logger) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		c.Logger = l
	})
}

// WithEmitter sets the function that receives worker events.
// It is called inside the critical section and must not block.
func WithEmitter(emit func(core.Event)) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		c.Emit = emit
	})
}

// WithErrorHandler sets a function called with storage failures that end a run.
func WithErrorHandler(fn func(error)) WorkerOption {
	return workerOptionFunc(func(c *WorkerConfig) {
		c.OnError = fn
	})
}
