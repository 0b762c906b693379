package consumer

import "log/slog"

type config struct {
	logger      *slog.Logger
	resumeOnNew bool
	onStarting  func()
	onPausing   func(payload any)
	onEnded     func(allProcessed bool)
}

// Option configures a consumer built by this package.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithLogger sets the logger used for encode and decode failures.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = l
	})
}

// WithResumeOnNewItem makes a new item restart a paused queue.
func WithResumeOnNewItem() Option {
	return optionFunc(func(c *config) {
		c.resumeOnNew = true
	})
}

// OnStarting registers a callback for the start of every worker run.
func OnStarting(fn func()) Option {
	return optionFunc(func(c *config) {
		c.onStarting = fn
	})
}

// OnPausing registers a callback for the payload that paused the queue.
func OnPausing(fn func(payload any)) Option {
	return optionFunc(func(c *config) {
		c.onPausing = fn
	})
}

// OnEnded registers a callback for the end of a run.
func OnEnded(fn func(allProcessed bool)) Option {
	return optionFunc(func(c *config) {
		c.onEnded = fn
	})
}

func buildConfig(opts []Option) *config {
	c := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// hooks implements the lifecycle half of core.Consumer.
type hooks struct {
	name string
	cfg  *config
}

func (h hooks) OnQueueStarting() {
	if h.cfg.onStarting != nil {
		h.cfg.onStarting()
	}
}

func (h hooks) OnQueuePausing(payload any) {
	if h.cfg.onPausing != nil {
		h.cfg.onPausing(payload)
	}
}

func (h hooks) OnQueueEnded(allProcessed bool) {
	if h.cfg.onEnded != nil {
		h.cfg.onEnded(allProcessed)
	}
}

func (h hooks) ResumeOnNewItem() bool { return h.cfg.resumeOnNew }

func (h hooks) StoreIdentifier() string { return h.name }
