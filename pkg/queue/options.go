package queue

import (
	"log/slog"

	"github.com/jdziat/simple-serial-queue/pkg/schedule"
	"github.com/jdziat/simple-serial-queue/pkg/security"
)

// DefaultMailboxSize is the number of requests that may wait for the
// dispatcher before Dispatch blocks.
const DefaultMailboxSize = 64

// Options holds Queue configuration.
type Options struct {
	Logger         *slog.Logger
	MailboxSize    int
	OnError        func(error)
	ResumeSchedule schedule.Schedule
	LockFile       string
	EventBuffer    int
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Logger:      slog.Default(),
		MailboxSize: DefaultMailboxSize,
		EventBuffer: 100,
	}
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// WithLogger sets the logger for the dispatcher and its worker.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	})
}

// WithMailboxSize sets the dispatcher's request buffer.
// Values are clamped to [1, MaxMailboxSize] (10000).
func WithMailboxSize(n int) Option {
	return optionFunc(func(o *Options) {
		o.MailboxSize = security.ClampMailboxSize(n)
	})
}

// WithErrorHandler sets a function called with storage failures that end a
// worker run. Failures of Submit and SendCommand are returned to the caller
// instead.
func WithErrorHandler(fn func(error)) Option {
	return optionFunc(func(o *Options) {
		o.OnError = fn
	})
}

// WithResumeSchedule resumes a paused queue automatically. The next resume
// is due at s.Next(pausedAt), measured from when the pause was observed.
// This includes the pause a restart with a non-empty store begins in.
func WithResumeSchedule(s schedule.Schedule) Option {
	return optionFunc(func(o *Options) {
		o.ResumeSchedule = s
	})
}

// WithLockFile holds an exclusive lock on path for the lifetime of the
// queue. New fails with core.ErrQueueLocked if another process holds it.
func WithLockFile(path string) Option {
	return optionFunc(func(o *Options) {
		o.LockFile = path
	})
}

// WithEventBuffer sets the buffer of each channel returned by Events.
func WithEventBuffer(n int) Option {
	return optionFunc(func(o *Options) {
		if n > 0 {
			o.EventBuffer = n
		}
	})
}
