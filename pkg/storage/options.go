package storage

import (
	"log/slog"
	"time"
)

// Option configures a storage backend.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		now:    time.Now,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithClock sets the time source used to stamp appended items.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(o *options) {
		if now != nil {
			o.now = now
		}
	})
}

// enqueueStamp returns the timestamp for a new item. Stamps never go
// backwards relative to the newest stored item, so a clock step cannot
// reorder the queue.
func enqueueStamp(now time.Time, newest int64) int64 {
	ms := now.UnixMilli()
	if ms < newest {
		return newest
	}
	return ms
}
