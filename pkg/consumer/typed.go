package consumer

import (
	"context"
	"fmt"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// Typed is a core.Consumer for payloads of type T.
type Typed[T any] struct {
	hooks
	codec   Codec[T]
	process func(ctx context.Context, payload T) core.Directive
}

var _ core.Consumer = (*Typed[int])(nil)

// New creates a consumer for the store name that stores payloads as JSON.
func New[T any](name string, process func(ctx context.Context, payload T) core.Directive, opts ...Option) *Typed[T] {
	return NewWithCodec[T](name, JSONCodec[T]{}, process, opts...)
}

// NewWithCodec is New with an explicit codec.
func NewWithCodec[T any](name string, codec Codec[T], process func(ctx context.Context, payload T) core.Directive, opts ...Option) *Typed[T] {
	return &Typed[T]{
		hooks:   hooks{name: name, cfg: buildConfig(opts)},
		codec:   codec,
		process: process,
	}
}

// NewFallible creates a consumer from an error-style process function.
// See DirectiveFor for how errors map onto directives.
func NewFallible[T any](name string, process func(ctx context.Context, payload T) error, opts ...Option) *Typed[T] {
	c := New[T](name, nil, opts...)
	c.process = func(ctx context.Context, payload T) core.Directive {
		err := process(ctx, payload)
		if err != nil {
			c.cfg.logger.Warn("process failed", "store", name, "error", err)
		}
		return DirectiveFor(err)
	}
	return c
}

// Serialize encodes payload. A payload that is not a T, or fails to encode,
// is logged and stored empty; the worker later skips it.
func (c *Typed[T]) Serialize(payload any) string {
	v, ok := payload.(T)
	if !ok {
		c.cfg.logger.Warn("payload has the wrong type", "store", c.name, "type", fmt.Sprintf("%T", payload))
		return ""
	}
	data, err := c.codec.Encode(v)
	if err != nil {
		c.cfg.logger.Warn("failed to encode payload", "store", c.name, "error", err)
		return ""
	}
	return data
}

func (c *Typed[T]) Deserialize(data string) (any, bool) {
	v, err := c.codec.Decode(data)
	if err != nil {
		c.cfg.logger.Warn("failed to decode payload", "store", c.name, "error", err)
		return nil, false
	}
	return v, true
}

func (c *Typed[T]) Process(ctx context.Context, payload any) core.Directive {
	v, ok := payload.(T)
	if !ok {
		c.cfg.logger.Error("payload has the wrong type", "store", c.name, "type", fmt.Sprintf("%T", payload))
		return core.Pause
	}
	return c.process(ctx, v)
}
