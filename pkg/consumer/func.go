package consumer

import (
	"context"
	"encoding/json"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/internal/handler"
)

// Func is a core.Consumer around a function inspected at run time.
type Func struct {
	hooks
	h *handler.Handler
}

var _ core.Consumer = (*Func)(nil)

// FromFunc creates a consumer from fn, which must look like
//
//	func(ctx context.Context, args T) core.Directive
//	func(ctx context.Context, args T) error
//
// The context argument is optional. Payloads are stored as JSON and decoded
// into T before fn is called.
func FromFunc(name string, fn any, opts ...Option) (*Func, error) {
	h, err := handler.NewHandler(fn)
	if err != nil {
		return nil, err
	}
	return &Func{hooks: hooks{name: name, cfg: buildConfig(opts)}, h: h}, nil
}

func (f *Func) Serialize(payload any) string {
	if payload == nil {
		return ""
	}
	b, err := json.Marshal(payload)
	if err != nil {
		f.cfg.logger.Warn("failed to encode payload", "store", f.name, "error", err)
		return ""
	}
	return string(b)
}

func (f *Func) Deserialize(data string) (any, bool) {
	v, err := f.h.Decode(data)
	if err != nil {
		f.cfg.logger.Warn("failed to decode payload", "store", f.name, "error", err)
		return nil, false
	}
	return v, true
}

func (f *Func) Process(ctx context.Context, payload any) core.Directive {
	d, err := f.h.Call(ctx, payload)
	if f.h.ReturnsDirective && err == nil {
		return d
	}
	if err != nil {
		f.cfg.logger.Warn("process failed", "store", f.name, "error", err)
	}
	return DirectiveFor(err)
}
