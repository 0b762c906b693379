package consumer

import (
	"errors"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// ErrStop returned from an error-style process function stops the queue and
// discards the remaining items.
var ErrStop = errors.New("serialq: stop queue")

// DirectiveFor maps an error-style process result onto a directive.
func DirectiveFor(err error) core.Directive {
	switch {
	case err == nil:
		return core.Continue
	case errors.Is(err, ErrStop):
		return core.Stop
	default:
		return core.Pause
	}
}
