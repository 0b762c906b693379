package serialq

import (
	"github.com/jdziat/simple-serial-queue/pkg/consumer"
	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// Error variables
var (
	ErrInvalidStoreName = core.ErrInvalidStoreName
	ErrStoreNameTooLong = core.ErrStoreNameTooLong
	ErrPayloadTooLarge  = core.ErrPayloadTooLarge
	ErrUnknownCommand   = core.ErrUnknownCommand
	ErrNotPaused        = core.ErrNotPaused
	ErrQueueClosed      = core.ErrQueueClosed
	ErrStorage          = core.ErrStorage
	ErrNilConsumer      = core.ErrNilConsumer
	ErrQueueLocked      = core.ErrQueueLocked
	ErrListUnsupported  = core.ErrListUnsupported

	// ErrStop returned from a fallible consumer stops the queue.
	ErrStop = consumer.ErrStop
)
