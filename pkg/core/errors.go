package core

import (
	"errors"
	"fmt"
)

// Validation and protocol errors
var (
	ErrInvalidStoreName = errors.New("serialq: invalid store name (must be alphanumeric, start with letter)")
	ErrStoreNameTooLong = errors.New("serialq: store name too long")
	ErrPayloadTooLarge  = errors.New("serialq: serialized payload exceeds size limit")
	ErrUnknownCommand   = errors.New("serialq: unknown command code")
	ErrNotPaused        = errors.New("serialq: queue is not paused")
	ErrQueueClosed      = errors.New("serialq: queue is closed")
	ErrStorage          = errors.New("serialq: storage failure")
	ErrNilConsumer      = errors.New("serialq: consumer cannot be nil")
	ErrQueueLocked      = errors.New("serialq: queue is locked by another process")
	ErrInvalidDirective = errors.New("serialq: invalid directive")
	ErrListUnsupported  = errors.New("serialq: store cannot list items")
)

// StorageError reports a failure to open, read or write the durable store.
// It is never retried by the engine.
type StorageError struct {
	Op    string
	Store string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("serialq: storage %s on %q: %v", e.Op, e.Store, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// WrapStorage wraps err as a StorageError. It returns nil for a nil err and
// leaves existing StorageErrors untouched.
func WrapStorage(op, store string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Store: store, Err: err}
}

// ProtocolError reports a rejected control request.
type ProtocolError struct {
	Command int
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("serialq: command %d rejected: %v", e.Command, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
