package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("disk full")
	wrapped := WrapStorage("append", "lookups", originalErr)

	var se *StorageError
	require.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "append", se.Op)
	assert.Equal(t, "lookups", se.Store)
	assert.Equal(t, originalErr, se.Unwrap())
	assert.True(t, errors.Is(wrapped, ErrStorage))
	assert.True(t, errors.Is(wrapped, originalErr))
	assert.Contains(t, se.Error(), "disk full")
	assert.Contains(t, se.Error(), "lookups")
}

func TestWrapStorage_NilAndIdempotent(t *testing.T) {
	assert.NoError(t, WrapStorage("count", "q", nil))

	first := WrapStorage("count", "q", errors.New("boom"))
	second := WrapStorage("clear", "q", first)
	assert.Same(t, first, second)
}

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Command: 0, Err: ErrNotPaused}

	assert.True(t, errors.Is(err, ErrNotPaused))
	assert.False(t, errors.Is(err, ErrStorage))
	assert.Contains(t, err.Error(), "command 0 rejected")
}

func TestErrorVariables(t *testing.T) {
	assert.Contains(t, ErrInvalidStoreName.Error(), "invalid store name")
	assert.Contains(t, ErrNotPaused.Error(), "not paused")
	assert.Contains(t, ErrUnknownCommand.Error(), "unknown command")
	assert.Contains(t, ErrQueueClosed.Error(), "closed")
}
