package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

func TestState_Initial(t *testing.T) {
	s := NewState(core.PhasePaused)
	assert.Equal(t, core.PhasePaused, s.Phase())
	assert.True(t, s.IsPaused())

	s = NewState(core.PhaseStopped)
	assert.False(t, s.IsPaused())
}

func TestState_Transitions(t *testing.T) {
	s := NewState(core.PhaseStopped)
	h := newHandle(context.Background())
	defer h.Interrupt()

	tests := []struct {
		name  string
		apply func(*Txn)
		phase core.Phase
	}{
		{"start", func(tx *Txn) { tx.StartWorker(h) }, core.PhaseRunning},
		{"pause", func(tx *Txn) { tx.RequestPause(h) }, core.PhasePaused},
		{"restart", func(tx *Txn) { tx.StartWorker(h) }, core.PhaseRunning},
		{"stop", func(tx *Txn) { tx.RequestStop(h) }, core.PhaseStopped},
		{"restart again", func(tx *Txn) { tx.StartWorker(h) }, core.PhaseRunning},
		{"complete", func(tx *Txn) { tx.Complete(h) }, core.PhaseStopped},
	}

	for _, tt := range tests {
		require.NoError(t, s.Do(func(tx *Txn) error {
			tt.apply(tx)
			return nil
		}), tt.name)
		assert.Equal(t, tt.phase, s.Phase(), tt.name)
	}
}

func TestState_PausedHasNoActiveWorker(t *testing.T) {
	s := NewState(core.PhaseStopped)
	h := newHandle(context.Background())
	defer h.Interrupt()

	_ = s.Do(func(tx *Txn) error {
		tx.StartWorker(h)
		assert.True(t, tx.Owns(h))
		tx.RequestPause(h)
		assert.Nil(t, tx.Active())
		assert.False(t, tx.Owns(h))
		return nil
	})
}

func TestState_DetachKeepsPhase(t *testing.T) {
	s := NewState(core.PhaseStopped)
	h := newHandle(context.Background())
	defer h.Interrupt()

	_ = s.Do(func(tx *Txn) error {
		tx.StartWorker(h)
		tx.Detach(h)
		return nil
	})
	assert.Equal(t, core.PhaseRunning, s.Phase())
}

func TestState_ReleaseIgnoresForeignHandle(t *testing.T) {
	s := NewState(core.PhaseStopped)
	current := newHandle(context.Background())
	stale := newHandle(context.Background())
	defer current.Interrupt()
	defer stale.Interrupt()

	_ = s.Do(func(tx *Txn) error {
		tx.StartWorker(current)
		tx.Detach(stale)
		assert.Same(t, current, tx.Active())
		return nil
	})
}

func TestState_Abort(t *testing.T) {
	s := NewState(core.PhasePaused)
	_ = s.Do(func(tx *Txn) error {
		tx.Abort()
		return nil
	})
	assert.Equal(t, core.PhaseStopped, s.Phase())
}

func TestState_DoReturnsError(t *testing.T) {
	s := NewState(core.PhaseStopped)
	want := errors.New("boom")
	err := s.Do(func(*Txn) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestHandle(t *testing.T) {
	h := newHandle(context.Background())
	assert.NotEmpty(t, h.ID)
	assert.False(t, h.Interrupted())

	h.Interrupt()
	assert.True(t, h.Interrupted())

	other := newHandle(context.Background())
	defer other.Interrupt()
	assert.NotEqual(t, h.ID, other.ID)
}

func TestWorkerOptions(t *testing.T) {
	var cfg WorkerConfig
	called := false

	WithErrorHandler(func(error) { called = true }).ApplyWorker(&cfg)
	WithEmitter(func(core.Event) {}).ApplyWorker(&cfg)

	require.NotNil(t, cfg.OnError)
	require.NotNil(t, cfg.Emit)
	cfg.OnError(errors.New("x"))
	assert.True(t, called)
}
