package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "running", PhaseRunning.String())
	assert.Equal(t, "paused", PhasePaused.String())
	assert.Equal(t, "stopped", PhaseStopped.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}

func TestPhase_ZeroValueIsRunning(t *testing.T) {
	var p Phase
	assert.Equal(t, PhaseRunning, p)
}

func TestDirective_String(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "pause", Pause.String())
	assert.Equal(t, "stop", Stop.String())
	assert.Equal(t, "directive(-1)", Directive(-1).String())
}
