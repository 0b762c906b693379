package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandConstants(t *testing.T) {
	assert.Equal(t, Command(0), CommandResume)
	assert.Equal(t, Command(1), CommandResumeSkipFirst)
	assert.Equal(t, Command(2), CommandAbort)
}

func TestParseCommand(t *testing.T) {
	for _, code := range []int{0, 1, 2} {
		c, err := ParseCommand(code)
		require.NoError(t, err)
		assert.Equal(t, Command(code), c)
	}

	_, err := ParseCommand(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Command)

	_, err = ParseCommand(-1)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "resume", CommandResume.String())
	assert.Equal(t, "resume-skip-first", CommandResumeSkipFirst.String())
	assert.Equal(t, "abort", CommandAbort.String())
	assert.Equal(t, "command(7)", Command(7).String())
}

func TestRequest_CommandFieldDistinguishesKinds(t *testing.T) {
	assert.False(t, DataRequest("x").IsCommand())
	assert.True(t, CommandRequest(0).IsCommand())

	var data Request
	require.NoError(t, json.Unmarshal([]byte(`{"payload":"hello"}`), &data))
	assert.False(t, data.IsCommand())
	assert.Equal(t, "hello", data.Payload)

	var cmd Request
	require.NoError(t, json.Unmarshal([]byte(`{"command":1}`), &cmd))
	require.True(t, cmd.IsCommand())
	assert.Equal(t, 1, *cmd.Command)
}
