package core

import "fmt"

// Command is a control request for a paused queue.
type Command int

// Command codes. These values are part of the wire protocol and must not change.
const (
	// CommandResume restarts a paused queue from its current earliest item.
	CommandResume Command = 0
	// CommandResumeSkipFirst discards the earliest item without processing it
	// and then resumes.
	CommandResumeSkipFirst Command = 1
	// CommandAbort notifies the consumer, empties the store and stops the queue.
	CommandAbort Command = 2
)

// ParseCommand validates a raw command code.
func ParseCommand(code int) (Command, error) {
	switch c := Command(code); c {
	case CommandResume, CommandResumeSkipFirst, CommandAbort:
		return c, nil
	default:
		return 0, &ProtocolError{Command: code, Err: ErrUnknownCommand}
	}
}

func (c Command) String() string {
	switch c {
	case CommandResume:
		return "resume"
	case CommandResumeSkipFirst:
		return "resume-skip-first"
	case CommandAbort:
		return "abort"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Request is the envelope accepted by the dispatcher. A nil Command marks a
// data request carrying Payload; otherwise Payload is ignored.
type Request struct {
	Command *int `json:"command,omitempty"`
	Payload any  `json:"payload,omitempty"`
}

// DataRequest builds a request that enqueues payload.
func DataRequest(payload any) Request {
	return Request{Payload: payload}
}

// CommandRequest builds a control request for code.
func CommandRequest(code int) Request {
	return Request{Command: &code}
}

// IsCommand reports whether r is a control request.
func (r Request) IsCommand() bool {
	return r.Command != nil
}
