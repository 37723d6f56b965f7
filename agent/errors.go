package agent

import "errors"

var (
	// ErrUnknownStrategy indicates a strategy name outside the supported set.
	ErrUnknownStrategy = errors.New("unknown agent strategy")

	// ErrActRetryExhausted indicates the model produced no tool call across
	// the maximum number of act attempts.
	ErrActRetryExhausted = errors.New("agent failed to act")

	// ErrMaxStepsExceeded indicates a react run hit its step limit while the
	// goal was still incomplete.
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")

	// ErrNoToolHost indicates the model requested a tool call but the agent
	// was built without a tool host.
	ErrNoToolHost = errors.New("tool call requested but no tool host configured")

	// ErrClosed indicates the agent was used after Close.
	ErrClosed = errors.New("agent is closed")
)
