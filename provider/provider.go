package provider

import (
	"context"
	"errors"
	"fmt"

	"agentcore/core"
)

// ErrBackendNotReady indicates a provider is missing the credentials or
// local handles it needs to serve requests.
var ErrBackendNotReady = errors.New("backend not ready")

// ErrModelNotFound indicates no registered provider lists the requested model.
var ErrModelNotFound = errors.New("model not found")

// BackendError wraps a transport or API failure from a specific backend so
// callers can both match it with errors.As and unwrap the vendor cause.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s api error: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Response is the canonical generation result every backend reduces to:
// zero or more tool calls plus the visible assistant text. Both fields may
// be populated at once; the controller decides what to retain.
type Response struct {
	ToolCalls []core.ToolCall
	Text      string
}

// Provider is the model capability contract, implemented once per backend.
type Provider interface {
	// Name returns the stable provider identifier ("openai", "ollama", ...).
	Name() string

	// GenerateResponse translates the canonical history into one backend
	// call and reduces the reply to a canonical Response. It fails with
	// ErrBackendNotReady when credentials are absent and with a
	// *BackendError on transport failure; it never returns partial data
	// alongside an error.
	GenerateResponse(ctx context.Context, history []core.Message, model string, tools []core.ToolSpec) (*Response, error)

	// ListModels returns the model identifiers this backend serves. Model
	// discovery is advisory: the resolver treats any error as an empty list.
	ListModels(ctx context.Context) ([]string, error)
}
