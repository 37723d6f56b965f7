package chat

import (
	"context"
	"time"

	"agentcore/core"
	"agentcore/logging"
	"agentcore/provider"
)

// Options configures a Conversation instance.
type Options struct {
	// SystemPrompt seeds the history when non-empty.
	SystemPrompt string

	// ModelTimeout bounds each model call. Zero disables the bound.
	ModelTimeout time.Duration

	// Logger receives per-turn diagnostics.
	Logger logging.Logger
}

// Conversation is a multi-turn exchange with a single model. Each Send
// appends the user message and the model's reply to the retained history.
//
// A Conversation is not safe for concurrent use.
type Conversation struct {
	provider     provider.Provider
	model        string
	history      *core.History
	logger       logging.Logger
	modelTimeout time.Duration
}

// NewConversation creates a conversation bound to a model capability and
// model name.
func NewConversation(p provider.Provider, model string, optFns ...func(o *Options)) *Conversation {
	opts := Options{
		ModelTimeout: 2 * time.Minute,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Conversation{
		provider:     p,
		model:        model,
		history:      core.NewHistory(opts.SystemPrompt),
		logger:       opts.Logger,
		modelTimeout: opts.ModelTimeout,
	}
}

// Send submits a user message and returns the model's reply. Both sides of
// the exchange are retained in the history. No tool catalog is offered.
func (c *Conversation) Send(ctx context.Context, message string) (string, error) {
	if c.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.modelTimeout)
		defer cancel()
	}

	c.history.Append(core.Message{Role: core.RoleUser, Content: message})

	resp, err := c.provider.GenerateResponse(ctx, c.history.Messages(), c.model, nil)
	if err != nil {
		return "", err
	}

	c.history.Append(core.Message{Role: core.RoleAssistant, Content: resp.Text})
	c.logger.Debug("chat turn completed", "model", c.model)
	return resp.Text, nil
}

// History returns a snapshot of the conversation so far.
func (c *Conversation) History() []core.Message {
	return c.history.Snapshot()
}
