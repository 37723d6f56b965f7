// Package agentcore provides a high-level façade over the provider registry,
// tool host client, and agent execution loop. Most applications interact with
// this package by:
//  1. Creating an agent via New() with a model name, letting the registry
//     resolve the owning backend
//  2. Running it against a goal (Agent.Run)
//  3. Closing it to release tool host connections (Agent.Close)
//
// The façade delegates loop mechanics to agent.Agent while keeping setup
// concise. Backends are constructed from environment credentials; supply a
// pre-built registry to override.
package agentcore

import (
	"context"
	"time"

	"agentcore/agent"
	"agentcore/chat"
	"agentcore/logging"
	"agentcore/provider"
	"agentcore/provider/anthropic"
	"agentcore/provider/gemini"
	"agentcore/provider/ollama"
	"agentcore/provider/openai"
	"agentcore/toolhost"
)

// Options configures agent construction through the façade.
type Options struct {
	// Registry resolves model names to backends. Defaults to
	// DefaultRegistry().
	Registry *provider.Registry

	// Provider pins the backend directly, skipping resolution.
	Provider provider.Provider

	// Strategy selects the agent's execution loop. Defaults to react.
	Strategy agent.Strategy

	// SystemPrompt seeds the conversation history when non-empty.
	SystemPrompt string

	// ToolServers lists MCP servers to launch and connect over stdio. The
	// first connection failure aborts construction.
	ToolServers []toolhost.ServerSpec

	// ModelTimeout bounds each model call. Zero disables the bound.
	ModelTimeout time.Duration

	// ToolTimeout bounds each tool call. Zero disables the bound.
	ToolTimeout time.Duration

	// DiscardActText drops prose emitted alongside tool calls.
	DiscardActText bool

	// Logger receives diagnostics from the agent and its tool host.
	Logger logging.Logger
}

// DefaultRegistry builds a registry over all supported backends in their
// standard resolution order. Backends read credentials from the environment
// and report themselves not ready when credentials are absent.
func DefaultRegistry(optFns ...func(o *provider.RegistryOptions)) *provider.Registry {
	providers := []provider.Provider{
		openai.New(),
		anthropic.New(),
		gemini.New(),
	}
	if ol, err := ollama.New(); err == nil {
		providers = append(providers, ol)
	}
	return provider.NewRegistry(providers, optFns...)
}

// New creates an agent for the given model. When no backend is pinned the
// registry is consulted to find the one that serves the model. Tool servers,
// if any, are connected before the agent is returned; the agent owns the
// connection and Close releases it.
func New(ctx context.Context, model string, optFns ...func(o *Options)) (*agent.Agent, error) {
	opts := Options{
		Strategy:     agent.StrategyReact,
		ModelTimeout: 2 * time.Minute,
		ToolTimeout:  15 * time.Second,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	// Reject a bad strategy before any backend or server work happens.
	if _, err := agent.ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}

	p := opts.Provider
	if p == nil {
		registry := opts.Registry
		if registry == nil {
			registry = DefaultRegistry(func(o *provider.RegistryOptions) {
				o.Logger = opts.Logger
			})
		}
		resolved, err := registry.Resolve(ctx, model)
		if err != nil {
			return nil, err
		}
		p = resolved
	}

	var host agent.ToolHost
	if len(opts.ToolServers) > 0 {
		client := toolhost.NewClient(func(o *toolhost.Options) {
			o.Logger = opts.Logger
		})
		// Stdio transport carries a single server per client.
		if err := client.Connect(ctx, opts.ToolServers[0]); err != nil {
			return nil, err
		}
		host = client
	}

	a, err := agent.New(p, model, func(o *agent.Options) {
		o.Strategy = opts.Strategy
		o.SystemPrompt = opts.SystemPrompt
		o.ToolHost = host
		o.ModelTimeout = opts.ModelTimeout
		o.ToolTimeout = opts.ToolTimeout
		o.DiscardActText = opts.DiscardActText
		o.Logger = opts.Logger
	})
	if err != nil {
		if host != nil {
			_ = host.Close()
		}
		return nil, err
	}
	return a, nil
}

// NewConversation creates a plain chat session for the given model, resolving
// the backend the same way New does.
func NewConversation(ctx context.Context, model string, optFns ...func(o *Options)) (*chat.Conversation, error) {
	opts := Options{
		ModelTimeout: 2 * time.Minute,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	p := opts.Provider
	if p == nil {
		registry := opts.Registry
		if registry == nil {
			registry = DefaultRegistry(func(o *provider.RegistryOptions) {
				o.Logger = opts.Logger
			})
		}
		resolved, err := registry.Resolve(ctx, model)
		if err != nil {
			return nil, err
		}
		p = resolved
	}

	return chat.NewConversation(p, model, func(o *chat.Options) {
		o.SystemPrompt = opts.SystemPrompt
		o.ModelTimeout = opts.ModelTimeout
		o.Logger = opts.Logger
	}), nil
}
