// Package ollama implements the provider contract on top of a local Ollama
// server.
//
// Two quirks are handled here: models may emit free-text "thinking" wrapped
// in <think>...</think> delimiters, which is stripped from the visible
// answer, and the backend returns tool calls without ids, so ids are
// synthesized before the calls enter the canonical history.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"agentcore/core"
	"agentcore/provider"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"
)

// DefaultBaseURL is the default local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// contextWindow raises the context length from Ollama's small default so
// multi-step agent histories fit in one call.
const contextWindow = 32768

var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

func boolPtr(b bool) *bool { return &b }

// Options configure the Ollama provider adapter.
type Options struct {
	BaseURL string
}

// Provider wraps the Ollama chat API behind the generic provider.Provider
// interface. Ollama requires no credentials; the provider is always ready.
type Provider struct {
	client *api.Client
	opts   Options
}

var _ provider.Provider = (*Provider)(nil)

// New creates an Ollama provider pointing at the given base URL (the local
// default when unset).
func New(optFns ...func(o *Options)) (*Provider, error) {
	opts := Options{BaseURL: DefaultBaseURL}
	for _, fn := range optFns {
		fn(&opts)
	}

	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", opts.BaseURL, err)
	}

	return &Provider{
		client: api.NewClient(parsed, http.DefaultClient),
		opts:   opts,
	}, nil
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "ollama" }

// ListModels returns the models installed on the Ollama server.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, &provider.BackendError{Provider: "ollama", Err: err}
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// GenerateResponse implements provider.Provider for a non-streaming chat
// call.
func (p *Provider) GenerateResponse(ctx context.Context, history []core.Message, model string, tools []core.ToolSpec) (*provider.Response, error) {
	req := &api.ChatRequest{
		Model:    model,
		Messages: buildMessages(history),
		Stream:   boolPtr(false),
		Options:  map[string]any{"num_ctx": contextWindow},
	}
	if len(tools) > 0 {
		ollamaTools, err := buildTools(tools)
		if err != nil {
			return nil, err
		}
		req.Tools = ollamaTools
	}

	var final api.ChatResponse
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		final = resp
		return nil
	})
	if err != nil {
		return nil, &provider.BackendError{Provider: "ollama", Err: err}
	}

	return &provider.Response{
		Text:      filterThinking(final.Message.Content),
		ToolCalls: toCanonicalToolCalls(final.Message.ToolCalls),
	}, nil
}

// filterThinking strips <think>...</think> spans from the visible answer.
func filterThinking(text string) string {
	return thinkPattern.ReplaceAllString(text, "")
}

// buildMessages converts the canonical history into Ollama chat messages.
// Tool results keep role "tool" but drop the call id, which Ollama does not
// track.
func buildMessages(history []core.Message) []api.Message {
	messages := make([]api.Message, 0, len(history))
	for _, msg := range history {
		m := api.Message{Role: string(msg.Role), Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Name,
					Arguments: decodeArguments(tc.Arguments),
				},
			})
		}
		messages = append(messages, m)
	}
	return messages
}

func decodeArguments(args string) api.ToolCallFunctionArguments {
	decoded := api.ToolCallFunctionArguments{}
	if args == "" {
		return decoded
	}
	if err := json.Unmarshal([]byte(args), &decoded); err != nil {
		return api.ToolCallFunctionArguments{}
	}
	return decoded
}

// toCanonicalToolCalls reduces Ollama tool calls to the canonical form,
// synthesizing the ids the backend never provides.
func toCanonicalToolCalls(calls []api.ToolCall) []core.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]core.ToolCall, len(calls))
	for i, tc := range calls {
		args := "{}"
		if raw, err := json.Marshal(tc.Function.Arguments); err == nil {
			args = string(raw)
		}
		out[i] = core.ToolCall{
			ID:        "call_" + uuid.NewString(),
			Name:      tc.Function.Name,
			Arguments: args,
		}
	}
	return out
}

// buildTools maps the neutral tool catalog into Ollama tool declarations.
// The JSON-schema map is reshaped through a marshal round trip into the
// SDK's typed parameter struct.
func buildTools(tools []core.ToolSpec) ([]api.Tool, error) {
	out := make([]api.Tool, len(tools))
	for i, t := range tools {
		raw, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("invalid schema for tool %s: %w", t.Name, err)
		}
		var params api.ToolFunctionParameters
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, fmt.Errorf("invalid schema for tool %s: %w", t.Name, err)
		}
		out[i] = api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		}
	}
	return out, nil
}
