// Package openai implements the provider contract on top of the OpenAI Chat
// Completions API (including function/tool calling). It adapts the canonical
// history into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"
	"os"

	"agentcore/core"
	"agentcore/provider"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Options configure the OpenAI provider adapter. Fields mirror a minimal
// subset of Chat Completion parameters; extend via functional options
// without breaking callers.
type Options struct {
	APIKey              string
	Temperature         float64
	MaxCompletionTokens int64
}

// Provider wraps the OpenAI Chat Completions API behind the generic
// provider.Provider interface.
type Provider struct {
	client *openai.Client
	ready  bool
	opts   Options
}

var _ provider.Provider = (*Provider)(nil)

// New creates an OpenAI provider. The API key defaults to the
// OPENAI_API_KEY environment variable; without one the provider constructs
// but reports ErrBackendNotReady on generation.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	p := &Provider{opts: opts}
	if opts.APIKey != "" {
		client := openai.NewClient(option.WithAPIKey(opts.APIKey))
		p.client = &client
		p.ready = true
	}
	return p
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "openai" }

// ListModels returns the model identifiers served by the OpenAI account.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	if !p.ready {
		return nil, fmt.Errorf("openai: %w", provider.ErrBackendNotReady)
	}

	page, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, &provider.BackendError{Provider: "openai", Err: err}
	}

	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// GenerateResponse implements provider.Provider for the non-streaming Chat
// Completions call.
func (p *Provider) GenerateResponse(ctx context.Context, history []core.Message, model string, tools []core.ToolSpec) (*provider.Response, error) {
	if !p.ready {
		return nil, fmt.Errorf("openai: %w", provider.ErrBackendNotReady)
	}

	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(history),
		Model:               model,
		Temperature:         openai.Float(p.opts.Temperature),
		MaxCompletionTokens: openai.Int(p.opts.MaxCompletionTokens),
	}
	if len(tools) > 0 {
		params.Tools = buildTools(tools)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &provider.BackendError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.BackendError{Provider: "openai", Err: fmt.Errorf("no choices returned")}
	}

	msg := resp.Choices[0].Message
	return &provider.Response{
		Text:      msg.Content,
		ToolCalls: toCanonicalToolCalls(msg.ToolCalls),
	}, nil
}

// buildMessages converts the canonical history into OpenAI chat messages.
// The mapping is nearly 1:1: tool results become role "tool" keyed by call
// id, and assistant turns carrying tool calls omit their content field.
func buildMessages(history []core.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case core.RoleTool:
			messages = append(messages, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case core.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(msg.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					ToolCalls: toolCalls,
				},
			})
		default:
			if msg.Content != "" {
				messages = append(messages, openai.UserMessage(msg.Content))
			}
		}
	}
	return messages
}

// buildTools maps the neutral tool catalog into OpenAI function definitions.
func buildTools(tools []core.ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.InputSchema),
			},
		}
	}
	return out
}

// toCanonicalToolCalls reduces SDK tool calls to the canonical form.
func toCanonicalToolCalls(calls []openai.ChatCompletionMessageToolCall) []core.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]core.ToolCall, len(calls))
	for i, tc := range calls {
		out[i] = core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return out
}
