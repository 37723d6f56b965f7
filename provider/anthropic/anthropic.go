// Package anthropic implements the provider contract on top of the
// Anthropic Messages API.
//
// Anthropic represents a turn as content blocks: tool invocation (tool_use)
// and tool result (tool_result) are both blocks within a message rather
// than separate messages, and system messages are extracted into a
// dedicated top-level field before the call.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"agentcore/core"
	"agentcore/provider"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Options configure the Anthropic provider adapter.
type Options struct {
	APIKey      string
	Temperature float64
	MaxTokens   int64
}

// Provider wraps the Anthropic Messages API behind the generic
// provider.Provider interface.
type Provider struct {
	client *anthropic.Client
	ready  bool
	opts   Options
}

var _ provider.Provider = (*Provider)(nil)

// New creates an Anthropic provider. The API key defaults to the
// ANTHROPIC_API_KEY environment variable; without one the provider
// constructs but reports ErrBackendNotReady on generation.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	p := &Provider{opts: opts}
	if opts.APIKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(opts.APIKey))
		p.client = &client
		p.ready = true
	}
	return p
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "anthropic" }

// ListModels returns the model identifiers served by the Anthropic account.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	if !p.ready {
		return nil, fmt.Errorf("anthropic: %w", provider.ErrBackendNotReady)
	}

	page, err := p.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, &provider.BackendError{Provider: "anthropic", Err: err}
	}

	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, string(m.ID))
	}
	return models, nil
}

// GenerateResponse implements provider.Provider for the non-streaming
// Messages call.
func (p *Provider) GenerateResponse(ctx context.Context, history []core.Message, model string, tools []core.ToolSpec) (*provider.Response, error) {
	if !p.ready {
		return nil, fmt.Errorf("anthropic: %w", provider.ErrBackendNotReady)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		Messages:    buildMessages(history),
		MaxTokens:   p.opts.MaxTokens,
		Temperature: anthropic.Float(p.opts.Temperature),
	}
	if system := extractSystemBlocks(history); len(system) > 0 {
		params.System = system
	}
	if len(tools) > 0 {
		params.Tools = buildTools(tools)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &provider.BackendError{Provider: "anthropic", Err: err}
	}

	var text string
	var toolCalls []core.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text += block.AsText().Text
		case "tool_use":
			toolBlock := block.AsToolUse()
			args := ""
			if toolBlock.Input != nil {
				if raw, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(raw)
				}
			}
			toolCalls = append(toolCalls, core.ToolCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}

	return &provider.Response{Text: text, ToolCalls: toolCalls}, nil
}

// extractSystemBlocks collects system messages for the dedicated top-level
// system field; they never appear in the message list itself.
func extractSystemBlocks(history []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range history {
		if msg.Role == core.RoleSystem && msg.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: msg.Content})
		}
	}
	return blocks
}

// buildMessages converts the canonical history into Anthropic turns. Tool
// results are embedded as tool_result blocks inside a user turn keyed by
// the originating call id.
func buildMessages(history []core.Message) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, msg := range history {
		switch msg.Role {
		case core.RoleSystem:
			continue
		case core.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case core.RoleTool:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false),
			))
		case core.RoleAssistant:
			var content []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				content = append(content, anthropic.NewTextBlock(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				content = append(content, anthropic.NewToolUseBlock(tc.ID, parseArguments(tc.Arguments), tc.Name))
			}
			if len(content) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(content...))
			}
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return messages
}

// parseArguments decodes the serialized argument payload for a tool_use
// block, falling back to the raw string when it is not valid JSON.
func parseArguments(args string) any {
	if args == "" {
		return map[string]any{}
	}
	var input any
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return args
	}
	return input
}

// buildTools maps the neutral tool catalog into Anthropic tool declarations.
func buildTools(tools []core.ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := t.InputSchema["properties"]; ok {
			schema.Properties = props
		}
		if required, ok := t.InputSchema["required"]; ok {
			schema.Required = toStringSlice(required)
		}
		out[i] = anthropic.ToolUnionParamOfTool(schema, t.Name)
	}
	return out
}

func toStringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
