// Package gemini implements the provider contract on top of the Google
// Gemini API.
//
// Gemini does not track tool call ids: all consecutive tool-result messages
// following an assistant turn are grouped into a single batched function
// turn, and each result is resolved back to the *name* of the function it
// answers via the call-id map built while walking the history. Call ids for
// outgoing tool calls are synthesized since the backend never returns any.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"agentcore/core"
	"agentcore/provider"

	"google.golang.org/genai"
)

// Options configure the Gemini provider adapter.
type Options struct {
	APIKey      string
	Temperature float32
}

// Provider wraps the Gemini API behind the generic provider.Provider
// interface. The SDK client is created lazily on first use because its
// constructor requires a context.
type Provider struct {
	mu     sync.Mutex
	client *genai.Client
	ready  bool
	opts   Options
}

var _ provider.Provider = (*Provider)(nil)

// New creates a Gemini provider. The API key defaults to the GEMINI_API_KEY
// environment variable; without one the provider constructs but reports
// ErrBackendNotReady on generation.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{Temperature: 0}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return &Provider{opts: opts, ready: opts.APIKey != ""}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "gemini" }

func (p *Provider) ensureClient(ctx context.Context) (*genai.Client, error) {
	if !p.ready {
		return nil, fmt.Errorf("gemini: %w", provider.ErrBackendNotReady)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &provider.BackendError{Provider: "gemini", Err: err}
	}
	p.client = client
	return client, nil
}

// ListModels returns the model identifiers served by the Gemini API, with
// the "models/" resource prefix stripped.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	client, err := p.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	page, err := client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, &provider.BackendError{Provider: "gemini", Err: err}
	}

	models := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		models = append(models, strings.TrimPrefix(m.Name, "models/"))
	}
	return models, nil
}

// GenerateResponse implements provider.Provider.
func (p *Provider) GenerateResponse(ctx context.Context, history []core.Message, model string, tools []core.ToolSpec) (*provider.Response, error) {
	client, err := p.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	contents, system := buildContents(history)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.opts.Temperature),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if len(tools) > 0 {
		config.Tools = buildTools(tools)
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, &provider.BackendError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &provider.Response{}, nil
	}

	var text strings.Builder
	var toolCalls []core.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			args := "{}"
			if part.FunctionCall.Args != nil {
				if raw, err := json.Marshal(part.FunctionCall.Args); err == nil {
					args = string(raw)
				}
			}
			toolCalls = append(toolCalls, core.ToolCall{
				// Gemini returns no call id; synthesize one stable within the turn.
				ID:        fmt.Sprintf("call_%s_%d", part.FunctionCall.Name, len(toolCalls)),
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
		}
	}

	return &provider.Response{Text: text.String(), ToolCalls: toolCalls}, nil
}

// buildContents converts the canonical history into Gemini turns and returns
// the extracted system instruction. Consecutive tool results are collected
// and flushed as one batched function turn; each result is mapped back to
// its function name through the call-id index built from earlier assistant
// turns.
func buildContents(history []core.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system string

	callNames := map[string]string{}
	var pendingResults []*genai.Part

	flushResults := func() {
		if len(pendingResults) == 0 {
			return
		}
		contents = append(contents, &genai.Content{Role: "function", Parts: pendingResults})
		pendingResults = nil
	}

	for _, msg := range history {
		switch msg.Role {
		case core.RoleSystem:
			system = msg.Content
		case core.RoleUser:
			flushResults()
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case core.RoleAssistant:
			flushResults()
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				callNames[tc.ID] = tc.Name
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: tc.Name,
						Args: decodeArguments(tc.Arguments),
					},
				})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}
		case core.RoleTool:
			name := callNames[msg.ToolCallID]
			if name == "" {
				name = "unknown"
			}
			pendingResults = append(pendingResults, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     name,
					Response: map[string]any{"result": msg.Content},
				},
			})
		}
	}
	flushResults()

	return contents, system
}

func decodeArguments(args string) map[string]any {
	if args == "" {
		return map[string]any{}
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(args), &decoded); err != nil {
		return map[string]any{}
	}
	return decoded
}

// buildTools maps the neutral tool catalog into Gemini function declarations.
func buildTools(tools []core.ToolSpec) []*genai.Tool {
	out := make([]*genai.Tool, len(tools))
	for i, t := range tools {
		out[i] = &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:                 t.Name,
				Description:          t.Description,
				ParametersJsonSchema: t.InputSchema,
			}},
		}
	}
	return out
}
