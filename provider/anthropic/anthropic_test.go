package anthropic

import (
	"context"
	"testing"

	"agentcore/core"
	"agentcore/provider"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSystemBlocks(t *testing.T) {
	blocks := extractSystemBlocks([]core.Message{
		{Role: core.RoleSystem, Content: "be terse"},
		{Role: core.RoleUser, Content: "hi"},
	})

	require.Len(t, blocks, 1)
	assert.Equal(t, "be terse", blocks[0].Text)

	assert.Empty(t, extractSystemBlocks([]core.Message{{Role: core.RoleUser, Content: "hi"}}))
}

func TestBuildMessages_SystemExcludedToolResultEmbedded(t *testing.T) {
	history := []core.Message{
		{Role: core.RoleSystem, Content: "be terse"},
		{Role: core.RoleUser, Content: "add 2 and 3"},
		{Role: core.RoleAssistant, Content: "calling", ToolCalls: []core.ToolCall{
			{ID: "call_1", Name: "add", Arguments: `{"a":2,"b":3}`},
		}},
		{Role: core.RoleTool, ToolCallID: "call_1", Content: "5"},
	}

	messages := buildMessages(history)
	// System messages never appear in the turn list.
	require.Len(t, messages, 3)

	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)

	// Assistant turn holds text block + tool_use block.
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role)
	require.Len(t, messages[1].Content, 2)
	assert.NotNil(t, messages[1].Content[0].OfText)
	require.NotNil(t, messages[1].Content[1].OfToolUse)
	assert.Equal(t, "call_1", messages[1].Content[1].OfToolUse.ID)

	// Tool result rides inside a user turn as a tool_result block.
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[2].Role)
	require.Len(t, messages[2].Content, 1)
	require.NotNil(t, messages[2].Content[0].OfToolResult)
	assert.Equal(t, "call_1", messages[2].Content[0].OfToolResult.ToolUseID)
}

func TestParseArguments(t *testing.T) {
	assert.Equal(t, map[string]any{"a": float64(2)}, parseArguments(`{"a":2}`))
	assert.Equal(t, map[string]any{}, parseArguments(""))
	// Invalid JSON falls back to the raw string rather than dropping data.
	assert.Equal(t, "not json", parseArguments("not json"))
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, toStringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"a"}, toStringSlice([]any{"a", 1}))
	assert.Nil(t, toStringSlice(42))
}

func TestGenerateResponse_NotReady(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	p := New()
	_, err := p.GenerateResponse(context.Background(), nil, "claude-3-5-haiku-20241022", nil)
	assert.ErrorIs(t, err, provider.ErrBackendNotReady)
}
