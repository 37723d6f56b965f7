package openai

import (
	"testing"

	"agentcore/core"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_RoleMapping(t *testing.T) {
	history := []core.Message{
		{Role: core.RoleSystem, Content: "be terse"},
		{Role: core.RoleUser, Content: "add 2 and 3"},
		{Role: core.RoleAssistant, Content: "sure"},
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call_1", Name: "add", Arguments: `{"a":2,"b":3}`},
		}},
		{Role: core.RoleTool, ToolCallID: "call_1", Content: "5"},
	}

	messages := buildMessages(history)
	require.Len(t, messages, 5)

	assert.NotNil(t, messages[0].OfSystem)
	assert.NotNil(t, messages[1].OfUser)
	assert.NotNil(t, messages[2].OfAssistant)

	// Assistant turns with tool calls carry them on the message itself.
	require.NotNil(t, messages[3].OfAssistant)
	require.Len(t, messages[3].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call_1", messages[3].OfAssistant.ToolCalls[0].ID)
	assert.Equal(t, "add", messages[3].OfAssistant.ToolCalls[0].Function.Name)

	// Tool results map to role "tool" keyed by call id.
	require.NotNil(t, messages[4].OfTool)
	assert.Equal(t, "call_1", messages[4].OfTool.ToolCallID)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]core.ToolSpec{{
		Name:        "add",
		Description: "Add two numbers",
		InputSchema: map[string]any{"type": "object"},
	}})

	require.Len(t, tools, 1)
	assert.Equal(t, "add", tools[0].Function.Name)
	assert.Equal(t, "Add two numbers", tools[0].Function.Description.Value)
}

func TestToCanonicalToolCalls(t *testing.T) {
	calls := toCanonicalToolCalls([]openai.ChatCompletionMessageToolCall{
		{
			ID: "call_1",
			Function: openai.ChatCompletionMessageToolCallFunction{
				Name:      "add",
				Arguments: `{"a":2}`,
			},
		},
	})

	require.Len(t, calls, 1)
	assert.Equal(t, core.ToolCall{ID: "call_1", Name: "add", Arguments: `{"a":2}`}, calls[0])

	assert.Nil(t, toCanonicalToolCalls(nil))
}

func TestNew_WithoutCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	p := New()
	assert.Equal(t, "openai", p.Name())
	assert.False(t, p.ready)
}
