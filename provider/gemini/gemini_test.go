package gemini

import (
	"testing"

	"agentcore/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContents_ExtractsSystemInstruction(t *testing.T) {
	contents, system := buildContents([]core.Message{
		{Role: core.RoleSystem, Content: "be terse"},
		{Role: core.RoleUser, Content: "hi"},
	})

	assert.Equal(t, "be terse", system)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "hi", contents[0].Parts[0].Text)
}

func TestBuildContents_BatchesToolResultsByName(t *testing.T) {
	history := []core.Message{
		{Role: core.RoleUser, Content: "add and multiply"},
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call_add_0", Name: "add", Arguments: `{"a":2,"b":3}`},
			{ID: "call_mul_1", Name: "mul", Arguments: `{"a":4,"b":5}`},
		}},
		{Role: core.RoleTool, ToolCallID: "call_add_0", Content: "5"},
		{Role: core.RoleTool, ToolCallID: "call_mul_1", Content: "20"},
		{Role: core.RoleUser, Content: "done?"},
	}

	contents, _ := buildContents(history)
	require.Len(t, contents, 4)

	// Both consecutive tool results collapse into one batched function turn.
	fn := contents[2]
	assert.Equal(t, "function", fn.Role)
	require.Len(t, fn.Parts, 2)

	// Results resolve to function names, not call ids.
	assert.Equal(t, "add", fn.Parts[0].FunctionResponse.Name)
	assert.Equal(t, map[string]any{"result": "5"}, fn.Parts[0].FunctionResponse.Response)
	assert.Equal(t, "mul", fn.Parts[1].FunctionResponse.Name)

	assert.Equal(t, "user", contents[3].Role)
}

func TestBuildContents_UnknownCallID(t *testing.T) {
	contents, _ := buildContents([]core.Message{
		{Role: core.RoleTool, ToolCallID: "missing", Content: "orphan"},
	})

	require.Len(t, contents, 1)
	assert.Equal(t, "unknown", contents[0].Parts[0].FunctionResponse.Name)
}

func TestBuildContents_AssistantArgumentsDecoded(t *testing.T) {
	contents, _ := buildContents([]core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "c1", Name: "add", Arguments: `{"a":2}`},
			{ID: "c2", Name: "noargs", Arguments: ""},
		}},
	})

	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, map[string]any{"a": float64(2)}, parts[0].FunctionCall.Args)
	assert.Empty(t, parts[1].FunctionCall.Args)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]core.ToolSpec{{
		Name:        "add",
		Description: "Add two numbers",
		InputSchema: map[string]any{"type": "object"},
	}})

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)
	decl := tools[0].FunctionDeclarations[0]
	assert.Equal(t, "add", decl.Name)
	assert.Equal(t, map[string]any{"type": "object"}, decl.ParametersJsonSchema)
}
