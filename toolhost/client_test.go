package toolhost

import (
	"context"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CallsBeforeConnect(t *testing.T) {
	c := NewClient()

	_, err := c.ListTools(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = c.CallTool(context.Background(), "add", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := NewClient()

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	// Once closed, the client stays unusable even for Connect.
	err := c.Connect(context.Background(), ServerSpec{Command: "true"})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = c.CallTool(context.Background(), "add", nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestToSpecs(t *testing.T) {
	tools := []mcptypes.Tool{
		{
			Name:        "add",
			Description: "Add two numbers",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"a": map[string]any{"type": "number"},
					"b": map[string]any{"type": "number"},
				},
				Required: []string{"a", "b"},
			},
		},
		{Name: "noop"},
	}

	specs := toSpecs(tools)
	require.Len(t, specs, 2)

	assert.Equal(t, "add", specs[0].Name)
	assert.Equal(t, "Add two numbers", specs[0].Description)
	assert.Equal(t, "object", specs[0].InputSchema["type"])
	assert.Equal(t, []string{"a", "b"}, specs[0].InputSchema["required"])

	// Tools without a description get a placeholder for the model's benefit.
	assert.Equal(t, "No description provided", specs[1].Description)
	assert.Equal(t, "object", specs[1].InputSchema["type"])
}

func TestResultText(t *testing.T) {
	result := &mcptypes.CallToolResult{
		Content: []mcptypes.Content{
			mcptypes.TextContent{Type: "text", Text: "hello "},
			mcptypes.TextContent{Type: "text", Text: "world"},
		},
	}
	assert.Equal(t, "hello world", resultText(result))

	assert.Empty(t, resultText(&mcptypes.CallToolResult{}))
}

func TestToolExecutionError_Message(t *testing.T) {
	err := &ToolExecutionError{Tool: "add", Message: "division by zero"}
	assert.Equal(t, "tool add failed: division by zero", err.Error())
}
