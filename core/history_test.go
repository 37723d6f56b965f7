package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_SeededWithSystemPrompt(t *testing.T) {
	h := NewHistory("You are a helpful assistant.")
	assert.Equal(t, 1, h.Len())

	msg, ok := h.Last()
	assert.True(t, ok)
	assert.Equal(t, RoleSystem, msg.Role)
	assert.Equal(t, "You are a helpful assistant.", msg.Content)

	empty := NewHistory("")
	assert.Equal(t, 0, empty.Len())
	_, ok = empty.Last()
	assert.False(t, ok)
}

func TestHistory_RemoveTemporaryPreservesOrder(t *testing.T) {
	h := NewHistory("")
	h.Append(Message{Role: RoleUser, Content: "a"})
	h.Append(Message{Role: RoleUser, Content: "probe", Temporary: true})
	h.Append(Message{Role: RoleAssistant, Content: "b"})
	h.Append(Message{Role: RoleUser, Content: "probe2", Temporary: true})
	h.Append(Message{Role: RoleAssistant, Content: "c"})

	h.RemoveTemporary()

	var contents []string
	for _, msg := range h.Messages() {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"a", "b", "c"}, contents)
}

func TestHistory_RemoveTemporaryIsIdempotent(t *testing.T) {
	h := NewHistory("")
	h.Append(Message{Role: RoleUser, Content: "keep"})
	h.Append(Message{Role: RoleUser, Content: "drop", Temporary: true})

	h.RemoveTemporary()
	first := h.Snapshot()
	h.RemoveTemporary()
	second := h.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_SnapshotIsDeepCopy(t *testing.T) {
	h := NewHistory("")
	h.Append(Message{
		Role:      RoleAssistant,
		ToolCalls: []ToolCall{{ID: "call_1", Name: "add", Arguments: `{"a":1}`}},
	})

	snap := h.Snapshot()
	snap[0].Content = "mutated"
	snap[0].ToolCalls[0].Name = "mutated"

	live := h.Messages()
	assert.Empty(t, live[0].Content)
	assert.Equal(t, "add", live[0].ToolCalls[0].Name)
}

func TestMessage_JSONSchema(t *testing.T) {
	msg := Message{
		Role:      RoleAssistant,
		Content:   "calling",
		ToolCalls: []ToolCall{{ID: "call_1", Name: "add", Arguments: `{"a":2,"b":3}`}},
	}

	raw, err := json.Marshal(msg)
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"role": "assistant",
		"content": "calling",
		"tool_calls": [{"id": "call_1", "name": "add", "parameters": "{\"a\":2,\"b\":3}"}]
	}`, string(raw))

	toolMsg := Message{Role: RoleTool, ToolCallID: "call_1", Content: "5"}
	raw, err = json.Marshal(toolMsg)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"role": "tool", "content": "5", "tool_call_id": "call_1"}`, string(raw))
}
