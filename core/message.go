package core

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem marks the optional instruction message seeding a history.
	RoleSystem Role = "system"
	// RoleUser marks caller input, goal statements and step probes.
	RoleUser Role = "user"
	// RoleAssistant marks model output, including tool call requests.
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool result paired with one assistant tool call.
	RoleTool Role = "tool"
)

// ToolCall is a single function invocation requested by the model. The ID is
// unique within one assistant turn and pairs the call with exactly one later
// RoleTool message carrying the same value in ToolCallID.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"parameters,omitempty"` // Serialized JSON argument payload
}

// Message is one entry of the canonical conversation history. Invariants:
// ToolCallID is set iff Role == RoleTool; ToolCalls appears only on
// Role == RoleAssistant. Temporary messages exist to prompt a single agent
// step and are stripped before that step's effects are considered final.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Temporary  bool       `json:"temporary,omitempty"`
}

// Clone returns a deep copy of the message, including its tool calls.
func (m Message) Clone() Message {
	c := m
	if len(m.ToolCalls) > 0 {
		c.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(c.ToolCalls, m.ToolCalls)
	}
	return c
}

// ToolSpec describes one callable tool exposed by a tool host. InputSchema is
// a minimal JSON-Schema-like object ("type", "properties", "required") passed
// through to each backend's tool-calling mechanism.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}
