package core

// History is the ordered conversation log owned by a single agent controller.
// Insertion order is significant (it defines conversational causality).
// Apart from RemoveTemporary the log is append-only.
//
// History is not safe for concurrent use. Agent execution is strictly
// sequential, so the owning controller is the only writer for its lifetime.
type History struct {
	messages []Message
}

// NewHistory creates an empty history, optionally seeded with a system
// message when systemPrompt is non-empty.
func NewHistory(systemPrompt string) *History {
	h := &History{}
	if systemPrompt != "" {
		h.Append(Message{Role: RoleSystem, Content: systemPrompt})
	}
	return h
}

// Append adds a message to the end of the log.
func (h *History) Append(msg Message) {
	h.messages = append(h.messages, msg)
}

// RemoveTemporary drops every message marked Temporary, preserving the
// relative order of the rest. Calling it repeatedly is a no-op after the
// first call.
func (h *History) RemoveTemporary() {
	kept := h.messages[:0]
	for _, msg := range h.messages {
		if !msg.Temporary {
			kept = append(kept, msg)
		}
	}
	h.messages = kept
}

// Snapshot returns a deep copy of the current messages for reporting.
// Mutating the returned slice does not affect the history.
func (h *History) Snapshot() []Message {
	out := make([]Message, len(h.messages))
	for i, msg := range h.messages {
		out[i] = msg.Clone()
	}
	return out
}

// Messages returns the live message slice. Callers must treat it as
// read-only; use Snapshot for a safe copy.
func (h *History) Messages() []Message { return h.messages }

// Len returns the number of messages currently in the log.
func (h *History) Len() int { return len(h.messages) }

// Last returns the most recent message and true, or a zero Message and false
// when the history is empty.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}
