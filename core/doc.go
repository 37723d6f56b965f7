// Package core provides the foundational domain types shared by every other
// package in agentcore. It defines:
//
//   - Message / ToolCall: the canonical conversation schema used across all
//     model backends (one flat representation, converted per vendor)
//   - History: the ordered, mutable conversation log with temporary-message
//     semantics driving the agent's probe/strip cycle
//   - ToolSpec: the backend-neutral tool catalog entry (name, description,
//     JSON-Schema-like parameter spec)
//
// The package intentionally keeps implementation concerns (providers, tool
// transport, control strategies) out of scope so that backend adapters and
// the agent controller depend only on these small types.
package core
