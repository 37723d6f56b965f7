// Package toolhost wraps a long-lived connection to an external MCP
// tool-serving process behind a small client surface: Connect, ListTools,
// CallTool and Close.
//
// The client speaks MCP over stdio via github.com/mark3labs/mcp-go: Connect
// launches the server process described by a ServerSpec, performs the
// initialize handshake and caches the tool catalog. Tool catalogs are
// exposed as backend-neutral core.ToolSpec values so model providers never
// touch MCP SDK types.
//
// Lifecycle rules: ListTools and CallTool fail with ErrNotConnected before a
// successful Connect; Close is idempotent, never panics and disables all
// further calls. The connection is exclusively owned by the agent controller
// that created it.
package toolhost
