package toolhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"agentcore/core"
	"agentcore/logging"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ErrNotConnected indicates a tool call or catalog query before a
// successful Connect (or after Close).
var ErrNotConnected = errors.New("tool host not connected")

// ToolExecutionError reports a failure returned by the tool host while
// executing a named tool.
type ToolExecutionError struct {
	Tool    string
	Message string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}

// ServerSpec is the opaque launch descriptor for a stdio MCP server:
// the executable plus its arguments and optional extra environment
// ("KEY=VALUE" entries appended to the inherited environment).
type ServerSpec struct {
	Command string
	Args    []string
	Env     []string
}

// Options configure a tool host Client.
type Options struct {
	// ClientName and ClientVersion identify this client during the MCP
	// initialize handshake.
	ClientName    string
	ClientVersion string
	// Logger receives connection and call diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Client owns one connection to an external tool-serving process. Methods
// are safe for sequential use by the owning agent; the internal mutex only
// guards lifecycle transitions (Connect/Close racing a late call).
type Client struct {
	mu        sync.Mutex
	session   *mcpclient.Client
	tools     []core.ToolSpec
	connected bool
	closed    bool
	opts      Options
}

// NewClient creates an unconnected Client.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		ClientName:    "agentcore",
		ClientVersion: "1.0.0",
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{opts: opts}
}

// Connect launches the server process described by spec, performs the MCP
// initialize handshake and caches the tool catalog. Calling Connect again
// after a successful connection is a no-op.
func (c *Client) Connect(ctx context.Context, spec ServerSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrNotConnected
	}
	if c.connected {
		return nil
	}

	session, err := mcpclient.NewStdioMCPClient(spec.Command, spec.Env, spec.Args...)
	if err != nil {
		return fmt.Errorf("failed to start tool host %s: %w", spec.Command, err)
	}

	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: mcptypes.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    c.opts.ClientName,
				Version: c.opts.ClientVersion,
			},
		},
	}
	if _, err := session.Initialize(ctx, initReq); err != nil {
		_ = session.Close()
		return fmt.Errorf("failed to initialize tool host %s: %w", spec.Command, err)
	}

	toolsResult, err := session.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		_ = session.Close()
		return fmt.Errorf("failed to list tools for %s: %w", spec.Command, err)
	}

	c.session = session
	c.tools = toSpecs(toolsResult.Tools)
	c.connected = true
	c.opts.Logger.Debug("tool host connected", "command", spec.Command, "tools", len(c.tools))

	return nil
}

// ListTools returns the capability catalog advertised by the server.
// The catalog is cached at connect time; the server process owns it for the
// lifetime of the connection.
func (c *Client) ListTools(_ context.Context) ([]core.ToolSpec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, ErrNotConnected
	}
	out := make([]core.ToolSpec, len(c.tools))
	copy(out, c.tools)
	return out, nil
}

// CallTool executes the named tool with structured arguments and returns the
// concatenated text of the result. Tool-reported failures surface as
// *ToolExecutionError.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.Lock()
	session := c.session
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		return "", ErrNotConnected
	}

	req := mcptypes.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := session.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tool %s call failed: %w", name, err)
	}

	text := resultText(result)
	if result.IsError {
		return "", &ToolExecutionError{Tool: name, Message: text}
	}

	c.opts.Logger.Debug("tool executed", "tool", name)
	return text, nil
}

// Close releases the connection and the server process and disables further
// calls. It is safe to call multiple times and never panics, even when the
// underlying transport is already gone.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.connected = false

	if c.session == nil {
		return nil
	}
	session := c.session
	c.session = nil

	if err := session.Close(); err != nil {
		// The server process may already be gone; closing must not fail.
		c.opts.Logger.Debug("tool host close", "error", err)
	}
	return nil
}
