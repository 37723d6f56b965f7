package toolhost

import (
	"strings"

	"agentcore/core"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// toSpecs converts MCP tool declarations into backend-neutral catalog
// entries. The input schema keeps its JSON-Schema shape as a plain map so
// each model backend can reshape it for its own tool-calling mechanism.
func toSpecs(tools []mcptypes.Tool) []core.ToolSpec {
	specs := make([]core.ToolSpec, 0, len(tools))
	for _, t := range tools {
		desc := t.Description
		if desc == "" {
			desc = "No description provided"
		}
		specs = append(specs, core.ToolSpec{
			Name:        t.Name,
			Description: desc,
			InputSchema: toSchemaMap(t.InputSchema),
		})
	}
	return specs
}

func toSchemaMap(schema mcptypes.ToolInputSchema) map[string]any {
	m := map[string]any{"type": schema.Type}
	if m["type"] == "" {
		m["type"] = "object"
	}
	if len(schema.Properties) > 0 {
		m["properties"] = schema.Properties
	}
	if len(schema.Required) > 0 {
		m["required"] = schema.Required
	}
	return m
}

// resultText flattens a tool call result to plain text, concatenating every
// text content block in order.
func resultText(result *mcptypes.CallToolResult) string {
	var sb strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(mcptypes.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
