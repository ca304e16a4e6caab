package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/mcp"
)

// MCPInvoker is the subset of the MCP client used by the tool wrapper.
type MCPInvoker interface {
	CallTool(ctx context.Context, name string, arguments map[string]any) (mcp.CallResult, error)
}

// MCPTool adapts a tool hosted on an MCP server to the agent.Tool interface.
type MCPTool struct {
	client     MCPInvoker
	remoteName string
	spec       agent.ToolSpec
}

// MCPToolOption customises the wrapper.
type MCPToolOption func(*MCPTool)

// WithMCPDisplayName overrides the name presented to the agent. The remote
// tool name remains the one sent on the wire.
func WithMCPDisplayName(name string) MCPToolOption {
	return func(t *MCPTool) {
		if strings.TrimSpace(name) != "" {
			t.spec.Name = name
		}
	}
}

// NewMCPTool constructs a wrapper for the provided MCP tool definition.
func NewMCPTool(client MCPInvoker, def mcp.ToolDefinition, opts ...MCPToolOption) *MCPTool {
	spec := agent.ToolSpec{
		Name:        def.Name,
		Description: def.Description,
	}
	if len(def.InputSchema) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(def.InputSchema, &schema); err == nil {
			spec.InputSchema = schema
		}
	}

	tool := &MCPTool{client: client, remoteName: def.Name, spec: spec}
	for _, opt := range opts {
		if opt != nil {
			opt(tool)
		}
	}
	return tool
}

func (t *MCPTool) Spec() agent.ToolSpec { return t.spec }

func (t *MCPTool) Invoke(ctx context.Context, req agent.ToolRequest) (agent.ToolResponse, error) {
	if t == nil || t.client == nil {
		return agent.ToolResponse{}, fmt.Errorf("mcp tool is not initialised")
	}

	result, err := t.client.CallTool(ctx, t.remoteName, req.Arguments)
	if err != nil {
		return agent.ToolResponse{}, err
	}

	return agent.ToolResponse{
		Content:  strings.TrimSpace(result.Text()),
		Metadata: map[string]string{"transport": "mcp"},
	}, nil
}

// LoadMCPTools lists the tools on the server and wraps each of them.
func LoadMCPTools(ctx context.Context, client *mcp.Client) ([]agent.Tool, error) {
	defs, err := client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mcp tools: %w", err)
	}

	wrapped := make([]agent.Tool, 0, len(defs))
	for _, def := range defs {
		wrapped = append(wrapped, NewMCPTool(client, def))
	}
	return wrapped, nil
}
