package agent

import (
	"context"
	"fmt"
	"strings"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
	"github.com/universal-tool-calling-protocol/go-utcp/src/providers/base"
	"github.com/universal-tool-calling-protocol/go-utcp/src/providers/cli"
	"github.com/universal-tool-calling-protocol/go-utcp/src/repository"
	utcptools "github.com/universal-tool-calling-protocol/go-utcp/src/tools"
	"github.com/universal-tool-calling-protocol/go-utcp/src/transports"
)

// UTCPTool adapts a tool discovered through a UTCP client to the catalog Tool
// interface, so protocol-discovered tools and locally registered tools are
// indistinguishable to the agent.
type UTCPTool struct {
	client utcp.UtcpClientInterface
	def    utcptools.Tool
}

// WrapUTCPTool exposes a UTCP tool definition as a catalog Tool backed by the
// given client.
func WrapUTCPTool(client utcp.UtcpClientInterface, def utcptools.Tool) *UTCPTool {
	return &UTCPTool{client: client, def: def}
}

func (t *UTCPTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        t.def.Name,
		Description: t.def.Description,
		InputSchema: map[string]any{
			"type":       t.def.Inputs.Type,
			"properties": t.def.Inputs.Properties,
			"required":   t.def.Inputs.Required,
		},
	}
}

func (t *UTCPTool) Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error) {
	if t.client == nil {
		return ToolResponse{}, fmt.Errorf("utcp tool %s has no client", t.def.Name)
	}
	out, err := t.client.CallTool(ctx, t.def.Name, req.Arguments)
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{Content: fmt.Sprint(out)}, nil
}

// AsUTCPTool exposes an Invoker as a UTCP tool with an in-process handler.
// The tool accepts an `instruction` and an optional `session_id`.
func AsUTCPTool(invoker Invoker, name, description string) utcptools.Tool {
	providerName := utcpProviderName(name)
	defaultSessionID := fmt.Sprintf("%s.session", providerName)
	return utcptools.Tool{
		Name:        name,
		Description: description,
		Provider: &base.BaseProvider{
			Name:         providerName,
			ProviderType: base.ProviderCLI, // in-process handler, no remote transport
		},
		Inputs: utcptools.ToolInputOutputSchema{
			Type: "object",
			Properties: map[string]any{
				"instruction": map[string]any{
					"type":        "string",
					"description": "The instruction or query for the agent.",
				},
				"session_id": map[string]any{
					"type":        "string",
					"description": "Optional session id; defaults to the provider-derived session.",
				},
			},
			Required: []string{"instruction"},
		},
		Outputs: utcptools.ToolInputOutputSchema{
			Type: "object",
			Properties: map[string]any{
				"response":   map[string]any{"type": "string"},
				"session_id": map[string]any{"type": "string"},
				"tool_calls": map[string]any{"type": "integer"},
			},
		},
		Handler: utcptools.ToolHandler(func(ctx context.Context, inputs map[string]interface{}) (any, error) {
			instruction, _ := inputs["instruction"].(string)
			if strings.TrimSpace(instruction) == "" {
				return nil, fmt.Errorf("missing or invalid 'instruction'")
			}

			sessionID, _ := inputs["session_id"].(string)
			sessionID = strings.TrimSpace(sessionID)
			if sessionID == "" {
				sessionID = defaultSessionID
			}

			if ctx == nil {
				ctx = context.Background()
			}

			resp, err := invoker.Invoke(ctx, Request{SessionID: sessionID, Message: instruction})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"response":   resp.Content,
				"session_id": sessionID,
				"tool_calls": len(resp.ToolCalls),
			}, nil
		}),
	}
}

// RegisterUTCPProvider registers the invoker as a UTCP tool on the client. A
// lightweight in-process transport is installed under the CLI provider type so
// CallTool routes straight to the invoker.
func RegisterUTCPProvider(ctx context.Context, client utcp.UtcpClientInterface, invoker Invoker, name, description string) error {
	if client == nil {
		return fmt.Errorf("utcp client is nil")
	}

	tool := AsUTCPTool(invoker, name, description)
	providerName := utcpProviderName(name)

	provider := &cli.CliProvider{
		BaseProvider: base.BaseProvider{
			Name:         providerName,
			ProviderType: base.ProviderCLI,
		},
	}

	transportsMap := client.GetTransports()
	if transportsMap == nil {
		return fmt.Errorf("utcp client transports map is nil")
	}

	existing := transportsMap[string(base.ProviderCLI)]
	shim, ok := existing.(*inProcessTransport)
	if !ok {
		shim = &inProcessTransport{inner: existing}
		transportsMap[string(base.ProviderCLI)] = shim
	}
	if shim.tools == nil {
		shim.tools = make(map[string][]utcptools.Tool)
	}
	shim.tools[provider.Name] = []utcptools.Tool{tool}

	_, err := client.RegisterToolProvider(ctx, provider)
	return err
}

func utcpProviderName(name string) string {
	providerName := strings.TrimSpace(name)
	if parts := strings.Split(providerName, "."); len(parts) > 1 {
		providerName = parts[0]
	}
	return providerName
}

// inProcessTransport routes CLI-provider tool calls to locally registered
// handlers, falling back to the wrapped transport for everything else.
type inProcessTransport struct {
	inner repository.ClientTransport
	tools map[string][]utcptools.Tool
}

func (t *inProcessTransport) RegisterToolProvider(ctx context.Context, prov base.Provider) ([]utcptools.Tool, error) {
	p, ok := prov.(*cli.CliProvider)
	if !ok {
		if t.inner != nil {
			return t.inner.RegisterToolProvider(ctx, prov)
		}
		return nil, fmt.Errorf("unsupported provider type %T", prov)
	}
	list, ok := t.tools[p.Name]
	if !ok {
		if t.inner != nil {
			return t.inner.RegisterToolProvider(ctx, prov)
		}
		return nil, fmt.Errorf("no local tools registered for provider %s", p.Name)
	}
	return list, nil
}

func (t *inProcessTransport) DeregisterToolProvider(ctx context.Context, prov base.Provider) error {
	if p, ok := prov.(*cli.CliProvider); ok {
		if _, ok := t.tools[p.Name]; ok {
			delete(t.tools, p.Name)
			return nil
		}
	}
	if t.inner != nil {
		return t.inner.DeregisterToolProvider(ctx, prov)
	}
	return nil
}

func (t *inProcessTransport) CallTool(ctx context.Context, toolName string, args map[string]any, prov base.Provider, _ *string) (any, error) {
	if p, ok := prov.(*cli.CliProvider); ok {
		if list, ok := t.tools[p.Name]; ok {
			for _, tool := range list {
				if tool.Name == toolName || strings.HasSuffix(tool.Name, "."+toolName) {
					if tool.Handler == nil {
						return nil, fmt.Errorf("tool %s has no handler", toolName)
					}
					return tool.Handler(ctx, args)
				}
			}
		}
		if t.inner != nil {
			return t.inner.CallTool(ctx, toolName, args, prov, nil)
		}
		return nil, fmt.Errorf("tool %s not found for provider %s", toolName, p.Name)
	}
	if t.inner != nil {
		return t.inner.CallTool(ctx, toolName, args, prov, nil)
	}
	return nil, fmt.Errorf("unsupported provider type %T", prov)
}

func (t *inProcessTransport) CallToolStream(ctx context.Context, toolName string, args map[string]any, prov base.Provider) (transports.StreamResult, error) {
	if p, ok := prov.(*cli.CliProvider); ok {
		if _, ok := t.tools[p.Name]; ok {
			return nil, fmt.Errorf("streaming not supported for tool %s (provider %s)", toolName, p.Name)
		}
	}
	if t.inner != nil {
		return t.inner.CallToolStream(ctx, toolName, args, prov)
	}
	return nil, fmt.Errorf("unsupported provider type %T", prov)
}
