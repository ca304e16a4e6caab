package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/mcp"
)

type stubMCPClient struct {
	result   mcp.CallResult
	err      error
	lastName string
	lastArgs map[string]any
}

func (s *stubMCPClient) CallTool(_ context.Context, name string, arguments map[string]any) (mcp.CallResult, error) {
	s.lastName = name
	s.lastArgs = arguments
	return s.result, s.err
}

func TestMCPToolForwardsArguments(t *testing.T) {
	client := &stubMCPClient{result: mcp.CallResult{
		Content: []mcp.Content{{Type: "text", Text: "Sunny, 25°C"}},
	}}
	schema, _ := json.Marshal(map[string]any{"type": "object"})
	tool := NewMCPTool(client, mcp.ToolDefinition{
		Name:        "get_weather",
		Description: "Get demo weather for a city",
		InputSchema: schema,
	})

	spec := tool.Spec()
	if spec.Name != "get_weather" {
		t.Fatalf("unexpected spec name %q", spec.Name)
	}
	if spec.InputSchema["type"] != "object" {
		t.Fatalf("expected decoded input schema, got %v", spec.InputSchema)
	}

	resp, err := tool.Invoke(context.Background(), agent.ToolRequest{
		Arguments: map[string]any{"city": "Beijing"},
	})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if resp.Content != "Sunny, 25°C" {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if client.lastName != "get_weather" {
		t.Fatalf("expected remote name on the wire, got %q", client.lastName)
	}
	if client.lastArgs["city"] != "Beijing" {
		t.Fatalf("expected arguments forwarded, got %v", client.lastArgs)
	}
}

func TestMCPToolDisplayNameOverride(t *testing.T) {
	client := &stubMCPClient{}
	tool := NewMCPTool(client, mcp.ToolDefinition{Name: "get_weather"}, WithMCPDisplayName("weather"))

	if got := tool.Spec().Name; got != "weather" {
		t.Fatalf("expected display name override, got %q", got)
	}

	_, _ = tool.Invoke(context.Background(), agent.ToolRequest{})
	if client.lastName != "get_weather" {
		t.Fatalf("expected remote name preserved, got %q", client.lastName)
	}
}

func TestMCPToolPropagatesErrors(t *testing.T) {
	sentinel := errors.New("server unavailable")
	tool := NewMCPTool(&stubMCPClient{err: sentinel}, mcp.ToolDefinition{Name: "get_weather"})

	if _, err := tool.Invoke(context.Background(), agent.ToolRequest{}); !errors.Is(err, sentinel) {
		t.Fatalf("expected client error to propagate, got %v", err)
	}
}
