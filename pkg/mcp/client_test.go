package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
)

// startPipeServer wires a Server and a client Transport together over
// in-process pipes, standing in for the stdio pair of a spawned process.
func startPipeServer(t *testing.T, server *Server) Transport {
	t.Helper()

	clientRead, serverWrite := io.Pipe()
	serverRead, clientWrite := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		clientWrite.Close()
		serverWrite.Close()
	})

	go func() {
		_ = server.Serve(ctx, serverRead, serverWrite)
	}()

	return NewPipeTransport(clientRead, clientWrite)
}

func demoWeatherServer(t *testing.T) *Server {
	t.Helper()

	server := NewServer("demo-weather", "0.1.0")
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
		},
		"required": []string{"city"},
	})
	err := server.Register(ToolDefinition{
		Name:        "get_weather",
		Description: "Get demo weather for a city",
		InputSchema: schema,
	}, func(_ context.Context, args map[string]any) (string, error) {
		city, _ := args["city"].(string)
		if city == "" {
			return "", fmt.Errorf("city is required")
		}
		if city == "Tokyo" {
			return "79°F, Sunny", nil
		}
		return fmt.Sprintf("Weather data not available for %s", city), nil
	})
	if err != nil {
		t.Fatalf("register tool: %v", err)
	}
	return server
}

func TestClientHandshakeAndListTools(t *testing.T) {
	transport := startPipeServer(t, demoWeatherServer(t))

	client, err := NewClient(context.Background(), transport, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	if got := client.Server().Name; got != "demo-weather" {
		t.Fatalf("expected server name demo-weather, got %q", got)
	}

	tools, err := client.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools returned error: %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "get_weather" {
		t.Fatalf("unexpected tool list: %+v", tools)
	}
	if len(tools[0].InputSchema) == 0 {
		t.Fatalf("expected input schema to survive the round trip")
	}
}

func TestClientCallTool(t *testing.T) {
	transport := startPipeServer(t, demoWeatherServer(t))

	client, err := NewClient(context.Background(), transport, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	result, err := client.CallTool(context.Background(), "get_weather", map[string]any{"city": "Tokyo"})
	if err != nil {
		t.Fatalf("CallTool returned error: %v", err)
	}
	if got := result.Text(); got != "79°F, Sunny" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestClientCallToolSurfacesToolErrors(t *testing.T) {
	transport := startPipeServer(t, demoWeatherServer(t))

	client, err := NewClient(context.Background(), transport, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	_, err = client.CallTool(context.Background(), "get_weather", map[string]any{})
	if err == nil {
		t.Fatalf("expected tool error")
	}
	if !strings.Contains(err.Error(), "city is required") {
		t.Fatalf("expected tool message in error, got %v", err)
	}
}

func TestClientRejectsUnknownTool(t *testing.T) {
	transport := startPipeServer(t, demoWeatherServer(t))

	client, err := NewClient(context.Background(), transport, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	if _, err := client.CallTool(context.Background(), "nope", nil); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}
