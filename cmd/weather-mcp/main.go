// Command weather-mcp hosts the demo weather tool on an MCP stdio server,
// for wiring up protocol-based tool discovery against this repo itself:
//
//	agent chat --mcp-server "weather-mcp"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/mcp"
	"github.com/keithyt06/strands-agents-go/pkg/tools"
)

func main() {
	srv := mcp.NewServer("demo-weather", "0.1.0")

	weather := &tools.WeatherTool{}
	spec := weather.Spec()
	schema, err := json.Marshal(spec.InputSchema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal schema: %v\n", err)
		os.Exit(1)
	}

	err = srv.Register(mcp.ToolDefinition{
		Name:        "get_weather",
		Description: spec.Description,
		InputSchema: schema,
	}, func(ctx context.Context, args map[string]any) (string, error) {
		resp, err := weather.Invoke(ctx, agent.ToolRequest{Arguments: args})
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "register tool: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Serve(context.Background(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}
