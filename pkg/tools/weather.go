// Package tools provides the built-in tools the agent ships with, plus an
// adapter for tools hosted on MCP servers.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
)

// demo conditions keyed by lower-cased city name
var weatherData = map[string]string{
	"new york": "72°F, Partly Cloudy",
	"london":   "64°F, Rainy",
	"tokyo":    "79°F, Sunny",
	"beijing":  "Sunny, 25°C",
	"shanghai": "Cloudy, 23°C",
}

// WeatherTool answers weather queries from canned per-city data.
type WeatherTool struct{}

func (w *WeatherTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "weather",
		Description: "Returns current weather conditions for a city.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "City or location name.",
				},
			},
			"required": []any{"location"},
		},
	}
}

func (w *WeatherTool) Invoke(_ context.Context, req agent.ToolRequest) (agent.ToolResponse, error) {
	raw, ok := req.Arguments["location"]
	if !ok {
		raw = req.Arguments["input"]
	}
	location := strings.TrimSpace(fmt.Sprint(raw))
	if location == "" || raw == nil {
		return agent.ToolResponse{}, fmt.Errorf("missing 'location' argument")
	}

	conditions, ok := weatherData[strings.ToLower(location)]
	if !ok {
		return agent.ToolResponse{Content: fmt.Sprintf("Weather information not available for %s", location)}, nil
	}
	return agent.ToolResponse{
		Content:  conditions,
		Metadata: map[string]string{"location": location},
	}, nil
}
