// Command quickstart shows the smallest useful wiring: a dummy model, the
// built-in tools, and a metrics interceptor in front of the agent.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/models"
	"github.com/keithyt06/strands-agents-go/pkg/observability"
	"github.com/keithyt06/strands-agents-go/pkg/tools"
)

func main() {
	ctx := context.Background()

	a, err := agent.New(agent.Options{
		Model: models.NewDummyModel(""),
		Tools: []agent.Tool{
			&tools.WeatherTool{},
			&tools.CalculatorTool{},
			&tools.EchoTool{},
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	wrapped := observability.NewMetricsInterceptor(a)

	messages := []string{
		`tool:weather {"location":"tokyo"}`,
		`tool:calculator {"expression":"6 * 7"}`,
		"tell me something interesting",
	}
	for _, message := range messages {
		resp, err := wrapped.Invoke(ctx, agent.Request{SessionID: "quickstart", Message: message})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("user: %s\nagent: %s\n\n", message, resp.Content)
	}

	summary, _ := json.MarshalIndent(wrapped.Summary(), "", "  ")
	fmt.Printf("metrics:\n%s\n", summary)
}
