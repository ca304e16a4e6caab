// Command agent runs the instrumented agent pipeline, either as an HTTP
// service or as an interactive chat session.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/mcp"
	"github.com/keithyt06/strands-agents-go/pkg/models"
	"github.com/keithyt06/strands-agents-go/pkg/observability"
	"github.com/keithyt06/strands-agents-go/pkg/server"
	"github.com/keithyt06/strands-agents-go/pkg/tools"
)

func main() {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agent",
		Short:        "Instrumented AI agent with tool dispatch and call metrics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("provider", "dummy", "model provider: dummy, openai, anthropic, gemini, ollama")
	root.PersistentFlags().String("model", "", "model name for the selected provider")
	root.PersistentFlags().String("system-prompt", "", "override the default system prompt")
	root.PersistentFlags().String("mcp-server", "", "command line of an MCP stdio server whose tools are added to the catalog")

	viper.SetEnvPrefix("AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(), newChatCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			invoker, metrics, cleanup, err := buildPipeline(ctx, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			e := server.New(invoker, metrics, logger).NewEcho()

			addr := viper.GetString("addr")
			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(addr)
			}()
			logger.Info("agent server starting", "addr", addr)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent on stdin, printing the metrics summary on exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

			invoker, metrics, cleanup, err := buildPipeline(ctx, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println("Type a message (or `tool:<name> <json-args>` to invoke a tool directly). Ctrl-D exits.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				resp, err := invoker.Invoke(ctx, agent.Request{SessionID: "chat", Message: line})
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				fmt.Println(resp.Content)
			}

			summary, err := json.MarshalIndent(metrics.Summary(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("\nSession metrics:\n%s\n", summary)
			return scanner.Err()
		},
	}
}

// buildPipeline assembles model, tools, agent, and interceptors from the
// active configuration. The returned cleanup closes any spawned MCP session.
func buildPipeline(ctx context.Context, logger *slog.Logger) (agent.Invoker, *observability.MetricsInterceptor, func(), error) {
	model, err := buildModel(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	catalogTools := []agent.Tool{
		&tools.WeatherTool{},
		&tools.CalculatorTool{},
		&tools.EchoTool{},
	}

	cleanup := func() {}
	if command := strings.TrimSpace(viper.GetString("mcp-server")); command != "" {
		parts := strings.Fields(command)
		client, err := mcp.NewStdioClient(ctx, mcp.StdioConfig{Command: parts[0], Args: parts[1:]})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect mcp server: %w", err)
		}
		remote, err := tools.LoadMCPTools(ctx, client)
		if err != nil {
			client.Close()
			return nil, nil, nil, err
		}
		catalogTools = append(catalogTools, remote...)
		cleanup = func() { client.Close() }
		logger.Info("mcp tools loaded", "server", client.Server().Name, "count", len(remote))
	}

	a, err := agent.New(agent.Options{
		Model:        model,
		SystemPrompt: viper.GetString("system-prompt"),
		Tools:        catalogTools,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	var metrics *observability.MetricsInterceptor
	invoker := observability.Chain(a,
		observability.WithLogging(logger),
		observability.WithMetrics(func(m *observability.MetricsInterceptor) { metrics = m }),
	)
	return invoker, metrics, cleanup, nil
}

func buildModel(ctx context.Context) (agent.Model, error) {
	provider := strings.ToLower(strings.TrimSpace(viper.GetString("provider")))
	name := strings.TrimSpace(viper.GetString("model"))

	switch provider {
	case "", "dummy":
		return models.NewDummyModel(""), nil
	case "openai":
		if name == "" {
			name = "gpt-4o-mini"
		}
		return models.NewOpenAIModel(name), nil
	case "anthropic":
		if name == "" {
			name = "claude-3-7-sonnet-latest"
		}
		return models.NewAnthropicModel(name), nil
	case "gemini":
		if name == "" {
			name = "gemini-2.0-flash"
		}
		return models.NewGeminiModel(ctx, name)
	case "ollama":
		if name == "" {
			name = "llama3.2"
		}
		return models.NewOllamaModel(name)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
