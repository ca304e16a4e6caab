package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
)

func TestChainOrdersMiddlewares(t *testing.T) {
	inner := &scriptedInvoker{outcomes: []outcome{succeedWith(agent.ToolCall{Name: "echo"})}}

	var metrics *MetricsInterceptor
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wrapped := Chain(inner,
		WithLogging(logger),
		WithMetrics(func(m *MetricsInterceptor) { metrics = m }),
	)

	if _, err := wrapped.Invoke(context.Background(), agent.Request{SessionID: "s1", Message: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics == nil {
		t.Fatalf("expected metrics interceptor to be attached")
	}
	if got := metrics.Summary().TotalCalls; got != 1 {
		t.Fatalf("expected 1 recorded call, got %d", got)
	}
	logged := buf.String()
	if !strings.Contains(logged, "agent invocation completed") {
		t.Fatalf("expected completion log, got %q", logged)
	}
	if !strings.Contains(logged, "tool_calls=1") {
		t.Fatalf("expected tool call count in log, got %q", logged)
	}
}

func TestLoggingInterceptorLogsFailures(t *testing.T) {
	inner := &scriptedInvoker{outcomes: []outcome{fail()}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	wrapped := Chain(inner, WithLogging(logger))

	if _, err := wrapped.Invoke(context.Background(), agent.Request{Message: "hi"}); err == nil {
		t.Fatalf("expected downstream error to propagate")
	}
	if !strings.Contains(buf.String(), "agent invocation failed") {
		t.Fatalf("expected failure log, got %q", buf.String())
	}
}
