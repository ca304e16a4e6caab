package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
)

// Middleware wraps an Invoker with additional behaviour.
type Middleware func(agent.Invoker) agent.Invoker

// Chain applies middlewares so the first one listed is the outermost wrapper.
func Chain(inner agent.Invoker, middlewares ...Middleware) agent.Invoker {
	for i := len(middlewares) - 1; i >= 0; i-- {
		inner = middlewares[i](inner)
	}
	return inner
}

// WithMetrics attaches a MetricsInterceptor as middleware. The interceptor
// must be constructed by the caller (via NewMetricsInterceptor) when the
// summary surface is needed; this helper exists for Chain composition where
// the collector is shared.
func WithMetrics(attach func(*MetricsInterceptor)) Middleware {
	return func(next agent.Invoker) agent.Invoker {
		m := NewMetricsInterceptor(next)
		if attach != nil {
			attach(m)
		}
		return m
	}
}

// WithLogging logs each invocation's latency and outcome through the given
// slog logger.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next agent.Invoker) agent.Invoker {
		return &loggingInterceptor{next: next, logger: logger}
	}
}

type loggingInterceptor struct {
	next   agent.Invoker
	logger *slog.Logger
}

func (l *loggingInterceptor) Invoke(ctx context.Context, req agent.Request) (agent.Response, error) {
	logger := l.logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	resp, err := l.next.Invoke(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		logger.ErrorContext(ctx, "agent invocation failed",
			"session_id", req.SessionID,
			"duration", elapsed,
			"error", err,
		)
		return resp, err
	}

	logger.InfoContext(ctx, "agent invocation completed",
		"session_id", req.SessionID,
		"duration", elapsed,
		"tool_calls", len(resp.ToolCalls),
	)
	return resp, nil
}
