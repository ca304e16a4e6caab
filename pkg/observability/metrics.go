// Package observability provides interceptors that wrap an agent.Invoker to
// record call metrics and structured logs without changing the invocation
// contract. Metrics state is scoped to the interceptor instance, never
// process-wide, so independent pipelines in one process keep independent
// counters.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
)

// MetricsInterceptor wraps an Invoker and aggregates per-call statistics:
// attempted calls, failures, success-path latency, and per-tool usage counts.
// It is safe for concurrent use; the downstream call runs outside the lock so
// concurrent invocations are only serialised for the counter updates.
type MetricsInterceptor struct {
	next agent.Invoker

	mu            sync.Mutex
	totalCalls    int64
	totalErrors   int64
	totalToolCall int64
	totalExecTime time.Duration
	toolUsage     map[string]int64
}

// MetricsSnapshot is a point-in-time copy of the interceptor's state plus the
// derived statistics. Durations are reported in seconds. Snapshots are
// detached values: later calls through the interceptor never change a snapshot
// that was already returned.
type MetricsSnapshot struct {
	TotalCalls           int64            `json:"total_calls"`
	TotalToolCalls       int64            `json:"total_tool_calls"`
	TotalErrors          int64            `json:"total_errors"`
	TotalExecutionTime   float64          `json:"total_execution_time"`
	ToolUsage            map[string]int64 `json:"tool_usage"`
	AverageExecutionTime float64          `json:"average_execution_time"`
	ErrorRate            float64          `json:"error_rate"`
}

// NewMetricsInterceptor wraps next with a fresh, zeroed metrics state.
func NewMetricsInterceptor(next agent.Invoker) *MetricsInterceptor {
	return &MetricsInterceptor{
		next:      next,
		toolUsage: make(map[string]int64),
	}
}

// Invoke delegates to the wrapped Invoker and records the outcome. The call
// counter moves before delegation, so attempted calls reflect offered load
// regardless of outcome. Failed calls contribute only to the error counter;
// latency and tool accounting track completed work only. Errors pass through
// unchanged.
func (m *MetricsInterceptor) Invoke(ctx context.Context, req agent.Request) (agent.Response, error) {
	start := time.Now()

	m.mu.Lock()
	m.totalCalls++
	m.mu.Unlock()

	resp, err := m.next.Invoke(ctx, req)
	if err != nil {
		m.mu.Lock()
		m.totalErrors++
		m.mu.Unlock()
		return resp, err
	}

	elapsed := time.Since(start)

	m.mu.Lock()
	m.totalExecTime += elapsed
	m.totalToolCall += int64(len(resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		m.toolUsage[call.Name]++
	}
	m.mu.Unlock()

	return resp, nil
}

// Summary returns a consistent snapshot of the current metrics. The error rate
// keeps the max(1, calls) denominator so a never-invoked interceptor reports
// zero rather than an undefined rate.
func (m *MetricsInterceptor) Summary() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	usage := make(map[string]int64, len(m.toolUsage))
	for name, count := range m.toolUsage {
		usage[name] = count
	}

	snapshot := MetricsSnapshot{
		TotalCalls:         m.totalCalls,
		TotalToolCalls:     m.totalToolCall,
		TotalErrors:        m.totalErrors,
		TotalExecutionTime: m.totalExecTime.Seconds(),
		ToolUsage:          usage,
	}

	if m.totalCalls > 0 {
		snapshot.AverageExecutionTime = snapshot.TotalExecutionTime / float64(m.totalCalls)
	}

	denominator := m.totalCalls
	if denominator < 1 {
		denominator = 1
	}
	snapshot.ErrorRate = float64(m.totalErrors) / float64(denominator)

	return snapshot
}

var _ agent.Invoker = (*MetricsInterceptor)(nil)
