package agent

import "context"

// Request is a single user turn addressed to an Invoker. The session id
// partitions conversation transcripts; callers that do not care can leave it
// empty and share the default session.
type Request struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ToolCall records one tool executed while producing a Response.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Response is the outcome of one Invoke turn. ToolCalls may be empty when the
// turn completed without touching any tool.
type Response struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Invoker is anything that can answer a Request. The Agent implements it, and
// so do the interceptors in pkg/observability, which lets callers stack
// instrumentation in front of an agent without changing the call site.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// ToolSpec describes how a tool is presented to the model.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// ToolRequest captures an invocation request for a tool.
type ToolRequest struct {
	SessionID string
	Arguments map[string]any
}

// ToolResponse is the structured response returned by a tool.
type ToolResponse struct {
	Content  string
	Metadata map[string]string
}

// Tool exposes structured metadata and an invocation handler.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}
