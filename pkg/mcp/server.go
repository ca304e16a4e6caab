package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ToolHandler executes a server-hosted tool. The returned string becomes the
// text content of the call result; an error is reported as an isError result
// per the MCP convention rather than a protocol failure.
type ToolHandler func(ctx context.Context, arguments map[string]any) (string, error)

// Server hosts tools over the stdio framing understood by Client. It handles
// initialize, tools/list and tools/call; unknown methods get a JSON-RPC
// method-not-found error and notifications are ignored.
type Server struct {
	name    string
	version string

	mu       sync.RWMutex
	tools    map[string]ToolDefinition
	handlers map[string]ToolHandler
	order    []string
}

// NewServer creates a server advertising the given implementation metadata.
func NewServer(name, version string) *Server {
	return &Server{
		name:     name,
		version:  version,
		tools:    make(map[string]ToolDefinition),
		handlers: make(map[string]ToolHandler),
	}
}

// Register adds a tool. Later registrations under the same name replace
// earlier ones.
func (s *Server) Register(def ToolDefinition, handler ToolHandler) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return fmt.Errorf("mcp: tool name is empty")
	}
	if handler == nil {
		return fmt.Errorf("mcp: tool %s has no handler", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[name]; !exists {
		s.order = append(s.order, name)
	}
	s.tools[name] = def
	s.handlers[name] = handler
	return nil
}

type serverRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type serverResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// Serve reads newline-delimited JSON-RPC requests from r and writes responses
// to w until r is exhausted or ctx is cancelled. Intended for stdio mains:
// Serve(ctx, os.Stdin, os.Stdout).
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := newLineScanner(r)
	writer := bufio.NewWriter(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req serverRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			// Cannot attribute an id; skip the malformed line.
			continue
		}

		// Notifications carry no id and get no response.
		if len(req.ID) == 0 {
			continue
		}

		resp := s.handle(ctx, req)
		payload, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("mcp: marshal response: %w", err)
		}
		if _, err := writer.Write(payload); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req serverRequest) serverResponse {
	resp := serverResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo":      ServerInfo{Name: s.name, Version: s.version},
			"capabilities":    map[string]any{"tools": map[string]any{}},
		}
	case "tools/list":
		resp.Result = map[string]any{"tools": s.listTools()}
	case "tools/call":
		var params struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: -32602, Message: "invalid params"}
			break
		}
		result, err := s.callTool(ctx, params.Name, params.Arguments)
		if err != nil {
			resp.Error = &rpcError{Code: -32602, Message: err.Error()}
			break
		}
		resp.Result = result
	case "ping", "shutdown":
		resp.Result = map[string]any{}
	default:
		resp.Error = &rpcError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}

	return resp
}

func (s *Server) listTools() []ToolDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(s.order))
	for _, name := range s.order {
		defs = append(defs, s.tools[name])
	}
	return defs
}

func (s *Server) callTool(ctx context.Context, name string, arguments map[string]any) (CallResult, error) {
	s.mu.RLock()
	handler, ok := s.handlers[strings.TrimSpace(name)]
	s.mu.RUnlock()
	if !ok {
		return CallResult{}, fmt.Errorf("unknown tool: %s", name)
	}

	output, err := handler(ctx, arguments)
	if err != nil {
		return CallResult{
			Content: []Content{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}
	return CallResult{Content: []Content{{Type: "text", Text: output}}}, nil
}
