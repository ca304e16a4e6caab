package agent

import (
	"context"
	"strings"
	"testing"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

func TestAsUTCPToolHandler(t *testing.T) {
	model := &scriptedModel{replies: []string{"pong"}}
	a, _ := New(Options{Model: model})

	tool := AsUTCPTool(a, "local.agent", "answers questions")
	if tool.Handler == nil {
		t.Fatalf("expected in-process handler")
	}

	out, err := tool.Handler(context.Background(), map[string]interface{}{"instruction": "ping"})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	result, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %#v", out)
	}
	if resp, _ := result["response"].(string); !strings.Contains(resp, "pong") {
		t.Fatalf("expected model reply in response, got %q", resp)
	}
	if sid, _ := result["session_id"].(string); sid != "local.session" {
		t.Fatalf("expected provider-derived session id, got %q", sid)
	}
}

func TestAsUTCPToolHandlerValidatesInstruction(t *testing.T) {
	a, _ := New(Options{Model: &scriptedModel{replies: []string{"ok"}}})

	tool := AsUTCPTool(a, "local.agent", "desc")
	if _, err := tool.Handler(context.Background(), map[string]interface{}{}); err == nil {
		t.Fatalf("expected error for missing instruction")
	}
}

func TestRegisterUTCPProvider(t *testing.T) {
	ctx := context.Background()
	a, _ := New(Options{Model: &scriptedModel{replies: []string{"ok"}}})

	client, err := utcp.NewUTCPClient(ctx, nil, nil, nil)
	if err != nil {
		t.Fatalf("failed to create utcp client: %v", err)
	}

	if err := RegisterUTCPProvider(ctx, client, a, "local.agent", "desc"); err != nil {
		t.Fatalf("register utcp provider: %v", err)
	}

	out, err := client.CallTool(ctx, "local.agent", map[string]any{
		"instruction": "hi",
		"session_id":  "custom-session",
	})
	if err != nil {
		t.Fatalf("CallTool error: %v", err)
	}
	result, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %#v", out)
	}
	if sid, _ := result["session_id"].(string); sid != "custom-session" {
		t.Fatalf("expected custom session id, got %q", sid)
	}
}
