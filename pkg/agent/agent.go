package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const defaultSystemPrompt = "You are a helpful assistant. Answer concisely and call tools when they improve the answer."

// defaultSession is used when a Request carries no session id.
const defaultSession = "default"

// maxToolRounds bounds how many consecutive tool directives the model may
// issue within a single turn before the loop is cut off.
const maxToolRounds = 4

// Model is the language model surface the agent consumes. pkg/models provides
// implementations for the supported providers.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Agent orchestrates model calls and tool dispatch for one conversation
// pipeline. It implements Invoker; every executed tool is reported in the
// returned Response so wrappers can observe tool usage without reaching into
// the agent.
type Agent struct {
	model        Model
	systemPrompt string
	historyLimit int
	catalog      ToolCatalog

	mu          sync.Mutex
	transcripts map[string][]transcriptEntry
}

type transcriptEntry struct {
	role    string
	content string
}

// Options configure a new Agent.
type Options struct {
	Model        Model
	SystemPrompt string
	HistoryLimit int
	Tools        []Tool
	Catalog      ToolCatalog
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}

	systemPrompt := opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 16
	}

	catalog := opts.Catalog
	tolerant := false
	if catalog == nil {
		catalog = NewStaticToolCatalog(nil)
		tolerant = true
	}
	for _, tool := range opts.Tools {
		if tool == nil {
			continue
		}
		if err := catalog.Register(tool); err != nil {
			if tolerant {
				continue
			}
			return nil, err
		}
	}

	return &Agent{
		model:        opts.Model,
		systemPrompt: systemPrompt,
		historyLimit: historyLimit,
		catalog:      catalog,
		transcripts:  make(map[string][]transcriptEntry),
	}, nil
}

// Invoke processes a user message, letting the model reply and executing any
// `tool:<name> <json-args>` directives it issues along the way. Directives in
// the user message itself are dispatched directly, which keeps tools scriptable
// without a model round-trip.
func (a *Agent) Invoke(ctx context.Context, req Request) (Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{}, errors.New("user input is empty")
	}

	session := strings.TrimSpace(req.SessionID)
	if session == "" {
		session = defaultSession
	}

	a.appendTranscript(session, "user", message)

	var calls []ToolCall

	// Direct tool directive from the caller: dispatch and return.
	if name, args, ok := parseToolDirective(message); ok {
		output, call, err := a.dispatchTool(ctx, session, name, args)
		if err != nil {
			a.appendTranscript(session, "assistant", fmt.Sprintf("tool error: %v", err))
			return Response{}, err
		}
		a.appendTranscript(session, "assistant", output)
		return Response{Content: output, ToolCalls: []ToolCall{call}}, nil
	}

	reply, err := a.model.Generate(ctx, a.buildPrompt(session, message))
	if err != nil {
		return Response{}, fmt.Errorf("model generate: %w", err)
	}

	// The model may answer with a tool directive; execute it, feed the result
	// back, and let the model continue, up to maxToolRounds.
	for round := 0; round < maxToolRounds; round++ {
		name, args, ok := parseToolDirective(reply)
		if !ok {
			break
		}
		output, call, err := a.dispatchTool(ctx, session, name, args)
		if err != nil {
			return Response{}, err
		}
		calls = append(calls, call)
		a.appendTranscript(session, "tool", fmt.Sprintf("%s => %s", call.Name, strings.TrimSpace(output)))

		reply, err = a.model.Generate(ctx, a.buildPrompt(session, message))
		if err != nil {
			return Response{}, fmt.Errorf("model generate: %w", err)
		}
	}

	reply = strings.TrimSpace(reply)
	a.appendTranscript(session, "assistant", reply)
	return Response{Content: reply, ToolCalls: calls}, nil
}

// Reset discards the transcript of the given session.
func (a *Agent) Reset(sessionID string) {
	session := strings.TrimSpace(sessionID)
	if session == "" {
		session = defaultSession
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.transcripts, session)
}

// ToolSpecs returns the registered tool specifications in deterministic order.
func (a *Agent) ToolSpecs() []ToolSpec {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.Specs()
}

func (a *Agent) dispatchTool(ctx context.Context, session, name string, args map[string]any) (string, ToolCall, error) {
	tool, spec, ok := a.catalog.Lookup(name)
	if !ok {
		return "", ToolCall{}, fmt.Errorf("unknown tool: %s", name)
	}
	resp, err := tool.Invoke(ctx, ToolRequest{SessionID: session, Arguments: args})
	if err != nil {
		return "", ToolCall{}, fmt.Errorf("tool %s: %w", spec.Name, err)
	}
	return resp.Content, ToolCall{Name: spec.Name, Arguments: args}, nil
}

func (a *Agent) buildPrompt(session, userInput string) string {
	var sb strings.Builder
	sb.Grow(2048)

	sb.WriteString(a.systemPrompt)

	if specs := a.ToolSpecs(); len(specs) > 0 {
		sb.WriteString("\n\nAvailable tools:\n")
		for _, spec := range specs {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
			if len(spec.InputSchema) > 0 {
				if schemaJSON, err := json.Marshal(spec.InputSchema); err == nil {
					sb.WriteString("  Input schema: ")
					sb.Write(schemaJSON)
					sb.WriteString("\n")
				}
			}
		}
		sb.WriteString("Invoke a tool by replying with exactly `tool:<name> <json arguments>`.\n")
	}

	sb.WriteString("\nConversation so far:\n")
	entries := a.transcriptSnapshot(session)
	if len(entries) == 0 {
		sb.WriteString("(empty)\n")
	} else {
		for i, entry := range entries {
			sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, entry.role, entry.content))
		}
	}

	sb.WriteString("\nCurrent user message:\n")
	sb.WriteString(strings.TrimSpace(userInput))
	sb.WriteString("\n\nCompose the best possible assistant reply.\n")
	return sb.String()
}

func (a *Agent) appendTranscript(session, role, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	entries := append(a.transcripts[session], transcriptEntry{role: role, content: content})
	if len(entries) > a.historyLimit {
		entries = entries[len(entries)-a.historyLimit:]
	}
	a.transcripts[session] = entries
}

func (a *Agent) transcriptSnapshot(session string) []transcriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	entries := a.transcripts[session]
	out := make([]transcriptEntry, len(entries))
	copy(out, entries)
	return out
}

// parseToolDirective recognises `tool:<name> <arguments>` at the start of a
// message. Arguments may be a JSON object, a JSON array, or free text.
func parseToolDirective(message string) (name string, args map[string]any, ok bool) {
	trimmed := strings.TrimSpace(message)
	if !strings.HasPrefix(strings.ToLower(trimmed), "tool:") {
		return "", nil, false
	}
	payload := strings.TrimSpace(trimmed[len("tool:"):])
	if payload == "" {
		return "", nil, false
	}
	fields := strings.Fields(payload)
	name = fields[0]
	raw := strings.TrimSpace(payload[len(name):])
	return name, parseToolArguments(raw), true
}

func parseToolArguments(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}
	if strings.HasPrefix(raw, "{") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			return payload
		}
	}
	if strings.HasPrefix(raw, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return map[string]any{"items": arr}
		}
	}
	return map[string]any{"input": raw}
}
