package mcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// StdioConfig describes how to spawn an MCP server on the stdio transport.
type StdioConfig struct {
	Command string
	Args    []string
	Dir     string
	Env     []string

	// Stderr, when provided, receives the standard error stream of the
	// spawned server process. Defaults to os.Stderr.
	Stderr io.Writer

	Options Options
}

// NewStdioClient starts the configured command and binds its stdin/stdout
// pipes to a client transport. The caller must Close the returned client to
// end the session; closing also reaps the child process.
func NewStdioClient(ctx context.Context, cfg StdioConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("mcp: stdio command is required")
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	if cfg.Stderr != nil {
		cmd.Stderr = cfg.Stderr
	} else {
		cmd.Stderr = os.Stderr
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp: stdout pipe: %w", err)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp: stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("mcp: start command: %w", err)
	}

	transport := &stdioTransport{
		scanner: newLineScanner(stdout),
		writer:  stdin,
		closer: func() error {
			stdin.Close()
			stdout.Close()
			return cmd.Wait()
		},
	}

	client, err := NewClient(ctx, transport, cfg.Options)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewPipeTransport binds a transport to an arbitrary reader/writer pair.
// Useful for in-process servers and tests.
func NewPipeTransport(r io.Reader, w io.Writer) Transport {
	return &stdioTransport{scanner: newLineScanner(r), writer: w}
}

// stdioTransport frames messages as newline-delimited JSON.
type stdioTransport struct {
	scanner *bufio.Scanner
	writer  io.Writer
	closer  func() error

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return scanner
}

func (t *stdioTransport) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(payload); err != nil {
		return err
	}
	_, err := t.writer.Write([]byte{'\n'})
	return err
}

func (t *stdioTransport) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for t.scanner.Scan() {
		line := strings.TrimSpace(t.scanner.Text())
		if line == "" {
			continue
		}
		return []byte(line), nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (t *stdioTransport) Close() error {
	t.closeOnce.Do(func() {
		if t.closer != nil {
			t.closeErr = t.closer()
		}
	})
	return t.closeErr
}
