// Package models provides language model providers behind a single
// one-method interface the agent consumes.
package models

import "context"

// Model generates a completion for a fully rendered prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
