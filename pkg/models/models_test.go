package models

import (
	"context"
	"strings"
	"testing"
)

func TestDummyModelEchoesLastLine(t *testing.T) {
	model := NewDummyModel("")

	out, err := model.Generate(context.Background(), "system stuff\n\nCurrent user message:\nhello there\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Dummy response:") {
		t.Fatalf("expected default prefix, got %q", out)
	}
	if !strings.Contains(out, "hello there") {
		t.Fatalf("expected last non-empty line in output, got %q", out)
	}
}

func TestDummyModelEmptyPrompt(t *testing.T) {
	model := NewDummyModel("stub:")

	out, err := model.Generate(context.Background(), "\n\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "stub: <empty prompt>" {
		t.Fatalf("unexpected output %q", out)
	}
}
