package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"termtutor/llm/wiki"
)

type fakeSource struct {
	summary *wiki.Summary
	context *wiki.Context
	err     error
}

func (f *fakeSource) Summary(ctx context.Context, term string) (*wiki.Summary, error) {
	return f.summary, f.err
}

func (f *fakeSource) Context(ctx context.Context, term string) (*wiki.Context, error) {
	return f.context, f.err
}

func TestDefinitionReturnsSnippet(t *testing.T) {
	src := &fakeSource{summary: &wiki.Summary{
		Title:   "Gradient descent",
		Extract: "Gradient descent is a first-order iterative optimization algorithm.",
	}}

	got, err := definitionToolFunc(context.Background(), src, DefinitionToolParams{Term: "gradient descent"})
	if err != nil {
		t.Fatalf("tool func returned error: %v", err)
	}
	if got != src.summary.Extract {
		t.Errorf("unexpected content: %q", got)
	}
	if len(got) > wiki.SnippetMaxChars {
		t.Errorf("content exceeds snippet bound: %d chars", len(got))
	}
}

func TestDefinitionNotFoundMarker(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("lookup: %w", wiki.ErrNotFound)}

	got, err := definitionToolFunc(context.Background(), src, DefinitionToolParams{Term: "zzzzznotaterm123"})
	if err != nil {
		t.Fatalf("tool func returned error: %v", err)
	}
	if !strings.Contains(got, "Could not find") {
		t.Errorf("missing not-found marker: %q", got)
	}
	if strings.HasPrefix(got, "[ERROR]") {
		t.Errorf("not-found should not be an error result: %q", got)
	}
}

func TestDefinitionTransportFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}

	got, err := definitionToolFunc(context.Background(), src, DefinitionToolParams{Term: "gradient descent"})
	if err != nil {
		t.Fatalf("transport failure escaped the tool boundary: %v", err)
	}
	if !strings.HasPrefix(got, "[ERROR]") {
		t.Errorf("expected error-marked result, got %q", got)
	}
}

func TestDefinitionEmptyTerm(t *testing.T) {
	got, err := definitionToolFunc(context.Background(), &fakeSource{}, DefinitionToolParams{Term: "  "})
	if err != nil {
		t.Fatalf("tool func returned error: %v", err)
	}
	if !strings.HasPrefix(got, "[ERROR]") {
		t.Errorf("expected error-marked result for empty term, got %q", got)
	}
}

func TestContextListing(t *testing.T) {
	src := &fakeSource{context: &wiki.Context{
		Title:      "Backpropagation",
		Categories: []string{"Machine learning algorithms", "Artificial neural networks"},
		Related:    []string{"Gradient descent", "Chain rule"},
	}}

	got, err := contextToolFunc(context.Background(), src, ContextToolParams{Term: "backpropagation"})
	if err != nil {
		t.Fatalf("tool func returned error: %v", err)
	}
	if !strings.Contains(got, "Categories: Machine learning algorithms, Artificial neural networks") {
		t.Errorf("categories line missing: %q", got)
	}
	if !strings.Contains(got, "Related terms: Gradient descent, Chain rule") {
		t.Errorf("related terms line missing: %q", got)
	}
	if !strings.Contains(got, "<metadata") {
		t.Errorf("metadata suffix missing: %q", got)
	}
}

func TestContextNoContent(t *testing.T) {
	src := &fakeSource{context: &wiki.Context{Title: "Stub page"}}

	got, err := contextToolFunc(context.Background(), src, ContextToolParams{Term: "stub page"})
	if err != nil {
		t.Fatalf("tool func returned error: %v", err)
	}
	if !strings.Contains(got, "No context found") {
		t.Errorf("missing no-context marker: %q", got)
	}
}

func TestContextNotFound(t *testing.T) {
	src := &fakeSource{err: wiki.ErrNotFound}

	got, err := contextToolFunc(context.Background(), src, ContextToolParams{Term: "zzzzznotaterm123"})
	if err != nil {
		t.Fatalf("tool func returned error: %v", err)
	}
	if !strings.Contains(got, "No context found") {
		t.Errorf("missing no-context marker: %q", got)
	}
}

func TestToolResultString(t *testing.T) {
	res := &ToolResult{
		Status:  StatusSuccess,
		Content: "Context for x",
		Metadata: &Metadata{
			Term:       "x",
			Source:     "X (mathematics)",
			Categories: 2,
			Related:    3,
		},
	}

	got := res.String()
	for _, want := range []string{`term="x"`, `source="X (mathematics)"`, "categories=2", "related=3"} {
		if !strings.Contains(got, want) {
			t.Errorf("metadata attribute %q missing in %q", want, got)
		}
	}
}
