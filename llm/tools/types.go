package tools

import (
	"context"
	"fmt"
	"strings"

	"termtutor/llm/wiki"
)

// Source is the read-only knowledge lookup the tools are built on. It is
// satisfied by *wiki.Client; tests substitute a fake.
type Source interface {
	Summary(ctx context.Context, term string) (*wiki.Summary, error)
	Context(ctx context.Context, term string) (*wiki.Context, error)
}

// ResultStatus represents the status of a tool execution.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// Metadata contains structured metadata about a lookup.
type Metadata struct {
	Term       string `json:"term,omitempty"`
	Source     string `json:"source,omitempty"` // resolved page title
	Categories int    `json:"categories,omitempty"`
	Related    int    `json:"related,omitempty"`
}

// ToolResult represents a structured tool response.
type ToolResult struct {
	Status   ResultStatus `json:"status"`
	Content  string       `json:"content"`
	Metadata *Metadata    `json:"metadata,omitempty"`
}

// String returns the formatted representation handed to the LLM.
func (r *ToolResult) String() string {
	var sb strings.Builder

	if r.Status == StatusError {
		sb.WriteString("[ERROR] ")
	}

	sb.WriteString(r.Content)

	if r.Metadata != nil {
		md := r.Metadata
		var attrs []string

		if md.Term != "" {
			attrs = append(attrs, fmt.Sprintf("term=%q", md.Term))
		}
		if md.Source != "" {
			attrs = append(attrs, fmt.Sprintf("source=%q", md.Source))
		}
		if md.Categories > 0 {
			attrs = append(attrs, fmt.Sprintf("categories=%d", md.Categories))
		}
		if md.Related > 0 {
			attrs = append(attrs, fmt.Sprintf("related=%d", md.Related))
		}

		if len(attrs) > 0 {
			sb.WriteString(fmt.Sprintf("\n\n<metadata %s />", strings.Join(attrs, " ")))
		}
	}

	return sb.String()
}

// Success creates a successful tool result. The returned error is always nil:
// tools report failures as text, never as Go errors, so a lookup problem can
// never abort the agent's step loop.
func Success(content string, metadata *Metadata) (string, error) {
	return (&ToolResult{
		Status:   StatusSuccess,
		Content:  content,
		Metadata: metadata,
	}).String(), nil
}

// Error creates an error tool result, again with a nil Go error.
func Error(content string) (string, error) {
	return (&ToolResult{
		Status:  StatusError,
		Content: content,
	}).String(), nil
}
