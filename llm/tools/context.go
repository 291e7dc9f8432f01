package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"termtutor/llm/wiki"
)

// ContextToolName is the name of the related-context lookup tool.
const ContextToolName = "term_context"

// ContextToolParams defines the arguments for the context tool.
type ContextToolParams struct {
	Term string `json:"term" jsonschema:"description=The AI/ML term to gather categories and related terms for"`
}

// contextDescription is the detailed tool description for the AI.
const contextDescription = `Get additional context for an AI/ML term: its
encyclopedia categories and related terms.

BEFORE USING:
- Use after fetch_definition when the explanation should connect the term
  to neighboring concepts
- Call at most once per term; results do not change between calls

CAPABILITIES:
- Returns up to 5 category labels and up to 5 related terms
- Falls back to a full-text search when the exact page does not exist

PARAMETERS:
- term (required): the term to gather context for

OUTPUT FORMAT:
A "Categories:" line and a "Related terms:" line, or a "No context found"
message when nothing is available.

EXAMPLES:
- {"term": "backpropagation"}`

// NewContextTool builds the context tool on top of the given source.
func NewContextTool(src Source) tool.InvokableTool {
	t, err := utils.InferTool(
		ContextToolName,
		contextDescription,
		func(ctx context.Context, params ContextToolParams) (string, error) {
			return contextToolFunc(ctx, src, params)
		},
	)
	if err != nil {
		log.Fatalf("failed to create context tool: %v", err)
	}
	return t
}

func contextToolFunc(ctx context.Context, src Source, params ContextToolParams) (string, error) {
	term := strings.TrimSpace(params.Term)
	if term == "" {
		return Error("term parameter is required")
	}

	info, err := src.Context(ctx, term)
	if errors.Is(err, wiki.ErrNotFound) {
		return Success(noContextFound(term), nil)
	}
	if err != nil {
		return Error(fmt.Sprintf("context lookup failed: %v", err))
	}

	if len(info.Categories) == 0 && len(info.Related) == 0 {
		return Success(noContextFound(term), nil)
	}

	content := fmt.Sprintf("Context for %q:\nCategories: %s\nRelated terms: %s",
		term,
		strings.Join(info.Categories, ", "),
		strings.Join(info.Related, ", "),
	)

	return Success(content, &Metadata{
		Term:       term,
		Source:     info.Title,
		Categories: len(info.Categories),
		Related:    len(info.Related),
	})
}

// noContextFound is the marker returned when no context is available.
func noContextFound(term string) string {
	return fmt.Sprintf("No context found for %q.", term)
}
