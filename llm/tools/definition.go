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

// DefinitionToolName is the name of the definition lookup tool.
const DefinitionToolName = "fetch_definition"

// DefinitionToolParams defines the arguments for the definition tool.
type DefinitionToolParams struct {
	Term string `json:"term" jsonschema:"description=The AI/ML term to look up, e.g. cross-entropy loss"`
}

// definitionDescription is the detailed tool description for the AI.
const definitionDescription = `Fetch the encyclopedia definition of an AI/ML term.

BEFORE USING:
- Prefer the common, canonical name of the term
- Call this tool once per term; results do not change between calls

CAPABILITIES:
- Looks up the term's encyclopedia page and returns its introduction
- Falls back to a full-text search when the exact page does not exist
- Output is plain text, truncated to at most 500 characters

PARAMETERS:
- term (required): the term to define

OUTPUT FORMAT:
Returns the truncated definition text, or a clearly marked "could not find"
message when no page exists for the term.

EXAMPLES:
- {"term": "gradient descent"}
- {"term": "attention mechanism"}`

// NewDefinitionTool builds the definition tool on top of the given source.
func NewDefinitionTool(src Source) tool.InvokableTool {
	t, err := utils.InferTool(
		DefinitionToolName,
		definitionDescription,
		func(ctx context.Context, params DefinitionToolParams) (string, error) {
			return definitionToolFunc(ctx, src, params)
		},
	)
	if err != nil {
		log.Fatalf("failed to create definition tool: %v", err)
	}
	return t
}

// definitionToolFunc implements the lookup. Every failure is converted into
// result text; the error return is always nil.
func definitionToolFunc(ctx context.Context, src Source, params DefinitionToolParams) (string, error) {
	term := strings.TrimSpace(params.Term)
	if term == "" {
		return Error("term parameter is required")
	}

	sum, err := src.Summary(ctx, term)
	if errors.Is(err, wiki.ErrNotFound) {
		return Success(definitionNotFound(term), nil)
	}
	if err != nil {
		return Error(fmt.Sprintf("definition lookup failed: %v", err))
	}

	// No metadata suffix here: the snippet alone must stay within the
	// 500-character bound handed to the model.
	return Success(sum.Extract, nil)
}

// definitionNotFound is the marker returned when no page matches the term.
func definitionNotFound(term string) string {
	return fmt.Sprintf("Could not find an encyclopedia page for %q. Please try a different term.", term)
}
