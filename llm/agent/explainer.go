package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
)

// DefaultMaxSteps is the reasoning step budget: the engine must finish its
// tool calls and emit the final answer within this many iterations.
const DefaultMaxSteps = 5

// Tier is a fixed explanation complexity level.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierExpert       Tier = "expert"
	// TierAll requests all three concrete tiers in one run.
	TierAll Tier = "all"
)

// ErrUnknownTier is returned for difficulty values outside the enumeration.
var ErrUnknownTier = errors.New("unknown difficulty tier")

// ParseTier normalizes a difficulty string into a Tier.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierBeginner, TierIntermediate, TierExpert, TierAll:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// Concrete expands TierAll into the three concrete tiers; a concrete tier
// expands to itself.
func (t Tier) Concrete() []Tier {
	if t == TierAll {
		return []Tier{TierBeginner, TierIntermediate, TierExpert}
	}
	return []Tier{t}
}

// Header is the section header the model is told to use for this tier.
func (t Tier) Header() string {
	return strings.ToUpper(string(t)) + " LEVEL:"
}

var tierInstructions = map[Tier]string{
	TierBeginner:     "simple analogies, no jargon; explain as if to a complete beginner",
	TierIntermediate: "technical details and elementary math; assume basic AI/ML knowledge",
	TierExpert:       "deep technical treatment: mathematical formulations, implementation details, connections to related concepts",
}

// explainerInstruction defines the persona and workflow for the term
// explainer agent.
const explainerInstruction = `You are a tutor that explains AI and machine
learning terminology at requested difficulty levels.

TOOLS
1. fetch_definition: get the encyclopedia definition of a term
2. term_context: get categories and related terms for a term

WORKFLOW
- Always call fetch_definition first to ground the explanation.
- Call term_context when connecting the term to neighboring concepts would
  improve the explanation.
- If the tools report that no page exists, explain the term from your own
  knowledge and note that the encyclopedia source was unavailable.
- Never cite a source you did not fetch.

STYLE
Clear, structured, calibrated exactly to the requested level. A beginner
explanation must contain no formulas and no jargon; an expert explanation
should include the underlying mathematics.`

// buildPrompt constructs the task description for one explanation run.
func buildPrompt(term string, tier Tier) string {
	if tier == TierAll {
		return fmt.Sprintf(`Explain the AI/ML term %q at three difficulty levels.

1. BEGINNER level: the reader has no prior AI/ML knowledge. Use simple
   analogies and avoid technical jargon.
2. INTERMEDIATE level: the reader has basic AI/ML knowledge. Include
   technical details and mathematical concepts where relevant.
3. EXPERT level: a deep technical explanation suitable for researchers, with
   mathematical formulations, implementation details, and connections to
   related concepts.

First use the fetch_definition tool to get the base definition, then adapt
what you learned to each level.

Format all three explanations as one combined response with exactly these
section headers:

%s
[your beginner explanation]

%s
[your intermediate explanation]

%s
[your expert explanation]

Produce the complete response once; do not answer level by level.`,
			term, TierBeginner.Header(), TierIntermediate.Header(), TierExpert.Header())
	}

	return fmt.Sprintf(`Explain the AI/ML term %q at the %s level.

First use the fetch_definition tool to get the base definition, then adapt it
to that level: %s.

Provide a clear, structured explanation.`,
		term, strings.ToUpper(string(tier)), tierInstructions[tier])
}

// Config holds dependencies for the explainer agent.
type Config struct {
	ChatModel model.ToolCallingChatModel
	Tools     []tool.BaseTool
	// MaxSteps overrides DefaultMaxSteps when positive.
	MaxSteps int
}

// NewExplainerAgent creates the term explainer agent with the registered
// tools and the bounded step budget.
func NewExplainerAgent(ctx context.Context, cfg *Config) (adk.Agent, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	return adk.NewChatModelAgent(ctx, &adk.ChatModelAgentConfig{
		Name:        "TermExplainer",
		Description: "Explains AI/ML terminology at beginner, intermediate and expert levels using encyclopedia lookups.",
		Instruction: explainerInstruction,
		Model:       cfg.ChatModel,
		ToolsConfig: adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: cfg.Tools,
			},
		},
		MaxIterations: maxSteps,
	})
}
