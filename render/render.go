package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"termtutor/llm/agent"
)

// Styles collects the lipgloss styles used for operator-facing output.
type Styles struct {
	Banner lipgloss.Style
	Header lipgloss.Style
	Prompt lipgloss.Style
	Tool   lipgloss.Style
	Err    lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() Styles {
	return Styles{
		Banner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Tool:   lipgloss.NewStyle().Faint(true),
		Err:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Renderer formats operator-facing output. Explanation bodies are rendered
// as terminal markdown when a glamour renderer could be constructed and
// passed through unstyled otherwise, so output degrades cleanly on dumb
// terminals and in tests.
type Renderer struct {
	md     *glamour.TermRenderer
	styles Styles
}

// New creates a Renderer with the default theme.
func New() *Renderer {
	md, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(100),
	)
	return &Renderer{md: md, styles: DefaultStyles()}
}

// NewPlain returns a Renderer without the markdown engine; explanation text
// passes through as-is. Useful for piped output and in tests.
func NewPlain() *Renderer {
	return &Renderer{styles: DefaultStyles()}
}

// Markdown renders text as terminal markdown, falling back to the raw text.
func (r *Renderer) Markdown(text string) string {
	if r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// Banner formats the session banner block.
func (r *Renderer) Banner(title, subtitle string) string {
	line := strings.Repeat("=", 60)
	return fmt.Sprintf("%s\n%s\n%s\n%s", line, r.styles.Banner.Render(title), subtitle, line)
}

// Result formats a tiered explanation, one labeled section per tier in
// fixed beginner-to-expert order.
func (r *Renderer) Result(term string, res agent.ExplanationResult) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Header.Render(fmt.Sprintf("Explaining: %s", term)))
	sb.WriteString("\n\n")

	for _, tier := range orderedTiers(res) {
		sb.WriteString(r.styles.Header.Render(tier.Header()))
		sb.WriteString("\n")
		sb.WriteString(r.Markdown(res[tier]))
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ToolCall formats a live progress line for one tool invocation.
func (r *Renderer) ToolCall(name, args string) string {
	return r.styles.Tool.Render(fmt.Sprintf("  → %s %s", name, args))
}

// Prompt styles an input prompt.
func (r *Renderer) Prompt(text string) string {
	return r.styles.Prompt.Render(text)
}

// Error styles a failure message.
func (r *Renderer) Error(text string) string {
	return r.styles.Err.Render(text)
}

func orderedTiers(res agent.ExplanationResult) []agent.Tier {
	ordered := make([]agent.Tier, 0, len(res))
	for _, tier := range agent.TierAll.Concrete() {
		if _, ok := res[tier]; ok {
			ordered = append(ordered, tier)
		}
	}
	return ordered
}
