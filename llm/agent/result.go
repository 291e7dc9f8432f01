package agent

import (
	"regexp"
	"strings"
)

// ExplanationResult maps each requested tier to its explanation text. A
// result for TierAll holds exactly the three concrete tiers, never the
// literal "all".
type ExplanationResult map[Tier]string

// Header-only line, e.g. "BEGINNER LEVEL:", "### Expert Level", "**INTERMEDIATE**:".
var headerLineRe = regexp.MustCompile(`(?i)^\s*[#*_>-]*\s*(beginner|intermediate|expert)(?:\s+level)?\s*:?\s*[#*_]*\s*$`)

// Header with the section starting on the same line, e.g.
// "BEGINNER LEVEL: Imagine a ball rolling downhill...".
var headerInlineRe = regexp.MustCompile(`(?i)^\s*[#*_>-]*\s*(beginner|intermediate|expert)\s+level\s*:\s*(.+)$`)

// newResult shapes the engine's final text into an ExplanationResult for the
// requested tier.
func newResult(tier Tier, text string) ExplanationResult {
	text = strings.TrimSpace(text)

	if tier != TierAll {
		return ExplanationResult{tier: text}
	}

	sections := splitSections(text)
	res := make(ExplanationResult, 3)
	for _, t := range TierAll.Concrete() {
		if s, ok := sections[t]; ok && s != "" {
			res[t] = s
		} else {
			// Could not isolate this tier's section; hand the caller
			// the full response rather than nothing.
			res[t] = text
		}
	}
	return res
}

// splitSections partitions a combined response by its tier section headers.
func splitSections(text string) map[Tier]string {
	sections := make(map[Tier]string)

	var current Tier
	var buf []string
	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headerLineRe.FindStringSubmatch(line); m != nil {
			flush()
			current = Tier(strings.ToLower(m[1]))
			continue
		}
		if m := headerInlineRe.FindStringSubmatch(line); m != nil {
			flush()
			current = Tier(strings.ToLower(m[1]))
			buf = append(buf, m[2])
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}
