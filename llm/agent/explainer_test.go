package agent

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTier(t *testing.T) {
	valid := map[string]Tier{
		"beginner":     TierBeginner,
		"INTERMEDIATE": TierIntermediate,
		" expert ":     TierExpert,
		"all":          TierAll,
	}
	for in, want := range valid {
		got, err := ParseTier(in)
		if err != nil {
			t.Errorf("ParseTier(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTier(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"", "novice", "all levels"} {
		if _, err := ParseTier(in); !errors.Is(err, ErrUnknownTier) {
			t.Errorf("ParseTier(%q) expected ErrUnknownTier, got %v", in, err)
		}
	}
}

func TestTierConcrete(t *testing.T) {
	got := TierAll.Concrete()
	want := []Tier{TierBeginner, TierIntermediate, TierExpert}
	if len(got) != len(want) {
		t.Fatalf("TierAll.Concrete() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TierAll.Concrete()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if single := TierExpert.Concrete(); len(single) != 1 || single[0] != TierExpert {
		t.Errorf("TierExpert.Concrete() = %v", single)
	}
}

func TestBuildPromptAllTiers(t *testing.T) {
	prompt := buildPrompt("gradient descent", TierAll)

	for _, header := range []string{"BEGINNER LEVEL:", "INTERMEDIATE LEVEL:", "EXPERT LEVEL:"} {
		if !strings.Contains(prompt, header) {
			t.Errorf("prompt missing section header %q", header)
		}
	}
	if !strings.Contains(prompt, "fetch_definition") {
		t.Error("prompt does not direct the model to the definition tool")
	}
	if !strings.Contains(prompt, `"gradient descent"`) {
		t.Error("prompt does not quote the term")
	}
}

func TestBuildPromptSingleTier(t *testing.T) {
	prompt := buildPrompt("attention mechanism", TierBeginner)

	if !strings.Contains(prompt, "BEGINNER") {
		t.Error("prompt missing the requested level")
	}
	if !strings.Contains(prompt, tierInstructions[TierBeginner]) {
		t.Error("prompt missing the beginner calibration instructions")
	}
	if strings.Contains(prompt, "EXPERT LEVEL:") {
		t.Error("single-tier prompt should not request other sections")
	}
}

func TestIsStepBudgetErr(t *testing.T) {
	if !isStepBudgetErr(errors.New("agent run exceeded max iterations: 5")) {
		t.Error("iteration exhaustion not recognized")
	}
	if isStepBudgetErr(errors.New("connection reset by peer")) {
		t.Error("transport error misclassified as step budget exhaustion")
	}
}
