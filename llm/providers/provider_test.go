package providers

import (
	"errors"
	"strings"
	"testing"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) string { return env[key] }
}

func TestSelectPriorityOrder(t *testing.T) {
	p, key, err := Select(mapLookup(map[string]string{
		"GROQ_API_KEY":       "groq-key",
		"OPENROUTER_API_KEY": "or-key",
		"OPENAI_API_KEY":     "oa-key",
	}))
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if p.Name != "openrouter" {
		t.Errorf("expected openrouter to win, got %s", p.Name)
	}
	if key != "or-key" {
		t.Errorf("wrong credential returned: %q", key)
	}
}

func TestSelectSkipsAbsent(t *testing.T) {
	p, _, err := Select(mapLookup(map[string]string{
		"GEMINI_API_KEY": "g-key",
	}))
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if p.Name != "gemini" {
		t.Errorf("expected gemini, got %s", p.Name)
	}
}

func TestSelectNoCredentials(t *testing.T) {
	_, _, err := Select(mapLookup(nil))
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	// The startup failure message must tell the operator what to set.
	for _, want := range []string{"OPENROUTER_API_KEY", "TOGETHER_API_KEY", "GROQ_API_KEY", "DASHSCOPE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error message missing %s: %v", want, err)
		}
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	chain := Chain()
	p := &chain[0]

	cfg := resolveConfig(p, "key", mapLookup(nil))
	if cfg.Model != p.Model || cfg.BaseURL != p.BaseURL || cfg.APIKey != "key" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestResolveConfigOverrides(t *testing.T) {
	chain := Chain()
	p := &chain[0] // openrouter

	cfg := resolveConfig(p, "key", mapLookup(map[string]string{
		"OPENROUTER_MODEL":    "qwen/qwen-2.5-72b-instruct",
		"OPENROUTER_BASE_URL": "https://proxy.internal/v1",
	}))
	if cfg.Model != "qwen/qwen-2.5-72b-instruct" {
		t.Errorf("model override not applied: %q", cfg.Model)
	}
	if cfg.BaseURL != "https://proxy.internal/v1" {
		t.Errorf("base URL override not applied: %q", cfg.BaseURL)
	}
}

func TestChainIsStable(t *testing.T) {
	want := []string{"openrouter", "together", "groq", "dashscope", "gemini", "openai"}
	chain := Chain()
	if len(chain) != len(want) {
		t.Fatalf("chain length changed: %d", len(chain))
	}
	for i, p := range chain {
		if p.Name != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, p.Name, want[i])
		}
		if p.KeyEnv == "" || p.Model == "" || p.build == nil {
			t.Errorf("provider %s incomplete: %+v", p.Name, p)
		}
	}
}
