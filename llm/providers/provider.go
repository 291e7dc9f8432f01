package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	geminiModel "github.com/cloudwego/eino-ext/components/model/gemini"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// ErrNoCredentials is returned when no provider credential is present in the
// environment. It is fatal at startup.
var ErrNoCredentials = errors.New("no provider credentials found")

// LookupFunc resolves a named environment value. Production code passes
// os.Getenv; tests pass a map lookup.
type LookupFunc func(string) string

// ModelConfig is the resolved configuration handed to a provider builder.
type ModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Provider is one entry in the credential chain: a named backend, the
// environment keys that configure it, its defaults, and its constructor.
type Provider struct {
	Name       string
	KeyEnv     string
	ModelEnv   string
	BaseURLEnv string
	BaseURL    string
	Model      string

	build func(ctx context.Context, cfg *ModelConfig) (model.ToolCallingChatModel, error)
}

// Chain returns the credential chain in priority order. The first provider
// whose key is present wins; the order is fixed for the process lifetime.
func Chain() []Provider {
	return []Provider{
		{
			Name:       "openrouter",
			KeyEnv:     "OPENROUTER_API_KEY",
			ModelEnv:   "OPENROUTER_MODEL",
			BaseURLEnv: "OPENROUTER_BASE_URL",
			BaseURL:    "https://openrouter.ai/api/v1",
			Model:      "qwen/qwen-2.5-7b-instruct",
			build:      newOpenAICompatible,
		},
		{
			Name:       "together",
			KeyEnv:     "TOGETHER_API_KEY",
			ModelEnv:   "TOGETHER_MODEL",
			BaseURLEnv: "TOGETHER_BASE_URL",
			BaseURL:    "https://api.together.xyz/v1",
			Model:      "Qwen/Qwen2.5-7B-Instruct",
			build:      newOpenAICompatible,
		},
		{
			Name:       "groq",
			KeyEnv:     "GROQ_API_KEY",
			ModelEnv:   "GROQ_MODEL",
			BaseURLEnv: "GROQ_BASE_URL",
			BaseURL:    "https://api.groq.com/openai/v1",
			Model:      "llama-3.1-8b-instant",
			build:      newOpenAICompatible,
		},
		{
			Name:       "dashscope",
			KeyEnv:     "DASHSCOPE_API_KEY",
			ModelEnv:   "DASHSCOPE_MODEL",
			BaseURLEnv: "DASHSCOPE_BASE_URL",
			BaseURL:    "https://dashscope.aliyuncs.com/compatible-mode/v1",
			Model:      "qwen-plus",
			build:      newQwen,
		},
		{
			Name:     "gemini",
			KeyEnv:   "GEMINI_API_KEY",
			ModelEnv: "GEMINI_MODEL",
			Model:    "gemini-3-flash",
			build:    newGemini,
		},
		{
			Name:       "openai",
			KeyEnv:     "OPENAI_API_KEY",
			ModelEnv:   "OPENAI_MODEL",
			BaseURLEnv: "OPENAI_BASE_URL",
			Model:      "gpt-4o-mini",
			build:      newOpenAICompatible,
		},
	}
}

// Select walks the chain and returns the first provider with a credential,
// plus the credential itself. When none is present it returns
// ErrNoCredentials with a message listing every accepted key.
func Select(lookup LookupFunc) (*Provider, string, error) {
	chain := Chain()
	keys := make([]string, 0, len(chain))

	for i := range chain {
		p := &chain[i]
		if key := lookup(p.KeyEnv); key != "" {
			return p, key, nil
		}
		keys = append(keys, p.KeyEnv)
	}

	return nil, "", fmt.Errorf("%w: set one of %s", ErrNoCredentials, strings.Join(keys, ", "))
}

// resolveConfig applies per-provider environment overrides on top of the
// provider's defaults.
func resolveConfig(p *Provider, apiKey string, lookup LookupFunc) *ModelConfig {
	cfg := &ModelConfig{
		APIKey:  apiKey,
		BaseURL: p.BaseURL,
		Model:   p.Model,
	}
	if p.BaseURLEnv != "" {
		if v := lookup(p.BaseURLEnv); v != "" {
			cfg.BaseURL = v
		}
	}
	if p.ModelEnv != "" {
		if v := lookup(p.ModelEnv); v != "" {
			cfg.Model = v
		}
	}
	return cfg
}

// Resolve selects a provider from the chain and constructs its chat model.
// It is evaluated once at startup; the returned model is treated as
// immutable configuration for the process lifetime.
func Resolve(ctx context.Context, lookup LookupFunc) (model.ToolCallingChatModel, string, error) {
	p, apiKey, err := Select(lookup)
	if err != nil {
		return nil, "", err
	}

	m, err := p.build(ctx, resolveConfig(p, apiKey, lookup))
	if err != nil {
		return nil, "", fmt.Errorf("create %s chat model: %w", p.Name, err)
	}

	return m, p.Name, nil
}

func newOpenAICompatible(ctx context.Context, cfg *ModelConfig) (model.ToolCallingChatModel, error) {
	return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
}

func newQwen(ctx context.Context, cfg *ModelConfig) (model.ToolCallingChatModel, error) {
	return qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
}

func newGemini(ctx context.Context, cfg *ModelConfig) (model.ToolCallingChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return geminiModel.NewChatModel(ctx, &geminiModel.Config{
		Client: client,
		Model:  cfg.Model,
	})
}
