package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-examples/adk/common/store"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"termtutor/pubsub"
)

var (
	// ErrEmptyTerm rejects blank explanation requests before any engine call.
	ErrEmptyTerm = errors.New("term must not be empty")
	// ErrNoAnswer means the engine exhausted its step budget without
	// producing a final answer.
	ErrNoAnswer = errors.New("no answer produced within the step budget")
)

// Progress is published on the runtime's broker while the engine works, so
// the operator sees which tools the model is calling.
type Progress struct {
	Tool string
	Args string
	Text string
}

// Runtime wraps the reasoning engine's runner behind the explanation API.
// Each Explain call is an independent run; nothing is carried between calls.
type Runtime struct {
	runner *adk.Runner
	broker *pubsub.Broker[Progress]
}

// NewRuntime builds the explainer agent and its runner.
func NewRuntime(ctx context.Context, cfg *Config) (*Runtime, error) {
	agt, err := NewExplainerAgent(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create explainer agent: %w", err)
	}

	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent:           agt,
		EnableStreaming: false,
		CheckPointStore: store.NewInMemoryStore(),
	})

	return &Runtime{
		runner: runner,
		broker: pubsub.NewBroker[Progress](),
	}, nil
}

// Broker exposes the progress event stream.
func (r *Runtime) Broker() *pubsub.Broker[Progress] {
	return r.broker
}

// Close releases the runtime's resources.
func (r *Runtime) Close() {
	r.broker.Shutdown()
}

// Explain asks the engine to explain term at the given tier and shapes the
// final text into an ExplanationResult. For TierAll the result carries
// exactly the three concrete tiers.
func (r *Runtime) Explain(ctx context.Context, term string, tier Tier) (ExplanationResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}
	if _, err := ParseTier(string(tier)); err != nil {
		return nil, err
	}

	text, err := r.run(ctx, buildPrompt(term, tier))
	if err != nil {
		return nil, err
	}

	return newResult(tier, text), nil
}

// FollowUp asks for more detail about one aspect of a previously explained
// term and returns the engine's raw answer text.
func (r *Runtime) FollowUp(ctx context.Context, aspect, term string) (string, error) {
	aspect = strings.TrimSpace(aspect)
	if aspect == "" {
		return "", ErrEmptyTerm
	}

	prompt := fmt.Sprintf("Provide more details about: %s in the context of %q.", aspect, term)
	return r.run(ctx, prompt)
}

// run submits one task to the engine and drains its event stream. The final
// answer is the last assistant message that carries content and no tool
// calls; tool-call decisions are published as progress along the way.
func (r *Runtime) run(ctx context.Context, prompt string) (string, error) {
	iter := r.runner.Query(ctx, prompt)

	var final string
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		if event.Err != nil {
			if isStepBudgetErr(event.Err) {
				return "", fmt.Errorf("%w: %v", ErrNoAnswer, event.Err)
			}
			return "", event.Err
		}
		if event.Output == nil || event.Output.MessageOutput == nil {
			continue
		}

		msg, err := event.Output.MessageOutput.GetMessage()
		if err != nil {
			return "", fmt.Errorf("read agent message: %w", err)
		}

		if len(msg.ToolCalls) > 0 {
			for _, tc := range msg.ToolCalls {
				r.broker.Publish(pubsub.ToolCallEvent, Progress{
					Tool: tc.Function.Name,
					Args: tc.Function.Arguments,
				})
			}
			continue
		}

		if msg.Role == schema.Assistant && strings.TrimSpace(msg.Content) != "" {
			final = msg.Content
		}
	}

	if strings.TrimSpace(final) == "" {
		return "", ErrNoAnswer
	}

	r.broker.Publish(pubsub.AnswerEvent, Progress{Text: final})
	return final, nil
}

// isStepBudgetErr reports whether the engine stopped because it ran out of
// iterations rather than because of a transport or model fault.
func isStepBudgetErr(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "iteration") || strings.Contains(s, "max step")
}
