package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"termtutor/llm/agent"
	"termtutor/render"
)

// Explainer is the orchestration surface the driver depends on.
type Explainer interface {
	Explain(ctx context.Context, term string, tier agent.Tier) (agent.ExplanationResult, error)
	FollowUp(ctx context.Context, aspect, term string) (string, error)
}

// State identifies where the interactive loop currently is.
type State int

const (
	StateAwaitTerm State = iota
	StateExplaining
	StateAwaitFeedback
	StateAwaitFollowup
	StateTerminated
)

var exitSentinels = map[string]struct{}{
	"quit": {},
	"exit": {},
	"q":    {},
}

// Session is the blocking interactive loop: read a term, explain it at all
// tiers, collect feedback, optionally dig deeper, repeat until the exit
// sentinel or EOF.
type Session struct {
	scanner   *bufio.Scanner
	out       io.Writer
	explainer Explainer
	renderer  *render.Renderer
	log       *Log

	state State
	term  string
}

// New creates a Session reading operator input from in and writing to out.
func New(in io.Reader, out io.Writer, e Explainer, r *render.Renderer) *Session {
	return &Session{
		scanner:   bufio.NewScanner(in),
		out:       out,
		explainer: e,
		renderer:  r,
		log:       NewLog(),
		state:     StateAwaitTerm,
	}
}

// Log exposes the session feedback record.
func (s *Session) Log() *Log {
	return s.log
}

// State reports the loop's current state.
func (s *Session) State() State {
	return s.state
}

// Run drives the loop until it terminates. It always returns nil: every
// explanation failure is reported to the operator as text and the loop
// continues, so a session only ends on the sentinel or EOF.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, s.renderer.Banner(
		"AI Term Explainer - Interactive Mode",
		"Enter an AI/ML term to get explanations at 3 difficulty levels. Type 'quit' to exit.",
	))

	for s.state != StateTerminated {
		switch s.state {
		case StateAwaitTerm:
			s.awaitTerm()
		case StateExplaining:
			s.explain(ctx)
		case StateAwaitFeedback:
			s.awaitFeedback()
		case StateAwaitFollowup:
			s.awaitFollowup(ctx)
		}
	}

	fmt.Fprintln(s.out, "Goodbye!")
	if n := s.log.Len(); n > 0 {
		fmt.Fprintf(s.out, "Session summary: %d term(s) explained.\n", n)
	}
	return nil
}

// readLine prompts and reads one trimmed line. ok is false on EOF.
func (s *Session) readLine(prompt string) (line string, ok bool) {
	fmt.Fprint(s.out, s.renderer.Prompt(prompt))
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *Session) awaitTerm() {
	line, ok := s.readLine("\nEnter an AI/ML term: ")
	if !ok {
		s.state = StateTerminated
		return
	}
	if _, quit := exitSentinels[strings.ToLower(line)]; quit {
		s.state = StateTerminated
		return
	}
	if line == "" {
		return // re-prompt
	}

	s.term = line
	s.state = StateExplaining
}

func (s *Session) explain(ctx context.Context) {
	res, err := s.explainer.Explain(ctx, s.term, agent.TierAll)
	if err != nil {
		fmt.Fprintln(s.out, s.renderer.Error(fmt.Sprintf("Could not produce an explanation for %q: %v", s.term, err)))
		fmt.Fprintln(s.out, "You can try again with a different term.")
	} else {
		fmt.Fprintln(s.out, s.renderer.Result(s.term, res))
	}

	// A failed explanation still asks for feedback; the loop never dies
	// on a bad term.
	s.state = StateAwaitFeedback
}

func (s *Session) awaitFeedback() {
	feedback, ok := s.readLine("Was this explanation helpful? (yes/no/skip): ")
	if !ok {
		s.state = StateTerminated
		return
	}

	// Any value is accepted; it is recorded for this session only.
	s.log.Add(s.term, feedback)

	if strings.EqualFold(feedback, "no") {
		s.state = StateAwaitFollowup
	} else {
		s.state = StateAwaitTerm
	}
}

func (s *Session) awaitFollowup(ctx context.Context) {
	aspect, ok := s.readLine("What would you like to know more about? ")
	if !ok {
		s.state = StateTerminated
		return
	}
	if aspect == "" {
		s.state = StateAwaitTerm
		return
	}

	text, err := s.explainer.FollowUp(ctx, aspect, s.term)
	if err != nil {
		fmt.Fprintln(s.out, s.renderer.Error(fmt.Sprintf("Could not expand on %q: %v", aspect, err)))
	} else {
		fmt.Fprintln(s.out, s.renderer.Markdown(text))
	}

	s.state = StateAwaitFeedback
}
