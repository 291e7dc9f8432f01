package pubsub

import "context"

const (
	// ToolCallEvent signals that the agent decided to invoke a tool.
	ToolCallEvent EventType = "tool_call"
	// AnswerEvent signals that the agent produced its final answer text.
	AnswerEvent EventType = "answer"
	// NoticeEvent carries informational progress text for the operator.
	NoticeEvent EventType = "notice"
)

// Subscriber is the consuming side of the broker.
type Subscriber[T any] interface {
	// Subscribe returns a read-only event channel that is closed
	// automatically when the context is cancelled.
	Subscribe(context.Context) <-chan Event[T]
}

type (
	// EventType identifies the kind of event being published.
	EventType string

	// Event is a single published item: a type tag plus its payload.
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Publisher is the producing side of the broker.
	Publisher[T any] interface {
		Publish(EventType, T)
	}
)
