// Package events is an in-process publish/subscribe bus. Modules publish
// facts about what happened; other modules react without being called
// directly.
package events

import (
	"context"
	"time"
)

// Event is anything published on the bus. EventName is the topic handlers
// subscribe to.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to carry the timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function act as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Bus publishes events to the handlers subscribed to their name.
type Bus interface {
	// Publish dispatches in the background and never fails the caller.
	Publish(ctx context.Context, event Event)
	// PublishSync runs the handlers in order and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
