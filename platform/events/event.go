// Package events is the in-process event bus the modules talk over. Lead
// imports, distributions, appointment scheduling and XP awards are announced
// as events instead of direct cross-module calls; this package only carries
// the plumbing, the event types themselves live with their domains.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event put on the bus.
type Event interface {
	// EventName returns the stable identifier handlers subscribe on.
	EventName() string
	// OccurredAt returns when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events. Embed it and implement
// EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one subscribed type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events and dispatches them to subscribed handlers.
type Bus interface {
	// Publish hands an event to all handlers registered for its name.
	// Dispatch is asynchronous.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches an event and waits for every handler to finish.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the given Event.EventName value.
	Subscribe(eventName string, handler Handler)
}
