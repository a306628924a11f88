package bus

import "time"

// AnyEvent subscribes a handler to every event type.
const AnyEvent = "*"

// EventBus is an in-process pub/sub bus used by the simulation to notify
// observers about hits, explosions and player changes.
//
// Delivery is synchronous: Publish runs handlers in the caller goroutine, so
// a handler observes the world exactly at the transition that fired it.
// Handlers of one type run in subscription order, followed by AnyEvent
// handlers. Handler errors are joined and returned from Publish.
type EventBus interface {
	Publish(event Event) error
	// Subscribe registers a handler for eventType, or for every type when
	// eventType is AnyEvent.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	Stats() Stats
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is told about every delivery, e.g. to trace a simulation run.
type Observer interface {
	OnDelivered(event Event, handlers int, err error)
}

type Stats struct {
	Published   uint64
	Delivered   uint64
	Errors      uint64
	Subscribers int
}
