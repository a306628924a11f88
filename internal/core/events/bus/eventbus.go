package bus

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a simple Event implementation.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	bus       *inMemoryBus
	active    bool
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }

func (s *subscription) IsActive() bool {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	return s.active
}

func (s *subscription) Cancel() error {
	s.bus.remove(s)
	return nil
}

// inMemoryBus is safe for concurrent use. Handler lists are copied on write,
// so Publish reads them without copying and handlers may subscribe or cancel
// while an event is being delivered; such changes apply from the next Publish.
type inMemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]*subscription
	observers []Observer
	stats     Stats
}

func New() EventBus {
	return &inMemoryBus{handlers: make(map[string][]*subscription)}
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if eventType == "" {
		return nil, ErrEmptyEventType
	}
	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler, bus: b, active: true}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(slices.Clip(b.handlers[eventType]), s)
	b.stats.Subscribers++
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	b.stats.Subscribers--
	subs := b.handlers[s.eventType]
	i := slices.Index(subs, s)
	if i < 0 {
		return
	}
	if len(subs) == 1 {
		delete(b.handlers, s.eventType)
		return
	}
	b.handlers[s.eventType] = slices.Delete(slices.Clone(subs), i, i+1)
}

func (b *inMemoryBus) Publish(event Event) error {
	if event == nil {
		return ErrNilEvent
	}
	b.mu.RLock()
	typed := b.handlers[event.Type()]
	wildcard := b.handlers[AnyEvent]
	observers := b.observers
	b.mu.RUnlock()

	var all error
	all = deliver(typed, event, all)
	all = deliver(wildcard, event, all)
	n := len(typed) + len(wildcard)

	b.mu.Lock()
	b.stats.Published++
	b.stats.Delivered += uint64(n)
	if all != nil {
		b.stats.Errors++
	}
	b.mu.Unlock()

	for _, obs := range observers {
		obs.OnDelivered(event, n, all)
	}
	return all
}

func deliver(subs []*subscription, event Event, all error) error {
	for _, s := range subs {
		if err := s.call(event); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// call runs the handler, turning a panic into an error so one bad handler
// cannot take down the publisher.
func (s *subscription) call(event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s on %q: %v", ErrHandlerPanic, s.id, event.Type(), r)
		}
	}()
	return s.handler(event)
}

func (b *inMemoryBus) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !slices.Contains(b.observers, obs) {
		b.observers = append(slices.Clip(b.observers), obs)
	}
}

func (b *inMemoryBus) RemoveObserver(obs Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.observers, obs); i >= 0 {
		b.observers = slices.Delete(slices.Clone(b.observers), i, i+1)
	}
}

func (b *inMemoryBus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}
