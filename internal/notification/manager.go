package notification

import (
	"sync"
	"time"
)

type subscription struct {
	id      int
	typ     Type
	all     bool
	handler Handler
}

// Bus dispatches events to subscribers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
	now    func() time.Time
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe registers h for events of type t and returns a function that
// removes the subscription.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	return b.add(subscription{typ: t, handler: h})
}

// SubscribeAll registers h for every event type.
func (b *Bus) SubscribeAll(h Handler) func() {
	return b.add(subscription{all: true, handler: h})
}

func (b *Bus) add(s subscription) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(s.id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to every matching subscriber before returning.
// Handlers may subscribe, unsubscribe or publish again.
func (b *Bus) Publish(t Type, value any) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.all || s.typ == t {
			targets = append(targets, s.handler)
		}
	}
	now := b.now
	b.mu.RUnlock()

	ev := Event{Type: t, Value: value, Timestamp: now()}
	for _, h := range targets {
		h(ev)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
