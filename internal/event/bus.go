package event

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrInvalidTopic is returned by Publish for malformed topics.
var ErrInvalidTopic = errors.New("invalid topic")

// Handler receives events.
type Handler func(Event)

// PanicHandler is called with the event and recovered value when a handler
// panics.
type PanicHandler func(ev Event, recovered any)

// Publisher is the publishing side of a Bus.
type Publisher interface {
	Publish(topic Topic, source string, payload any) error
}

// Bus delivers events synchronously to matching subscribers.
type Bus struct {
	mu      sync.RWMutex
	subs    []*Subscription
	nextID  uint64
	onPanic PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the handler for recovered panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// NewBus creates a bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription is a registered handler.
type Subscription struct {
	id      uint64
	pattern Topic
	handler Handler
	bus     *Bus
	active  atomic.Bool
}

// Pattern returns the subscription pattern.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// Unsubscribe stops delivery. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active.CompareAndSwap(true, false) {
		return
	}
	s.bus.remove(s.id)
}

// Subscribe registers h for topics matching pattern.
func (b *Bus) Subscribe(pattern Topic, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s := &Subscription{id: b.nextID, pattern: pattern, handler: h, bus: b}
	s.active.Store(true)
	b.subs = append(b.subs, s)
	return s
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish creates an event and delivers it.
func (b *Bus) Publish(topic Topic, source string, payload any) error {
	return b.PublishEvent(New(topic, source, payload))
}

// PublishEvent delivers ev to every matching subscriber. Handlers may
// subscribe, unsubscribe or publish from within a callback.
func (b *Bus) PublishEvent(ev Event) error {
	if !ev.Topic.Valid() {
		return ErrInvalidTopic
	}
	b.published.Add(1)

	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if ev.Topic.Matches(s.pattern) {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.Active() {
			continue
		}
		b.deliver(s, ev)
	}
	return nil
}

func (b *Bus) deliver(s *Subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil && b.onPanic != nil {
			b.onPanic(ev, r)
		}
	}()
	s.handler(ev)
	b.delivered.Add(1)
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats reports published and delivered counts.
func (b *Bus) Stats() (published, delivered uint64) {
	return b.published.Load(), b.delivered.Load()
}

// Nop is a Publisher that drops everything.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(Topic, string, any) error { return nil }
