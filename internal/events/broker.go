// Package events implements in-process publish/subscribe used by the client
// coordinators to notify observers.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/beefboard/boardclient/internal/logging"
)

// Broker fans a published value out to every current subscriber.
//
// Delivery is synchronous and happens on the publisher's goroutine, in the
// order subscribers attached. Handlers may subscribe or unsubscribe while a
// delivery is in progress; such changes take effect from the next Publish,
// except that an unsubscribed handler is never called again.
type Broker[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []*Subscription
	log    logging.Logger
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id     uint64
	fn     func(any)
	mu     sync.Mutex
	closed bool
	detach func(*Subscription)
}

// NewBroker creates a broker. A nil logger discards handler panics silently.
func NewBroker[T any](log logging.Logger) *Broker[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Broker[T]{log: log}
}

// Subscribe registers fn and returns its handle.
func (b *Broker[T]) Subscribe(fn func(T)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := &Subscription{
		id:     b.nextID,
		fn:     func(v any) { fn(v.(T)) },
		detach: b.remove,
	}
	b.subs = append(b.subs, s)
	return s
}

// Publish delivers v to all subscribers attached at the time of the call.
func (b *Broker[T]) Publish(v T) {
	b.mu.Lock()
	snapshot := make([]*Subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		b.deliver(s, v)
	}
}

// Len reports the number of attached subscribers.
func (b *Broker[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker[T]) deliver(s *Subscription, v T) {
	if !s.active() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(context.Background(), "event handler panicked",
				"subscription", s.id, "panic", fmt.Sprint(r))
		}
	}()
	s.fn(v)
}

func (b *Broker[T]) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, cur := range b.subs {
		if cur == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Unsubscribe detaches the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.detach(s)
}

func (s *Subscription) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}
