package events

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 100

// subscription is one subscriber channel and the event types it accepts.
// An empty filter accepts every type.
type subscription struct {
	ch     chan Event
	filter map[EventType]struct{}
}

func (s *subscription) accepts(t EventType) bool {
	if len(s.filter) == 0 {
		return true
	}
	_, ok := s.filter[t]
	return ok
}

// Bus is a simple pub/sub event bus
type Bus struct {
	mu          sync.RWMutex
	subscribers map[<-chan Event]*subscription
	bufferSize  int
	dropped     atomic.Uint64
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[<-chan Event]*subscription),
		bufferSize:  defaultBufferSize,
	}
}

// Subscribe returns a channel that receives events of the given types,
// or all events when no type is given
func (b *Bus) Subscribe(types ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{ch: make(chan Event, b.bufferSize)}
	if len(types) > 0 {
		sub.filter = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			sub.filter[t] = struct{}{}
		}
	}
	b.subscribers[sub.ch] = sub
	return sub.ch
}

// Unsubscribe removes a subscriber channel
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(sub.ch)
	}
}

// Publish sends an event to all matching subscribers.
// Non-blocking: if a subscriber's buffer is full, the event is dropped for that subscriber
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if !sub.accepts(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes all subscriber channels
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, ch)
	}
}
