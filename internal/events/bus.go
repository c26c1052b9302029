package events

import (
	"sync"
)

const defaultBufSize = 64

// EventBus fans published events out to buffered subscriber channels.
// A slow subscriber loses events rather than stalling the publisher.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[string][]chan Event // topic -> subscribers
	allSubs []chan Event
	closed  bool
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[string][]chan Event)}
}

// Subscribe returns a channel receiving events on topic.
// A non-positive bufSize selects the default buffer.
func (b *EventBus) Subscribe(topic string, bufSize int) <-chan Event {
	return b.subscribe(topic, bufSize, false)
}

// SubscribeAll returns a channel receiving events on every topic.
func (b *EventBus) SubscribeAll(bufSize int) <-chan Event {
	return b.subscribe("", bufSize, true)
}

func (b *EventBus) subscribe(topic string, bufSize int, all bool) <-chan Event {
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	ch := make(chan Event, bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}
	if all {
		b.allSubs = append(b.allSubs, ch)
	} else {
		b.subs[topic] = append(b.subs[topic], ch)
	}
	return ch
}

// Publish delivers event to the topic's subscribers and to every
// SubscribeAll channel without blocking. Publishing on a closed bus is a
// no-op.
func (b *EventBus) Publish(topic string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs[topic] {
		offer(ch, event)
	}
	for _, ch := range b.allSubs {
		offer(ch, event)
	}
}

func offer(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
	}
}

// Close closes every subscriber channel. Safe to call more than once.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.allSubs {
		close(ch)
	}
}
