// Package events provides a minimal in-process publish/subscribe bus.
//
// The bus exists so that cache invalidation can be triggered from anywhere
// (HTTP handler, future admin job) without the cache being reachable from
// there. It is deliberately an injected dependency, not a process global:
// each test can build its own isolated bus and components only see the one
// they were constructed with.
//
// Events are local to the process. In a horizontally scaled deployment each
// instance holds its own cache and its own bus; fanning the clear-cache
// signal out across instances would need an external broker and is out of
// scope here.
package events

import "sync"

// Topic names an event stream on the bus.
type Topic string

// TopicClearCache asks every subscribed cache to discard all entries.
// It carries no payload.
const TopicClearCache Topic = "cache:clear"

// Bus is a mutex-guarded subscriber registry. Handlers run synchronously on
// the emitting goroutine, in subscription order.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Topic][]func()
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[Topic][]func())}
}

// Subscribe registers fn for topic. There is no unsubscribe; subscribers
// live as long as the bus.
func (b *Bus) Subscribe(topic Topic, fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], fn)
	b.mu.Unlock()
}

// Emit invokes every handler subscribed to topic. Emitting on a topic with
// no subscribers is a no-op.
func (b *Bus) Emit(topic Topic) {
	b.mu.RLock()
	handlers := make([]func(), len(b.subscribers[topic]))
	copy(handlers, b.subscribers[topic])
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}
