// Package event provides a small in-process publish/subscribe bus for
// application lifecycle events.
package event

import "sync"

// Handler is invoked with the event name and its payload each time a
// subscribed event is emitted.
type Handler func(name string, payload any)

type listener struct {
	bus     *Bus
	name    string
	handler Handler
}

// Bus dispatches named events to registered handlers. It is safe for
// concurrent use. Handlers run synchronously on the emitting goroutine, in
// registration order.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]*listener
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]*listener)}
}

// On registers handler for name and returns the subscription that removes it.
func (b *Bus) On(name string, handler Handler) *Subscription {
	l := &listener{bus: b, name: name, handler: handler}

	b.mu.Lock()
	b.listeners[name] = append(b.listeners[name], l)
	b.mu.Unlock()

	return &Subscription{listeners: []*listener{l}}
}

// Emit delivers payload to every handler registered for name. Emitting an
// event nobody listens to is a no-op.
func (b *Bus) Emit(name string, payload any) {
	b.mu.RLock()
	handlers := make([]*listener, len(b.listeners[name]))
	copy(handlers, b.listeners[name])
	b.mu.RUnlock()

	for _, l := range handlers {
		l.handler(name, payload)
	}
}

// ListenerCount returns the number of handlers registered for name
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

func (b *Bus) remove(l *listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.listeners[l.name]
	for i, candidate := range current {
		if candidate == l {
			b.listeners[l.name] = append(current[:i:i], current[i+1:]...)
			break
		}
	}
	if len(b.listeners[l.name]) == 0 {
		delete(b.listeners, l.name)
	}
}
