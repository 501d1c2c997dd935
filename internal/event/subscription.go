package event

import "sync"

// Subscription is a disposable handle over one or more registered handlers.
// The zero value is an empty subscription ready for Add.
type Subscription struct {
	mu        sync.Mutex
	listeners []*listener
	closed    bool
}

// Add moves other's handlers into s, so that closing s also removes them.
func (s *Subscription) Add(other *Subscription) {
	if other == nil || other == s {
		return
	}

	other.mu.Lock()
	moved := other.listeners
	other.listeners = nil
	other.closed = true
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		for _, l := range moved {
			l.bus.remove(l)
		}
		return
	}
	s.listeners = append(s.listeners, moved...)
}

// Len returns the number of handlers still held by the subscription
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Close removes every handler held by the subscription. It is safe to call
// more than once.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, l := range s.listeners {
		l.bus.remove(l)
	}
	s.listeners = nil

	return nil
}
