package event_test

import (
	"sync"
	"testing"

	"codeberg.org/mutker/appdiag/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	bus := event.NewBus()

	var got []string
	bus.On("ready", func(name string, _ any) { got = append(got, "first:"+name) })
	bus.On("ready", func(name string, _ any) { got = append(got, "second:"+name) })

	bus.Emit("ready", nil)

	assert.Equal(t, []string{"first:ready", "second:ready"}, got)
}

func TestEmitPassesPayload(t *testing.T) {
	bus := event.NewBus()

	var payload any
	bus.On("open-url", func(_ string, p any) { payload = p })
	bus.Emit("open-url", "https://example.com")

	assert.Equal(t, "https://example.com", payload)
}

func TestEmitWithoutListeners(t *testing.T) {
	bus := event.NewBus()
	assert.NotPanics(t, func() { bus.Emit("quit", nil) })
	assert.Zero(t, bus.ListenerCount("quit"))
}

func TestSubscriptionClose(t *testing.T) {
	bus := event.NewBus()

	calls := 0
	sub := bus.On("quit", func(string, any) { calls++ })
	other := bus.On("quit", func(string, any) {})

	bus.Emit("quit", nil)
	require.NoError(t, sub.Close())
	bus.Emit("quit", nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.ListenerCount("quit"))

	// Closing twice is harmless
	require.NoError(t, sub.Close())
	require.NoError(t, other.Close())
	assert.Zero(t, bus.ListenerCount("quit"))
}

func TestSubscriptionAdd(t *testing.T) {
	bus := event.NewBus()

	var group event.Subscription
	group.Add(bus.On("ready", func(string, any) {}))
	group.Add(bus.On("quit", func(string, any) {}))
	group.Add(nil)

	assert.Equal(t, 2, group.Len())
	require.NoError(t, group.Close())
	assert.Zero(t, bus.ListenerCount("ready"))
	assert.Zero(t, bus.ListenerCount("quit"))

	// Adding to a closed subscription removes the handlers immediately
	group.Add(bus.On("activate", func(string, any) {}))
	assert.Zero(t, bus.ListenerCount("activate"))
}

func TestConcurrentEmitAndClose(t *testing.T) {
	bus := event.NewBus()

	var mu sync.Mutex
	calls := 0
	subs := make([]*event.Subscription, 0, 50)
	for i := 0; i < 50; i++ {
		subs = append(subs, bus.On("activate", func(string, any) {
			mu.Lock()
			calls++
			mu.Unlock()
		}))
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Emit("activate", nil)
		}()
		go func(s *event.Subscription) {
			defer wg.Done()
			_ = s.Close()
		}(sub)
	}
	wg.Wait()

	assert.Zero(t, bus.ListenerCount("activate"))
}
