package diagnostics

import "codeberg.org/mutker/appdiag/internal/event"

// WatchAppEvents logs every occurrence of the AppEvents lifecycle events
// until the returned subscription is closed. Event payloads are not logged.
func (r *Reporter) WatchAppEvents() *event.Subscription {
	sub := &event.Subscription{}

	for _, name := range AppEvents {
		sub.Add(r.deps.Events.On(name, func(name string, _ any) {
			r.info("App Event Occurred: " + name)
		}))
	}

	return sub
}
