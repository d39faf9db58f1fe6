package event

import (
	"context"
	"sync"
)

type deferredKey struct{}

type pending struct {
	notifier Notifier
	name     string
	payload  Payload
}

// Deferred holds notifications raised under its context until the change
// they describe is persisted
type Deferred struct {
	mu     sync.Mutex
	events []pending
}

// Defer returns a context under which Send queues notifications on the
// returned Deferred instead of delivering them
func Defer(ctx context.Context) (context.Context, *Deferred) {
	d := &Deferred{}
	return context.WithValue(ctx, deferredKey{}, d), d
}

// Send delivers a notification to n, or queues it when ctx was created by Defer
func Send(ctx context.Context, n Notifier, name string, payload Payload) {
	if d, ok := ctx.Value(deferredKey{}).(*Deferred); ok {
		d.mu.Lock()
		d.events = append(d.events, pending{notifier: n, name: name, payload: payload})
		d.mu.Unlock()
		return
	}
	n.Notify(ctx, name, payload)
}

// Flush delivers the queued notifications in order and empties the queue
func (d *Deferred) Flush(ctx context.Context) {
	d.mu.Lock()
	events := d.events
	d.events = nil
	d.mu.Unlock()

	for _, e := range events {
		e.notifier.Notify(ctx, e.name, e.payload)
	}
}

// Len returns the number of queued notifications
func (d *Deferred) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}
