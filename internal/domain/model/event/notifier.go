package event

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event names emitted by the core
const (
	InstanceCompleted   = "recurring-instance-completed"
	InstanceUncompleted = "recurring-instance-uncompleted"
	DependencyAdded     = "dependency-added"
	DependencyRemoved   = "dependency-removed"
)

// Payload is the data attached to a notification
type Payload map[string]interface{}

// Notifier is the host callback invoked when the core changes a task.
// The core has no event bus of its own.
type Notifier interface {
	Notify(ctx context.Context, name string, payload Payload)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, name string, payload Payload)

// Notify implements Notifier
func (f NotifierFunc) Notify(ctx context.Context, name string, payload Payload) {
	f(ctx, name, payload)
}

// Nop ignores every notification
var Nop Notifier = NotifierFunc(func(context.Context, string, Payload) {})

// OrNop returns n, or Nop when n is nil
func OrNop(n Notifier) Notifier {
	if n == nil {
		return Nop
	}
	return n
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewPayload creates a payload for taskID stamped with a fresh ULID event id
func NewPayload(taskID string) Payload {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()

	return Payload{
		"event_id": id.String(),
		"task_id":  taskID,
	}
}

// Recorded is a notification captured by a Recorder
type Recorded struct {
	Name    string
	Payload Payload
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

// Notify implements Notifier
func (r *Recorder) Notify(_ context.Context, name string, payload Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Name: name, Payload: payload})
}

// Events returns a copy of the recorded notifications
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the names of the recorded notifications in order
func (r *Recorder) Names() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Name)
	}
	return out
}
