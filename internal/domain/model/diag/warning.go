// Package diag carries non-fatal warnings out of the domain core.
//
// Anomalies that can be safely defaulted (a conflicting field mapping, a
// malformed recurrence rule, a dependency on a deleted task) never abort a
// query. They are reported to a Sink supplied by the host instead.
package diag

import (
	"fmt"
	"sync"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
)

// Warning is a non-fatal anomaly observed while evaluating a query
type Warning struct {
	Code    model.ErrorCode
	Subject string // task id or field the warning is about
	Message string
}

// String renders the warning for display
func (w Warning) String() string {
	if w.Subject == "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Subject, w.Message)
}

// FromError builds a warning from a core error
func FromError(subject string, err model.CoreError) Warning {
	return Warning{Code: err.Code, Subject: subject, Message: err.Message}
}

// Sink receives warnings
type Sink interface {
	Report(w Warning)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(w Warning)

// Report implements Sink
func (f SinkFunc) Report(w Warning) {
	f(w)
}

// Discard drops every warning
var Discard Sink = SinkFunc(func(Warning) {})

// Collector accumulates warnings; safe for concurrent use
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Sink
func (c *Collector) Report(w Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
}

// Warnings returns a copy of the collected warnings
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// ByCode returns the collected warnings with the given code
func (c *Collector) ByCode(code model.ErrorCode) []Warning {
	var out []Warning
	for _, w := range c.Warnings() {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}

// Reset discards collected warnings
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = nil
}

// Tee reports each warning to every sink
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(w Warning) {
		for _, s := range sinks {
			if s != nil {
				s.Report(w)
			}
		}
	})
}

// OrDiscard returns s, or Discard when s is nil
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
