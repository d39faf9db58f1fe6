package settings

import (
	"sync"
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/fieldmap"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/priority"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/status"
)

// Snapshot is an immutable view of the settings the core depends on.
// Components fetch a fresh snapshot on every call and never cache it.
type Snapshot struct {
	Fields     *fieldmap.Mapper
	Statuses   *status.Registry
	Priorities *priority.Registry

	// Location is the timezone in which wall-clock days are computed
	Location *time.Location

	// WeekStart anchors week periods for rules without a weekday of their own
	WeekStart time.Weekday

	// DefaultStatus is the open status reported for a recurring task whose
	// base status is a completed one. Empty means Statuses.DefaultOpenStatus().
	DefaultStatus string
}

// Default returns the built-in settings
func Default() *Snapshot {
	return &Snapshot{
		Fields:     fieldmap.DefaultMapper(),
		Statuses:   status.DefaultRegistry(),
		Priorities: priority.DefaultRegistry(),
		Location:   time.UTC,
		WeekStart:  time.Monday,
	}
}

// OpenStatus returns the status used for open recurring instances
func (s *Snapshot) OpenStatus() string {
	if s.DefaultStatus != "" && s.Statuses.Contains(s.DefaultStatus) && !s.Statuses.IsCompletedStatus(s.DefaultStatus) {
		return s.DefaultStatus
	}
	return s.Statuses.DefaultOpenStatus()
}

// Loc returns the configured timezone, defaulting to UTC
func (s *Snapshot) Loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Provider hands out the current settings snapshot
type Provider interface {
	Snapshot() *Snapshot
}

// Static is a Provider whose snapshot can be swapped atomically.
// In-flight calls keep the snapshot they started with.
type Static struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStatic creates a provider; a nil snapshot means Default()
func NewStatic(s *Snapshot) *Static {
	if s == nil {
		s = Default()
	}
	return &Static{snap: s}
}

// Snapshot implements Provider
func (p *Static) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Replace installs a new snapshot for subsequent calls
func (p *Static) Replace(s *Snapshot) {
	if s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = s
}
