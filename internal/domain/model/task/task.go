package task

import (
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/datekey"
)

// RelType describes how a dependency constrains scheduling
type RelType string

const (
	RelFinishToStart  RelType = "FINISHTOSTART"
	RelFinishToFinish RelType = "FINISHTOFINISH"
	RelStartToStart   RelType = "STARTTOSTART"
	RelStartToFinish  RelType = "STARTTOFINISH"
)

// String returns the string representation
func (r RelType) String() string {
	return string(r)
}

// IsValid validates the relation type
func (r RelType) IsValid() bool {
	switch r {
	case RelFinishToStart, RelFinishToFinish, RelStartToStart, RelStartToFinish:
		return true
	default:
		return false
	}
}

// ParseRelType normalizes user input; empty input yields FINISHTOSTART
func ParseRelType(s string) RelType {
	s = strings.TrimSpace(s)
	if s == "" {
		return RelFinishToStart
	}
	return RelType(strings.ToUpper(strings.ReplaceAll(s, "-", "")))
}

// Dependency is one blocked-by edge: the owning task waits on TargetID
type Dependency struct {
	TargetID string
	RelType  RelType
	Gap      string // optional ISO-8601 duration
}

// Task is a persisted task record as seen by the core.
// Tasks are values: operations that change a task return a patched copy.
type Task struct {
	ID       string
	Title    string
	Status   string
	Priority string

	Scheduled string
	Due       string

	Tags     []string
	Contexts []string
	Projects []string

	Recurrence        string
	CompleteInstances []string
	BlockedBy         []Dependency

	DateCreated   string
	DateModified  string
	CompletedDate string

	// Revision is the repository token observed when the task was read.
	// It is never persisted as a property.
	Revision string
}

// Clone returns a deep copy of t
func (t Task) Clone() Task {
	c := t
	c.Tags = cloneStrings(t.Tags)
	c.Contexts = cloneStrings(t.Contexts)
	c.Projects = cloneStrings(t.Projects)
	c.CompleteInstances = cloneStrings(t.CompleteInstances)
	if t.BlockedBy != nil {
		c.BlockedBy = make([]Dependency, len(t.BlockedBy))
		copy(c.BlockedBy, t.BlockedBy)
	}
	return c
}

// IsRecurring reports whether a recurrence rule is present.
// Whether the rule is well formed is decided by the recurrence resolver.
func (t Task) IsRecurring() bool {
	return strings.TrimSpace(t.Recurrence) != ""
}

// ScheduledDay returns the calendar day of the scheduled date
func (t Task) ScheduledDay() (datekey.Date, bool) {
	return datekey.ParseLeading(t.Scheduled)
}

// DueDay returns the calendar day of the due date
func (t Task) DueDay() (datekey.Date, bool) {
	return datekey.ParseLeading(t.Due)
}

// FindDependency returns the index of the edge to targetID, or -1
func (t Task) FindDependency(targetID string) int {
	for i, d := range t.BlockedBy {
		if d.TargetID == targetID {
			return i
		}
	}
	return -1
}

// DependsOn checks if t has a blocked-by edge to targetID
func (t Task) DependsOn(targetID string) bool {
	return t.FindDependency(targetID) >= 0
}

// HasCompleteInstance checks if key is stored verbatim
func (t Task) HasCompleteInstance(key string) bool {
	for _, k := range t.CompleteInstances {
		if k == key {
			return true
		}
	}
	return false
}

// HasTag checks if the task carries tag (case-insensitive, leading '#' ignored)
func (t Task) HasTag(tag string) bool {
	want := strings.ToLower(strings.TrimPrefix(tag, "#"))
	for _, have := range t.Tags {
		if strings.ToLower(strings.TrimPrefix(have, "#")) == want {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
