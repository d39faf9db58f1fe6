package dependency

import "github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"

// State is the blocking state of a task
type State string

const (
	Blocked   State = "BLOCKED"
	Unblocked State = "UNBLOCKED"
)

// String returns the string representation
func (s State) String() string {
	return string(s)
}

// Blocker is one blocked-by edge evaluated on a given day
type Blocker struct {
	task.Dependency

	Title    string
	Status   string // effective status of the target
	Blocking bool   // target is not complete
	Dangling bool   // target does not exist
}
