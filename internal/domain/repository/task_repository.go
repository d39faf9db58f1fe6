package repository

import (
	"context"
	"errors"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
)

var (
	// ErrTaskNotFound is returned when no task has the requested id
	ErrTaskNotFound = errors.New("task not found")

	// ErrConcurrentModification is returned when a task changed in storage
	// after it was read; the caller must reload and retry
	ErrConcurrentModification = errors.New("task was modified concurrently")
)

// TaskReader is the read half of the repository consumed by the core
type TaskReader interface {
	// GetTask retrieves a task by id, or ErrTaskNotFound
	GetTask(ctx context.Context, id string) (task.Task, error)

	// ListTasks returns a snapshot of all tasks
	ListTasks(ctx context.Context) ([]task.Task, error)
}

// TaskRepository supplies and persists task records
type TaskRepository interface {
	TaskReader

	// SaveTask persists t. When t.Revision is set and no longer matches the
	// stored record, ErrConcurrentModification is returned and nothing is written.
	SaveTask(ctx context.Context, t task.Task) error
}

// Snapshot is a point-in-time, id-indexed view of all tasks
type Snapshot map[string]task.Task

// LoadSnapshot reads every task once so that a traversal sees a consistent state
func LoadSnapshot(ctx context.Context, r TaskReader) (Snapshot, error) {
	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, len(tasks))
	for _, t := range tasks {
		snap[t.ID] = t
	}
	return snap, nil
}
