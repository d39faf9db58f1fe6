package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
)

// TaskRepository is an in-memory implementation of repository.TaskRepository.
// Revisions are per-task counters.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
	revs  map[string]uint64
}

// NewTaskRepository creates a repository seeded with tasks
func NewTaskRepository(tasks ...task.Task) *TaskRepository {
	r := &TaskRepository{
		tasks: make(map[string]task.Task),
		revs:  make(map[string]uint64),
	}
	for _, t := range tasks {
		r.put(t)
	}
	return r
}

// GetTask implements repository.TaskReader
func (r *TaskRepository) GetTask(ctx context.Context, id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, repository.ErrTaskNotFound
	}
	return r.read(t), nil
}

// ListTasks implements repository.TaskReader; tasks are ordered by id
func (r *TaskRepository) ListTasks(ctx context.Context) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, r.read(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveTask implements repository.TaskRepository
func (r *TaskRepository) SaveTask(ctx context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Revision != "" {
		if _, ok := r.tasks[t.ID]; !ok || r.revision(t.ID) != t.Revision {
			return repository.ErrConcurrentModification
		}
	}
	r.put(t)
	return nil
}

// DeleteTask removes a task
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(r.tasks, id)
	delete(r.revs, id)
	return nil
}

func (r *TaskRepository) put(t task.Task) {
	stored := t.Clone()
	stored.Revision = ""
	r.tasks[t.ID] = stored
	r.revs[t.ID]++
}

func (r *TaskRepository) read(t task.Task) task.Task {
	out := t.Clone()
	out.Revision = r.revision(t.ID)
	return out
}

func (r *TaskRepository) revision(id string) string {
	return strconv.FormatUint(r.revs[id], 10)
}
