package task

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/application/port/input"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/datekey"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/event"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	domaintask "github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/service/dependency"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/service/recurrence"
)

var (
	_ input.TaskUseCase       = (*TaskUseCaseImpl)(nil)
	_ input.DependencyUseCase = (*TaskUseCaseImpl)(nil)
	_ input.SettingsUseCase   = (*TaskUseCaseImpl)(nil)
)

// TaskUseCaseImpl loads tasks, runs the domain services and persists the result
type TaskUseCaseImpl struct {
	taskRepo repository.TaskRepository
	settings settings.Provider
	resolver *recurrence.Resolver
	graph    *dependency.Graph
	now      func() time.Time
}

// NewTaskUseCaseImpl creates a new task use case implementation
func NewTaskUseCaseImpl(
	taskRepo repository.TaskRepository,
	settingsProvider settings.Provider,
	resolver *recurrence.Resolver,
	graph *dependency.Graph,
) *TaskUseCaseImpl {
	return &TaskUseCaseImpl{
		taskRepo: taskRepo,
		settings: settingsProvider,
		resolver: resolver,
		graph:    graph,
		now:      time.Now,
	}
}

// GetTask retrieves a task as observed on date
func (uc *TaskUseCaseImpl) GetTask(ctx context.Context, taskID string, date string) (*dto.TaskDTO, error) {
	on, err := uc.day(date)
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return uc.toDTO(ctx, t, on, true)
}

// ListTasks lists tasks ordered by priority, then due date, then id
func (uc *TaskUseCaseImpl) ListTasks(ctx context.Context, req dto.ListTasksRequest) ([]dto.TaskDTO, error) {
	on, err := uc.day(req.Date)
	if err != nil {
		return nil, err
	}

	tasks, err := uc.taskRepo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]dto.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		if req.Tag != "" && !t.HasTag(req.Tag) {
			continue
		}
		d, err := uc.toDTO(ctx, t, on, false)
		if err != nil {
			return nil, err
		}
		if d.Completed && !req.IncludeCompleted {
			continue
		}
		if req.OnlyBlocked && !d.Blocked {
			continue
		}
		out = append(out, *d)
	}

	priorities := uc.settings.Snapshot().Priorities
	sort.SliceStable(out, func(i, j int) bool {
		if c := priorities.Compare(out[i].Priority, out[j].Priority); c != 0 {
			return c > 0
		}
		if di, dj := dueKey(out[i].Due), dueKey(out[j].Due); di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// dueKey sorts tasks without a due date last
func dueKey(due string) string {
	if d, ok := datekey.ParseLeading(due); ok {
		return d.String()
	}
	return "9999-12-31"
}

// ToggleInstance flips completion of one recurring instance
func (uc *TaskUseCaseImpl) ToggleInstance(ctx context.Context, req dto.ToggleInstanceRequest) (*dto.TaskDTO, error) {
	on, err := uc.day(req.Date)
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	deferred, pending := event.Defer(ctx)
	updated, err := uc.resolver.ToggleInstanceCompletion(deferred, t, on.String())
	if err != nil {
		return nil, err
	}
	if err := uc.save(ctx, updated); err != nil {
		return nil, err
	}
	pending.Flush(ctx)
	return uc.toDTO(ctx, updated, on, false)
}

// NextOccurrence finds the next occurrence strictly after after
func (uc *TaskUseCaseImpl) NextOccurrence(ctx context.Context, taskID string, after string) (*dto.NextOccurrenceResponse, error) {
	from, err := uc.day(after)
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !t.IsRecurring() {
		return nil, model.ErrNotRecurring.WithMessage("task %s has no recurrence rule", taskID)
	}

	resp := &dto.NextOccurrenceResponse{TaskID: taskID, After: from.String()}
	if next, ok := uc.resolver.NextOccurrence(t, from); ok {
		resp.Date = next.String()
		resp.Found = true
	}
	return resp, nil
}

// CycleStatus moves a task to the next status.
//
// For a recurring task the cycle starts from the effective status on the
// requested day. Reaching a completed status completes that instance and
// leaves the stored status alone; any other status reopens the instance and
// becomes the stored status.
func (uc *TaskUseCaseImpl) CycleStatus(ctx context.Context, req dto.CycleRequest) (*dto.TaskDTO, error) {
	on, err := uc.day(req.Date)
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	statuses := uc.settings.Snapshot().Statuses
	dir := direction(req.Backward)
	deferred, pending := event.Defer(ctx)

	var updated domaintask.Task
	if _, ok := uc.resolver.Rule(t); ok {
		next := statuses.NextStatus(uc.resolver.EffectiveStatus(t, on), dir)
		complete := statuses.IsCompletedStatus(next)
		updated, err = uc.resolver.SetInstanceCompletion(deferred, t, on.String(), complete)
		if err != nil {
			return nil, err
		}
		if !complete {
			updated.Status = next
		}
	} else {
		updated = t.Clone()
		updated.Status = statuses.NextStatus(t.Status, dir)
		switch {
		case statuses.IsCompletedStatus(updated.Status) && !statuses.IsCompletedStatus(t.Status):
			updated.CompletedDate = on.String()
		case !statuses.IsCompletedStatus(updated.Status):
			updated.CompletedDate = ""
		}
	}

	if err := uc.save(ctx, updated); err != nil {
		return nil, err
	}
	pending.Flush(ctx)
	return uc.toDTO(ctx, updated, on, false)
}

// CyclePriority moves a task to the next priority
func (uc *TaskUseCaseImpl) CyclePriority(ctx context.Context, req dto.CycleRequest) (*dto.TaskDTO, error) {
	on, err := uc.day(req.Date)
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	updated := t.Clone()
	updated.Priority = uc.settings.Snapshot().Priorities.NextPriority(t.Priority, direction(req.Backward))
	if err := uc.save(ctx, updated); err != nil {
		return nil, err
	}
	return uc.toDTO(ctx, updated, on, false)
}

// FieldMappings lists every canonical field with its effective property name
func (uc *TaskUseCaseImpl) FieldMappings() []dto.FieldMappingDTO {
	fields := uc.settings.Snapshot().Fields
	mapping := fields.Mapping()

	conflicts := make(map[string]string)
	for _, c := range fields.Conflicts() {
		conflicts[string(c.Field)] = c.Error().Message
	}

	out := make([]dto.FieldMappingDTO, 0, len(mapping))
	for _, f := range fields.Fields() {
		out = append(out, dto.FieldMappingDTO{
			Field:    string(f),
			Property: mapping[f],
			Remapped: mapping[f] != f.DefaultName(),
			Conflict: conflicts[string(f)],
		})
	}
	return out
}

func (uc *TaskUseCaseImpl) day(date string) (datekey.Date, error) {
	if strings.TrimSpace(date) == "" {
		return datekey.FromTime(uc.now(), uc.settings.Snapshot().Loc()), nil
	}
	return datekey.Parse(date)
}

func (uc *TaskUseCaseImpl) load(ctx context.Context, taskID string) (domaintask.Task, error) {
	t, err := uc.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	return t, nil
}

func (uc *TaskUseCaseImpl) save(ctx context.Context, t domaintask.Task) error {
	t.DateModified = uc.now().In(uc.settings.Snapshot().Loc()).Format(time.RFC3339)
	if err := uc.taskRepo.SaveTask(ctx, t); err != nil {
		return fmt.Errorf("failed to save task %s: %w", t.ID, err)
	}
	return nil
}

func (uc *TaskUseCaseImpl) toDTO(ctx context.Context, t domaintask.Task, on datekey.Date, detail bool) (*dto.TaskDTO, error) {
	statuses := uc.settings.Snapshot().Statuses
	status := uc.resolver.EffectiveStatus(t, on)

	d := &dto.TaskDTO{
		ID:         t.ID,
		Title:      t.Title,
		Status:     status,
		BaseStatus: t.Status,
		Completed:  statuses.IsCompletedStatus(status),
		Priority:   t.Priority,
		Scheduled:  t.Scheduled,
		Due:        t.Due,
		Date:       on.String(),
		Tags:       t.Tags,
		Contexts:   t.Contexts,
		Projects:   t.Projects,
		Recurrence: t.Recurrence,
	}

	if rule, ok := uc.resolver.Rule(t); ok {
		d.Recurring = true
		d.InstanceKey = rule.PeriodStart(on).String()
		d.CompleteInstances = t.CompleteInstances
		if detail {
			if next, ok := rule.After(on); ok {
				d.NextOccurrence = next.String()
			}
		}
	}

	blockers, err := uc.graph.Blockers(ctx, t, on)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate dependencies of %s: %w", t.ID, err)
	}
	for _, b := range blockers {
		d.Blocked = d.Blocked || b.Blocking
		d.BlockedBy = append(d.BlockedBy, dto.DependencyDTO{
			TargetID: b.TargetID,
			RelType:  b.RelType.String(),
			Gap:      b.Gap,
			Title:    b.Title,
			Status:   b.Status,
			Blocking: b.Blocking,
			Dangling: b.Dangling,
		})
	}

	if detail {
		blocking, err := uc.graph.GetBlocking(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find tasks blocked by %s: %w", t.ID, err)
		}
		for _, b := range blocking {
			d.Blocking = append(d.Blocking, b.ID)
		}
	}

	return d, nil
}

func direction(backward bool) model.Direction {
	if backward {
		return model.Backward
	}
	return model.Forward
}
