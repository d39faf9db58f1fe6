// Package dependency maintains blocked-by edges between tasks.
//
// Only the blocked-by side is stored. The inverse ("blocking") is derived by
// scanning the repository on every call, so the two sides cannot disagree.
package dependency

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/datekey"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/event"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
	"github.com/sosodev/duration"
)

// StatusResolver evaluates the status of a task on a given day
type StatusResolver interface {
	EffectiveStatusIn(snap *settings.Snapshot, t task.Task, on datekey.Date) string
}

// Graph answers dependency queries against a task repository
type Graph struct {
	repo     repository.TaskReader
	statuses StatusResolver
	settings settings.Provider
	sink     diag.Sink
	notifier event.Notifier
}

// NewGraph creates a new dependency graph service
func NewGraph(repo repository.TaskReader, statuses StatusResolver, p settings.Provider, sink diag.Sink, n event.Notifier) *Graph {
	if p == nil {
		p = settings.NewStatic(nil)
	}
	return &Graph{
		repo:     repo,
		statuses: statuses,
		settings: p,
		sink:     diag.OrDiscard(sink),
		notifier: event.OrNop(n),
	}
}

// AddDependency returns a copy of t blocked by targetID.
//
// An empty relType means FINISHTOSTART. gap, when set, must be an ISO-8601
// duration. An existing edge to targetID is replaced. The edge is rejected
// with CYCLIC_DEPENDENCY when targetID already depends on t, directly or
// transitively; t is returned unchanged in that case. A target that does
// not exist is accepted with a DANGLING_REFERENCE warning.
func (g *Graph) AddDependency(ctx context.Context, t task.Task, targetID string, relType string, gap string) (task.Task, error) {
	dep, err := newDependency(targetID, relType, gap)
	if err != nil {
		return t, err
	}

	path, err := g.DetectCycle(ctx, t.ID, dep.TargetID)
	if err != nil {
		return t, err
	}
	if path != nil {
		return t, model.ErrCyclicDependency.
			WithMessage("%s cannot depend on %s: %s", t.ID, dep.TargetID, strings.Join(path, " -> ")).
			WithDetails(map[string]interface{}{
				"task_id":   t.ID,
				"target_id": dep.TargetID,
				"path":      path,
			})
	}

	if _, err := g.repo.GetTask(ctx, dep.TargetID); errors.Is(err, repository.ErrTaskNotFound) {
		g.sink.Report(dangling(t.ID, dep.TargetID))
	} else if err != nil {
		return t, err
	}

	out := t.Clone()
	if i := out.FindDependency(dep.TargetID); i >= 0 {
		out.BlockedBy[i] = dep
	} else {
		out.BlockedBy = append(out.BlockedBy, dep)
	}

	payload := event.NewPayload(t.ID)
	payload["target_id"] = dep.TargetID
	payload["reltype"] = dep.RelType.String()
	if dep.Gap != "" {
		payload["gap"] = dep.Gap
	}
	event.Send(ctx, g.notifier, event.DependencyAdded, payload)

	return out, nil
}

func newDependency(targetID, relType, gap string) (task.Dependency, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return task.Dependency{}, model.ErrInvalidDependency.WithMessage("dependency target is empty")
	}

	rt := task.ParseRelType(relType)
	if !rt.IsValid() {
		return task.Dependency{}, model.ErrInvalidDependency.
			WithMessage("unknown relation type %q", relType).
			WithDetails(map[string]interface{}{"reltype": relType})
	}

	gap = strings.TrimSpace(gap)
	if gap != "" {
		if _, err := duration.Parse(gap); err != nil {
			return task.Dependency{}, model.ErrInvalidDependency.
				WithMessage("gap %q is not an ISO-8601 duration: %v", gap, err).
				WithDetails(map[string]interface{}{"gap": gap})
		}
	}

	return task.Dependency{TargetID: targetID, RelType: rt, Gap: gap}, nil
}

// RemoveDependency returns a copy of t without its edge to targetID.
// Removing an absent edge is a no-op.
func (g *Graph) RemoveDependency(ctx context.Context, t task.Task, targetID string) task.Task {
	out := t.Clone()
	i := out.FindDependency(targetID)
	if i < 0 {
		return out
	}
	out.BlockedBy = append(out.BlockedBy[:i], out.BlockedBy[i+1:]...)

	payload := event.NewPayload(t.ID)
	payload["target_id"] = targetID
	event.Send(ctx, g.notifier, event.DependencyRemoved, payload)

	return out
}

// DetectCycle checks whether making taskID depend on targetID would close a
// cycle. It walks blocked-by edges depth first from targetID over one
// repository snapshot. The returned path starts and ends with taskID; it is
// nil when no cycle would form.
func (g *Graph) DetectCycle(ctx context.Context, taskID, targetID string) ([]string, error) {
	if taskID == targetID {
		return []string{taskID, targetID}, nil
	}

	snap, err := repository.LoadSnapshot(ctx, g.repo)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	var walk func(id string) []string
	walk = func(id string) []string {
		if id == taskID {
			return []string{id}
		}
		if visited[id] {
			return nil
		}
		visited[id] = true

		current, ok := snap[id]
		if !ok {
			return nil
		}
		for _, d := range current.BlockedBy {
			if rest := walk(d.TargetID); rest != nil {
				return append([]string{id}, rest...)
			}
		}
		return nil
	}

	rest := walk(targetID)
	if rest == nil {
		return nil, nil
	}
	return append([]string{taskID}, rest...), nil
}

// GetBlocking returns the tasks blocked by taskID, ordered by id
func (g *Graph) GetBlocking(ctx context.Context, taskID string) ([]task.Task, error) {
	tasks, err := g.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	var out []task.Task
	for _, t := range tasks {
		if t.DependsOn(taskID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IsBlocked checks if any blocked-by target of t is not complete on asOf.
// Missing targets do not block; each is reported as a warning.
func (g *Graph) IsBlocked(ctx context.Context, t task.Task, asOf datekey.Date) (bool, error) {
	blockers, err := g.Blockers(ctx, t, asOf)
	if err != nil {
		return false, err
	}
	for _, b := range blockers {
		if b.Blocking {
			return true, nil
		}
	}
	return false, nil
}

// State returns the blocking state of t on asOf
func (g *Graph) State(ctx context.Context, t task.Task, asOf datekey.Date) (State, error) {
	blocked, err := g.IsBlocked(ctx, t, asOf)
	if err != nil {
		return Unblocked, err
	}
	if blocked {
		return Blocked, nil
	}
	return Unblocked, nil
}

// Blockers evaluates every blocked-by edge of t on asOf against the
// settings snapshot taken when the call starts
func (g *Graph) Blockers(ctx context.Context, t task.Task, asOf datekey.Date) ([]Blocker, error) {
	snap := g.settings.Snapshot()

	out := make([]Blocker, 0, len(t.BlockedBy))
	for _, d := range t.BlockedBy {
		b := Blocker{Dependency: d}

		target, err := g.repo.GetTask(ctx, d.TargetID)
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			b.Dangling = true
			g.sink.Report(dangling(t.ID, d.TargetID))
		case err != nil:
			return nil, err
		default:
			b.Title = target.Title
			b.Status = g.statuses.EffectiveStatusIn(snap, target, asOf)
			b.Blocking = !snap.Statuses.IsCompletedStatus(b.Status)
		}

		out = append(out, b)
	}
	return out, nil
}

func dangling(taskID, targetID string) diag.Warning {
	return diag.Warning{
		Code:    model.CodeDanglingReference,
		Subject: taskID,
		Message: "blocked by missing task " + targetID,
	}
}
