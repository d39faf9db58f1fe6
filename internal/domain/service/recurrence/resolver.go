// Package recurrence answers whether a recurring task's instance is complete
// on a given day and toggles per-instance completion.
//
// A recurring task has one status field but many instances. Completion is
// tracked per instance in Task.CompleteInstances, keyed by the ISO day that
// starts the instance period (a day, week, month or year depending on the
// rule). The stored base status of a recurring task is never changed here.
package recurrence

import (
	"context"
	"errors"
	"sort"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/datekey"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/event"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
)

// MaxOccurrences caps Occurrences for unbounded rules
const MaxOccurrences = 1000

// epoch is the search origin for rules that have no date to anchor on
var epoch = datekey.New(2000, 1, 1)

// Resolver evaluates recurrence rules against the current settings
type Resolver struct {
	settings settings.Provider
	sink     diag.Sink
	notifier event.Notifier
}

// NewResolver creates a new resolver; nil sink and notifier are allowed
func NewResolver(p settings.Provider, sink diag.Sink, n event.Notifier) *Resolver {
	if p == nil {
		p = settings.NewStatic(nil)
	}
	return &Resolver{
		settings: p,
		sink:     diag.OrDiscard(sink),
		notifier: event.OrNop(n),
	}
}

// Rule parses the task's rule. It reports false for a non-recurring task and
// for a malformed rule, which is also reported as a warning.
func (r *Resolver) Rule(t task.Task) (*Rule, bool) {
	return r.ruleFor(t, r.settings.Snapshot())
}

func (r *Resolver) ruleFor(t task.Task, snap *settings.Snapshot) (*Rule, bool) {
	if !t.IsRecurring() {
		return nil, false
	}
	rule, err := ParseRule(t.Recurrence, anchorFor(t, snap))
	if err != nil {
		var ce model.CoreError
		if errors.As(err, &ce) {
			r.sink.Report(diag.FromError(t.ID, ce))
		}
		return nil, false
	}
	return rule, true
}

// anchorFor picks the first occurrence candidate for a rule without DTSTART
func anchorFor(t task.Task, snap *settings.Snapshot) datekey.Date {
	if d, ok := t.ScheduledDay(); ok {
		return d
	}
	if d, ok := t.DueDay(); ok {
		return d
	}
	d := epoch
	for d.Weekday() != snap.WeekStart {
		d = d.AddDays(1)
	}
	return d
}

// EffectiveStatus returns the status of t as observed on day on.
//
// Non-recurring tasks, and tasks whose rule cannot be parsed, report their
// stored status. A recurring task reports the catalog's completed status when
// the instance containing on is complete. Otherwise it reports its stored
// status, unless that is a completed status, in which case the configured
// open status is used instead.
func (r *Resolver) EffectiveStatus(t task.Task, on datekey.Date) string {
	return r.EffectiveStatusIn(r.settings.Snapshot(), t, on)
}

// EffectiveStatusIn is EffectiveStatus against a snapshot the caller already
// holds, so one evaluation over many tasks sees a single catalog
func (r *Resolver) EffectiveStatusIn(snap *settings.Snapshot, t task.Task, on datekey.Date) string {
	rule, ok := r.ruleFor(t, snap)
	if !ok {
		return t.Status
	}

	if r.instanceComplete(t, rule, on) {
		if done := snap.Statuses.CompletedStatus(); done != "" {
			return done
		}
		return t.Status
	}

	if snap.Statuses.IsCompletedStatus(t.Status) {
		if open := snap.OpenStatus(); open != "" {
			return open
		}
	}
	return t.Status
}

// IsInstanceComplete checks if the instance containing on is complete
func (r *Resolver) IsInstanceComplete(t task.Task, on datekey.Date) bool {
	rule, ok := r.Rule(t)
	if !ok {
		return false
	}
	return r.instanceComplete(t, rule, on)
}

// instanceComplete compares period keys, so a stored day key anywhere in the
// period counts for the whole period
func (r *Resolver) instanceComplete(t task.Task, rule *Rule, on datekey.Date) bool {
	want := rule.PeriodStart(on)
	for _, k := range t.CompleteInstances {
		d, err := datekey.Parse(k)
		if err != nil {
			r.sink.Report(diag.Warning{
				Code:    model.CodeInvalidDateKey,
				Subject: t.ID,
				Message: "ignoring stored instance key " + k,
			})
			continue
		}
		if rule.PeriodStart(d).Equal(want) {
			return true
		}
	}
	return false
}

// PeriodKey returns the instance key for the period containing on
func (r *Resolver) PeriodKey(t task.Task, on datekey.Date) (string, bool) {
	rule, ok := r.Rule(t)
	if !ok {
		return "", false
	}
	return rule.PeriodStart(on).String(), true
}

// ToggleInstanceCompletion flips completion of the instance containing
// dateKey and returns the patched task. The input is not modified.
//
// dateKey must be a YYYY-MM-DD day whose period holds an occurrence of the
// rule; otherwise an INVALID_DATE_KEY error is returned. A task without a
// usable rule yields NOT_RECURRING.
func (r *Resolver) ToggleInstanceCompletion(ctx context.Context, t task.Task, dateKey string) (task.Task, error) {
	d, rule, err := r.resolveInstance(t, dateKey)
	if err != nil {
		return t, err
	}
	return r.setInstance(ctx, t, rule, d, !r.instanceComplete(t, rule, d)), nil
}

// SetInstanceCompletion marks the instance containing dateKey complete or
// open. Setting the state it already has returns an unchanged copy.
func (r *Resolver) SetInstanceCompletion(ctx context.Context, t task.Task, dateKey string, complete bool) (task.Task, error) {
	d, rule, err := r.resolveInstance(t, dateKey)
	if err != nil {
		return t, err
	}
	if r.instanceComplete(t, rule, d) == complete {
		return t.Clone(), nil
	}
	return r.setInstance(ctx, t, rule, d, complete), nil
}

func (r *Resolver) resolveInstance(t task.Task, dateKey string) (datekey.Date, *Rule, error) {
	d, err := datekey.Parse(dateKey)
	if err != nil {
		return datekey.Date{}, nil, err
	}
	rule, ok := r.Rule(t)
	if !ok {
		return datekey.Date{}, nil, model.ErrNotRecurring.
			WithMessage("task %s has no usable recurrence rule", t.ID).
			WithDetails(map[string]interface{}{"task_id": t.ID, "rule": t.Recurrence})
	}
	start := rule.PeriodStart(d)
	if !rule.HasOccurrenceIn(start, rule.PeriodEnd(start)) {
		return datekey.Date{}, nil, model.ErrInvalidDateKey.
			WithMessage("%s is not an occurrence of %q", dateKey, t.Recurrence).
			WithDetails(map[string]interface{}{"key": dateKey, "task_id": t.ID})
	}
	return d, rule, nil
}

func (r *Resolver) setInstance(ctx context.Context, t task.Task, rule *Rule, d datekey.Date, complete bool) task.Task {
	out := t.Clone()
	start := rule.PeriodStart(d)

	keys := make([]string, 0, len(t.CompleteInstances)+1)
	for _, k := range t.CompleteInstances {
		if kd, err := datekey.Parse(k); err == nil && rule.PeriodStart(kd).Equal(start) {
			continue
		}
		keys = append(keys, k)
	}
	if complete {
		keys = append(keys, start.String())
	}
	out.CompleteInstances = sortedUnique(keys)

	name := event.InstanceUncompleted
	if complete {
		name = event.InstanceCompleted
	}
	payload := event.NewPayload(t.ID)
	payload["date"] = start.String()
	payload["granularity"] = rule.Granularity().String()
	event.Send(ctx, r.notifier, name, payload)

	return out
}

func sortedUnique(keys []string) []string {
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if n := len(out); n > 0 && out[n-1] == k {
			continue
		}
		out = append(out, k)
	}
	return out
}

// NextOccurrence returns the first occurrence on a day strictly after after.
// It reports false for a non-recurring task and for an exhausted rule.
func (r *Resolver) NextOccurrence(t task.Task, after datekey.Date) (datekey.Date, bool) {
	rule, ok := r.Rule(t)
	if !ok {
		return datekey.Date{}, false
	}
	return rule.After(after)
}

// Occurrences lists occurrence days in [from, to], capped at MaxOccurrences
func (r *Resolver) Occurrences(t task.Task, from, to datekey.Date) []datekey.Date {
	if to.Before(from) {
		return nil
	}
	rule, ok := r.Rule(t)
	if !ok {
		return nil
	}
	return rule.Between(from, to, MaxOccurrences)
}

// IsDueOn checks if t has something to do on day on: an occurrence for a
// recurring task, or a scheduled or due day for a one-off task
func (r *Resolver) IsDueOn(t task.Task, on datekey.Date) bool {
	if t.IsRecurring() {
		rule, ok := r.Rule(t)
		return ok && rule.OccursOn(on)
	}
	if d, ok := t.ScheduledDay(); ok && d.Equal(on) {
		return true
	}
	if d, ok := t.DueDay(); ok && d.Equal(on) {
		return true
	}
	return false
}
