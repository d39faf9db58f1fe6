package task

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/event"
)

// AddDependency makes req.TaskID blocked by req.TargetID and persists it
func (uc *TaskUseCaseImpl) AddDependency(ctx context.Context, req dto.AddDependencyRequest) (*dto.TaskDTO, error) {
	on, err := uc.day(req.Date)
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	deferred, pending := event.Defer(ctx)
	updated, err := uc.graph.AddDependency(deferred, t, req.TargetID, req.RelType, req.Gap)
	if err != nil {
		return nil, err
	}
	if err := uc.save(ctx, updated); err != nil {
		return nil, err
	}
	pending.Flush(ctx)
	return uc.toDTO(ctx, updated, on, false)
}

// RemoveDependency removes the edge from taskID to targetID.
// Removing an edge that does not exist writes nothing and returns the task
// as it is.
func (uc *TaskUseCaseImpl) RemoveDependency(ctx context.Context, taskID, targetID string) (*dto.TaskDTO, error) {
	on, err := uc.day("")
	if err != nil {
		return nil, err
	}
	t, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !t.DependsOn(targetID) {
		return uc.toDTO(ctx, t, on, false)
	}

	deferred, pending := event.Defer(ctx)
	updated := uc.graph.RemoveDependency(deferred, t, targetID)
	if err := uc.save(ctx, updated); err != nil {
		return nil, err
	}
	pending.Flush(ctx)
	return uc.toDTO(ctx, updated, on, false)
}

// GetBlocking lists the tasks blocked by taskID as observed on date
func (uc *TaskUseCaseImpl) GetBlocking(ctx context.Context, taskID string, date string) ([]dto.TaskDTO, error) {
	on, err := uc.day(date)
	if err != nil {
		return nil, err
	}
	if _, err := uc.load(ctx, taskID); err != nil {
		return nil, err
	}

	blocking, err := uc.graph.GetBlocking(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks blocked by %s: %w", taskID, err)
	}

	out := make([]dto.TaskDTO, 0, len(blocking))
	for _, t := range blocking {
		d, err := uc.toDTO(ctx, t, on, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// DependencyOrder orders every task after the tasks blocking it
func (uc *TaskUseCaseImpl) DependencyOrder(ctx context.Context) (*dto.DependencyOrderResponse, error) {
	ix, err := uc.graph.BuildIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to index dependencies: %w", err)
	}
	order, err := ix.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	return &dto.DependencyOrderResponse{Order: order, Dangling: ix.Dangling()}, nil
}
