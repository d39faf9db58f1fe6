package input

import (
	"context"

	"github.com/YoshitsuguKoike/taskcore/internal/application/dto"
)

// TaskUseCase defines the task operations offered to consumers
type TaskUseCase interface {
	// GetTask retrieves a task as observed on date (empty means today)
	GetTask(ctx context.Context, taskID string, date string) (*dto.TaskDTO, error)

	// ListTasks lists tasks with filters, most important first
	ListTasks(ctx context.Context, req dto.ListTasksRequest) ([]dto.TaskDTO, error)

	// ToggleInstance flips completion of one recurring instance and persists it
	ToggleInstance(ctx context.Context, req dto.ToggleInstanceRequest) (*dto.TaskDTO, error)

	// NextOccurrence finds the next occurrence strictly after a date
	NextOccurrence(ctx context.Context, taskID string, after string) (*dto.NextOccurrenceResponse, error)

	// CycleStatus moves a task to the next status in the catalog
	CycleStatus(ctx context.Context, req dto.CycleRequest) (*dto.TaskDTO, error)

	// CyclePriority moves a task to the next priority in the catalog
	CyclePriority(ctx context.Context, req dto.CycleRequest) (*dto.TaskDTO, error)
}

// DependencyUseCase defines dependency operations
type DependencyUseCase interface {
	// AddDependency makes a task blocked by another one
	AddDependency(ctx context.Context, req dto.AddDependencyRequest) (*dto.TaskDTO, error)

	// RemoveDependency removes a blocked-by edge
	RemoveDependency(ctx context.Context, taskID, targetID string) (*dto.TaskDTO, error)

	// GetBlocking lists the tasks blocked by a task
	GetBlocking(ctx context.Context, taskID string, date string) ([]dto.TaskDTO, error)

	// DependencyOrder lists task ids so that every task follows its blockers
	DependencyOrder(ctx context.Context) (*dto.DependencyOrderResponse, error)
}

// SettingsUseCase exposes the effective settings
type SettingsUseCase interface {
	// FieldMappings lists every canonical field with its property name
	FieldMappings() []dto.FieldMappingDTO
}
