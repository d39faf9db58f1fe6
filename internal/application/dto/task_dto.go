package dto

// TaskDTO represents a task as observed on one day
type TaskDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`      // effective status on Date
	BaseStatus string `json:"base_status"` // stored status
	Completed  bool   `json:"completed"`
	Priority   string `json:"priority,omitempty"`
	Scheduled  string `json:"scheduled,omitempty"`
	Due        string `json:"due,omitempty"`
	Date       string `json:"date"`

	Tags     []string `json:"tags,omitempty"`
	Contexts []string `json:"contexts,omitempty"`
	Projects []string `json:"projects,omitempty"`

	// Recurrence
	Recurrence        string   `json:"recurrence,omitempty"`
	Recurring         bool     `json:"recurring"`
	InstanceKey       string   `json:"instance_key,omitempty"`
	CompleteInstances []string `json:"complete_instances,omitempty"`
	NextOccurrence    string   `json:"next_occurrence,omitempty"`

	// Dependencies
	Blocked   bool            `json:"blocked"`
	BlockedBy []DependencyDTO `json:"blocked_by,omitempty"`
	Blocking  []string        `json:"blocking,omitempty"`
}

// DependencyDTO represents one blocked-by edge evaluated on TaskDTO.Date
type DependencyDTO struct {
	TargetID string `json:"target_id"`
	RelType  string `json:"reltype"`
	Gap      string `json:"gap,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   string `json:"status,omitempty"`
	Blocking bool   `json:"blocking"`
	Dangling bool   `json:"dangling"`
}

// ListTasksRequest represents a request to list tasks
type ListTasksRequest struct {
	Date             string `json:"date"`
	IncludeCompleted bool   `json:"include_completed"`
	OnlyBlocked      bool   `json:"only_blocked"`
	Tag              string `json:"tag,omitempty"`
}

// ToggleInstanceRequest represents a request to toggle a recurring instance
type ToggleInstanceRequest struct {
	TaskID string `json:"task_id"`
	Date   string `json:"date"`
}

// CycleRequest represents a request to move a task to the next status or priority
type CycleRequest struct {
	TaskID   string `json:"task_id"`
	Date     string `json:"date"`
	Backward bool   `json:"backward"`
}

// AddDependencyRequest represents a request to add a blocked-by edge
type AddDependencyRequest struct {
	TaskID   string `json:"task_id"`
	TargetID string `json:"target_id"`
	RelType  string `json:"reltype,omitempty"`
	Gap      string `json:"gap,omitempty"`
	Date     string `json:"date"`
}

// NextOccurrenceResponse represents the next occurrence of a recurring task
type NextOccurrenceResponse struct {
	TaskID string `json:"task_id"`
	After  string `json:"after"`
	Date   string `json:"date,omitempty"`
	Found  bool   `json:"found"`
}

// DependencyOrderResponse lists task ids with blockers first.
// Dangling maps a task id to the missing targets it references.
type DependencyOrderResponse struct {
	Order    []string            `json:"order"`
	Dangling map[string][]string `json:"dangling,omitempty"`
}

// FieldMappingDTO represents one canonical field and its property name
type FieldMappingDTO struct {
	Field    string `json:"field"`
	Property string `json:"property"`
	Remapped bool   `json:"remapped"`
	Conflict string `json:"conflict,omitempty"`
}
