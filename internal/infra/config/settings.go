package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/fieldmap"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/priority"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/status"
	"github.com/go-playground/validator/v10"
)

// RawSettings represents the structure of the taskcore settings file.
// Pointer fields distinguish "absent" from "zero" before defaults apply.
type RawSettings struct {
	// Calendar
	Timezone  *string `mapstructure:"timezone"`
	WeekStart *string `mapstructure:"week_start" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`

	// Catalogs
	DefaultStatus *string           `mapstructure:"default_status"`
	Statuses      []StatusSetting   `mapstructure:"statuses" validate:"omitempty,dive"`
	Priorities    []PrioritySetting `mapstructure:"priorities" validate:"omitempty,dive"`

	// Property names, keyed by canonical field
	FieldMapping map[string]string `mapstructure:"field_mapping"`

	// Vault
	TaskTag     *string `mapstructure:"task_tag" validate:"omitempty,min=1"`
	TasksFolder *string `mapstructure:"tasks_folder"`

	// Logging
	LogLevel *string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// StatusSetting is one status catalog entry
type StatusSetting struct {
	Value       string `mapstructure:"value" validate:"required"`
	Label       string `mapstructure:"label"`
	Color       string `mapstructure:"color" validate:"omitempty,hexcolor"`
	Icon        string `mapstructure:"icon"`
	IsCompleted bool   `mapstructure:"is_completed"`
	Order       int    `mapstructure:"order" validate:"gte=0"`
}

// PrioritySetting is one priority catalog entry
type PrioritySetting struct {
	Value  string `mapstructure:"value" validate:"required"`
	Label  string `mapstructure:"label"`
	Color  string `mapstructure:"color" validate:"omitempty,hexcolor"`
	Weight int    `mapstructure:"weight"`
}

// Settings is the loaded configuration
type Settings struct {
	Snapshot    *settings.Snapshot
	TaskTag     string
	TasksFolder string
	LogLevel    string

	// Source is "default" or the path of the file that was read
	Source string
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var validate = validator.New()

// applyDefaults fills in values for every absent scalar setting
func applyDefaults(raw *RawSettings) {
	def := func(p **string, v string) {
		if *p == nil || strings.TrimSpace(**p) == "" {
			*p = &v
			return
		}
		trimmed := strings.TrimSpace(**p)
		*p = &trimmed
	}
	def(&raw.Timezone, "UTC")
	def(&raw.WeekStart, "monday")
	def(&raw.TaskTag, "task")
	def(&raw.LogLevel, "warn")

	ws := strings.ToLower(*raw.WeekStart)
	raw.WeekStart = &ws
	lvl := strings.ToLower(*raw.LogLevel)
	raw.LogLevel = &lvl
}

// buildSettings validates raw and assembles the snapshot.
// Mapping conflicts and unknown fields are reported to sink, not returned.
func buildSettings(raw *RawSettings, source string, sink diag.Sink) (*Settings, error) {
	applyDefaults(raw)
	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", source, err)
	}

	loc, err := time.LoadLocation(*raw.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", *raw.Timezone, err)
	}

	statuses := status.DefaultRegistry()
	if len(raw.Statuses) > 0 {
		defs := make([]status.Definition, 0, len(raw.Statuses))
		for _, s := range raw.Statuses {
			defs = append(defs, status.Definition{
				Value:       s.Value,
				Label:       s.Label,
				Color:       s.Color,
				Icon:        s.Icon,
				IsCompleted: s.IsCompleted,
				Order:       s.Order,
			})
		}
		if statuses, err = status.NewRegistry(defs); err != nil {
			return nil, fmt.Errorf("invalid status catalog: %w", err)
		}
	}

	priorities := priority.DefaultRegistry()
	if raw.Priorities != nil {
		defs := make([]priority.Definition, 0, len(raw.Priorities))
		for _, p := range raw.Priorities {
			defs = append(defs, priority.Definition{
				Value:  p.Value,
				Label:  p.Label,
				Color:  p.Color,
				Weight: p.Weight,
			})
		}
		if priorities, err = priority.NewRegistry(defs); err != nil {
			return nil, fmt.Errorf("invalid priority catalog: %w", err)
		}
	}

	fields := fieldmap.NewMapper(fieldOverrides(raw.FieldMapping, sink))
	for _, c := range fields.Conflicts() {
		sink.Report(diag.FromError("field_mapping", c.Error()))
	}

	snap := &settings.Snapshot{
		Fields:     fields,
		Statuses:   statuses,
		Priorities: priorities,
		Location:   loc,
		WeekStart:  weekdays[*raw.WeekStart],
	}
	if raw.DefaultStatus != nil {
		snap.DefaultStatus = strings.TrimSpace(*raw.DefaultStatus)
		if snap.DefaultStatus != "" && !statuses.Contains(snap.DefaultStatus) {
			return nil, fmt.Errorf("default status %q is not in the status catalog", snap.DefaultStatus)
		}
	}

	out := &Settings{
		Snapshot: snap,
		TaskTag:  *raw.TaskTag,
		LogLevel: *raw.LogLevel,
		Source:   source,
	}
	if raw.TasksFolder != nil {
		out.TasksFolder = strings.Trim(strings.TrimSpace(*raw.TasksFolder), "/")
	}
	return out, nil
}

// fieldOverrides matches configured keys to canonical fields ignoring case,
// since the settings reader lower-cases keys
func fieldOverrides(in map[string]string, sink diag.Sink) map[fieldmap.Field]string {
	out := make(map[fieldmap.Field]string, len(in))
	for key, name := range in {
		matched := false
		for _, f := range fieldmap.CanonicalFields() {
			if strings.EqualFold(key, string(f)) {
				out[f] = name
				matched = true
				break
			}
		}
		if !matched {
			sink.Report(diag.Warning{
				Code:    model.CodeConfigurationConflict,
				Subject: "field_mapping",
				Message: fmt.Sprintf("unknown field %q ignored", key),
			})
		}
	}
	return out
}
