package status

import (
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
)

// Definition describes one user-configured status
type Definition struct {
	Value       string
	Label       string
	Color       string
	Icon        string
	IsCompleted bool
	Order       int
}

// Registry is an immutable, ordered status catalog.
// Orders are always contiguous 0..n-1; every mutation returns a new Registry.
type Registry struct {
	defs []Definition
}

// NewRegistry builds a registry sorted by Order. Ties keep input order.
func NewRegistry(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, model.ErrInvalidCatalog.WithMessage("status catalog cannot be empty")
	}

	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	seen := make(map[string]bool, len(sorted))
	for _, d := range sorted {
		if strings.TrimSpace(d.Value) == "" {
			return nil, model.ErrInvalidCatalog.WithMessage("status value cannot be empty")
		}
		if seen[d.Value] {
			return nil, model.ErrInvalidCatalog.WithMessage("duplicate status value %q", d.Value)
		}
		seen[d.Value] = true
	}

	return &Registry{defs: renumber(sorted)}, nil
}

// DefaultRegistry returns the built-in catalog
func DefaultRegistry() *Registry {
	r, _ := NewRegistry([]Definition{
		{Value: "open", Label: "Open", Color: "#808080", Icon: "circle", Order: 0},
		{Value: "in-progress", Label: "In progress", Color: "#0066cc", Icon: "clock", Order: 1},
		{Value: "done", Label: "Done", Color: "#00aa00", Icon: "check", IsCompleted: true, Order: 2},
	})
	return r
}

// Len returns the number of statuses
func (r *Registry) Len() int {
	return len(r.defs)
}

// Definitions returns the catalog in order
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Values returns the status values in order
func (r *Registry) Values() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Value
	}
	return out
}

// Get looks up a status definition
func (r *Registry) Get(value string) (Definition, bool) {
	i := r.indexOf(value)
	if i < 0 {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Contains checks if value is in the catalog
func (r *Registry) Contains(value string) bool {
	return r.indexOf(value) >= 0
}

// IsCompletedStatus checks if value is a completed status
func (r *Registry) IsCompletedStatus(value string) bool {
	d, ok := r.Get(value)
	return ok && d.IsCompleted
}

// CompletedStatus returns the first completed status, or "" if none exists
func (r *Registry) CompletedStatus() string {
	for _, d := range r.defs {
		if d.IsCompleted {
			return d.Value
		}
	}
	return ""
}

// DefaultOpenStatus returns the first non-completed status, or "" if none exists
func (r *Registry) DefaultOpenStatus() string {
	for _, d := range r.defs {
		if !d.IsCompleted {
			return d.Value
		}
	}
	return ""
}

// NextStatus cycles through the catalog with wrap-around.
// An unknown current value starts from the first (forward) or last (backward) entry.
func (r *Registry) NextStatus(current string, dir model.Direction) string {
	n := len(r.defs)
	i := r.indexOf(current)
	if i < 0 {
		if dir == model.Backward {
			return r.defs[n-1].Value
		}
		return r.defs[0].Value
	}
	if dir == model.Backward {
		return r.defs[(i-1+n)%n].Value
	}
	return r.defs[(i+1)%n].Value
}

// Reorder returns a registry ordered as values, which must be a permutation of the catalog
func (r *Registry) Reorder(values []string) (*Registry, error) {
	if len(values) != len(r.defs) {
		return nil, model.ErrInvalidCatalog.WithMessage("reorder expects %d statuses, got %d", len(r.defs), len(values))
	}
	out := make([]Definition, 0, len(values))
	used := make(map[string]bool, len(values))
	for _, v := range values {
		i := r.indexOf(v)
		if i < 0 {
			return nil, model.ErrInvalidCatalog.WithMessage("unknown status %q", v)
		}
		if used[v] {
			return nil, model.ErrInvalidCatalog.WithMessage("status %q listed twice", v)
		}
		used[v] = true
		out = append(out, r.defs[i])
	}
	return &Registry{defs: renumber(out)}, nil
}

// Add appends a status at the end of the catalog
func (r *Registry) Add(def Definition) (*Registry, error) {
	if strings.TrimSpace(def.Value) == "" {
		return nil, model.ErrInvalidCatalog.WithMessage("status value cannot be empty")
	}
	if r.Contains(def.Value) {
		return nil, model.ErrInvalidCatalog.WithMessage("duplicate status value %q", def.Value)
	}
	out := append(r.Definitions(), def)
	return &Registry{defs: renumber(out)}, nil
}

// Remove deletes a status; the last remaining status cannot be removed
func (r *Registry) Remove(value string) (*Registry, error) {
	i := r.indexOf(value)
	if i < 0 {
		return nil, model.ErrInvalidCatalog.WithMessage("unknown status %q", value)
	}
	if len(r.defs) == 1 {
		return nil, model.ErrInvalidCatalog.WithMessage("cannot remove the last status")
	}
	out := make([]Definition, 0, len(r.defs)-1)
	out = append(out, r.defs[:i]...)
	out = append(out, r.defs[i+1:]...)
	return &Registry{defs: renumber(out)}, nil
}

func (r *Registry) indexOf(value string) int {
	for i, d := range r.defs {
		if d.Value == value {
			return i
		}
	}
	return -1
}

func renumber(defs []Definition) []Definition {
	for i := range defs {
		defs[i].Order = i
	}
	return defs
}
