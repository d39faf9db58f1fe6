package priority

import (
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
)

// Definition describes one user-configured priority
type Definition struct {
	Value  string
	Label  string
	Color  string
	Weight int // higher is more important
}

// Registry is an immutable priority catalog ordered by ascending weight.
// Unlike statuses, priorities carry no completion semantics and the catalog may be empty.
type Registry struct {
	defs []Definition
}

// NewRegistry builds a registry sorted by weight; equal weights keep input order
func NewRegistry(defs []Definition) (*Registry, error) {
	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Weight < sorted[j].Weight })

	seen := make(map[string]bool, len(sorted))
	for _, d := range sorted {
		if strings.TrimSpace(d.Value) == "" {
			return nil, model.ErrInvalidCatalog.WithMessage("priority value cannot be empty")
		}
		if seen[d.Value] {
			return nil, model.ErrInvalidCatalog.WithMessage("duplicate priority value %q", d.Value)
		}
		seen[d.Value] = true
	}
	return &Registry{defs: sorted}, nil
}

// DefaultRegistry returns the built-in catalog
func DefaultRegistry() *Registry {
	r, _ := NewRegistry([]Definition{
		{Value: "none", Label: "None", Color: "#cccccc", Weight: 0},
		{Value: "low", Label: "Low", Color: "#00aa00", Weight: 1},
		{Value: "normal", Label: "Normal", Color: "#ffaa00", Weight: 2},
		{Value: "high", Label: "High", Color: "#ff0000", Weight: 3},
	})
	return r
}

// Len returns the number of priorities
func (r *Registry) Len() int {
	return len(r.defs)
}

// Definitions returns the catalog by ascending weight
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Values returns the priority values by ascending weight
func (r *Registry) Values() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Value
	}
	return out
}

// Get looks up a priority definition
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

// NextPriority cycles by weight with wrap-around. An unknown or empty current
// value starts from the lightest (forward) or heaviest (backward) entry.
// An empty catalog returns current unchanged.
func (r *Registry) NextPriority(current string, dir model.Direction) string {
	n := len(r.defs)
	if n == 0 {
		return current
	}
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

// Compare orders a and b by weight: negative when a is less important.
// Unknown or empty priorities rank below every catalog entry.
func (r *Registry) Compare(a, b string) int {
	ia, ib := r.indexOf(a), r.indexOf(b)
	switch {
	case ia == ib:
		return 0
	case ia < 0:
		return -1
	case ib < 0:
		return 1
	}
	wa, wb := r.defs[ia].Weight, r.defs[ib].Weight
	if wa != wb {
		return wa - wb
	}
	return ia - ib
}

// Add inserts a priority at its weight position
func (r *Registry) Add(def Definition) (*Registry, error) {
	if r.Contains(def.Value) {
		return nil, model.ErrInvalidCatalog.WithMessage("duplicate priority value %q", def.Value)
	}
	return NewRegistry(append(r.Definitions(), def))
}

// Remove deletes a priority
func (r *Registry) Remove(value string) (*Registry, error) {
	i := r.indexOf(value)
	if i < 0 {
		return nil, model.ErrInvalidCatalog.WithMessage("unknown priority %q", value)
	}
	out := make([]Definition, 0, len(r.defs)-1)
	out = append(out, r.defs[:i]...)
	out = append(out, r.defs[i+1:]...)
	return &Registry{defs: out}, nil
}

func (r *Registry) indexOf(value string) int {
	for i, d := range r.defs {
		if d.Value == value {
			return i
		}
	}
	return -1
}
