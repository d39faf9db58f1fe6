// Package fieldmap translates between canonical task fields and the property
// names a user has chosen for them.
//
// Every property-name comparison in the code base goes through Mapper. Code
// must never compare a property name against a literal field name, because
// the user may have renamed that field.
package fieldmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical field identifier
type Field string

const (
	FieldTitle             Field = "title"
	FieldStatus            Field = "status"
	FieldPriority          Field = "priority"
	FieldDue               Field = "due"
	FieldScheduled         Field = "scheduled"
	FieldTags              Field = "tags"
	FieldContexts          Field = "contexts"
	FieldProjects          Field = "projects"
	FieldRecurrence        Field = "recurrence"
	FieldCompleteInstances Field = "complete_instances"
	FieldBlockedBy         Field = "blockedBy"
	FieldDateCreated       Field = "dateCreated"
	FieldDateModified      Field = "dateModified"
	FieldCompletedDate     Field = "completedDate"
)

// canonicalFields is the fixed precedence order used for conflict resolution
var canonicalFields = []Field{
	FieldTitle,
	FieldStatus,
	FieldPriority,
	FieldDue,
	FieldScheduled,
	FieldTags,
	FieldContexts,
	FieldProjects,
	FieldRecurrence,
	FieldCompleteInstances,
	FieldBlockedBy,
	FieldDateCreated,
	FieldDateModified,
	FieldCompletedDate,
}

// String returns the string representation
func (f Field) String() string {
	return string(f)
}

// IsValid checks if f is a known canonical field
func (f Field) IsValid() bool {
	for _, c := range canonicalFields {
		if c == f {
			return true
		}
	}
	return false
}

// DefaultName returns the property name used when the field is not remapped
func (f Field) DefaultName() string {
	return string(f)
}

// CanonicalFields returns all canonical fields in precedence order
func CanonicalFields() []Field {
	out := make([]Field, len(canonicalFields))
	copy(out, canonicalFields)
	return out
}

// Conflict records a field that lost its configured name to another field
type Conflict struct {
	Field      Field  // field reverted to its default name
	Configured string // name the user asked for
	Winner     Field  // field that kept the name
}

// Error returns the conflict as a ConfigurationConflict error
func (c Conflict) Error() model.CoreError {
	return model.ErrConfigurationConflict.
		WithMessage("property %q is mapped to both %s and %s; %s falls back to %q",
			c.Configured, c.Winner, c.Field, c.Field, c.Field.DefaultName()).
		WithDetails(map[string]interface{}{
			"field":      string(c.Field),
			"configured": c.Configured,
			"winner":     string(c.Winner),
		})
}

// Mapper is an immutable field mapping snapshot
type Mapper struct {
	toUser    map[Field]string
	toField   map[string]Field // keyed by normalized property name
	conflicts []Conflict
}

// NewMapper builds a bijective mapping from user overrides.
// Blank overrides and unknown fields are ignored. Colliding names are
// resolved deterministically and reported through Conflicts.
func NewMapper(overrides map[Field]string) *Mapper {
	names := make(map[Field]string, len(canonicalFields))
	for _, f := range canonicalFields {
		names[f] = f.DefaultName()
		if v, ok := overrides[f]; ok && strings.TrimSpace(v) != "" {
			names[f] = strings.TrimSpace(v)
		}
	}

	var conflicts []Conflict
	for {
		reverted := false
		claims := make(map[string][]Field)
		for _, f := range canonicalFields {
			key := normalize(names[f])
			claims[key] = append(claims[key], f)
		}
		for _, f := range canonicalFields {
			group := claims[normalize(names[f])]
			if len(group) < 2 {
				continue
			}
			winner := pickWinner(group, names)
			if f == winner || names[f] == f.DefaultName() {
				continue
			}
			conflicts = append(conflicts, Conflict{Field: f, Configured: names[f], Winner: winner})
			names[f] = f.DefaultName()
			reverted = true
			break
		}
		if !reverted {
			break
		}
	}

	m := &Mapper{
		toUser:    names,
		toField:   make(map[string]Field, len(names)),
		conflicts: conflicts,
	}
	for f, name := range names {
		m.toField[normalize(name)] = f
	}
	return m
}

// DefaultMapper returns the identity mapping
func DefaultMapper() *Mapper {
	return NewMapper(nil)
}

// pickWinner prefers the field whose default name is the contested name,
// then the earliest field in precedence order.
func pickWinner(group []Field, names map[Field]string) Field {
	for _, f := range group {
		if normalize(f.DefaultName()) == normalize(names[f]) {
			return f
		}
	}
	return group[0]
}

// IsPropertyForField reports whether property is the configured name of f
func (m *Mapper) IsPropertyForField(property string, f Field) bool {
	got, ok := m.toField[normalize(property)]
	return ok && got == f
}

// ToUserField returns the property name configured for f
func (m *Mapper) ToUserField(f Field) string {
	if name, ok := m.toUser[f]; ok {
		return name
	}
	return f.DefaultName()
}

// LookupCanonicalField maps a property name back to its canonical field
func (m *Mapper) LookupCanonicalField(property string) (Field, bool) {
	f, ok := m.toField[normalize(property)]
	return f, ok
}

// Fields returns the canonical fields in precedence order
func (m *Mapper) Fields() []Field {
	return CanonicalFields()
}

// Mapping returns a copy of the effective field to property mapping
func (m *Mapper) Mapping() map[Field]string {
	out := make(map[Field]string, len(m.toUser))
	for f, name := range m.toUser {
		out[f] = name
	}
	return out
}

// Conflicts returns the conflicts resolved while building the mapper
func (m *Mapper) Conflicts() []Conflict {
	out := make([]Conflict, len(m.conflicts))
	copy(out, m.conflicts)
	return out
}

// Remapped returns the fields whose property name differs from the default
func (m *Mapper) Remapped() []Field {
	var out []Field
	for _, f := range canonicalFields {
		if m.toUser[f] != f.DefaultName() {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the mapping for diagnostics
func (m *Mapper) String() string {
	parts := make([]string, 0, len(canonicalFields))
	for _, f := range canonicalFields {
		parts = append(parts, fmt.Sprintf("%s=%s", f, m.toUser[f]))
	}
	return strings.Join(parts, ",")
}

// normalize folds case and composes Unicode so that visually identical
// property names compare equal.
func normalize(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
