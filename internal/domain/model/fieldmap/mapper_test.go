package fieldmap

import (
	"testing"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMapperIsIdentity(t *testing.T) {
	m := DefaultMapper()

	for _, f := range CanonicalFields() {
		assert.Equal(t, f.DefaultName(), m.ToUserField(f))
		got, ok := m.LookupCanonicalField(f.DefaultName())
		require.True(t, ok)
		assert.Equal(t, f, got)
	}
	assert.Empty(t, m.Conflicts())
	assert.Empty(t, m.Remapped())
}

func TestRoundTripForEveryField(t *testing.T) {
	mappers := map[string]*Mapper{
		"default": DefaultMapper(),
		"custom": NewMapper(map[Field]string{
			FieldStatus:    "task-status",
			FieldPriority:  "prio",
			FieldBlockedBy: "waiting-on",
		}),
		"conflicting": NewMapper(map[Field]string{
			FieldStatus:   "state",
			FieldPriority: "state",
			FieldDue:      "status",
		}),
	}

	for name, m := range mappers {
		t.Run(name, func(t *testing.T) {
			for _, f := range CanonicalFields() {
				assert.True(t, m.IsPropertyForField(m.ToUserField(f), f), "field %s", f)
			}
		})
	}
}

func TestRemappedStatusField(t *testing.T) {
	m := NewMapper(map[Field]string{FieldStatus: "task-status"})

	assert.True(t, m.IsPropertyForField("task-status", FieldStatus))
	assert.False(t, m.IsPropertyForField("status", FieldStatus))
	assert.Equal(t, "task-status", m.ToUserField(FieldStatus))

	_, ok := m.LookupCanonicalField("status")
	assert.False(t, ok)

	f, ok := m.LookupCanonicalField("task-status")
	require.True(t, ok)
	assert.Equal(t, FieldStatus, f)
	assert.Equal(t, []Field{FieldStatus}, m.Remapped())
}

func TestComparisonIsNormalized(t *testing.T) {
	m := NewMapper(map[Field]string{FieldStatus: "État"})

	assert.True(t, m.IsPropertyForField("état", FieldStatus))
	// decomposed E + combining acute accent
	assert.True(t, m.IsPropertyForField("E\u0301tat", FieldStatus))
	assert.True(t, m.IsPropertyForField("  État ", FieldStatus))
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		name          string
		overrides     map[Field]string
		wantNames     map[Field]string
		wantConflicts []Field
	}{
		{
			name:          "Two custom names collide",
			overrides:     map[Field]string{FieldStatus: "state", FieldPriority: "state"},
			wantNames:     map[Field]string{FieldStatus: "state", FieldPriority: "priority"},
			wantConflicts: []Field{FieldPriority},
		},
		{
			name:          "Custom name takes another field's default",
			overrides:     map[Field]string{FieldStatus: "priority"},
			wantNames:     map[Field]string{FieldStatus: "status", FieldPriority: "priority"},
			wantConflicts: []Field{FieldStatus},
		},
		{
			name:          "Case-insensitive collision",
			overrides:     map[Field]string{FieldDue: "Deadline", FieldScheduled: "deadline"},
			wantNames:     map[Field]string{FieldDue: "Deadline", FieldScheduled: "scheduled"},
			wantConflicts: []Field{FieldScheduled},
		},
		{
			name: "Fallback cascades",
			overrides: map[Field]string{
				FieldTitle:  "status",
				FieldStatus: "priority",
			},
			wantNames: map[Field]string{
				FieldTitle:    "title",
				FieldStatus:   "status",
				FieldPriority: "priority",
			},
			wantConflicts: []Field{FieldStatus, FieldTitle},
		},
		{
			name:          "Reverted field frees its custom name",
			overrides:     map[Field]string{FieldTitle: "status", FieldStatus: "state", FieldDue: "state"},
			wantNames:     map[Field]string{FieldTitle: "status", FieldStatus: "state", FieldDue: "due"},
			wantConflicts: []Field{FieldDue},
		},
		{
			name:      "Swapping two names is a bijection",
			overrides: map[Field]string{FieldDue: "scheduled", FieldScheduled: "due"},
			wantNames: map[Field]string{FieldDue: "scheduled", FieldScheduled: "due"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(tt.overrides)

			for f, want := range tt.wantNames {
				assert.Equal(t, want, m.ToUserField(f), "field %s", f)
			}

			var got []Field
			for _, c := range m.Conflicts() {
				got = append(got, c.Field)
				assert.True(t, errorsIsConflict(c.Error()))
			}
			assert.ElementsMatch(t, tt.wantConflicts, got)

			seen := make(map[string]Field)
			for f, name := range m.Mapping() {
				key := normalize(name)
				other, dup := seen[key]
				assert.False(t, dup, "%s and %s share %q", f, other, name)
				seen[key] = f
			}
		})
	}
}

func TestBlankAndUnknownOverridesIgnored(t *testing.T) {
	m := NewMapper(map[Field]string{
		FieldStatus:      "   ",
		Field("nonsense"): "whatever",
	})

	assert.Equal(t, "status", m.ToUserField(FieldStatus))
	_, ok := m.LookupCanonicalField("whatever")
	assert.False(t, ok)
	assert.Equal(t, "nonsense", m.ToUserField(Field("nonsense")))
}

func TestMappingIsACopy(t *testing.T) {
	m := DefaultMapper()
	mapping := m.Mapping()
	mapping[FieldStatus] = "mutated"

	assert.Equal(t, "status", m.ToUserField(FieldStatus))
}

func errorsIsConflict(err model.CoreError) bool {
	return err.Is(model.ErrConfigurationConflict)
}
