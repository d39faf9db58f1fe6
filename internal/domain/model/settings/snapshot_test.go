package settings

import (
	"testing"
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/fieldmap"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStatus(t *testing.T) {
	s := Default()
	assert.Equal(t, "open", s.OpenStatus())

	s.DefaultStatus = "in-progress"
	assert.Equal(t, "in-progress", s.OpenStatus())

	s.DefaultStatus = "done"
	assert.Equal(t, "open", s.OpenStatus(), "a completed default is ignored")

	s.DefaultStatus = "missing"
	assert.Equal(t, "open", s.OpenStatus())
}

func TestLoc(t *testing.T) {
	assert.Equal(t, time.UTC, (&Snapshot{}).Loc())
}

func TestStaticReplace(t *testing.T) {
	p := NewStatic(nil)
	before := p.Snapshot()
	require.True(t, before.Fields.IsPropertyForField("status", fieldmap.FieldStatus))

	reg, err := status.NewRegistry([]status.Definition{{Value: "todo"}, {Value: "done", IsCompleted: true, Order: 1}})
	require.NoError(t, err)
	p.Replace(&Snapshot{
		Fields:   fieldmap.NewMapper(map[fieldmap.Field]string{fieldmap.FieldStatus: "state"}),
		Statuses: reg,
	})

	after := p.Snapshot()
	assert.True(t, after.Fields.IsPropertyForField("state", fieldmap.FieldStatus))
	assert.False(t, after.Fields.IsPropertyForField("status", fieldmap.FieldStatus))
	// a snapshot taken earlier is unaffected
	assert.True(t, before.Fields.IsPropertyForField("status", fieldmap.FieldStatus))

	p.Replace(nil)
	assert.Same(t, after, p.Snapshot())
}
