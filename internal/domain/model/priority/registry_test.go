package priority

import (
	"testing"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistrySortsByWeight(t *testing.T) {
	r, err := NewRegistry([]Definition{
		{Value: "high", Weight: 3},
		{Value: "low", Weight: 1},
		{Value: "urgent", Weight: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high", "urgent"}, r.Values())

	_, err = NewRegistry([]Definition{{Value: "a"}, {Value: "a"}})
	assert.True(t, model.IsInvalidCatalog(err))

	_, err = NewRegistry([]Definition{{Value: ""}})
	assert.True(t, model.IsInvalidCatalog(err))
}

func TestNextPriority(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name    string
		current string
		dir     model.Direction
		want    string
	}{
		{name: "Forward", current: "low", dir: model.Forward, want: "normal"},
		{name: "Forward wraps", current: "high", dir: model.Forward, want: "none"},
		{name: "Backward", current: "normal", dir: model.Backward, want: "low"},
		{name: "Backward wraps", current: "none", dir: model.Backward, want: "high"},
		{name: "Empty forward", current: "", dir: model.Forward, want: "none"},
		{name: "Unknown backward", current: "meh", dir: model.Backward, want: "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.NextPriority(tt.current, tt.dir))
		})
	}
}

func TestNextPriorityFullCycle(t *testing.T) {
	r := DefaultRegistry()
	for _, dir := range []model.Direction{model.Forward, model.Backward} {
		v := "normal"
		for i := 0; i < r.Len(); i++ {
			v = r.NextPriority(v, dir)
		}
		assert.Equal(t, "normal", v)
	}
}

func TestNextPriorityEmptyCatalog(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, "whatever", r.NextPriority("whatever", model.Forward))
}

func TestCompare(t *testing.T) {
	r := DefaultRegistry()

	assert.Negative(t, r.Compare("low", "high"))
	assert.Positive(t, r.Compare("high", "normal"))
	assert.Zero(t, r.Compare("low", "low"))
	assert.Negative(t, r.Compare("", "none"))
	assert.Positive(t, r.Compare("none", "bogus"))
	assert.Zero(t, r.Compare("", "bogus"))
}

func TestAddRemove(t *testing.T) {
	r := DefaultRegistry()

	added, err := r.Add(Definition{Value: "urgent", Weight: 10})
	require.NoError(t, err)
	assert.Equal(t, "urgent", added.Values()[added.Len()-1])

	removed, err := added.Remove("none")
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "normal", "high", "urgent"}, removed.Values())

	_, err = r.Add(Definition{Value: "low"})
	assert.True(t, model.IsInvalidCatalog(err))
	_, err = r.Remove("missing")
	assert.True(t, model.IsInvalidCatalog(err))
}
