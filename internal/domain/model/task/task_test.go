package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRelType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RelType
		valid bool
	}{
		{name: "Empty defaults to finish-to-start", input: "", want: RelFinishToStart, valid: true},
		{name: "Canonical", input: "STARTTOSTART", want: RelStartToStart, valid: true},
		{name: "Lowercase with dashes", input: "finish-to-finish", want: RelFinishToFinish, valid: true},
		{name: "Unknown", input: "whenever", want: RelType("WHENEVER"), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRelType(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, got.IsValid())
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Task{
		ID:                "tasks/a.md",
		Tags:              []string{"task"},
		CompleteInstances: []string{"2026-01-06"},
		BlockedBy:         []Dependency{{TargetID: "tasks/b.md", RelType: RelFinishToStart}},
	}

	c := orig.Clone()
	c.Tags[0] = "changed"
	c.CompleteInstances[0] = "2026-01-07"
	c.BlockedBy[0].TargetID = "tasks/c.md"

	assert.Equal(t, "task", orig.Tags[0])
	assert.Equal(t, "2026-01-06", orig.CompleteInstances[0])
	assert.Equal(t, "tasks/b.md", orig.BlockedBy[0].TargetID)
}

func TestCloneKeepsNilSlices(t *testing.T) {
	c := Task{ID: "a"}.Clone()
	assert.Nil(t, c.BlockedBy)
	assert.Nil(t, c.CompleteInstances)
}

func TestDependencyLookup(t *testing.T) {
	tk := Task{BlockedBy: []Dependency{{TargetID: "x"}, {TargetID: "y"}}}

	assert.Equal(t, 1, tk.FindDependency("y"))
	assert.Equal(t, -1, tk.FindDependency("z"))
	assert.True(t, tk.DependsOn("x"))
	assert.False(t, tk.DependsOn("z"))
}

func TestDays(t *testing.T) {
	tk := Task{Scheduled: "2026-01-05T09:30", Due: "later"}

	d, ok := tk.ScheduledDay()
	assert.True(t, ok)
	assert.Equal(t, "2026-01-05", d.String())

	_, ok = tk.DueDay()
	assert.False(t, ok)
}

func TestHasTag(t *testing.T) {
	tk := Task{Tags: []string{"#Task", "home"}}
	assert.True(t, tk.HasTag("task"))
	assert.True(t, tk.HasTag("#home"))
	assert.False(t, tk.HasTag("work"))
}

func TestIsRecurring(t *testing.T) {
	assert.False(t, Task{}.IsRecurring())
	assert.False(t, Task{Recurrence: "  "}.IsRecurring())
	assert.True(t, Task{Recurrence: "FREQ=DAILY"}.IsRecurring())
}
