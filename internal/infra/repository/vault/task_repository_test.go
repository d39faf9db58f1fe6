package vault

import (
	"context"
	"strings"
	"testing"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/fieldmap"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskcore/internal/infra/persistence/file"
	"github.com/YoshitsuguKoike/taskcore/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = testutil.VaultRoot

const waterNote = `---
title: Water plants
status: open
tags:
  - task
  - home
recurrence: "DTSTART:20251231;FREQ=WEEKLY"
complete_instances:
  - 2025-12-31
custom: keep me
---
# Notes

Use the blue can.
`

func newRepo(t *testing.T, files map[string]string, opts ...Option) (*TaskRepository, afero.Fs) {
	t.Helper()
	fs := testutil.NewVault(t, files)
	return NewTaskRepository(file.NewStore(fs), root, settings.NewStatic(nil), opts...), fs
}

func TestGetTask(t *testing.T) {
	repo, _ := newRepo(t, map[string]string{"tasks/water.md": waterNote})

	got, err := repo.GetTask(context.Background(), "tasks/water.md")
	require.NoError(t, err)

	assert.Equal(t, "tasks/water.md", got.ID)
	assert.Equal(t, "Water plants", got.Title)
	assert.Equal(t, "open", got.Status)
	assert.Equal(t, []string{"task", "home"}, got.Tags)
	assert.Equal(t, "DTSTART:20251231;FREQ=WEEKLY", got.Recurrence)
	assert.Equal(t, []string{"2025-12-31"}, got.CompleteInstances)
	assert.Equal(t, file.Revision([]byte(waterNote)), got.Revision)
}

func TestGetTask_NotFound(t *testing.T) {
	repo, _ := newRepo(t, map[string]string{
		"notes/journal.md": "---\ntags: [journal]\n---\n",
		"notes/plain.md":   "no frontmatter\n",
		"outside.md":       "---\ntags: [task]\n---\n",
	})

	tests := []struct {
		name string
		id   string
	}{
		{"missing file", "tasks/none.md"},
		{"note without task tag", "notes/journal.md"},
		{"note without frontmatter", "notes/plain.md"},
		{"path leaving the vault", "../outside.md"},
		{"absolute path", "/vault/outside.md"},
		{"empty id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.GetTask(context.Background(), tt.id)
			assert.ErrorIs(t, err, repository.ErrTaskNotFound)
		})
	}
}

func TestGetTask_MalformedFrontmatter(t *testing.T) {
	repo, _ := newRepo(t, map[string]string{"bad.md": "---\ntags: [task\n---\n"})

	_, err := repo.GetTask(context.Background(), "bad.md")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestListTasks(t *testing.T) {
	repo, _ := newRepo(t, map[string]string{
		"tasks/b.md":               "---\ntags: [task]\n---\n",
		"tasks/a.md":               "---\ntags: ['#Task']\n---\n",
		"tasks/sub/c.md":           "---\ntags: task\n---\n",
		"tasks/journal.md":         "---\ntags: [journal]\n---\n",
		"tasks/bad.md":             "---\ntags: [task\n---\n",
		"tasks/readme.txt":         "---\ntags: [task]\n---\n",
		".obsidian/templates/t.md": "---\ntags: [task]\n---\n",
		"elsewhere/d.md":           "---\ntags: [task]\n---\n",
	})

	t.Run("whole vault", func(t *testing.T) {
		tasks, err := repo.ListTasks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"elsewhere/d.md", "tasks/a.md", "tasks/b.md", "tasks/sub/c.md"}, ids(tasks))
	})

	t.Run("tasks folder", func(t *testing.T) {
		scoped := NewTaskRepository(repo.store, root, settings.NewStatic(nil), WithTasksFolder("/tasks/"))
		tasks, err := scoped.ListTasks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"tasks/a.md", "tasks/b.md", "tasks/sub/c.md"}, ids(tasks))
	})

	t.Run("custom task tag", func(t *testing.T) {
		tagged := NewTaskRepository(repo.store, root, settings.NewStatic(nil), WithTaskTag("#journal"))
		tasks, err := tagged.ListTasks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"tasks/journal.md"}, ids(tasks))
	})

	t.Run("missing folder", func(t *testing.T) {
		empty := NewTaskRepository(repo.store, root, settings.NewStatic(nil), WithTasksFolder("nope"))
		tasks, err := empty.ListTasks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := repo.ListTasks(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSaveTask_PreservesBodyAndUnknownProperties(t *testing.T) {
	repo, fs := newRepo(t, map[string]string{"tasks/water.md": waterNote})
	ctx := context.Background()

	got, err := repo.GetTask(ctx, "tasks/water.md")
	require.NoError(t, err)

	got.CompleteInstances = append(got.CompleteInstances, "2026-01-07")
	got.Priority = "high"
	require.NoError(t, repo.SaveTask(ctx, got))

	content := testutil.ReadNote(t, fs, "tasks/water.md")
	assert.True(t, strings.HasSuffix(content, "---\n# Notes\n\nUse the blue can.\n"), content)
	assert.Contains(t, content, "custom: keep me")
	assert.Contains(t, content, "title: Water plants")

	reread, err := repo.GetTask(ctx, "tasks/water.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-12-31", "2026-01-07"}, reread.CompleteInstances)
	assert.Equal(t, "high", reread.Priority)
	assert.Equal(t, "open", reread.Status)
	assert.NotEqual(t, got.Revision, reread.Revision)
}

func TestSaveTask_StaleRevision(t *testing.T) {
	repo, fs := newRepo(t, map[string]string{"tasks/water.md": waterNote})
	ctx := context.Background()

	got, err := repo.GetTask(ctx, "tasks/water.md")
	require.NoError(t, err)

	edited := strings.Replace(waterNote, "status: open", "status: in-progress", 1)
	testutil.WriteNote(t, fs, "tasks/water.md", edited)

	got.Status = "done"
	err = repo.SaveTask(ctx, got)
	assert.ErrorIs(t, err, repository.ErrConcurrentModification)
	assert.Equal(t, edited, testutil.ReadNote(t, fs, "tasks/water.md"))

	require.NoError(t, fs.Remove(root+"/tasks/water.md"))
	err = repo.SaveTask(ctx, got)
	assert.ErrorIs(t, err, repository.ErrConcurrentModification)
}

func TestSaveTask_CreatesNote(t *testing.T) {
	repo, fs := newRepo(t, nil)
	ctx := context.Background()

	err := repo.SaveTask(ctx, task.Task{
		ID:        "tasks/new.md",
		Title:     "Call the plumber",
		Status:    "open",
		Due:       "2026-01-09",
		BlockedBy: []task.Dependency{{TargetID: "tasks/quote.md", RelType: task.RelFinishToStart, Gap: "P1D"}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(testutil.ReadNote(t, fs, "tasks/new.md"), "---\n"))

	got, err := repo.GetTask(ctx, "tasks/new.md")
	require.NoError(t, err)
	assert.Equal(t, "Call the plumber", got.Title)
	assert.Equal(t, []string{"task"}, got.Tags)
	assert.Equal(t, "2026-01-09", got.Due)
	assert.Equal(t, []task.Dependency{{TargetID: "tasks/quote.md", RelType: task.RelFinishToStart, Gap: "P1D"}}, got.BlockedBy)

	err = repo.SaveTask(ctx, task.Task{ID: "../escape.md"})
	assert.Error(t, err)
}

func TestSaveTask_UsesMappedPropertyNames(t *testing.T) {
	snap := settings.Default()
	snap.Fields = fieldmap.NewMapper(map[fieldmap.Field]string{
		fieldmap.FieldStatus:    "State",
		fieldmap.FieldBlockedBy: "depends-on",
	})
	fs := testutil.NewVault(t, map[string]string{"a.md": "---\ntags: [task]\nstate: open\nstatus: ignored\n---\n"})
	repo := NewTaskRepository(file.NewStore(fs), root, settings.NewStatic(snap))
	ctx := context.Background()

	got, err := repo.GetTask(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "open", got.Status)

	got.Status = "done"
	got.BlockedBy = []task.Dependency{{TargetID: "b.md", RelType: task.RelFinishToStart}}
	require.NoError(t, repo.SaveTask(ctx, got))

	content := testutil.ReadNote(t, fs, "a.md")
	assert.Contains(t, content, "state: done")
	assert.Contains(t, content, "status: ignored")
	assert.Contains(t, content, "depends-on:")
	assert.NotContains(t, content, "blockedBy")
}

func TestBareLinksResolveByNoteName(t *testing.T) {
	repo, _ := newRepo(t, map[string]string{
		"tasks/a.md":                "---\ntags: [task]\nblockedBy:\n  - \"[[Buy milk]]\"\n  - \"[[Twin]]\"\n---\n",
		"tasks/errands/Buy milk.md": "---\ntags: [task]\n---\n",
		"one/Twin.md":               "---\ntags: [task]\n---\n",
		"two/Twin.md":               "---\ntags: [task]\n---\n",
	})

	got, err := repo.GetTask(context.Background(), "tasks/a.md")
	require.NoError(t, err)
	require.Len(t, got.BlockedBy, 2)
	assert.Equal(t, "tasks/errands/Buy milk.md", got.BlockedBy[0].TargetID)
	assert.Equal(t, "Twin.md", got.BlockedBy[1].TargetID, "ambiguous names stay unresolved")
}
