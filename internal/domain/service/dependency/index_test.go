package dependency

import (
	"context"
	"testing"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deps(ids ...string) []task.Dependency {
	var out []task.Dependency
	for _, id := range ids {
		out = append(out, task.Dependency{TargetID: id, RelType: task.RelFinishToStart})
	}
	return out
}

func TestBuildIndex(t *testing.T) {
	f := newFixture(
		task.Task{ID: "deploy", BlockedBy: deps("test", "review")},
		task.Task{ID: "test", BlockedBy: deps("build")},
		task.Task{ID: "review", BlockedBy: deps("build", "ghost")},
		task.Task{ID: "build"},
	)

	ix, err := f.graph.BuildIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "deploy", "review", "test"}, ix.IDs())
	assert.Equal(t, []string{"review", "test"}, ix.Blocking("build"))
	assert.Equal(t, []string{"build", "ghost"}, ix.BlockedBy("review"))
	assert.Empty(t, ix.Blocking("deploy"))
	assert.Equal(t, map[string][]string{"review": {"ghost"}}, ix.Dangling())

	order, err := ix.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "review", "test", "deploy"}, order)
}

func TestIndex_TopologicalOrderWithCycle(t *testing.T) {
	// records edited by hand can contain a cycle the core would have refused
	f := newFixture(
		task.Task{ID: "a", BlockedBy: deps("b")},
		task.Task{ID: "b", BlockedBy: deps("a")},
		task.Task{ID: "c"},
	)

	ix, err := f.graph.BuildIndex(context.Background())
	require.NoError(t, err)

	order, err := ix.TopologicalOrder()
	require.Error(t, err)
	assert.True(t, model.IsCyclicDependency(err))
	assert.Equal(t, []string{"c"}, order)
}

func TestIndex_ReturnsCopies(t *testing.T) {
	f := newFixture(task.Task{ID: "a", BlockedBy: deps("b")}, task.Task{ID: "b"})

	ix, err := f.graph.BuildIndex(context.Background())
	require.NoError(t, err)

	ix.BlockedBy("a")[0] = "zzz"
	assert.Equal(t, []string{"b"}, ix.BlockedBy("a"))
}
