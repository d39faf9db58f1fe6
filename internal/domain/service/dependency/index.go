package dependency

import (
	"container/heap"
	"context"
	"sort"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
)

// Index is a read-only view of every edge in one repository snapshot.
// It is rebuilt per query and never persisted.
type Index struct {
	ids       []string
	blockedBy map[string][]string
	blocking  map[string][]string
	dangling  map[string][]string
}

// BuildIndex scans the repository once and indexes both edge directions
func (g *Graph) BuildIndex(ctx context.Context) (*Index, error) {
	snap, err := repository.LoadSnapshot(ctx, g.repo)
	if err != nil {
		return nil, err
	}

	ix := &Index{
		blockedBy: make(map[string][]string),
		blocking:  make(map[string][]string),
		dangling:  make(map[string][]string),
	}
	for id, t := range snap {
		ix.ids = append(ix.ids, id)
		for _, d := range t.BlockedBy {
			ix.blockedBy[id] = append(ix.blockedBy[id], d.TargetID)
			if _, ok := snap[d.TargetID]; !ok {
				ix.dangling[id] = append(ix.dangling[id], d.TargetID)
				continue
			}
			ix.blocking[d.TargetID] = append(ix.blocking[d.TargetID], id)
		}
	}

	sort.Strings(ix.ids)
	for _, m := range []map[string][]string{ix.blockedBy, ix.blocking, ix.dangling} {
		for k := range m {
			sort.Strings(m[k])
		}
	}
	return ix, nil
}

// IDs returns every task id, sorted
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.ids...)
}

// BlockedBy returns the targets id waits on, including missing ones
func (ix *Index) BlockedBy(id string) []string {
	return append([]string(nil), ix.blockedBy[id]...)
}

// Blocking returns the tasks waiting on id
func (ix *Index) Blocking(id string) []string {
	return append([]string(nil), ix.blocking[id]...)
}

// Dangling returns, per task, the blocked-by targets that do not exist
func (ix *Index) Dangling() map[string][]string {
	out := make(map[string][]string, len(ix.dangling))
	for k, v := range ix.dangling {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// TopologicalOrder lists ids so that every task comes after the tasks it is
// blocked by. Ties are broken by id. Edges to missing tasks are ignored.
// A cycle, which can only come from records edited outside the core, yields
// CYCLIC_DEPENDENCY with the ids that could not be ordered.
func (ix *Index) TopologicalOrder() ([]string, error) {
	indeg := make(map[string]int, len(ix.ids))
	for _, id := range ix.ids {
		indeg[id] = 0
	}
	for _, waiting := range ix.blocking {
		for _, id := range waiting {
			indeg[id]++
		}
	}

	ready := &idHeap{}
	for _, id := range ix.ids {
		if indeg[id] == 0 {
			heap.Push(ready, id)
		}
	}

	out := make([]string, 0, len(ix.ids))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		out = append(out, id)
		for _, next := range ix.blocking[id] {
			indeg[next]--
			if indeg[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}

	if len(out) == len(ix.ids) {
		return out, nil
	}

	var stuck []string
	for _, id := range ix.ids {
		if indeg[id] > 0 {
			stuck = append(stuck, id)
		}
	}
	return out, model.ErrCyclicDependency.
		WithMessage("dependency cycle among %d tasks", len(stuck)).
		WithDetails(map[string]interface{}{"tasks": stuck})
}

type idHeap []string

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
