package engine

import (
	"container/heap"

	"github.com/stratagem/techtree/internal/tech"
)

// FindPath searches for a route of already-reachable technologies leading to
// target. It returns the route and true, or nil and false when no route
// exists under the current snapshot.
//
// The search is a multi-source lowest-accumulated-cost walk seeded with every
// id in the unlocked set at cost 0. Eligibility is evaluated ONCE against the
// caller-supplied unlocked set and points and is never re-evaluated as the
// walk "acquires" nodes: the walk only ever explores technologies that are
// eligible right now. It cannot report plans where unlocking A would later
// make C eligible - that is a deliberate simplification, and observable, so
// it must not be "fixed" silently.
//
// Accumulated cost orders exploration only. It is never compared against
// points; the budget check lives solely inside the per-node eligibility test.
//
// Route contract: the returned sequence is the chain of predecessors leading
// up to, but not including, target - the seed technology first, target's
// immediate predecessor last. A target reached directly from a seed yields a
// single-element route containing that seed. A target that is itself in the
// unlocked set yields an empty (non-nil) route and true.
func FindPath(reg *tech.Registry, target string, unlocked tech.Set, points int) ([]string, bool) {
	f := &frontier{}
	heap.Init(f)
	for id := range unlocked {
		heap.Push(f, frontierNode{id: id, cost: 0})
	}

	parent := make(map[string]string)
	visited := make(tech.Set)

	for f.Len() > 0 {
		current := heap.Pop(f).(frontierNode)
		if visited.Has(current.id) {
			continue
		}
		visited.Add(current.id)

		if current.id == target {
			return reconstruct(parent, target), true
		}

		for _, id := range reg.IDs() {
			if unlocked.Has(id) || visited.Has(id) {
				continue
			}
			if !Unlockable(reg, id, unlocked, points) {
				continue
			}
			t, _ := reg.Get(id)
			parent[id] = current.id
			heap.Push(f, frontierNode{id: id, cost: current.cost + t.Cost})
		}
	}

	return nil, false
}

// reconstruct follows predecessor links from target back to a seed and
// reverses the walk into chronological order. The target itself is excluded;
// the terminal seed is included.
func reconstruct(parent map[string]string, target string) []string {
	path := []string{}
	node := target
	for {
		p, ok := parent[node]
		if !ok {
			break
		}
		path = append(path, p)
		node = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
