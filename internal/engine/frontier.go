package engine

// frontierNode is a candidate technology queued for exploration, ordered by
// the cost accumulated along the chain that discovered it.
type frontierNode struct {
	id   string
	cost int
}

// frontier is a min-heap of frontierNodes keyed by accumulated cost.
//
// Extraction order between nodes with equal cost is whatever the heap
// produces; it is deliberately not part of the FindPath contract.
type frontier []frontierNode

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierNode))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	node := old[n-1]
	*f = old[:n-1]
	return node
}
