package dag

import (
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

// ValidateDependency reports whether adding an edge dependentID ->
// dependencyID (dependent depends on dependency) keeps channelID's graph
// acyclic. It does not mutate the cache: callers add the edge to the task
// repository first, then call OnTaskCreated/OnTaskStatusChanged to
// invalidate or update the cache.
func (e *Engine) ValidateDependency(channelID, dependentID, dependencyID string) error {
	if dependentID == dependencyID {
		return mxerrors.New(mxerrors.CyclicDependency, "dag.ValidateDependency",
			"task cannot depend on itself: "+dependentID)
	}

	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return err
	}

	// dependentID depending on dependencyID cycles iff dependencyID can
	// already reach dependentID via existing dependsOn edges.
	if pathExists(g, dependencyID, dependentID) {
		return mxerrors.New(mxerrors.CyclicDependency, "dag.ValidateDependency",
			"adding dependency "+dependentID+" -> "+dependencyID+" would create a cycle")
	}
	return nil
}

// pathExists reports whether a dependency path from->to exists, walking
// dependsOn edges (i.e. "from depends (transitively) on to").
func pathExists(g *graph, from, to string) bool {
	if from == to {
		return true
	}
	visited := make(map[string]bool)
	var walk func(id string) bool
	walk = func(id string) bool {
		if id == to {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		n, ok := g.nodes[id]
		if !ok {
			return false
		}
		for _, depID := range n.dependsOn {
			if walk(depID) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// ValidateDag re-derives the whole channel graph from the task repository
// and reports the first cycle found, if any.
func (e *Engine) ValidateDag(channelID string) error {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	ce.graph = nil // force a fresh read of the repository
	_, err := e.ensureGraphLocked(channelID, ce)
	return err
}

// Stats summarizes one channel's graph.
type Stats struct {
	TotalTasks    int
	ReadyCount    int
	BlockedCount  int
	CompletedCount int
	MaxDepth      int
	ParallelWidth int // size of the largest parallel group
}

// GetStats computes a snapshot of the channel's graph shape and progress.
func (e *Engine) GetStats(channelID string) (Stats, error) {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	stats.TotalTasks = len(g.nodes)

	level := computeLevels(g)
	widths := make(map[int]int)
	for id, n := range g.nodes {
		widths[level[id]]++
		completed := n.status == task.StateCompleted
		if completed {
			stats.CompletedCount++
		}
		if isReady(g, n) {
			stats.ReadyCount++
		} else if !completed {
			stats.BlockedCount++
		}
		if level[id]+1 > stats.MaxDepth {
			stats.MaxDepth = level[id] + 1
		}
	}
	for _, w := range widths {
		if w > stats.ParallelWidth {
			stats.ParallelWidth = w
		}
	}
	return stats, nil
}
