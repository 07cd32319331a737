// Package dag implements the per-channel task dependency graph: cycle
// detection, topological execution ordering, critical-path analysis,
// parallel-level grouping, and readiness propagation (spec.md §4.3).
//
// The cache-per-channel-with-a-mutex shape is grounded on the teacher's
// concurrency idioms (sync.RWMutex-guarded maps throughout pkg/memory and
// pkg/registry); §5 of the spec calls for single-writer-per-channel
// serialization, which a single channel-scoped sync.Mutex provides simply
// and correctly.
package dag

import (
	"sort"
	"sync"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

// node is one task's projection into the graph: just the fields readiness,
// ordering, and criticality queries need.
type node struct {
	id         string
	status     task.State
	priority   task.Priority
	createdAt  int64 // unix nano, for deterministic tie-breaks
	dependsOn  []string
	dependents []string // reverse edges, computed at build time
	duration   int64    // estimatedDuration in nanoseconds, 0 if unset
}

// graph is the built DAG for one channel.
type graph struct {
	nodes map[string]*node
}

// Engine keeps one lazily-built, single-writer-guarded graph per channel,
// synced to the task repository's dependsOn edges.
type Engine struct {
	repo *task.Repository

	mu       sync.Mutex // guards the channels map itself
	channels map[string]*channelEntry
}

type channelEntry struct {
	mu    sync.Mutex // single-writer region: build, hooks, invalidation
	graph *graph     // nil until built
}

// NewEngine builds a DAG engine backed by repo.
func NewEngine(repo *task.Repository) *Engine {
	return &Engine{
		repo:     repo,
		channels: make(map[string]*channelEntry),
	}
}

func (e *Engine) entry(channelID string) *channelEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	ce, ok := e.channels[channelID]
	if !ok {
		ce = &channelEntry{}
		e.channels[channelID] = ce
	}
	return ce
}

// buildLocked constructs the graph from the task repository. Caller must
// hold ce.mu.
func (e *Engine) buildLocked(channelID string, ce *channelEntry) (*graph, error) {
	page, err := e.repo.FindByChannel(channelID, filter.Pagination{})
	if err != nil {
		return nil, mxerrors.Wrap(mxerrors.StorageFailure, "dag.build", "failed to load channel tasks", err)
	}

	g := &graph{nodes: make(map[string]*node, len(page.Items))}
	for _, t := range page.Items {
		var dur int64
		if t.EstimatedDuration != nil {
			dur = t.EstimatedDuration.Nanoseconds()
		}
		g.nodes[t.ID] = &node{
			id:        t.ID,
			status:    t.Status,
			priority:  t.Priority,
			createdAt: t.CreatedAt.UnixNano(),
			dependsOn: append([]string(nil), t.DependsOn...),
			duration:  dur,
		}
	}
	for _, n := range g.nodes {
		for _, depID := range n.dependsOn {
			if dep, ok := g.nodes[depID]; ok {
				dep.dependents = append(dep.dependents, n.id)
			}
		}
	}

	if cyclePath := findCycle(g); cyclePath != nil {
		return nil, mxerrors.New(mxerrors.CyclicDependency, "dag.build",
			"channel "+channelID+" has a cyclic dependency")
	}

	ce.graph = g
	return g, nil
}

// ensureGraphLocked returns the cached graph, building it if absent. Caller must
// hold ce.mu.
func (e *Engine) ensureGraphLocked(channelID string, ce *channelEntry) (*graph, error) {
	if ce.graph != nil {
		return ce.graph, nil
	}
	return e.buildLocked(channelID, ce)
}

// findCycle returns a non-nil sentinel if a cycle exists anywhere in g.
func findCycle(g *graph) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var cyclic bool

	var visit func(id string)
	visit = func(id string) {
		if cyclic {
			return
		}
		color[id] = gray
		for _, depID := range g.nodes[id].dependsOn {
			if _, ok := g.nodes[depID]; !ok {
				continue
			}
			switch color[depID] {
			case white:
				visit(depID)
			case gray:
				cyclic = true
				return
			}
		}
		color[id] = black
	}

	ids := sortedIDs(g)
	for _, id := range ids {
		if color[id] == white {
			visit(id)
		}
		if cyclic {
			return []string{id}
		}
	}
	return nil
}

func sortedIDs(g *graph) []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
