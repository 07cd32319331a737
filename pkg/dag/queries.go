package dag

import (
	"sort"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

// ReadyOptions bounds a getReadyTasks call.
type ReadyOptions struct {
	Limit           int
	ExcludeStatuses map[task.State]bool
}

// GetReadyTasks returns pending tasks whose every dependency is completed,
// ordered by (priority desc, createdAt asc), tie-broken by id.
func (e *Engine) GetReadyTasks(channelID string, opts ReadyOptions) ([]string, error) {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return nil, err
	}

	ready := make([]string, 0)
	for _, id := range sortedIDs(g) {
		n := g.nodes[id]
		if n.status != task.StatePending {
			continue
		}
		if opts.ExcludeStatuses[n.status] {
			continue
		}
		if isReady(g, n) {
			ready = append(ready, id)
		}
	}

	sortByPriorityThenCreated(g, ready)

	if opts.Limit > 0 && len(ready) > opts.Limit {
		ready = ready[:opts.Limit]
	}
	return ready, nil
}

func isReady(g *graph, n *node) bool {
	for _, depID := range n.dependsOn {
		dep, ok := g.nodes[depID]
		if !ok || dep.status != task.StateCompleted {
			return false
		}
	}
	return true
}

func sortByPriorityThenCreated(g *graph, ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		ni, nj := g.nodes[ids[i]], g.nodes[ids[j]]
		if ni.priority.Rank() != nj.priority.Rank() {
			return ni.priority.Rank() > nj.priority.Rank()
		}
		if ni.createdAt != nj.createdAt {
			return ni.createdAt < nj.createdAt
		}
		return ni.id < nj.id
	})
}

// GetBlockingTasks returns the dependency ids of taskID whose status is not
// completed.
func (e *Engine) GetBlockingTasks(channelID, taskID string) ([]string, error) {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return nil, err
	}

	n, ok := g.nodes[taskID]
	if !ok {
		return nil, mxerrors.New(mxerrors.NotFound, "dag.GetBlockingTasks", "task not found in graph: "+taskID)
	}

	blocking := make([]string, 0)
	for _, depID := range n.dependsOn {
		dep, ok := g.nodes[depID]
		if !ok || dep.status != task.StateCompleted {
			blocking = append(blocking, depID)
		}
	}
	return blocking, nil
}

// ExecutionOrderOptions filters getExecutionOrder's input set.
type ExecutionOrderOptions struct {
	IncludeCompleted bool
	IncludeBlocked   bool
	Statuses         map[task.State]bool // if non-empty, only these statuses are considered
}

// ExecutionOrderResult carries the ordered ids plus a warning when the
// graph could only be partially ordered (a cycle was present).
type ExecutionOrderResult struct {
	Order    []string
	Warnings []string
}

// GetExecutionOrder performs Kahn's algorithm over the filtered node set,
// breaking ties by (priority desc, createdAt asc).
func (e *Engine) GetExecutionOrder(channelID string, opts ExecutionOrderOptions) (ExecutionOrderResult, error) {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return ExecutionOrderResult{}, err
	}

	included := make(map[string]bool)
	for id, n := range g.nodes {
		if !opts.IncludeCompleted && n.status == task.StateCompleted {
			continue
		}
		if !opts.IncludeBlocked && n.status.IsTerminal() && n.status != task.StateCompleted {
			continue
		}
		if len(opts.Statuses) > 0 && !opts.Statuses[n.status] {
			continue
		}
		included[id] = true
	}

	inDegree := make(map[string]int, len(included))
	for id := range included {
		inDegree[id] = 0
	}
	for id := range included {
		for _, depID := range g.nodes[id].dependsOn {
			if included[depID] {
				inDegree[id]++
			}
		}
	}

	queue := make([]string, 0)
	for id := range included {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sortByPriorityThenCreated(g, queue)

	order := make([]string, 0, len(included))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		next := make([]string, 0)
		for _, depID := range g.nodes[id].dependents {
			if !included[depID] {
				continue
			}
			inDegree[depID]--
			if inDegree[depID] == 0 {
				next = append(next, depID)
			}
		}
		sortByPriorityThenCreated(g, next)
		queue = append(queue, next...)
		sortByPriorityThenCreated(g, queue)
	}

	result := ExecutionOrderResult{Order: order}
	if len(order) < len(included) {
		result.Warnings = append(result.Warnings, "execution order is a partial topological sort: a cycle prevented full ordering")
	}
	return result, nil
}

// GetParallelGroups partitions nodes into levels where level(v) = 1 +
// max(level(u)) over dependencies u, level 0 = roots. Every edge goes from
// a lower level to a strictly higher one.
func (e *Engine) GetParallelGroups(channelID string) ([][]string, error) {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return nil, err
	}

	level := computeLevels(g)

	maxLevel := 0
	for _, l := range level {
		if l > maxLevel {
			maxLevel = l
		}
	}

	groups := make([][]string, maxLevel+1)
	for id := range g.nodes {
		groups[level[id]] = append(groups[level[id]], id)
	}
	for i := range groups {
		sortByPriorityThenCreated(g, groups[i])
	}
	return groups, nil
}

// computeLevels assigns each node its minimum topological level via
// memoized DFS over dependsOn edges.
func computeLevels(g *graph) map[string]int {
	level := make(map[string]int, len(g.nodes))
	var resolve func(id string) int
	visiting := make(map[string]bool)
	resolve = func(id string) int {
		if l, ok := level[id]; ok {
			return l
		}
		if visiting[id] {
			return 0 // defensive: graph is guaranteed acyclic by build-time check
		}
		visiting[id] = true
		n := g.nodes[id]
		maxDep := -1
		for _, depID := range n.dependsOn {
			if _, ok := g.nodes[depID]; !ok {
				continue
			}
			if l := resolve(depID); l > maxDep {
				maxDep = l
			}
		}
		level[id] = maxDep + 1
		visiting[id] = false
		return level[id]
	}
	for _, id := range sortedIDs(g) {
		resolve(id)
	}
	return level
}

// CriticalPath is the longest dependency chain in the channel.
type CriticalPath struct {
	TaskIDs  []string
	Length   int   // node count
	Duration int64 // sum of estimatedDuration nanoseconds, 0 if none set
}

// GetCriticalPath returns the longest path by node count, using summed
// estimatedDuration as a tie-break weight when present, and (priority
// desc, createdAt asc) as the final deterministic tie-break.
func (e *Engine) GetCriticalPath(channelID string) (CriticalPath, error) {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	g, err := e.ensureGraphLocked(channelID, ce)
	if err != nil {
		return CriticalPath{}, err
	}

	type best struct {
		length   int
		duration int64
		path     []string
	}

	memo := make(map[string]best, len(g.nodes))
	var resolve func(id string) best
	resolve = func(id string) best {
		if b, ok := memo[id]; ok {
			return b
		}
		n := g.nodes[id]
		var bestDep best
		bestDepID := ""
		for _, depID := range sortedDependsOn(g, n) {
			if _, ok := g.nodes[depID]; !ok {
				continue
			}
			b := resolve(depID)
			if better(b, bestDep, g, bestDepID, depID) {
				bestDep = b
				bestDepID = depID
			}
		}
		result := best{
			length:   bestDep.length + 1,
			duration: bestDep.duration + n.duration,
			path:     append(append([]string(nil), bestDep.path...), id),
		}
		memo[id] = result
		return result
	}

	var overall best
	overallID := ""
	for _, id := range sortedIDs(g) {
		b := resolve(id)
		if better(b, overall, g, overallID, id) {
			overall = b
			overallID = id
		}
	}

	return CriticalPath{TaskIDs: overall.path, Length: overall.length, Duration: overall.duration}, nil
}

func sortedDependsOn(g *graph, n *node) []string {
	deps := append([]string(nil), n.dependsOn...)
	sort.Strings(deps)
	return deps
}

// better reports whether candidate beats current in the critical-path
// ordering: longer path wins; ties broken by the larger summed
// estimatedDuration, then by priority desc then createdAt asc of the
// terminal node.
func better(candidate, current struct {
	length   int
	duration int64
	path     []string
}, g *graph, currentID, candidateID string) bool {
	if candidate.length != current.length {
		return candidate.length > current.length
	}
	if candidate.duration != current.duration {
		return candidate.duration > current.duration
	}
	if candidateID == "" {
		return false
	}
	if currentID == "" {
		return true
	}
	cn, on := g.nodes[candidateID], g.nodes[currentID]
	if cn.priority.Rank() != on.priority.Rank() {
		return cn.priority.Rank() > on.priority.Rank()
	}
	return cn.createdAt < on.createdAt
}
