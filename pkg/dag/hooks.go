package dag

import "github.com/BradA1878/model-exchange-framework-sub007/pkg/task"

// OnTaskCreated invalidates channelID's cached graph so the next query
// rebuilds it from the repository, picking up the new node and its edges.
func (e *Engine) OnTaskCreated(channelID, taskID string) error {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()
	ce.graph = nil
	return nil
}

// OnTaskStatusChanged updates the cached node's status in place when
// possible, avoiding a full rebuild; falls back to a rebuild if the graph
// hasn't been built yet or the node is missing from the cache.
func (e *Engine) OnTaskStatusChanged(channelID, taskID string, newStatus task.State) error {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()

	if ce.graph == nil {
		return nil // next read builds fresh from the repository
	}
	n, ok := ce.graph.nodes[taskID]
	if !ok {
		ce.graph = nil
		return nil
	}
	n.status = newStatus
	return nil
}

// OnTaskDeleted invalidates channelID's cached graph so the next query
// rebuilds it without the removed node and its edges.
func (e *Engine) OnTaskDeleted(channelID, taskID string) error {
	ce := e.entry(channelID)
	ce.mu.Lock()
	defer ce.mu.Unlock()
	ce.graph = nil
	return nil
}
