package kg

import "github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"

// NeighborOptions bounds a one-hop GetNeighbors query.
type NeighborOptions struct {
	Direction        string // "out", "in", or "" for both
	RelationshipType string
	EntityType       EntityType // "" = any
	Limit            int
}

// GetNeighbors returns the entities one hop from entityID, filtered by
// edge direction and optional relationship/entity typing (spec.md §4.5).
func (g *Graph) GetNeighbors(entityID string, opts NeighborOptions) ([]Entity, error) {
	rels, err := g.Relationships.FindByEndpoint(entityID, opts.Direction, opts.RelationshipType)
	if err != nil {
		return nil, err
	}

	out := make([]Entity, 0, len(rels))
	seen := make(map[string]bool)
	for _, rel := range rels {
		otherID := rel.ToEntityID
		if rel.ToEntityID == entityID {
			otherID = rel.FromEntityID
		}
		if seen[otherID] {
			continue
		}
		other, err := g.Entities.FindByID(otherID)
		if err != nil {
			continue
		}
		if opts.EntityType != "" && other.Type != opts.EntityType {
			continue
		}
		seen[otherID] = true
		out = append(out, other)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

// Path is one directed walk through the graph, accumulating confidence
// (product of edge confidences) and weight (sum of edge weights) as it
// extends (spec.md §4.5).
type Path struct {
	EntityIDs       []string
	RelationshipIDs []string
	Confidence      float64
	Weight          float64
}

type frontierEntry struct {
	entityID   string
	path       Path
}

// FindPath returns the shortest directed walk from->to over outgoing
// relationship edges (BFS), or ok=false if none exists within maxHops.
func (g *Graph) FindPath(from, to string, maxHops int) (Path, bool, error) {
	paths, err := g.findPathsBFS(from, to, maxHops, 1)
	if err != nil {
		return Path{}, false, err
	}
	if len(paths) == 0 {
		return Path{}, false, nil
	}
	return paths[0], true, nil
}

// FindAllPaths returns up to limit directed walks from->to within maxHops,
// shortest first.
func (g *Graph) FindAllPaths(from, to string, maxHops, limit int) ([]Path, error) {
	if limit <= 0 {
		limit = 10
	}
	return g.findPathsBFS(from, to, maxHops, limit)
}

// findPathsBFS performs a breadth-first search over outgoing edges from
// `from`, tracking a visited map keyed by entity id that records the
// minimum path length reached so far; any candidate frontier entry
// reaching an already-visited node other than `to` at an equal-or-greater
// length is pruned, and every frontier entry landing on `to` is collected
// until limit is reached (spec.md §4.5).
func (g *Graph) findPathsBFS(from, to string, maxHops, limit int) ([]Path, error) {
	if _, err := g.Entities.FindByID(from); err != nil {
		return nil, mxerrors.Wrap(mxerrors.NotFound, "kg.FindPath", "from entity not found: "+from, err)
	}
	if _, err := g.Entities.FindByID(to); err != nil {
		return nil, mxerrors.Wrap(mxerrors.NotFound, "kg.FindPath", "to entity not found: "+to, err)
	}
	if maxHops <= 0 {
		maxHops = 5
	}

	results := make([]Path, 0)
	visited := map[string]int{from: 0}
	queue := []frontierEntry{{entityID: from, path: Path{EntityIDs: []string{from}, Confidence: 1}}}

	for len(queue) > 0 && len(results) < limit {
		current := queue[0]
		queue = queue[1:]

		if len(current.path.EntityIDs)-1 >= maxHops {
			continue
		}

		rels, err := g.Relationships.FindByEndpoint(current.entityID, "out", "")
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			nextID := rel.ToEntityID
			nextLen := len(current.path.EntityIDs)
			if nextID != to {
				if minLen, ok := visited[nextID]; ok && minLen <= nextLen {
					continue
				}
				visited[nextID] = nextLen
			}

			nextPath := Path{
				EntityIDs:       append(append([]string(nil), current.path.EntityIDs...), nextID),
				RelationshipIDs: append(append([]string(nil), current.path.RelationshipIDs...), rel.ID),
				Confidence:      current.path.Confidence * rel.Confidence,
				Weight:          current.path.Weight + rel.Weight,
			}

			if nextID == to {
				results = append(results, nextPath)
				if len(results) >= limit {
					break
				}
				continue
			}
			queue = append(queue, frontierEntry{entityID: nextID, path: nextPath})
		}
	}

	return results, nil
}

// Subgraph is a bounded expansion around one entity.
type Subgraph struct {
	Entities      []Entity
	Relationships []Relationship
}

// GetSubgraph performs a bounded BFS expansion from entityID out to depth
// hops, accumulating entities and relationships up to limit each
// (spec.md §4.5).
func (g *Graph) GetSubgraph(entityID string, depth, limit int) (Subgraph, error) {
	if depth <= 0 {
		depth = 2
	}
	if limit <= 0 {
		limit = 50
	}

	root, err := g.Entities.FindByID(entityID)
	if err != nil {
		return Subgraph{}, mxerrors.Wrap(mxerrors.NotFound, "kg.GetSubgraph", "entity not found: "+entityID, err)
	}

	entities := []Entity{root}
	entitySeen := map[string]bool{entityID: true}
	relationships := make([]Relationship, 0)
	relSeen := map[string]bool{}

	frontier := []string{entityID}
	for level := 0; level < depth && len(frontier) > 0; level++ {
		next := make([]string, 0)
		for _, id := range frontier {
			if len(entities) >= limit {
				break
			}
			rels, err := g.Relationships.FindByEndpoint(id, "", "")
			if err != nil {
				return Subgraph{}, err
			}
			for _, rel := range rels {
				if !relSeen[rel.ID] && len(relationships) < limit {
					relSeen[rel.ID] = true
					relationships = append(relationships, rel)
				}
				otherID := rel.ToEntityID
				if rel.ToEntityID == id {
					otherID = rel.FromEntityID
				}
				if entitySeen[otherID] {
					continue
				}
				other, err := g.Entities.FindByID(otherID)
				if err != nil {
					continue
				}
				entitySeen[otherID] = true
				entities = append(entities, other)
				next = append(next, otherID)
				if len(entities) >= limit {
					break
				}
			}
		}
		frontier = next
	}

	return Subgraph{Entities: entities, Relationships: relationships}, nil
}
