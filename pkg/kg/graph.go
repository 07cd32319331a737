package kg

import (
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// Graph is the knowledge graph's entry point: entity CRUD with channel
// scoping, similarity-based merge, and relationship management (spec.md
// §4.5). It owns both repositories so merge can rewrite relationship
// endpoints atomically from one place.
type Graph struct {
	Entities      *EntityRepository
	Relationships *RelationshipRepository
}

// NewGraph wires an entity and relationship repository into a Graph.
func NewGraph(entities *EntityRepository, relationships *RelationshipRepository) *Graph {
	return &Graph{Entities: entities, Relationships: relationships}
}

// FindOrCreateRequest is the input to FindOrCreateEntity.
type FindOrCreateRequest struct {
	ChannelID   string
	Type        EntityType
	Name        string
	Aliases     []string
	Description string
	Properties  map[string]any
	Confidence  float64
	Source      string
}

// FindOrCreateEntity looks up a case-insensitive exact match on (channelId,
// type, name) among non-merged entities; on a match it unions in any new
// aliases and saves, otherwise it creates a new entity (spec.md §4.5).
func (g *Graph) FindOrCreateEntity(req FindOrCreateRequest) (Entity, error) {
	page, err := g.Entities.FindByChannel(req.ChannelID, false, filter.Pagination{})
	if err != nil {
		return Entity{}, err
	}

	for _, e := range page.Items {
		if e.MatchesExact(req.Type, req.Name) {
			if len(req.Aliases) == 0 {
				return e, nil
			}
			return g.Entities.Update(e.ID, func(x *Entity) {
				x.UnionAliases(req.Aliases...)
			})
		}
	}

	e := NewEntity(req.ChannelID, req.Type, req.Name)
	e.Description = req.Description
	if req.Properties != nil {
		e.Properties = req.Properties
	}
	if req.Confidence > 0 {
		e.Confidence = req.Confidence
	}
	e.Source = req.Source
	e.UnionAliases(req.Aliases...)

	created, err := g.Entities.Create(*e)
	if err != nil {
		return Entity{}, mxerrors.Wrap(mxerrors.StorageFailure, "kg.FindOrCreateEntity", "failed to persist entity", err)
	}
	return created, nil
}

// CreateRelationship validates that both endpoints exist, are in the same
// channel as r, and are not merged, then persists r (spec.md §4.5's "edge
// creation is allowed only when both endpoints exist in the same channel").
func (g *Graph) CreateRelationship(r *Relationship) (Relationship, error) {
	from, err := g.Entities.FindByID(r.FromEntityID)
	if err != nil {
		return Relationship{}, mxerrors.Wrap(mxerrors.InvalidRelationship, "kg.CreateRelationship",
			"from entity not found: "+r.FromEntityID, err)
	}
	to, err := g.Entities.FindByID(r.ToEntityID)
	if err != nil {
		return Relationship{}, mxerrors.Wrap(mxerrors.InvalidRelationship, "kg.CreateRelationship",
			"to entity not found: "+r.ToEntityID, err)
	}
	if from.ChannelID != r.ChannelID || to.ChannelID != r.ChannelID {
		return Relationship{}, mxerrors.New(mxerrors.InvalidRelationship, "kg.CreateRelationship",
			"relationship endpoints must be in channel "+r.ChannelID)
	}
	if from.Merged || to.Merged {
		return Relationship{}, mxerrors.New(mxerrors.InvalidRelationship, "kg.CreateRelationship",
			"relationship endpoints must not be merged entities")
	}

	created, err := g.Relationships.Create(*r)
	if err != nil {
		return Relationship{}, mxerrors.Wrap(mxerrors.StorageFailure, "kg.CreateRelationship", "failed to persist relationship", err)
	}
	return created, nil
}

// MergeEntities unions aliases and sourceMemoryIds from every source into
// target, flips each source to merged=true with mergedInto=target, and
// rewrites every relationship referencing a source to point at target
// instead. Sources are processed one at a time and each Update is applied
// whole, but the merge as a whole is not atomic: a failure on any step
// returns an error at once, sources processed before it stay merged and
// rewritten, later sources are untouched, and nothing is rolled back.
func (g *Graph) MergeEntities(targetID string, sourceIDs []string) (Entity, error) {
	target, err := g.Entities.FindByID(targetID)
	if err != nil {
		return Entity{}, mxerrors.Wrap(mxerrors.NotFound, "kg.MergeEntities", "target entity not found: "+targetID, err)
	}

	for _, sourceID := range sourceIDs {
		if sourceID == targetID {
			continue
		}
		source, err := g.Entities.FindByID(sourceID)
		if err != nil {
			return Entity{}, mxerrors.Wrap(mxerrors.NotFound, "kg.MergeEntities", "source entity not found: "+sourceID, err)
		}

		target, err = g.Entities.Update(targetID, func(x *Entity) {
			x.UnionAliases(source.Aliases...)
			x.UnionAliases(source.Name)
			x.UnionSourceMemoryIDs(source.SourceMemoryIDs...)
		})
		if err != nil {
			return Entity{}, mxerrors.Wrap(mxerrors.StorageFailure, "kg.MergeEntities", "failed to update target", err)
		}

		if _, err := g.Entities.Update(sourceID, func(x *Entity) {
			x.Merged = true
			x.MergedInto = targetID
		}); err != nil {
			return Entity{}, mxerrors.Wrap(mxerrors.StorageFailure, "kg.MergeEntities", "failed to mark source merged", err)
		}

		if err := g.Relationships.RewriteEndpoint(sourceID, targetID); err != nil {
			return Entity{}, mxerrors.Wrap(mxerrors.StorageFailure, "kg.MergeEntities", "failed to rewrite relationships", err)
		}
	}

	return target, nil
}
