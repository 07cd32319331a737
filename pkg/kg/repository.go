package kg

import (
	"sort"
	"strings"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

// EntityRepository refines repository.Port[Entity] with the channel/type/
// Q-value lookups spec.md §6's required indexes imply.
type EntityRepository struct {
	*repository.InMemory[Entity]
}

// NewEntityRepository constructs an EntityRepository.
func NewEntityRepository() *EntityRepository {
	return &EntityRepository{
		InMemory: repository.NewInMemory[Entity]("entity", entityFieldGetter),
	}
}

func entityFieldGetter(e Entity) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "channelId":
			return e.ChannelID, true
		case "type":
			return string(e.Type), true
		case "name":
			return e.Name, true
		case "merged":
			return e.Merged, true
		case "source":
			return e.Source, true
		case "utility.qValue":
			return e.Utility.QValue, true
		default:
			return nil, false
		}
	}
}

// FindByChannel returns every non-merged entity in channelID unless
// includeMerged is set.
func (r *EntityRepository) FindByChannel(channelID string, includeMerged bool, p filter.Pagination) (filter.Page[Entity], error) {
	where := map[string]any{"channelId": channelID}
	if !includeMerged {
		where["merged"] = false
	}
	return r.FindMany(filter.Filter{Where: where}, p)
}

// PatchUtility adapts r.Update into a utility.Patch for the Entity.Utility
// field, letting pkg/utility's batch helpers operate generically.
func (r *EntityRepository) PatchUtility(id string, mutate func(*utility.Record)) error {
	_, err := r.Update(id, func(e *Entity) { mutate(&e.Utility) })
	return err
}

// GetByQValue returns non-merged entities in channelID with QValue within
// [min, max] (either bound optional via nil), ordered by QValue descending,
// capped at limit (0 = unbounded). Spec.md §4.6.
func (r *EntityRepository) GetByQValue(channelID string, min, max *float64, limit int) ([]Entity, error) {
	page, err := r.FindByChannel(channelID, false, filter.Pagination{})
	if err != nil {
		return nil, err
	}
	out := make([]Entity, 0, len(page.Items))
	for _, e := range page.Items {
		if min != nil && e.Utility.QValue < *min {
			continue
		}
		if max != nil && e.Utility.QValue > *max {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Utility.QValue != out[j].Utility.QValue {
			return out[i].Utility.QValue > out[j].Utility.QValue
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RelationshipRepository refines repository.Port[Relationship] with the
// from/to endpoint indexes spec.md §6 names.
type RelationshipRepository struct {
	*repository.InMemory[Relationship]
}

// NewRelationshipRepository constructs a RelationshipRepository.
func NewRelationshipRepository() *RelationshipRepository {
	return &RelationshipRepository{
		InMemory: repository.NewInMemory[Relationship]("relationship", relationshipFieldGetter),
	}
}

func relationshipFieldGetter(r Relationship) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "channelId":
			return r.ChannelID, true
		case "fromEntityId":
			return r.FromEntityID, true
		case "toEntityId":
			return r.ToEntityID, true
		case "type":
			return r.Type, true
		default:
			return nil, false
		}
	}
}

// FindByChannel returns every relationship in channelID.
func (r *RelationshipRepository) FindByChannel(channelID string) ([]Relationship, error) {
	page, err := r.FindMany(filter.Filter{Where: map[string]any{"channelId": channelID}}, filter.Pagination{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// FindByEndpoint returns every relationship touching entityID as either
// endpoint, optionally restricted by direction ("out", "in", or "" for
// both) and relType ("" = any type).
func (r *RelationshipRepository) FindByEndpoint(entityID, direction, relType string) ([]Relationship, error) {
	page, err := r.FindMany(filter.Filter{}, filter.Pagination{})
	if err != nil {
		return nil, err
	}
	out := make([]Relationship, 0)
	for _, rel := range page.Items {
		switch direction {
		case "out":
			if rel.FromEntityID != entityID {
				continue
			}
		case "in":
			if rel.ToEntityID != entityID {
				continue
			}
		default:
			if !rel.TouchesEndpoint(entityID) {
				continue
			}
		}
		if relType != "" && !strings.EqualFold(rel.Type, relType) {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

// RewriteEndpoint repoints every relationship referencing oldID (as either
// endpoint) to newID. Used by MergeEntities.
func (r *RelationshipRepository) RewriteEndpoint(oldID, newID string) error {
	rels, err := r.FindByEndpoint(oldID, "", "")
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if _, err := r.Update(rel.ID, func(x *Relationship) {
			if x.FromEntityID == oldID {
				x.FromEntityID = newID
			}
			if x.ToEntityID == oldID {
				x.ToEntityID = newID
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
