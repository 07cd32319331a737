package kg

import (
	"strings"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
)

// ContextBundle is the bounded selection of entities, relationships, and
// stats used to seed an LLM prompt (spec.md §4.5, glossary "Context
// bundle").
type ContextBundle struct {
	CentralEntities []Entity
	RelatedEntities []Entity
	Relationships   []Relationship
	Stats           ContextStats
}

// ContextStats summarizes the bundle's composition.
type ContextStats struct {
	EntityCount       int
	RelationshipCount int
	AvgQValue         float64
	MaxQValue         float64
	AvgConfidence     float64
}

// GetGraphContextOptions bounds GetGraphContext's output.
type GetGraphContextOptions struct {
	TaskID            string
	Keywords          []string
	MaxCentralEntities int
	MaxRelated         int
	MaxRelationships   int
	RelatedQValueFloor float64 // default 0.6 per spec.md §4.5
}

// GetGraphContext assembles a context bundle: central entities matched by
// keyword (case-insensitive name/alias contains, capped), related entities
// at or above a Q-value floor (capped), and relationships whose both
// endpoints fall inside the selected entity set (capped) (spec.md §4.5).
func (g *Graph) GetGraphContext(channelID string, opts GetGraphContextOptions) (ContextBundle, error) {
	if opts.MaxCentralEntities <= 0 {
		opts.MaxCentralEntities = 10
	}
	if opts.MaxRelated <= 0 {
		opts.MaxRelated = 10
	}
	if opts.MaxRelationships <= 0 {
		opts.MaxRelationships = 20
	}
	if opts.RelatedQValueFloor <= 0 {
		opts.RelatedQValueFloor = 0.6
	}

	page, err := g.Entities.FindByChannel(channelID, false, filter.Pagination{})
	if err != nil {
		return ContextBundle{}, err
	}

	central := make([]Entity, 0, opts.MaxCentralEntities)
	if len(opts.Keywords) > 0 {
		for _, e := range page.Items {
			if matchesKeywords(e, opts.Keywords) {
				central = append(central, e)
				if len(central) >= opts.MaxCentralEntities {
					break
				}
			}
		}
	}

	floor := opts.RelatedQValueFloor
	related, err := g.Entities.GetByQValue(channelID, &floor, nil, opts.MaxRelated)
	if err != nil {
		return ContextBundle{}, err
	}

	selected := make(map[string]bool, len(central)+len(related))
	for _, e := range central {
		selected[e.ID] = true
	}
	for _, e := range related {
		selected[e.ID] = true
	}

	relPage, err := g.Relationships.FindByChannel(channelID)
	if err != nil {
		return ContextBundle{}, err
	}
	relationships := make([]Relationship, 0, opts.MaxRelationships)
	for _, rel := range relPage {
		if selected[rel.FromEntityID] && selected[rel.ToEntityID] {
			relationships = append(relationships, rel)
			if len(relationships) >= opts.MaxRelationships {
				break
			}
		}
	}

	return ContextBundle{
		CentralEntities: central,
		RelatedEntities: related,
		Relationships:   relationships,
		Stats:           computeStats(central, related, relationships),
	}, nil
}

func matchesKeywords(e Entity, keywords []string) bool {
	name := strings.ToLower(e.Name)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(name, kw) {
			return true
		}
		for _, alias := range e.Aliases {
			if strings.Contains(strings.ToLower(alias), kw) {
				return true
			}
		}
	}
	return false
}

func computeStats(central, related []Entity, rels []Relationship) ContextStats {
	all := make(map[string]Entity, len(central)+len(related))
	for _, e := range central {
		all[e.ID] = e
	}
	for _, e := range related {
		all[e.ID] = e
	}

	stats := ContextStats{EntityCount: len(all), RelationshipCount: len(rels)}
	if len(all) == 0 {
		return stats
	}

	var qSum, confSum float64
	for _, e := range all {
		qSum += e.Utility.QValue
		confSum += e.Confidence
		if e.Utility.QValue > stats.MaxQValue {
			stats.MaxQValue = e.Utility.QValue
		}
	}
	stats.AvgQValue = qSum / float64(len(all))
	stats.AvgConfidence = confSum / float64(len(all))
	return stats
}
