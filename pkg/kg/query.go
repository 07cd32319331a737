package kg

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
)

// GraphQuery picks seed entities via startFilters, then fetches
// relationships touching them, filtered by relationshipFilters, up to
// limit (spec.md §4.5).
type GraphQuery struct {
	StartFilters        filter.Filter
	RelationshipFilters filter.Filter
	Limit               int
}

// QueryResult is the outcome of Query, including the execution time the
// spec requires callers be able to observe.
type QueryResult struct {
	Entities        []Entity
	Relationships   []Relationship
	ExecutionTimeMs int64
}

// Query applies startFilters to pick seed entities in channelID, then
// fetches relationships touching those entities filtered by
// relationshipFilters, respecting limit (spec.md §4.5).
func (g *Graph) Query(channelID string, q GraphQuery) (QueryResult, error) {
	start := time.Now()

	entityFilter := withChannel(q.StartFilters, channelID)
	page, err := g.Entities.FindMany(entityFilter, filter.Pagination{Limit: q.Limit})
	if err != nil {
		return QueryResult{}, err
	}

	seedIDs := make(map[string]bool, len(page.Items))
	for _, e := range page.Items {
		seedIDs[e.ID] = true
	}

	relFilter := withChannel(q.RelationshipFilters, channelID)
	relPage, err := g.Relationships.FindMany(relFilter, filter.Pagination{})
	if err != nil {
		return QueryResult{}, err
	}

	rels := make([]Relationship, 0)
	for _, rel := range relPage.Items {
		if seedIDs[rel.FromEntityID] || seedIDs[rel.ToEntityID] {
			rels = append(rels, rel)
			if q.Limit > 0 && len(rels) >= q.Limit {
				break
			}
		}
	}

	return QueryResult{
		Entities:        page.Items,
		Relationships:   rels,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func withChannel(f filter.Filter, channelID string) filter.Filter {
	if f.Where == nil {
		f.Where = map[string]any{}
	}
	f.Where["channelId"] = channelID
	return f
}
