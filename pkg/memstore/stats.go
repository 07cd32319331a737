package memstore

import "github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"

// ScopeStatistics summarizes one memory scope's counts and Q-value rollup,
// computed in-memory from the current page (spec.md §4.7).
type ScopeStatistics struct {
	Count        int
	AvgQValue    float64
	MaxQValue    float64
	MinQValue    float64
}

func rollup(n int, qValues func(i int) float64) ScopeStatistics {
	stats := ScopeStatistics{Count: n}
	if n == 0 {
		return stats
	}
	stats.MinQValue = 1
	var sum float64
	for i := 0; i < n; i++ {
		q := qValues(i)
		sum += q
		if q > stats.MaxQValue {
			stats.MaxQValue = q
		}
		if q < stats.MinQValue {
			stats.MinQValue = q
		}
	}
	stats.AvgQValue = sum / float64(n)
	return stats
}

// AgentStats computes rollup statistics over every AgentMemory currently
// stored.
func AgentStats(r *AgentMemoryRepository) (ScopeStatistics, error) {
	page, err := r.FindMany(filter.Filter{}, filter.Pagination{})
	if err != nil {
		return ScopeStatistics{}, err
	}
	return rollup(len(page.Items), func(i int) float64 { return page.Items[i].Utility.QValue }), nil
}

// ChannelStats computes rollup statistics over every ChannelMemory
// currently stored.
func ChannelStats(r *ChannelMemoryRepository) (ScopeStatistics, error) {
	page, err := r.FindMany(filter.Filter{}, filter.Pagination{})
	if err != nil {
		return ScopeStatistics{}, err
	}
	return rollup(len(page.Items), func(i int) float64 { return page.Items[i].Utility.QValue }), nil
}

// RelationshipStats computes rollup statistics over every
// RelationshipMemory currently stored.
func RelationshipStats(r *RelationshipMemoryRepository) (ScopeStatistics, error) {
	page, err := r.FindMany(filter.Filter{}, filter.Pagination{})
	if err != nil {
		return ScopeStatistics{}, err
	}
	return rollup(len(page.Items), func(i int) float64 { return page.Items[i].Utility.QValue }), nil
}
