package channel

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
)

// AgentRepository refines repository.Port[Agent] with key/service-type
// lookups, staleness detection, and bulk status updates (spec §4.1).
type AgentRepository struct {
	*repository.InMemory[Agent]
}

// NewAgentRepository constructs an AgentRepository.
func NewAgentRepository() *AgentRepository {
	return &AgentRepository{
		InMemory: repository.NewInMemory[Agent]("agent", agentFieldGetter),
	}
}

func agentFieldGetter(a Agent) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "displayName":
			return a.DisplayName, true
		case "role":
			return string(a.Role), true
		case "status":
			return string(a.Status), true
		case "createdBy":
			return a.CreatedBy, true
		case "serviceTypes":
			out := make([]any, len(a.ServiceTypes))
			for i, s := range a.ServiceTypes {
				out[i] = s
			}
			return out, true
		default:
			return nil, false
		}
	}
}

// FindByKeyID looks an agent up by its ID (agents are keyed by their own
// natural id, mirroring the "natural key" note in spec.md §6).
func (r *AgentRepository) FindByKeyID(id string) (Agent, error) {
	return r.FindByID(id)
}

// FindByServiceTypes returns agents whose ServiceTypes intersect (matchAll
// false) or fully cover (matchAll true) the requested types.
func (r *AgentRepository) FindByServiceTypes(types []string, matchAll bool) (filter.Page[Agent], error) {
	want := make([]any, len(types))
	for i, t := range types {
		want[i] = t
	}
	mode := filter.ArrayModeAny
	if matchAll {
		mode = filter.ArrayModeAll
	}
	return r.FindMany(filter.Filter{
		ArrayContains: []filter.ArrayContains{{Field: "serviceTypes", Values: want, Mode: mode}},
	}, filter.Pagination{})
}

// FindStaleAgents returns agents whose LastActiveAt is older than
// thresholdMs.
func (r *AgentRepository) FindStaleAgents(thresholdMs int64) ([]Agent, error) {
	page, err := r.FindMany(filter.Filter{}, filter.Pagination{})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	stale := make([]Agent, 0)
	for _, a := range page.Items {
		if a.IsStale(thresholdMs, now) {
			stale = append(stale, a)
		}
	}
	return stale, nil
}

// BulkUpdateStatus applies status to every agent in ids, returning the
// first error encountered (if any) after attempting all updates.
func (r *AgentRepository) BulkUpdateStatus(ids []string, status Status) error {
	var firstErr error
	for _, id := range ids {
		if _, err := r.Update(id, func(a *Agent) {
			a.Status = status
			a.UpdatedAt = time.Now()
		}); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
