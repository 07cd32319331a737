// Package orpar implements the per-agent ORPAR cognitive control loop
// (spec.md §4.4): Observe -> Reason -> Plan -> Act -> Reflect, whose phase
// entries are appended to cognitive memory and whose reflections feed
// pkg/utility Q-value updates. Modeled as a state machine driven by pure
// (state, input) -> (newState, output) transitions per spec.md §9's design
// note, rather than as a suspending goroutine per loop.
package orpar

import (
	"time"

	"github.com/google/uuid"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
)

// Phase is one of the four recorded cognitive phases (spec.md §3). "act"
// is realized as tool calls/task updates and is not itself a recorded
// phase (spec.md §4.4).
type Phase string

const (
	PhaseObservation Phase = "observation"
	PhaseReasoning   Phase = "reasoning"
	PhasePlan        Phase = "plan"
	PhaseReflection  Phase = "reflection"
)

// PhaseEntry is an append-only cognitive-memory record (spec.md §3).
type PhaseEntry struct {
	ID        string
	AgentID   string
	ChannelID string
	Phase     Phase
	Content   string
	CreatedAt time.Time
}

func (e PhaseEntry) GetID() string           { return e.ID }
func (e PhaseEntry) GetCreatedAt() time.Time { return e.CreatedAt }

// NewPhaseEntry constructs a phase entry ready to persist.
func NewPhaseEntry(agentID, channelID string, phase Phase, content string) PhaseEntry {
	return PhaseEntry{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		ChannelID: channelID,
		Phase:     phase,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// PhaseEntryRepository is the append-only store for cognitive memory,
// indexed (agentId, channelId, createdAt) per spec.md §6.
type PhaseEntryRepository struct {
	*repository.InMemory[PhaseEntry]
}

// NewPhaseEntryRepository constructs a PhaseEntryRepository.
func NewPhaseEntryRepository() *PhaseEntryRepository {
	return &PhaseEntryRepository{
		InMemory: repository.NewInMemory[PhaseEntry]("phaseEntry", phaseEntryFieldGetter),
	}
}

func phaseEntryFieldGetter(e PhaseEntry) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "agentId":
			return e.AgentID, true
		case "channelId":
			return e.ChannelID, true
		case "phase":
			return string(e.Phase), true
		case "createdAt":
			return e.CreatedAt, true
		default:
			return nil, false
		}
	}
}

// ForAgentChannel returns every phase entry for (agentID, channelID),
// ordered oldest first (createdAt asc), as spec.md §4.7's "ordered by
// createdAt per (agent, channel)" requires.
func (r *PhaseEntryRepository) ForAgentChannel(agentID, channelID string) ([]PhaseEntry, error) {
	page, err := r.FindMany(filter.Filter{
		Where: map[string]any{"agentId": agentID, "channelId": channelID},
	}, filter.Pagination{SortBy: "createdAt", SortOrder: filter.SortAsc})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
