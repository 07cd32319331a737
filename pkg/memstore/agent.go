package memstore

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

// AgentMemory holds one agent's persisted notes, conversation history, and
// free-form custom data (spec.md §3).
type AgentMemory struct {
	AgentID             string
	PersistenceLevel    string
	Notes               []string
	ConversationHistory History
	CustomData          map[string]any
	Utility             utility.Record
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (m AgentMemory) GetID() string           { return m.AgentID }
func (m AgentMemory) GetCreatedAt() time.Time { return m.CreatedAt }

// NewAgentMemory constructs an empty AgentMemory record for agentID.
func NewAgentMemory(agentID string) *AgentMemory {
	now := time.Now()
	return &AgentMemory{
		AgentID:    agentID,
		CustomData: make(map[string]any),
		Utility:    utility.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AgentMemoryRepository is the natural-keyed store for AgentMemory
// (spec.md §6: "natural agentId ... where present").
type AgentMemoryRepository struct {
	*repository.InMemory[AgentMemory]
}

// NewAgentMemoryRepository constructs an AgentMemoryRepository.
func NewAgentMemoryRepository() *AgentMemoryRepository {
	return &AgentMemoryRepository{
		InMemory: repository.NewInMemory[AgentMemory]("agentMemory", agentMemoryFieldGetter),
	}
}

func agentMemoryFieldGetter(m AgentMemory) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "agentId":
			return m.AgentID, true
		case "persistenceLevel":
			return m.PersistenceLevel, true
		default:
			return nil, false
		}
	}
}

// GetOrCreate fetches agentID's memory, creating an empty one on first
// access.
func (r *AgentMemoryRepository) GetOrCreate(agentID string) (AgentMemory, error) {
	m, err := r.FindByID(agentID)
	if err == nil {
		return m, nil
	}
	return r.Create(*NewAgentMemory(agentID))
}

// AppendMessage appends msg to agentID's conversation history.
func (r *AgentMemoryRepository) AppendMessage(agentID string, msg Message) (AgentMemory, error) {
	if _, err := r.GetOrCreate(agentID); err != nil {
		return AgentMemory{}, err
	}
	return r.Update(agentID, func(m *AgentMemory) {
		m.ConversationHistory = m.ConversationHistory.Append(msg)
		m.UpdatedAt = time.Now()
	})
}

// PatchUtility adapts r.Update into a utility.Patch for AgentMemory.Utility.
func (r *AgentMemoryRepository) PatchUtility(id string, mutate func(*utility.Record)) error {
	_, err := r.Update(id, func(m *AgentMemory) { mutate(&m.Utility) })
	return err
}
