package memstore

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

// RelationshipMemory holds the interaction history between two agents,
// normalized to a sorted (AgentID1, AgentID2) pair so (a,b) and (b,a)
// collapse to the same record (spec.md §3, §4.7).
type RelationshipMemory struct {
	ID                string
	AgentID1          string
	AgentID2          string
	InteractionHistory History
	Utility           utility.Record
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (m RelationshipMemory) GetID() string           { return m.ID }
func (m RelationshipMemory) GetCreatedAt() time.Time { return m.CreatedAt }

// sortedPair normalizes (a,b) so the smaller id comes first.
func sortedPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// PairID derives the stable, order-independent id for a relationship
// memory between agentA and agentB.
func PairID(agentA, agentB string) string {
	first, second := sortedPair(agentA, agentB)
	return first + ":" + second
}

// NewRelationshipMemory constructs an empty RelationshipMemory for the
// normalized (agentA, agentB) pair.
func NewRelationshipMemory(agentA, agentB string) *RelationshipMemory {
	first, second := sortedPair(agentA, agentB)
	now := time.Now()
	return &RelationshipMemory{
		ID:        PairID(agentA, agentB),
		AgentID1:  first,
		AgentID2:  second,
		Utility:   utility.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RelationshipMemoryRepository stores RelationshipMemory keyed by the
// normalized pair id.
type RelationshipMemoryRepository struct {
	*repository.InMemory[RelationshipMemory]
}

// NewRelationshipMemoryRepository constructs a RelationshipMemoryRepository.
func NewRelationshipMemoryRepository() *RelationshipMemoryRepository {
	return &RelationshipMemoryRepository{
		InMemory: repository.NewInMemory[RelationshipMemory]("relationshipMemory", relationshipMemoryFieldGetter),
	}
}

func relationshipMemoryFieldGetter(m RelationshipMemory) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "agentId1":
			return m.AgentID1, true
		case "agentId2":
			return m.AgentID2, true
		default:
			return nil, false
		}
	}
}

// GetOrCreate fetches the memory for (agentA, agentB), creating an empty
// one (keyed by the normalized pair) on first access.
func (r *RelationshipMemoryRepository) GetOrCreate(agentA, agentB string) (RelationshipMemory, error) {
	id := PairID(agentA, agentB)
	m, err := r.FindByID(id)
	if err == nil {
		return m, nil
	}
	return r.Create(*NewRelationshipMemory(agentA, agentB))
}

// AppendInteraction appends msg to the interaction history between
// agentA and agentB.
func (r *RelationshipMemoryRepository) AppendInteraction(agentA, agentB string, msg Message) (RelationshipMemory, error) {
	if _, err := r.GetOrCreate(agentA, agentB); err != nil {
		return RelationshipMemory{}, err
	}
	return r.Update(PairID(agentA, agentB), func(m *RelationshipMemory) {
		m.InteractionHistory = m.InteractionHistory.Append(msg)
		m.UpdatedAt = time.Now()
	})
}

// PatchUtility adapts r.Update into a utility.Patch for
// RelationshipMemory.Utility.
func (r *RelationshipMemoryRepository) PatchUtility(id string, mutate func(*utility.Record)) error {
	_, err := r.Update(id, func(m *RelationshipMemory) { mutate(&m.Utility) })
	return err
}
