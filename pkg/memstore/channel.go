package memstore

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

// ChannelMemory holds a channel's named shared-state blob and conversation
// history (spec.md §3).
type ChannelMemory struct {
	ChannelID           string
	SharedState         map[string]any
	ConversationHistory History
	Utility             utility.Record
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (m ChannelMemory) GetID() string           { return m.ChannelID }
func (m ChannelMemory) GetCreatedAt() time.Time { return m.CreatedAt }

// NewChannelMemory constructs an empty ChannelMemory record for channelID.
func NewChannelMemory(channelID string) *ChannelMemory {
	now := time.Now()
	return &ChannelMemory{
		ChannelID:   channelID,
		SharedState: make(map[string]any),
		Utility:     utility.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ChannelMemoryRepository is the natural-keyed store for ChannelMemory.
type ChannelMemoryRepository struct {
	*repository.InMemory[ChannelMemory]
}

// NewChannelMemoryRepository constructs a ChannelMemoryRepository.
func NewChannelMemoryRepository() *ChannelMemoryRepository {
	return &ChannelMemoryRepository{
		InMemory: repository.NewInMemory[ChannelMemory]("channelMemory", channelMemoryFieldGetter),
	}
}

func channelMemoryFieldGetter(m ChannelMemory) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "channelId":
			return m.ChannelID, true
		default:
			return nil, false
		}
	}
}

// GetOrCreate fetches channelID's memory, creating an empty one on first
// access.
func (r *ChannelMemoryRepository) GetOrCreate(channelID string) (ChannelMemory, error) {
	m, err := r.FindByID(channelID)
	if err == nil {
		return m, nil
	}
	return r.Create(*NewChannelMemory(channelID))
}

// AppendMessage appends msg to channelID's conversation history.
func (r *ChannelMemoryRepository) AppendMessage(channelID string, msg Message) (ChannelMemory, error) {
	if _, err := r.GetOrCreate(channelID); err != nil {
		return ChannelMemory{}, err
	}
	return r.Update(channelID, func(m *ChannelMemory) {
		m.ConversationHistory = m.ConversationHistory.Append(msg)
		m.UpdatedAt = time.Now()
	})
}

// SetSharedState sets one named key in channelID's shared-state blob.
func (r *ChannelMemoryRepository) SetSharedState(channelID, key string, value any) (ChannelMemory, error) {
	if _, err := r.GetOrCreate(channelID); err != nil {
		return ChannelMemory{}, err
	}
	return r.Update(channelID, func(m *ChannelMemory) {
		if m.SharedState == nil {
			m.SharedState = make(map[string]any)
		}
		m.SharedState[key] = value
		m.UpdatedAt = time.Now()
	})
}

// PatchUtility adapts r.Update into a utility.Patch for ChannelMemory.Utility.
func (r *ChannelMemoryRepository) PatchUtility(id string, mutate func(*utility.Record)) error {
	_, err := r.Update(id, func(m *ChannelMemory) { mutate(&m.Utility) })
	return err
}
