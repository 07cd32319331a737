package channel

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
)

// ChannelRepository refines repository.Port[Channel] with participant
// management and name search (spec §4.1).
type ChannelRepository struct {
	*repository.InMemory[Channel]
}

// NewChannelRepository constructs a ChannelRepository.
func NewChannelRepository() *ChannelRepository {
	return &ChannelRepository{
		InMemory: repository.NewInMemory[Channel]("channel", channelFieldGetter),
	}
}

func channelFieldGetter(c Channel) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "name":
			return c.Name, true
		case "active":
			return c.Active, true
		case "private":
			return c.Private, true
		case "participants":
			out := make([]any, 0, len(c.Participants))
			for id := range c.Participants {
				out = append(out, id)
			}
			return out, true
		default:
			return nil, false
		}
	}
}

// AddParticipant adds agentID to channel channelID's membership set.
func (r *ChannelRepository) AddParticipant(channelID, agentID string) (Channel, error) {
	return r.Update(channelID, func(c *Channel) { c.AddParticipant(agentID) })
}

// RemoveParticipant removes agentID from channel channelID's membership set.
func (r *ChannelRepository) RemoveParticipant(channelID, agentID string) (Channel, error) {
	return r.Update(channelID, func(c *Channel) { c.RemoveParticipant(agentID) })
}

// IsParticipant reports whether agentID belongs to channelID.
func (r *ChannelRepository) IsParticipant(channelID, agentID string) (bool, error) {
	c, err := r.FindByID(channelID)
	if err != nil {
		return false, err
	}
	return c.IsParticipant(agentID), nil
}

// SearchByName does a case-insensitive substring search over channel names.
func (r *ChannelRepository) SearchByName(query string, p filter.Pagination) (filter.Page[Channel], error) {
	return r.FindMany(filter.Filter{TextSearch: query, TextFields: []string{"name"}}, p)
}

// UpdateLastActive bumps updatedAt for the channel (proxy for last-active
// bookkeeping mirrored from the agent side).
func (r *ChannelRepository) UpdateLastActive(channelID string) (Channel, error) {
	return r.Update(channelID, func(c *Channel) { c.UpdatedAt = time.Now() })
}
