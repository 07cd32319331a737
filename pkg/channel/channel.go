// Package channel defines the Channel and Agent entities from spec.md §3.
// Channel is the scoping unit: tasks, memory, and the knowledge graph are
// all channel-indexed. Agents have a lifecycle independent of any channel
// but are granted membership in the channels they participate in.
package channel

import (
	"time"

	"github.com/google/uuid"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// Channel is the scoping unit for tasks, memory, and the knowledge graph.
type Channel struct {
	ID           string
	Name         string
	Participants map[string]struct{}
	Private      bool
	AllowedTools map[string]struct{}
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c Channel) GetID() string           { return c.ID }
func (c Channel) GetCreatedAt() time.Time { return c.CreatedAt }

// New creates a new active, public channel with no participants.
func New(name string) *Channel {
	now := time.Now()
	return &Channel{
		ID:           uuid.NewString(),
		Name:         name,
		Participants: make(map[string]struct{}),
		AllowedTools: make(map[string]struct{}),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddParticipant adds an agent to the channel's membership set.
func (c *Channel) AddParticipant(agentID string) {
	c.Participants[agentID] = struct{}{}
	c.UpdatedAt = time.Now()
}

// RemoveParticipant removes an agent from the channel's membership set.
func (c *Channel) RemoveParticipant(agentID string) {
	delete(c.Participants, agentID)
	c.UpdatedAt = time.Now()
}

// IsParticipant reports whether agentID currently belongs to the channel.
func (c *Channel) IsParticipant(agentID string) bool {
	_, ok := c.Participants[agentID]
	return ok
}

// Role is an agent's coarse capability tag.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleConsumer Role = "consumer"
)

// Status is an agent's current health/availability.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusError    Status = "ERROR"
)

// Agent is a principal that authors and executes work.
type Agent struct {
	ID           string
	DisplayName  string
	Role         Role
	ServiceTypes []string
	Capabilities map[string]struct{}
	Status       Status
	CreatedBy    string
	LastActiveAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Agent) GetID() string           { return a.ID }
func (a Agent) GetCreatedAt() time.Time { return a.CreatedAt }

// NewAgent creates a new active agent.
func NewAgent(displayName string, role Role, createdBy string) (*Agent, error) {
	if displayName == "" {
		return nil, mxerrors.New(mxerrors.InvalidRequest, "channel.NewAgent", "displayName must not be empty")
	}
	now := time.Now()
	return &Agent{
		ID:           uuid.NewString(),
		DisplayName:  displayName,
		Role:         role,
		Capabilities: make(map[string]struct{}),
		Status:       StatusActive,
		CreatedBy:    createdBy,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsStale reports whether the agent has not been active within thresholdMs
// milliseconds of now.
func (a *Agent) IsStale(thresholdMs int64, now time.Time) bool {
	return now.Sub(a.LastActiveAt).Milliseconds() >= thresholdMs
}
