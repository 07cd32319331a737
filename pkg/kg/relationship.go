package kg

import (
	"time"

	"github.com/google/uuid"
)

// Relationship is a directed edge between two entities in the same channel
// (spec.md §3). SurpriseScore and Weight are caller-supplied inputs with no
// update policy in this core (spec.md §9's Open Questions).
type Relationship struct {
	ID              string
	ChannelID       string
	FromEntityID    string
	ToEntityID      string
	Type            string
	Label           string
	Properties      map[string]any
	Confidence      float64
	SurpriseScore   float64
	Weight          float64
	SourceMemoryIDs []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r Relationship) GetID() string           { return r.ID }
func (r Relationship) GetCreatedAt() time.Time { return r.CreatedAt }

// NewRelationship constructs a directed edge. Confidence and Weight default
// to 1 and 0 respectively; callers set SurpriseScore/Weight explicitly.
func NewRelationship(channelID, fromID, toID, relType string) *Relationship {
	now := time.Now()
	return &Relationship{
		ID:              uuid.NewString(),
		ChannelID:       channelID,
		FromEntityID:    fromID,
		ToEntityID:      toID,
		Type:            relType,
		Properties:      make(map[string]any),
		Confidence:      1.0,
		SourceMemoryIDs: make([]string, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TouchesEndpoint reports whether entityID is either endpoint of r.
func (r Relationship) TouchesEndpoint(entityID string) bool {
	return r.FromEntityID == entityID || r.ToEntityID == entityID
}
