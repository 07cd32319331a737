// Package kg implements the knowledge graph: entity/relationship storage,
// similarity-based merge, path search, and subgraph/context extraction
// (spec.md §4.5). Ownership is via the channel, not other entities;
// relationships are pure associations keyed by endpoint ids, realized here
// as an arena keyed by entity id plus edge lists indexed by both endpoints,
// per spec.md §9's design note.
package kg

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

// EntityType is the closed set of entity categories spec.md §3 names.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityProject      EntityType = "project"
	EntitySystem       EntityType = "system"
	EntityTechnology   EntityType = "technology"
	EntityConcept      EntityType = "concept"
	EntityLocation     EntityType = "location"
	EntityDocument     EntityType = "document"
	EntityTask         EntityType = "task"
	EntityGoal         EntityType = "goal"
	EntityResource     EntityType = "resource"
	EntityCustom       EntityType = "custom"
)

// Entity is a node in one channel's knowledge graph (spec.md §3).
type Entity struct {
	ID              string
	ChannelID       string
	Type            EntityType
	Name            string
	Aliases         []string
	Description     string
	Properties      map[string]any
	Utility         utility.Record
	Confidence      float64
	Source          string
	SourceMemoryIDs []string
	Merged          bool
	MergedInto      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e Entity) GetID() string           { return e.ID }
func (e Entity) GetCreatedAt() time.Time { return e.CreatedAt }

// NewEntity constructs a non-merged entity with the default utility record
// (spec.md §4.6: initial Q-value 0.5).
func NewEntity(channelID string, entityType EntityType, name string) *Entity {
	now := time.Now()
	return &Entity{
		ID:              uuid.NewString(),
		ChannelID:       channelID,
		Type:            entityType,
		Name:            name,
		Aliases:         make([]string, 0),
		Properties:      make(map[string]any),
		Utility:         utility.New(),
		Confidence:      1.0,
		SourceMemoryIDs: make([]string, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MatchesExact reports whether e is a case-insensitive exact match for
// (entityType, name), the key findOrCreateEntity looks up by.
func (e Entity) MatchesExact(entityType EntityType, name string) bool {
	return !e.Merged && e.Type == entityType && strings.EqualFold(e.Name, name)
}

// HasAlias reports whether alias is already present, case-insensitively.
func (e Entity) HasAlias(alias string) bool {
	for _, a := range e.Aliases {
		if strings.EqualFold(a, alias) {
			return true
		}
	}
	return false
}

// UnionAliases adds any alias not already present (case-insensitively),
// and treats name itself as an implicit alias candidate.
func (e *Entity) UnionAliases(aliases ...string) {
	for _, a := range aliases {
		if a == "" || strings.EqualFold(a, e.Name) || e.HasAlias(a) {
			continue
		}
		e.Aliases = append(e.Aliases, a)
	}
}

// UnionSourceMemoryIDs adds any id not already present.
func (e *Entity) UnionSourceMemoryIDs(ids ...string) {
	seen := make(map[string]bool, len(e.SourceMemoryIDs))
	for _, id := range e.SourceMemoryIDs {
		seen[id] = true
	}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		e.SourceMemoryIDs = append(e.SourceMemoryIDs, id)
		seen[id] = true
	}
}
