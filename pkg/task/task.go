// Package task implements the Task entity, its repository, and its
// lifecycle service (spec.md §3, §4.2). The state machine and
// repository-over-generic-store shape are grounded on the teacher's
// pkg/task/task.go, adapted from the A2A single-task protocol to MXF's
// channel-scoped, dependency-graph task model.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Priority ranks a task relative to its siblings.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityRank = map[Priority]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
	PriorityUrgent: 3,
}

// Rank returns a numeric ordering for priority comparisons (higher = more
// urgent), used by the DAG engine's (priority desc, createdAt asc) ordering.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// State is a task's lifecycle status.
type State string

const (
	StatePending     State = "pending"
	StateAssigned    State = "assigned"
	StateInProgress  State = "in_progress"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
	StateCancelled   State = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// CoordinationMode describes how a multi-agent assignment collaborates.
type CoordinationMode string

const (
	CoordinationCollaborative CoordinationMode = "collaborative"
	CoordinationSequential    CoordinationMode = "sequential"
	CoordinationHierarchical  CoordinationMode = "hierarchical"
)

// Assignment captures single- or multi-agent task ownership.
type Assignment struct {
	AssignedAgentID  string
	AssignedAgentIDs []string
	CoordinationMode CoordinationMode
}

// HasAgent reports whether agentID is part of this assignment.
func (a Assignment) HasAgent(agentID string) bool {
	if a.AssignedAgentID == agentID {
		return true
	}
	for _, id := range a.AssignedAgentIDs {
		if id == agentID {
			return true
		}
	}
	return false
}

// Task is a unit of work inside one channel (spec.md §3).
type Task struct {
	ID          string
	ChannelID   string
	Title       string
	Description string
	Priority    Priority
	Status      State
	Progress    int // 0-100
	Assignment  Assignment
	DependsOn   []string // ordered task ids in the same channel
	DueAt       *time.Time
	EstimatedDuration *time.Duration
	ActualDuration    *time.Duration
	Result      map[string]any
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Task) GetID() string           { return t.ID }
func (t Task) GetCreatedAt() time.Time { return t.CreatedAt }

// New creates a pending task with no dependencies.
func New(channelID, title, description string, priority Priority) *Task {
	now := time.Now()
	if priority == "" {
		priority = PriorityMedium
	}
	return &Task{
		ID:          uuid.NewString(),
		ChannelID:   channelID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      StatePending,
		DependsOn:   make([]string, 0),
		Result:      make(map[string]any),
		Metadata:    make(map[string]any),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsReady reports whether t is ready to run: pending and every dependency
// (as reported by depStatus) is completed (spec.md §3, §8).
func (t Task) IsReady(depStatus func(depID string) (State, bool)) bool {
	if t.Status != StatePending {
		return false
	}
	for _, dep := range t.DependsOn {
		status, ok := depStatus(dep)
		if !ok || status != StateCompleted {
			return false
		}
	}
	return true
}

// BlockingDeps returns the subset of DependsOn whose status is not
// completed, using depStatus to resolve each dependency's current state.
func (t Task) BlockingDeps(depStatus func(depID string) (State, bool)) []string {
	blocking := make([]string, 0)
	for _, dep := range t.DependsOn {
		status, ok := depStatus(dep)
		if !ok || status != StateCompleted {
			blocking = append(blocking, dep)
		}
	}
	return blocking
}
