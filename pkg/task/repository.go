package task

import (
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
)

// Repository refines repository.Port[Task] with the channel/assignee/
// status/overdue lookups and statistics rollups spec.md §4.1 names.
type Repository struct {
	*repository.InMemory[Task]
}

// NewRepository constructs a task Repository.
func NewRepository() *Repository {
	return &Repository{
		InMemory: repository.NewInMemory[Task]("task", taskFieldGetter),
	}
}

func taskFieldGetter(t Task) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "channelId":
			return t.ChannelID, true
		case "status":
			return string(t.Status), true
		case "priority":
			return string(t.Priority), true
		case "assignedAgentId":
			return t.Assignment.AssignedAgentID, true
		case "title":
			return t.Title, true
		case "description":
			return t.Description, true
		default:
			return nil, false
		}
	}
}

// FindByChannel returns every task in channelID.
func (r *Repository) FindByChannel(channelID string, p filter.Pagination) (filter.Page[Task], error) {
	return r.FindMany(filter.Filter{Where: map[string]any{"channelId": channelID}}, p)
}

// FindByAssignee returns every task assigned (as primary assignee) to
// agentID.
func (r *Repository) FindByAssignee(agentID string, p filter.Pagination) (filter.Page[Task], error) {
	return r.FindMany(filter.Filter{Where: map[string]any{"assignedAgentId": agentID}}, p)
}

// FindByStatus returns every task in the given status within channelID.
func (r *Repository) FindByStatus(channelID string, status State, p filter.Pagination) (filter.Page[Task], error) {
	return r.FindMany(filter.Filter{Where: map[string]any{"channelId": channelID, "status": string(status)}}, p)
}

// FindOverdue returns tasks whose DueAt has passed and are not terminal.
func (r *Repository) FindOverdue(channelID string, now time.Time) ([]Task, error) {
	page, err := r.FindByChannel(channelID, filter.Pagination{})
	if err != nil {
		return nil, err
	}
	overdue := make([]Task, 0)
	for _, t := range page.Items {
		if t.DueAt != nil && t.DueAt.Before(now) && !t.Status.IsTerminal() {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

// AssignTo sets the primary assignee on taskID, appending to
// AssignedAgentIDs if not already present.
func (r *Repository) AssignTo(taskID, agentID string) (Task, error) {
	return r.Update(taskID, func(t *Task) {
		t.Assignment.AssignedAgentID = agentID
		if !t.Assignment.HasAgent(agentID) {
			t.Assignment.AssignedAgentIDs = append(t.Assignment.AssignedAgentIDs, agentID)
		}
		t.UpdatedAt = time.Now()
	})
}

// Unassign clears the primary assignee (but leaves AssignedAgentIDs
// history intact).
func (r *Repository) Unassign(taskID string) (Task, error) {
	return r.Update(taskID, func(t *Task) {
		t.Assignment.AssignedAgentID = ""
		t.UpdatedAt = time.Now()
	})
}

// UpdateStatus writes status directly (transition validation lives in the
// Service; the repository only persists).
func (r *Repository) UpdateStatus(taskID string, status State) (Task, error) {
	return r.Update(taskID, func(t *Task) {
		t.Status = status
		t.UpdatedAt = time.Now()
	})
}

// UpdateProgress writes progress directly, clamped to [0,100].
func (r *Repository) UpdateProgress(taskID string, progress int) (Task, error) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return r.Update(taskID, func(t *Task) {
		t.Progress = progress
		t.UpdatedAt = time.Now()
	})
}

// ChannelStatistics summarizes task counts for one channel.
type ChannelStatistics struct {
	Total       int
	ByStatus    map[State]int
	ByPriority  map[Priority]int
	AverageProgress float64
}

// GetChannelStatistics aggregates counts for channelID.
func (r *Repository) GetChannelStatistics(channelID string) (ChannelStatistics, error) {
	page, err := r.FindByChannel(channelID, filter.Pagination{})
	if err != nil {
		return ChannelStatistics{}, err
	}
	stats := ChannelStatistics{
		ByStatus:   make(map[State]int),
		ByPriority: make(map[Priority]int),
	}
	progressSum := 0
	for _, t := range page.Items {
		stats.Total++
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		progressSum += t.Progress
	}
	if stats.Total > 0 {
		stats.AverageProgress = float64(progressSum) / float64(stats.Total)
	}
	return stats, nil
}

// AgentStatistics summarizes task counts assigned to one agent.
type AgentStatistics struct {
	Total    int
	ByStatus map[State]int
}

// GetAgentStatistics aggregates counts for agentID across all channels.
func (r *Repository) GetAgentStatistics(agentID string) (AgentStatistics, error) {
	page, err := r.FindByAssignee(agentID, filter.Pagination{})
	if err != nil {
		return AgentStatistics{}, err
	}
	stats := AgentStatistics{ByStatus: make(map[State]int)}
	for _, t := range page.Items {
		stats.Total++
		stats.ByStatus[t.Status]++
	}
	return stats, nil
}

// Search does a case-insensitive substring search over title/description.
func (r *Repository) Search(query string, p filter.Pagination) (filter.Page[Task], error) {
	return r.FindMany(filter.Filter{TextSearch: query, TextFields: []string{"title", "description"}}, p)
}
