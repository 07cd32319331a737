package task

import (
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// DAGNotifier is the subset of the DAG engine the task Service depends on.
// Defined here (rather than imported from pkg/dag) so pkg/dag can depend on
// pkg/task without a cycle; pkg/dag's Engine implements this interface.
type DAGNotifier interface {
	ValidateDependency(channelID, dependentID, dependencyID string) error
	OnTaskCreated(channelID, taskID string) error
	OnTaskStatusChanged(channelID, taskID string, newStatus State) error
	OnTaskDeleted(channelID, taskID string) error
}

// allowedTransitions enumerates the task status state machine (spec.md §4.2).
var allowedTransitions = map[State]map[State]bool{
	StatePending:    {StateAssigned: true, StateCancelled: true},
	StateAssigned:   {StateInProgress: true, StateCancelled: true},
	StateInProgress: {StateCompleted: true, StateFailed: true, StateCancelled: true},
	StateCompleted:  {},
	StateFailed:     {},
	StateCancelled:  {},
}

// Service implements the task lifecycle contract of spec.md §4.2.
type Service struct {
	repo *Repository
	dag  DAGNotifier
}

// NewService builds a task Service backed by repo, notifying dag of
// structural and status changes.
func NewService(repo *Repository, dag DAGNotifier) *Service {
	return &Service{repo: repo, dag: dag}
}

// Create validates dependency edges, persists the task, and notifies the
// DAG engine.
func (s *Service) Create(t *Task) (*Task, error) {
	for _, depID := range t.DependsOn {
		dep, err := s.repo.FindByID(depID)
		if err != nil {
			return nil, mxerrors.Wrap(mxerrors.InvalidDependency, "task.Create",
				"dependency task not found: "+depID, err)
		}
		if dep.ChannelID != t.ChannelID {
			return nil, mxerrors.New(mxerrors.InvalidDependency, "task.Create",
				"dependency "+depID+" is in a different channel")
		}
		if err := s.dag.ValidateDependency(t.ChannelID, t.ID, depID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(*t)
	if err != nil {
		return nil, mxerrors.Wrap(mxerrors.StorageFailure, "task.Create", "failed to persist task", err)
	}

	if err := s.dag.OnTaskCreated(created.ChannelID, created.ID); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateStatus enforces the transition table, sets progress=100 on
// completion, persists, and notifies the DAG engine.
func (s *Service) UpdateStatus(taskID string, newStatus State, metadata map[string]any) (*Task, error) {
	current, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}

	if current.Status.IsTerminal() {
		return nil, mxerrors.New(mxerrors.InvalidTransition, "task.UpdateStatus",
			"task "+taskID+" is already in terminal state "+string(current.Status))
	}
	if !allowedTransitions[current.Status][newStatus] {
		return nil, mxerrors.New(mxerrors.InvalidTransition, "task.UpdateStatus",
			"cannot transition from "+string(current.Status)+" to "+string(newStatus))
	}

	updated, err := s.repo.Update(taskID, func(t *Task) {
		t.Status = newStatus
		if newStatus == StateCompleted {
			t.Progress = 100
		}
		if metadata != nil {
			if t.Metadata == nil {
				t.Metadata = make(map[string]any)
			}
			for k, v := range metadata {
				t.Metadata[k] = v
			}
		}
	})
	if err != nil {
		return nil, mxerrors.Wrap(mxerrors.StorageFailure, "task.UpdateStatus", "failed to persist status", err)
	}

	if err := s.dag.OnTaskStatusChanged(updated.ChannelID, updated.ID, newStatus); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Assign sets the assignee and transitions pending->assigned. Assigning the
// same agent again is idempotent (no transition error on re-assign).
func (s *Service) Assign(taskID, agentID string) (*Task, error) {
	current, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}

	if current.Assignment.AssignedAgentID == agentID && current.Status != StatePending {
		return &current, nil
	}

	if current.Status == StatePending {
		if !allowedTransitions[StatePending][StateAssigned] {
			return nil, mxerrors.New(mxerrors.InvalidTransition, "task.Assign", "pending cannot transition to assigned")
		}
	} else if current.Status != StateAssigned {
		return nil, mxerrors.New(mxerrors.InvalidTransition, "task.Assign",
			"cannot assign task in status "+string(current.Status))
	}

	updated, err := s.repo.AssignTo(taskID, agentID)
	if err != nil {
		return nil, mxerrors.Wrap(mxerrors.StorageFailure, "task.Assign", "failed to persist assignment", err)
	}
	updated, err = s.repo.Update(taskID, func(t *Task) {
		if t.Status == StatePending {
			t.Status = StateAssigned
		}
	})
	if err != nil {
		return nil, mxerrors.Wrap(mxerrors.StorageFailure, "task.Assign", "failed to persist status", err)
	}

	if err := s.dag.OnTaskStatusChanged(updated.ChannelID, updated.ID, updated.Status); err != nil {
		return nil, err
	}

	return &updated, nil
}

// UpdateProgress clamps progress to [0,100] with no status transition.
func (s *Service) UpdateProgress(taskID string, progress int) (*Task, error) {
	updated, err := s.repo.UpdateProgress(taskID, progress)
	if err != nil {
		return nil, mxerrors.Wrap(mxerrors.StorageFailure, "task.UpdateProgress", "failed to persist progress", err)
	}
	return &updated, nil
}

// Delete removes a task and notifies the DAG engine so dependent edges are
// invalidated.
func (s *Service) Delete(taskID string) error {
	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(taskID); err != nil {
		return mxerrors.Wrap(mxerrors.StorageFailure, "task.Delete", "failed to delete task", err)
	}
	return s.dag.OnTaskDeleted(t.ChannelID, taskID)
}
