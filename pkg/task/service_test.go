package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

type fakeDAG struct {
	cycleOn      map[string]bool // "dependent->dependency" keys forced to cycle
	createCalls  []string
	statusCalls  []task.State
	deleteCalls  []string
}

func newFakeDAG() *fakeDAG { return &fakeDAG{cycleOn: make(map[string]bool)} }

func (f *fakeDAG) ValidateDependency(channelID, dependentID, dependencyID string) error {
	if f.cycleOn[dependentID+"->"+dependencyID] {
		return mxerrors.New(mxerrors.CyclicDependency, "dag.ValidateDependency", "cycle")
	}
	return nil
}

func (f *fakeDAG) OnTaskCreated(channelID, taskID string) error {
	f.createCalls = append(f.createCalls, taskID)
	return nil
}

func (f *fakeDAG) OnTaskStatusChanged(channelID, taskID string, newStatus task.State) error {
	f.statusCalls = append(f.statusCalls, newStatus)
	return nil
}

func (f *fakeDAG) OnTaskDeleted(channelID, taskID string) error {
	f.deleteCalls = append(f.deleteCalls, taskID)
	return nil
}

func TestService_CreateValidatesDependency(t *testing.T) {
	repo := task.NewRepository()
	dag := newFakeDAG()
	svc := task.NewService(repo, dag)

	a := task.New("c1", "A", "", task.PriorityMedium)
	_, err := svc.Create(a)
	require.NoError(t, err)

	b := task.New("c1", "B", "", task.PriorityMedium)
	b.DependsOn = []string{a.ID}
	_, err = svc.Create(b)
	require.NoError(t, err)
	assert.Contains(t, dag.createCalls, b.ID)

	missing := task.New("c1", "C", "", task.PriorityMedium)
	missing.DependsOn = []string{"does-not-exist"}
	_, err = svc.Create(missing)
	assert.True(t, mxerrors.Is(err, mxerrors.InvalidDependency))
}

func TestService_CreateRejectsCrossChannelDependency(t *testing.T) {
	repo := task.NewRepository()
	dag := newFakeDAG()
	svc := task.NewService(repo, dag)

	a := task.New("c1", "A", "", task.PriorityMedium)
	_, err := svc.Create(a)
	require.NoError(t, err)

	b := task.New("c2", "B", "", task.PriorityMedium)
	b.DependsOn = []string{a.ID}
	_, err = svc.Create(b)
	assert.True(t, mxerrors.Is(err, mxerrors.InvalidDependency))
}

func TestService_UpdateStatusTransitions(t *testing.T) {
	repo := task.NewRepository()
	dag := newFakeDAG()
	svc := task.NewService(repo, dag)

	a := task.New("c1", "A", "", task.PriorityMedium)
	_, err := svc.Create(a)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(a.ID, task.StateInProgress, nil)
	assert.True(t, mxerrors.Is(err, mxerrors.InvalidTransition), "pending cannot jump straight to in_progress")

	_, err = svc.Assign(a.ID, "agent-1")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(a.ID, task.StateInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, task.StateInProgress, updated.Status)

	completed, err := svc.UpdateStatus(a.ID, task.StateCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, completed.Progress)

	_, err = svc.UpdateStatus(a.ID, task.StateFailed, nil)
	assert.True(t, mxerrors.Is(err, mxerrors.InvalidTransition), "terminal states cannot transition again")
}

func TestService_PendingCanJumpToCancelled(t *testing.T) {
	repo := task.NewRepository()
	dag := newFakeDAG()
	svc := task.NewService(repo, dag)

	a := task.New("c1", "A", "", task.PriorityMedium)
	_, err := svc.Create(a)
	require.NoError(t, err)

	cancelled, err := svc.UpdateStatus(a.ID, task.StateCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, task.StateCancelled, cancelled.Status)
}

func TestService_AssignIsIdempotent(t *testing.T) {
	repo := task.NewRepository()
	dag := newFakeDAG()
	svc := task.NewService(repo, dag)

	a := task.New("c1", "A", "", task.PriorityMedium)
	_, err := svc.Create(a)
	require.NoError(t, err)

	_, err = svc.Assign(a.ID, "agent-1")
	require.NoError(t, err)
	again, err := svc.Assign(a.ID, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", again.Assignment.AssignedAgentID)
}

func TestService_DeleteNotifiesDAG(t *testing.T) {
	repo := task.NewRepository()
	dag := newFakeDAG()
	svc := task.NewService(repo, dag)

	a := task.New("c1", "A", "", task.PriorityMedium)
	_, err := svc.Create(a)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(a.ID))
	assert.Contains(t, dag.deleteCalls, a.ID)

	_, err = repo.FindByID(a.ID)
	assert.True(t, mxerrors.Is(err, mxerrors.NotFound))
}
