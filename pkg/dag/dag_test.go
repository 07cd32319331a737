package dag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/dag"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

func newChannelWithDiamond(t *testing.T) (*task.Repository, *dag.Engine, map[string]string) {
	t.Helper()
	repo := task.NewRepository()
	engine := dag.NewEngine(repo)
	svc := task.NewService(repo, engine)

	a := task.New("x", "A", "", task.PriorityMedium)
	created, err := svc.Create(a)
	require.NoError(t, err)
	ids := map[string]string{"A": created.ID}

	b := task.New("x", "B", "", task.PriorityMedium)
	b.DependsOn = []string{ids["A"]}
	created, err = svc.Create(b)
	require.NoError(t, err)
	ids["B"] = created.ID

	c := task.New("x", "C", "", task.PriorityMedium)
	c.DependsOn = []string{ids["A"]}
	created, err = svc.Create(c)
	require.NoError(t, err)
	ids["C"] = created.ID

	d := task.New("x", "D", "", task.PriorityMedium)
	d.DependsOn = []string{ids["B"], ids["C"]}
	created, err = svc.Create(d)
	require.NoError(t, err)
	ids["D"] = created.ID

	return repo, engine, ids
}

func TestDiamondDAG(t *testing.T) {
	repo, engine, ids := newChannelWithDiamond(t)
	svc := task.NewService(repo, engine)

	ready, err := engine.GetReadyTasks("x", dag.ReadyOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{ids["A"]}, ready)

	order, err := engine.GetExecutionOrder("x", dag.ExecutionOrderOptions{})
	require.NoError(t, err)
	assertBefore(t, order.Order, ids["A"], ids["B"])
	assertBefore(t, order.Order, ids["A"], ids["C"])
	assertBefore(t, order.Order, ids["B"], ids["D"])
	assertBefore(t, order.Order, ids["C"], ids["D"])

	groups, err := engine.GetParallelGroups("x")
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.ElementsMatch(t, []string{ids["A"]}, groups[0])
	assert.ElementsMatch(t, []string{ids["B"], ids["C"]}, groups[1])
	assert.ElementsMatch(t, []string{ids["D"]}, groups[2])

	cp, err := engine.GetCriticalPath("x")
	require.NoError(t, err)
	assert.Equal(t, 3, cp.Length)

	_, err = svc.UpdateStatus(ids["A"], task.StateAssigned, nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ids["A"], task.StateInProgress, nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ids["A"], task.StateCompleted, nil)
	require.NoError(t, err)

	ready, err = engine.GetReadyTasks("x", dag.ReadyOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ids["B"], ids["C"]}, ready)

	for _, id := range []string{ids["B"], ids["C"]} {
		_, err = svc.UpdateStatus(id, task.StateAssigned, nil)
		require.NoError(t, err)
		_, err = svc.UpdateStatus(id, task.StateInProgress, nil)
		require.NoError(t, err)
		_, err = svc.UpdateStatus(id, task.StateCompleted, nil)
		require.NoError(t, err)
	}

	ready, err = engine.GetReadyTasks("x", dag.ReadyOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{ids["D"]}, ready)
}

func assertBefore(t *testing.T, order []string, first, second string) {
	t.Helper()
	fi, si := -1, -1
	for i, id := range order {
		if id == first {
			fi = i
		}
		if id == second {
			si = i
		}
	}
	require.GreaterOrEqual(t, fi, 0)
	require.GreaterOrEqual(t, si, 0)
	assert.Less(t, fi, si)
}

func TestCycleRejection(t *testing.T) {
	repo, engine, ids := newChannelWithDiamond(t)
	svc := task.NewService(repo, engine)

	e := task.New("x", "E", "", task.PriorityMedium)
	e.DependsOn = []string{ids["D"]}
	created, err := svc.Create(e)
	require.NoError(t, err)
	ids["E"] = created.ID

	err = engine.ValidateDependency("x", ids["A"], ids["E"])
	require.Error(t, err)
	assert.True(t, mxerrors.Is(err, mxerrors.CyclicDependency))

	order, err := engine.GetExecutionOrder("x", dag.ExecutionOrderOptions{})
	require.NoError(t, err)
	assert.Len(t, order.Order, 5)
}

func TestValidateDependencySelfDependency(t *testing.T) {
	repo, engine, ids := newChannelWithDiamond(t)
	_ = repo
	err := engine.ValidateDependency("x", ids["A"], ids["A"])
	require.Error(t, err)
	assert.True(t, mxerrors.Is(err, mxerrors.CyclicDependency))
}

func TestGetBlockingTasks(t *testing.T) {
	_, engine, ids := newChannelWithDiamond(t)
	blocking, err := engine.GetBlockingTasks("x", ids["D"])
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ids["B"], ids["C"]}, blocking)
}

func TestGetStats(t *testing.T) {
	_, engine, _ := newChannelWithDiamond(t)
	stats, err := engine.GetStats("x")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, 1, stats.ReadyCount)
	assert.Equal(t, 3, stats.BlockedCount)
	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, 2, stats.ParallelWidth)
}
