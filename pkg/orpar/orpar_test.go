package orpar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/orpar"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

func noopPatch(id string, mutate func(*utility.Record)) error {
	r := utility.New()
	mutate(&r)
	return nil
}

func TestStartLoopEnforcesAdmissionCeiling(t *testing.T) {
	phases := orpar.NewPhaseEntryRepository()
	ctrl := orpar.NewController(2, 0.1, phases, noopPatch)

	_, err := ctrl.StartLoop("agent-1", "channel-1", "seed-1")
	require.NoError(t, err)
	_, err = ctrl.StartLoop("agent-2", "channel-1", "seed-2")
	require.NoError(t, err)
	require.Equal(t, 2, ctrl.ActiveLoops())

	_, err = ctrl.StartLoop("agent-3", "channel-1", "seed-3")
	require.Error(t, err)
	require.Equal(t, mxerrors.InvalidRequest, mxerrors.KindOf(err))
	require.Equal(t, 2, ctrl.ActiveLoops())
}

func TestStartLoopRejectsDuplicateKey(t *testing.T) {
	phases := orpar.NewPhaseEntryRepository()
	ctrl := orpar.NewController(5, 0.1, phases, noopPatch)

	_, err := ctrl.StartLoop("agent-1", "channel-1", "seed")
	require.NoError(t, err)

	_, err = ctrl.StartLoop("agent-1", "channel-1", "seed again")
	require.Error(t, err)
	require.Equal(t, mxerrors.InvalidRequest, mxerrors.KindOf(err))
}

func TestAdvanceIsLinearAndRecordsEveryPhaseExceptAct(t *testing.T) {
	phases := orpar.NewPhaseEntryRepository()
	ctrl := orpar.NewController(5, 0.1, phases, noopPatch)

	status, err := ctrl.StartLoop("agent-1", "channel-1", "observed X")
	require.NoError(t, err)
	require.Equal(t, orpar.StageObservation, status.Stage)

	status, err = ctrl.Advance("agent-1", "channel-1", orpar.PhaseResult{Content: "reasoning about X"}, true)
	require.NoError(t, err)
	require.Equal(t, orpar.StageReasoning, status.Stage)

	status, err = ctrl.Advance("agent-1", "channel-1", orpar.PhaseResult{Content: "plan to do Y"}, true)
	require.NoError(t, err)
	require.Equal(t, orpar.StagePlan, status.Stage)

	status, err = ctrl.Advance("agent-1", "channel-1", orpar.PhaseResult{Content: "acted"}, true)
	require.NoError(t, err)
	require.Equal(t, orpar.StageAct, status.Stage)

	status, err = ctrl.Advance("agent-1", "channel-1", orpar.PhaseResult{Content: "reflected on Y"}, true)
	require.NoError(t, err)
	require.Equal(t, orpar.StageReflection, status.Stage)

	status, err = ctrl.Advance("agent-1", "channel-1", orpar.PhaseResult{NextObservationSeed: "next cycle seed"}, true)
	require.NoError(t, err)
	require.Equal(t, orpar.StageObservation, status.Stage)
	require.Equal(t, 2, status.CycleCount)

	entries, err := phases.ForAgentChannel("agent-1", "channel-1")
	require.NoError(t, err)
	require.Len(t, entries, 5)
	require.Equal(t, "next cycle seed", entries[4].Content)
	for _, e := range entries {
		require.NotEqual(t, "acted", e.Content)
	}
}

func TestStopLoopDecrementsActiveLoopsByOne(t *testing.T) {
	phases := orpar.NewPhaseEntryRepository()
	ctrl := orpar.NewController(5, 0.1, phases, noopPatch)

	_, err := ctrl.StartLoop("agent-1", "channel-1", "seed")
	require.NoError(t, err)
	_, err = ctrl.StartLoop("agent-2", "channel-1", "seed")
	require.NoError(t, err)
	require.Equal(t, 2, ctrl.ActiveLoops())

	status, err := ctrl.StopLoop("agent-1", "channel-1", "user requested stop")
	require.NoError(t, err)
	require.False(t, status.Active)
	require.Equal(t, 1, ctrl.ActiveLoops())

	_, err = ctrl.Advance("agent-1", "channel-1", orpar.PhaseResult{Content: "too late"}, true)
	require.Error(t, err)
}

func TestAdvanceManyRunsConcurrently(t *testing.T) {
	phases := orpar.NewPhaseEntryRepository()
	ctrl := orpar.NewController(10, 0.1, phases, noopPatch)

	for i := 0; i < 3; i++ {
		_, err := ctrl.StartLoop(
			[]string{"agent-a", "agent-b", "agent-c"}[i],
			"channel-1",
			"seed",
		)
		require.NoError(t, err)
	}

	outcomes := ctrl.AdvanceMany(context.Background(), []orpar.AdvanceRequest{
		{AgentID: "agent-a", ChannelID: "channel-1", Result: orpar.PhaseResult{Content: "r-a"}, Success: true},
		{AgentID: "agent-b", ChannelID: "channel-1", Result: orpar.PhaseResult{Content: "r-b"}, Success: true},
		{AgentID: "agent-c", ChannelID: "channel-1", Result: orpar.PhaseResult{Content: "r-c"}, Success: false},
	})

	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		require.Equal(t, orpar.StageReasoning, o.Status.Stage)
	}
}
