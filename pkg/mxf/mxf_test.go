package mxf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/channel"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/contextasm"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxconfig"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxf"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
)

func newTestRuntime(t *testing.T) *mxf.Runtime {
	t.Helper()
	cfg := &mxconfig.Config{}
	cfg.SetDefaults()
	return mxf.NewRuntime(cfg, nil, nil)
}

func TestNewRuntimeWiresEveryComponent(t *testing.T) {
	rt := newTestRuntime(t)

	require.NotNil(t, rt.Channels)
	require.NotNil(t, rt.Agents)
	require.NotNil(t, rt.Tasks)
	require.NotNil(t, rt.DAG)
	require.NotNil(t, rt.Graph)
	require.NotNil(t, rt.AgentMemory)
	require.NotNil(t, rt.ChannelMemory)
	require.NotNil(t, rt.RelationshipMemory)
	require.NotNil(t, rt.ORPAR)
	require.NotNil(t, rt.LLM)
	require.NotNil(t, rt.Sandbox)
	require.NotNil(t, rt.Webhook)

	p, err := rt.LLM.Get("echo")
	require.NoError(t, err)
	require.Equal(t, "echo", p.Name())
}

func TestScheduleTickStartsLoopForReadyAssignedTask(t *testing.T) {
	rt := newTestRuntime(t)

	ch, err := rt.Channels.Create(*channel.New("ops"))
	require.NoError(t, err)

	agent, err := channel.NewAgent("on-call-bot", channel.RoleConsumer, "system")
	require.NoError(t, err)
	created, err := rt.Agents.Create(*agent)
	require.NoError(t, err)

	newTask := task.New(ch.ID, "page on-call", "investigate alert", task.PriorityHigh)
	newTask.Assignment = task.Assignment{AssignedAgentID: created.ID}
	_, err = rt.Tasks.Create(newTask)
	require.NoError(t, err)

	require.NoError(t, rt.ScheduleTick())

	status, err := rt.ORPAR.Status(created.ID, ch.ID)
	require.NoError(t, err)
	require.True(t, status.Active)
}

func TestAssembleContextReturnsOneSystemMessage(t *testing.T) {
	rt := newTestRuntime(t)

	messages, err := rt.AssembleContext("agent-1", "channel-1", "You are MXF.", "", contextasm.AgentConfig{
		Purpose:      "triage",
		Capabilities: []string{"read"},
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(messages), 1)
	require.Equal(t, contextasm.RoleSystem, messages[0].Role)
}
