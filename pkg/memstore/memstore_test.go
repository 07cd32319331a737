package memstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
)

func TestRelationshipMemoryNormalizesPairOrder(t *testing.T) {
	repo := memstore.NewRelationshipMemoryRepository()

	_, err := repo.AppendInteraction("agent-b", "agent-a", memstore.Message{Role: "user", Content: "hi"})
	require.NoError(t, err)

	m, err := repo.GetOrCreate("agent-a", "agent-b")
	require.NoError(t, err)
	require.Equal(t, "agent-a", m.AgentID1)
	require.Equal(t, "agent-b", m.AgentID2)
	require.Len(t, m.InteractionHistory, 1)
}

func TestHistoryAppendDoesNotMutatePriorSnapshot(t *testing.T) {
	var h memstore.History
	h = h.Append(memstore.Message{Role: "user", Content: "one"})
	snapshot := h
	h = h.Append(memstore.Message{Role: "assistant", Content: "two"})

	require.Len(t, snapshot, 1)
	require.Len(t, h, 2)
}

func TestAgentStatsRollup(t *testing.T) {
	repo := memstore.NewAgentMemoryRepository()
	_, err := repo.GetOrCreate("agent-1")
	require.NoError(t, err)
	_, err = repo.Update("agent-1", func(m *memstore.AgentMemory) { m.Utility.QValue = 0.8 })
	require.NoError(t, err)

	stats, err := memstore.AgentStats(repo)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Count)
	require.InDelta(t, 0.8, stats.AvgQValue, 1e-9)
}
