package contextasm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/contextasm"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
)

func TestAssembleExactlyOneSystemMessage(t *testing.T) {
	ctx := contextasm.AgentContext{
		AgentID:      "agent-1",
		AgentConfig:  contextasm.AgentConfig{Purpose: "triage", Capabilities: []string{"read", "write"}},
		SystemPrompt: "You are MXF.",
		ConversationHistory: memstore.History{
			{Role: "user", Content: "hello", ContextLayer: contextasm.LayerConversation},
			{Role: "assistant", Content: "secret plan", ContextLayer: contextasm.LayerAction},
		},
		CurrentTask: "Summarize the incident.",
	}

	messages := contextasm.Assemble(ctx, nil)

	systemCount := 0
	for _, m := range messages {
		if m.Role == contextasm.RoleSystem {
			systemCount++
		}
	}
	require.Equal(t, 1, systemCount)
	require.Equal(t, contextasm.RoleSystem, messages[0].Role)
}

func TestAssembleExcludesActionLayerAndDedupesTask(t *testing.T) {
	ctx := contextasm.AgentContext{
		SystemPrompt: "sys",
		ConversationHistory: memstore.History{
			{Role: "user", Content: "do the task", ContextLayer: contextasm.LayerTask},
			{Role: "assistant", Content: "acting", ContextLayer: contextasm.LayerAction},
		},
		CurrentTask: "do the task",
	}

	messages := contextasm.Assemble(ctx, nil)

	taskCount := 0
	for _, m := range messages {
		if m.Content == "do the task" {
			taskCount++
		}
		require.NotEqual(t, "acting", m.Content)
	}
	require.Equal(t, 1, taskCount)
}

func TestAssembleAppendsRecentActionsLast(t *testing.T) {
	ctx := contextasm.AgentContext{
		SystemPrompt:  "sys",
		RecentActions: []string{"ran tool X", "updated progress to 50%"},
	}

	messages := contextasm.Assemble(ctx, nil)
	last := messages[len(messages)-1]
	require.Contains(t, last.Content, "ran tool X")
}
