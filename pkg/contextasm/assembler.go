// Package contextasm builds the linear prompt message sequence an agent's
// LLM turn is dispatched with (spec.md §4.8). Grounded on the teacher's
// pkg/agent/history buffer-window strategy for the shape of an ordered
// message list, generalized to the spec's exact four-step assembly policy.
package contextasm

import (
	"strings"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/kg"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
)

// Role is a message's role in the assembled prompt sequence.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContextLayer values the filtering policy in step 2 acts on.
const (
	LayerConversation = "conversation"
	LayerToolResult   = "tool-result"
	LayerTask         = "task"
	LayerSystem       = "system"
	LayerIdentity     = "identity"
	LayerAction       = "action"
)

var excludedLayers = map[string]bool{
	LayerSystem:   true,
	LayerIdentity: true,
	LayerAction:   true,
}

// PromptMessage is one entry in the assembled sequence.
type PromptMessage struct {
	Role    Role
	Content string
}

// AgentConfig is the subset of an agent's configuration the system message
// quotes (spec.md §4.8).
type AgentConfig struct {
	Purpose      string
	Capabilities []string
}

// AgentContext is the input to Assemble.
type AgentContext struct {
	AgentID             string
	AgentConfig         AgentConfig
	SystemPrompt        string
	ConversationHistory memstore.History
	CurrentTask         string // task description; empty means "not provided"
	RecentActions       []string
}

// Assemble builds the ordered message sequence per spec.md §4.8's exact
// policy: one system message, then filtered history, then an optional
// task message (deduped against any already-materialized task message),
// then an optional recent-actions summary.
func Assemble(ctx AgentContext, graphCtx *kg.ContextBundle) []PromptMessage {
	messages := []PromptMessage{systemMessage(ctx, graphCtx)}

	hasTaskMessage := false
	for _, msg := range ctx.ConversationHistory {
		layer := msg.ContextLayer
		if excludedLayers[layer] {
			continue
		}
		// legacy untagged non-system messages are included (spec.md §4.8 step 2)
		if layer == "" && msg.Role == "system" {
			continue
		}
		if layer != ""&& layer != LayerConversation && layer != LayerToolResult && layer != LayerTask {
			continue
		}
		if layer == LayerTask {
			hasTaskMessage = true
		}
		messages = append(messages, PromptMessage{Role: roleFor(msg.Role), Content: msg.Content})
	}

	if ctx.CurrentTask != "" && !hasTaskMessage {
		messages = append(messages, PromptMessage{Role: RoleUser, Content: ctx.CurrentTask})
	}

	if len(ctx.RecentActions) > 0 {
		messages = append(messages, PromptMessage{
			Role:    RoleUser,
			Content: "Recent actions:\n" + strings.Join(ctx.RecentActions, "\n"),
		})
	}

	return messages
}

// systemMessage composes the single system message: framework prompt, the
// Agent Identity block, and (if supplied) a summary of the knowledge-graph
// context bundle. Folding the graph context into the system message rather
// than a separate message preserves the "exactly one system message"
// invariant spec.md §8 requires.
func systemMessage(ctx AgentContext, graphCtx *kg.ContextBundle) PromptMessage {
	var b strings.Builder
	b.WriteString(ctx.SystemPrompt)
	b.WriteString("\n\nAgent Identity:\n")
	b.WriteString("Purpose: " + ctx.AgentConfig.Purpose + "\n")
	b.WriteString("Agent ID: " + ctx.AgentID + "\n")
	b.WriteString("Capabilities: " + strings.Join(ctx.AgentConfig.Capabilities, ", "))

	if graphCtx != nil && (len(graphCtx.CentralEntities) > 0 || len(graphCtx.RelatedEntities) > 0) {
		b.WriteString("\n\nKnowledge Graph Context:\n")
		for _, e := range graphCtx.CentralEntities {
			b.WriteString("- " + e.Name + " (" + string(e.Type) + ")\n")
		}
		for _, e := range graphCtx.RelatedEntities {
			b.WriteString("- " + e.Name + " (" + string(e.Type) + ")\n")
		}
	}

	return PromptMessage{Role: RoleSystem, Content: b.String()}
}

func roleFor(role string) Role {
	switch role {
	case "assistant":
		return RoleAssistant
	case "system":
		return RoleSystem
	default:
		return RoleUser
	}
}
