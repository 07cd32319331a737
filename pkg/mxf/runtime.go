// Package mxf wires every coordination-core component into one runnable
// Runtime: channels/agents, the task lifecycle service, the DAG engine,
// the knowledge graph, the three memory scopes, the ORPAR controller, the
// LLM provider registry, the sandbox runner, and the inbound webhook
// surface. Every dependency is constructed explicitly and threaded through
// NewRuntime; there is no package-level global state, per spec.md §9's
// "Global state" design note.
package mxf

import (
	"log/slog"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/channel"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/contextasm"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/dag"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/kg"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/llm"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxconfig"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/orpar"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/sandbox"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/webhook"
)

// Runtime is the assembled coordination core.
type Runtime struct {
	Config *mxconfig.Config
	Logger *slog.Logger

	Channels *channel.ChannelRepository
	Agents   *channel.AgentRepository

	Tasks *task.Service
	DAG   *dag.Engine

	taskRepo *task.Repository

	Graph *kg.Graph

	AgentMemory        *memstore.AgentMemoryRepository
	ChannelMemory      *memstore.ChannelMemoryRepository
	RelationshipMemory *memstore.RelationshipMemoryRepository

	ORPAR *orpar.Controller

	LLM     *llm.Registry
	Sandbox *sandbox.Runner

	Webhook *webhook.Server
}

// NewRuntime constructs every component from cfg, in dependency order:
// repositories first, then the services/engines built on top of them, then
// the webhook surface that fronts all of it.
func NewRuntime(cfg *mxconfig.Config, logger *slog.Logger, sandboxCommand []string) *Runtime {
	channels := channel.NewChannelRepository()
	agents := channel.NewAgentRepository()

	taskRepo := task.NewRepository()
	dagEngine := dag.NewEngine(taskRepo)
	tasks := task.NewService(taskRepo, dagEngine)

	entities := kg.NewEntityRepository()
	relationships := kg.NewRelationshipRepository()
	graph := kg.NewGraph(entities, relationships)

	agentMemory := memstore.NewAgentMemoryRepository()
	channelMemory := memstore.NewChannelMemoryRepository()
	relationshipMemory := memstore.NewRelationshipMemoryRepository()

	phases := orpar.NewPhaseEntryRepository()
	controller := orpar.NewController(cfg.ORPAR.LoopCeiling, cfg.Utility.Alpha, phases, agentMemory.PatchUtility)

	llmRegistry := llm.NewRegistry()
	_ = llmRegistry.Register(llm.NewEchoProvider())

	sandboxRunner := sandbox.NewRunner(sandboxCommand)

	webhookServer := webhook.NewServer(channels, agents, tasks, channelMemory, "mxfd")

	return &Runtime{
		Config:             cfg,
		Logger:             logger,
		Channels:           channels,
		Agents:             agents,
		Tasks:              tasks,
		DAG:                dagEngine,
		taskRepo:           taskRepo,
		Graph:              graph,
		AgentMemory:        agentMemory,
		ChannelMemory:      channelMemory,
		RelationshipMemory: relationshipMemory,
		ORPAR:              controller,
		LLM:                llmRegistry,
		Sandbox:            sandboxRunner,
		Webhook:            webhookServer,
	}
}

// AssembleContext builds the prompt sequence for agentID's next turn in
// channelID, folding agent memory and knowledge-graph context per
// spec.md §4.8. taskDescription may be empty when the agent has no active
// assignment.
func (rt *Runtime) AssembleContext(agentID, channelID, systemPrompt, taskDescription string, agentCfg contextasm.AgentConfig) ([]contextasm.PromptMessage, error) {
	mem, err := rt.AgentMemory.GetOrCreate(agentID)
	if err != nil {
		return nil, err
	}

	var graphCtx *kg.ContextBundle
	if rt.Config.KG.Enabled {
		bundle, err := rt.Graph.GetGraphContext(channelID, kg.GetGraphContextOptions{
			MaxCentralEntities: rt.Config.KG.MaxEntities,
		})
		if err != nil {
			return nil, err
		}
		graphCtx = &bundle
	}

	ctx := contextasm.AgentContext{
		AgentID:             agentID,
		AgentConfig:         agentCfg,
		SystemPrompt:        systemPrompt,
		ConversationHistory: mem.ConversationHistory,
		CurrentTask:         taskDescription,
	}
	return contextasm.Assemble(ctx, graphCtx), nil
}
