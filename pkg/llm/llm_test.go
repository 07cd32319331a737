package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/llm"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

func TestMergeConsecutiveSystemMessages(t *testing.T) {
	messages := []llm.Message{
		llm.NewTextMessage(llm.RoleSystem, "You are MXF."),
		llm.NewTextMessage(llm.RoleSystem, "Be concise."),
		llm.NewTextMessage(llm.RoleUser, "hello"),
	}

	merged := llm.MergeConsecutiveSystem(messages)

	require.Len(t, merged, 2)
	require.Equal(t, llm.RoleSystem, merged[0].Role)
	require.Contains(t, merged[0].Text(), "You are MXF.")
	require.Contains(t, merged[0].Text(), "Be concise.")
}

func TestCoalesceAdjacentSameRole(t *testing.T) {
	messages := []llm.Message{
		llm.NewTextMessage(llm.RoleUser, "part one"),
		llm.NewTextMessage(llm.RoleUser, "part two"),
		llm.NewTextMessage(llm.RoleAssistant, "reply"),
	}

	coalesced := llm.CoalesceAdjacentSameRole(messages)

	require.Len(t, coalesced, 2)
	require.Equal(t, "part onepart two", coalesced[0].Text())
}

func TestToJSONSchemaMapsTypesAndNesting(t *testing.T) {
	schema := &llm.Schema{
		Type: llm.SchemaObject,
		Properties: map[string]*llm.Schema{
			"count": {Type: llm.SchemaInteger},
			"tags":  {Type: llm.SchemaArray, Items: &llm.Schema{Type: llm.SchemaString}},
		},
		Required: []string{"count"},
	}

	rendered := llm.ToJSONSchema(schema)

	require.Equal(t, "object", rendered["type"])
	props := rendered["properties"].(map[string]any)
	require.Equal(t, "number", props["count"].(map[string]any)["type"])
	tags := props["tags"].(map[string]any)
	require.Equal(t, "array", tags["type"])
	require.Equal(t, "string", tags["items"].(map[string]any)["type"])
	require.Equal(t, []string{"count"}, rendered["required"])
}

func TestEchoProviderRoundTripsLastUserMessage(t *testing.T) {
	p := llm.NewEchoProvider()

	resp, err := p.Send(context.Background(), []llm.Message{
		llm.NewTextMessage(llm.RoleSystem, "sys"),
		llm.NewTextMessage(llm.RoleUser, "what is the status?"),
	}, nil, llm.SendOptions{})

	require.NoError(t, err)
	require.Equal(t, llm.RoleAssistant, resp.Role)
	require.Equal(t, "what is the status?", resp.Text())
	require.Equal(t, llm.StopEndTurn, resp.StopReason)
}

func TestRegistryRejectsDuplicateAndUnknownNames(t *testing.T) {
	reg := llm.NewRegistry()

	require.NoError(t, reg.Register(llm.NewEchoProvider()))
	err := reg.Register(llm.NewEchoProvider())
	require.Error(t, err)
	require.Equal(t, mxerrors.InvalidRequest, mxerrors.KindOf(err))

	_, err = reg.Get("missing")
	require.Error(t, err)
	require.Equal(t, mxerrors.NotFound, mxerrors.KindOf(err))

	p, err := reg.Get("echo")
	require.NoError(t, err)
	require.Equal(t, "echo", p.Name())
}
