package sandbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/sandbox"
)

func TestExecuteParsesSuccessfulResponse(t *testing.T) {
	runner := sandbox.NewRunner([]string{"sh", "-c",
		"cat >/dev/null; printf '%s' '{\"success\":true,\"output\":42,\"logs\":[\"started\"],\"executionTimeMs\":5,\"timeout\":false}'"})

	resp, err := runner.Execute(context.Background(), sandbox.Request{
		Code:      "return 42;",
		Language:  sandbox.LanguageJavaScript,
		TimeoutMs: 1000,
		Context:   sandbox.RequestContext{AgentID: "agent-1", ChannelID: "channel-1", RequestID: "req-1"},
	})

	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, float64(42), resp.Output)
	require.Equal(t, []string{"started"}, resp.Logs)
}

func TestExecuteRejectsNonJSONOutputAsSandboxFailure(t *testing.T) {
	runner := sandbox.NewRunner([]string{"sh", "-c", "cat >/dev/null; printf 'not json at all'"})

	_, err := runner.Execute(context.Background(), sandbox.Request{
		Code:      "garbage",
		Language:  sandbox.LanguageJavaScript,
		TimeoutMs: 1000,
	})

	require.Error(t, err)
	require.Equal(t, mxerrors.SandboxFailure, mxerrors.KindOf(err))
}

func TestExecuteRejectsExitCodeSuccessMismatch(t *testing.T) {
	runner := sandbox.NewRunner([]string{"sh", "-c",
		"cat >/dev/null; printf '%s' '{\"success\":true,\"output\":null,\"logs\":[],\"executionTimeMs\":1,\"timeout\":false}'; exit 1"})

	_, err := runner.Execute(context.Background(), sandbox.Request{
		Code:      "throw new Error('boom')",
		Language:  sandbox.LanguageJavaScript,
		TimeoutMs: 1000,
	})

	require.Error(t, err)
	require.Equal(t, mxerrors.SandboxFailure, mxerrors.KindOf(err))
}

func TestExecuteSurfacesTimeout(t *testing.T) {
	runner := sandbox.NewRunner([]string{"sh", "-c", "cat >/dev/null; sleep 2"})

	_, err := runner.Execute(context.Background(), sandbox.Request{
		Code:      "while(true){}",
		Language:  sandbox.LanguageJavaScript,
		TimeoutMs: 50,
	})

	require.Error(t, err)
	require.Equal(t, mxerrors.Timeout, mxerrors.KindOf(err))
}

func TestExecuteRequiresConfiguredCommand(t *testing.T) {
	runner := sandbox.NewRunner(nil)

	_, err := runner.Execute(context.Background(), sandbox.Request{Code: "1+1"})

	require.Error(t, err)
	require.Equal(t, mxerrors.SandboxFailure, mxerrors.KindOf(err))
}
