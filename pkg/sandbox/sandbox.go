// Package sandbox implements the core's client side of the isolated JS/TS
// execution contract (spec.md §4.10): it invokes an external process over
// a framed JSON-over-stdio protocol, races the call against a timeout, and
// normalizes every failure shape (malformed output, exit-code mismatch,
// timeout) into mxerrors.SandboxFailure / mxerrors.Timeout. Process
// invocation is grounded on the teacher's pkg/tools/command.go
// (os/exec.CommandContext + CombinedOutput under a context timeout); the
// isolation guarantees themselves (no network egress, read-only root
// filesystem, dropped capabilities, resource limits) are the responsibility
// of the external executor process, not this client.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// Language is the snippet's source language.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

// RequestContext is the ambient metadata passed alongside a snippet
// (spec.md §4.10).
type RequestContext struct {
	AgentID   string `json:"agentId"`
	ChannelID string `json:"channelId"`
	RequestID string `json:"requestId"`
}

// Request is the single JSON object written to the executor's stdin.
type Request struct {
	Code      string         `json:"code"`
	Language  Language       `json:"language"`
	TimeoutMs int64          `json:"timeoutMs"`
	Context   RequestContext `json:"context"`
}

// Response is the single JSON object the executor writes to stdout.
type Response struct {
	Success       bool     `json:"success"`
	Output        any      `json:"output"`
	Logs          []string `json:"logs"`
	ExecutionTime int64    `json:"executionTimeMs"`
	Error         string   `json:"error,omitempty"`
	Timeout       bool     `json:"timeout"`
}

// Runner invokes the external sandbox executor. Command is the executable
// and fixed arguments (e.g. ["node", "sandbox-runner.js"]); one instance
// is reused across calls.
type Runner struct {
	Command []string
}

// NewRunner constructs a Runner invoking command for every Execute call.
func NewRunner(command []string) *Runner {
	return &Runner{Command: command}
}

// Execute sends req to the executor over stdin, reads its single stdout
// JSON object, and races the whole exchange against req.TimeoutMs (with a
// small grace period for process teardown). A non-JSON response body or a
// nonzero exit code that did not itself report timeout=true is
// SandboxFailure; exceeding the deadline is Timeout.
func (r *Runner) Execute(ctx context.Context, req Request) (Response, error) {
	if len(r.Command) == 0 {
		return Response{}, mxerrors.New(mxerrors.SandboxFailure, "sandbox.Execute", "no executor command configured")
	}

	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout+500*time.Millisecond)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, mxerrors.Wrap(mxerrors.InvalidRequest, "sandbox.Execute", "failed to encode request", err)
	}

	cmd := exec.CommandContext(execCtx, r.Command[0], r.Command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)

	start := time.Now()
	out, runErr := cmd.Output()
	elapsed := time.Since(start)

	if execCtx.Err() == context.DeadlineExceeded {
		return Response{}, mxerrors.New(mxerrors.Timeout, "sandbox.Execute", "sandbox execution exceeded deadline")
	}

	var resp Response
	if decodeErr := json.Unmarshal(bytes.TrimSpace(out), &resp); decodeErr != nil {
		return Response{}, mxerrors.Wrap(mxerrors.SandboxFailure, "sandbox.Execute",
			"executor did not emit a single JSON object on stdout", decodeErr)
	}

	if resp.Timeout {
		return resp, mxerrors.New(mxerrors.Timeout, "sandbox.Execute", "executor reported timeout")
	}

	exitOK := runErr == nil
	if exitOK != resp.Success {
		return resp, mxerrors.New(mxerrors.SandboxFailure, "sandbox.Execute",
			"executor exit code did not match reported success")
	}
	if runErr != nil && !resp.Success {
		return resp, mxerrors.Wrap(mxerrors.SandboxFailure, "sandbox.Execute", resp.Error, runErr)
	}

	if resp.ExecutionTime == 0 {
		resp.ExecutionTime = elapsed.Milliseconds()
	}

	return resp, nil
}
