package llm

import (
	"context"

	"github.com/google/uuid"
)

// EchoProvider is a deterministic in-process adapter used for tests and as
// the runtime's default registered provider (SPEC_FULL.md §4.9): it never
// touches the network, applies the same conversion pipeline a real adapter
// would, and echoes the last user message's text back as the assistant
// reply.
type EchoProvider struct{}

// NewEchoProvider constructs an EchoProvider.
func NewEchoProvider() *EchoProvider {
	return &EchoProvider{}
}

func (p *EchoProvider) Name() string { return "echo" }

func (p *EchoProvider) Send(ctx context.Context, messages []Message, tools []ToolDefinition, opts SendOptions) (Response, error) {
	converted := CoalesceAdjacentSameRole(MergeConsecutiveSystem(messages))

	lastUserText := ""
	for i := len(converted) - 1; i >= 0; i-- {
		if converted[i].Role == RoleUser {
			lastUserText = converted[i].Text()
			break
		}
	}

	return Response{
		ID:         uuid.NewString(),
		Role:       RoleAssistant,
		Content:    []ContentItem{Text(lastUserText)},
		Model:      "echo-1",
		StopReason: StopEndTurn,
		Usage: Usage{
			Input:  countWords(converted),
			Output: len(lastUserText),
			Total:  countWords(converted) + len(lastUserText),
		},
	}, nil
}

// Text is defined on Response in message.go, reused here via converted
// messages rather than Response.
func (m Message) Text() string {
	out := ""
	for _, item := range m.Content {
		if item.Kind == ContentText {
			out += item.Text
		}
	}
	return out
}

func countWords(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += len(m.Text())
	}
	return n
}
