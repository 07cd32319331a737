package llm

import (
	"context"
)

// SendOptions carries per-request overrides a provider may honor.
type SendOptions struct {
	MaxTokens   int
	Temperature float64
}

// Provider is the capability set spec.md §4.9 and the REDESIGN FLAGS
// section describe: send, convert-messages, convert-tools, parse-response.
// The interface itself exposes only Name and Send; message conversion,
// tool conversion, and response parsing happen inside each adapter's Send.
// Concrete providers are adapters; avoid inheritance beyond one level,
// registered in a map keyed by provider name (grounded on the teacher's
// pkg/llms.LLMProvider interface, trimmed to the conversion contract this
// core actually dispatches through).
type Provider interface {
	// Name is the provider's registry key.
	Name() string

	// Send converts messages/tools into the provider's wire format, issues
	// the request, and normalizes the reply into a Response. Transport
	// failures surface as mxerrors.ProviderUnavailable, schema/validation
	// failures as mxerrors.InvalidRequest, and deadline expiry as
	// mxerrors.Timeout (spec.md §4.9).
	Send(ctx context.Context, messages []Message, tools []ToolDefinition, opts SendOptions) (Response, error)
}
