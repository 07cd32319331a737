// Package llm implements the provider-agnostic LLM dispatch pipeline of
// spec.md §4.9: a common message/tool/response schema, a per-provider
// conversion contract, and a registry of adapters keyed by provider name,
// grounded on the teacher's pkg/llms package (its LLMProvider interface
// shape and pkg/registry.BaseRegistry-backed LLMRegistry).
package llm

// Role is a message's position in the conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentKind identifies the shape of one ContentItem.
type ContentKind string

const (
	ContentText       ContentKind = "text"
	ContentImage      ContentKind = "image"
	ContentToolUse    ContentKind = "tool_use"
	ContentToolResult ContentKind = "tool_result"
)

// ContentItem is one typed piece of a message's content (spec.md §4.9).
type ContentItem struct {
	Kind ContentKind

	// Text is populated for ContentText.
	Text string

	// ImageURL/ImageMIMEType are populated for ContentImage.
	ImageURL      string
	ImageMIMEType string

	// ToolUseID/ToolName/ToolInput are populated for ContentToolUse.
	ToolUseID string
	ToolName  string
	ToolInput map[string]any

	// ToolResultID/ToolResultContent/ToolResultIsError are populated for
	// ContentToolResult; ToolResultID must round-trip the ToolUseID the
	// core generated for the corresponding ContentToolUse item.
	ToolResultID      string
	ToolResultContent string
	ToolResultIsError bool
}

// Text builds a single-text-item ContentItem.
func Text(s string) ContentItem {
	return ContentItem{Kind: ContentText, Text: s}
}

// Message is one turn in a conversation (spec.md §4.9).
type Message struct {
	Role    Role
	Content []ContentItem
}

// NewTextMessage builds a Message with a single text content item.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []ContentItem{Text(text)}}
}

// SchemaType is the JSON-Schema-like type vocabulary spec.md §4.9 requires
// tool input schemas to support.
type SchemaType string

const (
	SchemaObject  SchemaType = "object"
	SchemaArray   SchemaType = "array"
	SchemaString  SchemaType = "string"
	SchemaNumber  SchemaType = "number"
	SchemaInteger SchemaType = "integer"
	SchemaBoolean SchemaType = "boolean"
)

// Schema is a JSON-Schema-like tree (spec.md §4.9): object/array/string/
// number/integer/boolean with required fields and enum passthrough.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema // for SchemaObject
	Required    []string           // for SchemaObject
	Items       *Schema            // for SchemaArray
	Enum        []string           // passthrough, any type
}

// ToolDefinition is one tool the dispatcher may offer a provider
// (spec.md §4.9).
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *Schema
}

// ToolCall is a normalized tool invocation requested by a provider
// response.
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]any
}

// Usage is the normalized token accounting spec.md §4.9 requires every
// response to carry.
type Usage struct {
	Input  int
	Output int
	Total  int
}

// StopReason enumerates why a provider stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
	StopSequence  StopReason = "stop_sequence"
)

// Response is the normalized shape every adapter must produce
// (spec.md §4.9).
type Response struct {
	ID           string
	Role         Role
	Content      []ContentItem
	Model        string
	StopReason   StopReason
	StopSequence string
	Usage        Usage
}

// ToolCalls extracts every ContentToolUse item from r as ToolCalls.
func (r Response) ToolCalls() []ToolCall {
	calls := make([]ToolCall, 0)
	for _, item := range r.Content {
		if item.Kind == ContentToolUse {
			calls = append(calls, ToolCall{ID: item.ToolUseID, Name: item.ToolName, Input: item.ToolInput})
		}
	}
	return calls
}

// Text concatenates every ContentText item in r.
func (r Response) Text() string {
	out := ""
	for _, item := range r.Content {
		if item.Kind == ContentText {
			out += item.Text
		}
	}
	return out
}
