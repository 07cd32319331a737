// Package memstore implements the three memory scopes of spec.md §3, §4.7:
// agent memory, channel memory, and relationship memory. Conversation
// history is an append-only ordered list; readers may slice a recent
// window by index. Grounded on the teacher's pkg/memory conversation/event
// history shape, generalized to MXF's three-scope model.
package memstore

import "time"

// Message is one entry in a conversation history (spec.md §3, §4.8).
// ContextLayer tags the message for the context assembler's filtering
// policy ("conversation", "tool-result", "task", "system", "identity",
// "action"); an empty ContextLayer is treated as legacy/untagged.
type Message struct {
	Role         string
	Content      string
	ContextLayer string
	Metadata     map[string]any
	CreatedAt    time.Time
}

// History is an append-only ordered list of messages.
type History []Message

// Append returns a new History with msg appended; readers holding an
// older slice value are unaffected (append-only, snapshot-read friendly
// per spec.md §5).
func (h History) Append(msg Message) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, msg)
}

// Recent returns the last n messages (n<=0 returns the full history).
func (h History) Recent(n int) History {
	if n <= 0 || n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}
