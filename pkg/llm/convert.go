package llm

// MergeConsecutiveSystem merges every run of consecutive system messages
// into one, inserting a "\n" text item between their contents, for providers
// that accept at most a single system message (spec.md §4.9).
func MergeConsecutiveSystem(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem && len(out) > 0 && out[len(out)-1].Role == RoleSystem {
			last := &out[len(out)-1]
			last.Content = append(last.Content, Text("\n"))
			last.Content = append(last.Content, m.Content...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// CoalesceAdjacentSameRole merges every run of adjacent messages sharing a
// role into one message whose content is their concatenation, for
// providers requiring strict role alternation (spec.md §4.9).
func CoalesceAdjacentSameRole(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if len(out) > 0 && out[len(out)-1].Role == m.Role {
			last := &out[len(out)-1]
			last.Content = append(last.Content, m.Content...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// schemaTypeMap translates the internal SchemaType vocabulary to the
// provider-facing type enum spec.md §4.9 names: object/array/string/
// number/boolean, plus enum passthrough. SchemaInteger maps to "number"
// for providers (like most JSON Schema consumers) that do not distinguish
// integer from number at the wire level; adapters needing the distinction
// can special-case SchemaInteger before calling this.
func schemaTypeMap(t SchemaType) string {
	switch t {
	case SchemaInteger:
		return "number"
	default:
		return string(t)
	}
}

// ToJSONSchema renders s as a map matching the JSON Schema wire shape
// providers expect for tool input schemas (spec.md §4.9).
func ToJSONSchema(s *Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": schemaTypeMap(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	switch s.Type {
	case SchemaObject:
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = ToJSONSchema(prop)
		}
		out["properties"] = props
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
	case SchemaArray:
		if s.Items != nil {
			out["items"] = ToJSONSchema(s.Items)
		}
	}
	return out
}

// ToolsToJSONSchema renders every tool's InputSchema for a provider payload
// keyed by {name, description, inputSchema} per spec.md §4.9.
func ToolsToJSONSchema(tools []ToolDefinition) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": ToJSONSchema(t.InputSchema),
		})
	}
	return out
}
