package tools

import (
	"context"
	"encoding/json"
)

// Tool is one callable capability exposed to the chat orchestrator. The input
// schema is plain JSON Schema; Call receives the raw arguments object and
// returns a structured, JSON-serializable result.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Call        func(ctx context.Context, args json.RawMessage) (any, error)
}

// Registry holds the tool catalog exposed over the dispatch endpoint.
type Registry struct {
	tools []Tool
}

// NewRegistry creates a registry from a fixed tool list.
func NewRegistry(tools []Tool) *Registry {
	return &Registry{tools: tools}
}

// List returns the catalog in registration order.
func (r *Registry) List() []Tool {
	return r.tools
}

// Find returns the named tool, or nil when it does not exist.
func (r *Registry) Find(name string) *Tool {
	for i := range r.tools {
		if r.tools[i].Name == name {
			return &r.tools[i]
		}
	}
	return nil
}

// Schema helpers shared by the tool catalog.

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func enumProp(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}
