// Package tools declares the catalog of CRM tools and dispatches
// invocations to the domain operations. Each tool carries an explicit
// schema used both for catalog listing and for pre-call validation.
package tools

import (
	"context"
	"sort"
)

// ParamType is the semantic type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// Param describes one input parameter: its type, whether it must be
// present, and the default applied when it is absent.
type Param struct {
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Enum        []string
	// Items is the element type for array parameters.
	Items ParamType
}

// Tool represents a callable CRM operation an agent can invoke.
type Tool struct {
	Name        string
	Description string
	Params      map[string]Param
	Execute     func(ctx context.Context, args map[string]any) (any, error)
}

// InputSchema renders the params as a JSON Schema object for catalog
// listings and MCP tool registration.
func (t Tool) InputSchema() map[string]any {
	properties := map[string]any{}
	var required []string

	for name, p := range t.Params {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Type == TypeArray && p.Items != "" {
			prop["items"] = map[string]any{"type": string(p.Items)}
		}
		if p.Type == TypeObject {
			prop["additionalProperties"] = true
		}
		properties[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
