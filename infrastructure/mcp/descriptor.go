package mcp

import (
	"encoding/json"

	"github.com/felixgeelhaar/abn-mcp/domain/tool"
)

// ToolDef is the MCP-facing description of a tool.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Annotations ToolAnnotations `json:"annotations"`
}

// ToolAnnotations are the behavioural hints advertised for a tool.
type ToolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint"`
	IdempotentHint  bool `json:"idempotentHint"`
	DestructiveHint bool `json:"destructiveHint"`
	OpenWorldHint   bool `json:"openWorldHint"`
}

// Hints maps tool annotations onto the MCP behavioural hints.
func Hints(a tool.Annotations) ToolAnnotations {
	return ToolAnnotations{
		ReadOnlyHint:    a.ReadOnly,
		IdempotentHint:  a.Idempotent,
		DestructiveHint: !a.ReadOnly && a.RiskLevel >= tool.RiskHigh,
		OpenWorldHint:   a.OpenWorld,
	}
}

// ToolToDef converts a tool to its MCP definition.
func ToolToDef(t tool.Tool) ToolDef {
	return ToolDef{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.InputSchema().Raw(),
		Annotations: Hints(t.Annotations()),
	}
}

// Definitions returns the MCP definitions of every tool in the registry.
func Definitions(reg tool.Registry) []ToolDef {
	tools := reg.List()
	defs := make([]ToolDef, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToolToDef(t))
	}
	return defs
}
