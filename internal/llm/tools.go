package llm

import (
	"context"
	"sort"
)

// ToolHandler executes one tool call. args is the decoded argument object.
// The returned value is JSON-encoded and handed back to the model.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a definition offered to the model with its handler.
type Tool struct {
	Def     ToolDef
	Handler ToolHandler
}

// Toolbox is the registry of tools a conversation may call. It is built
// once at startup and read concurrently afterwards.
type Toolbox struct {
	tools map[string]Tool
}

// NewToolbox registers tools by name. A later tool with the same name
// replaces an earlier one.
func NewToolbox(tools ...Tool) *Toolbox {
	b := &Toolbox{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		b.tools[t.Def.Name] = t
	}
	return b
}

// Lookup finds a tool by name.
func (b *Toolbox) Lookup(name string) (Tool, bool) {
	if b == nil {
		return Tool{}, false
	}
	t, ok := b.tools[name]
	return t, ok
}

// Defs lists the registered definitions sorted by name.
func (b *Toolbox) Defs() []ToolDef {
	if b == nil || len(b.tools) == 0 {
		return nil
	}
	defs := make([]ToolDef, 0, len(b.tools))
	for _, t := range b.tools {
		defs = append(defs, t.Def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Len reports how many tools are registered.
func (b *Toolbox) Len() int {
	if b == nil {
		return 0
	}
	return len(b.tools)
}
