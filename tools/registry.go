package tools

import (
	"context"
	"errors"
	"fmt"

	"magicmcp/tools/schema"
	"magicmcp/tools/storage"
)

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrDuplicateTool = errors.New("duplicate tool name")
)

// Registry maps tool names to implementations, keeping registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools. A repeated name is
// a startup error.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewMagicTools returns every tool backed by the 21st.dev service.
func NewMagicTools(remote Remote, files storage.Reader) []Tool {
	return []Tool{
		NewComponentBuilder(remote, files),
		NewLogoSearch(remote),
		NewComponentInspiration(remote),
		NewComponentRefiner(remote, files),
	}
}

// Register adds a tool; names must be unique.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.New("register: nil tool")
	}
	name := t.Name()
	if name == "" {
		return errors.New("register: tool has empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateTool)
	}
	if t.InputSchema() == nil {
		return fmt.Errorf("register %q: nil input schema", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// GetTools returns all tools in registration order
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r *Registry) GetTool(name string) (Tool, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool %q: %w", name, ErrUnknownTool)
	}
	return tool, nil
}

// Call validates args against the tool's schema and runs it. Invalid input
// never reaches Run, so no remote request is made for it.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (Result, error) {
	tool, err := r.GetTool(name)
	if err != nil {
		return Result{}, err
	}
	input, err := schema.Validate(tool.InputSchema(), args)
	if err != nil {
		return Result{}, err
	}
	return tool.Run(ctx, input)
}
