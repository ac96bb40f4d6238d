package magicmcp

import (
	"context"

	"magicmcp/tools"
)

// ToolProvider is what the dispatcher needs from a tool registry.
type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
	Call(ctx context.Context, name string, args map[string]any) (tools.Result, error)
}
