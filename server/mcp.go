package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"magicmcp"
	"magicmcp/tools"
)

const methodListTools = "tools/list"

// NewMCPServer binds every tool of the provider to a new MCP server.
// Unknown tool names are answered by the SDK.
//
// Tools are registered with an open object schema so every call reaches
// the dispatcher, where arguments are validated, logged and counted. The
// declared schemas are put back into tools/list answers by
// advertiseSchemas.
func NewMCPServer(provider magicmcp.ToolProvider, d *Dispatcher) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: magicmcp.ServerName, Version: magicmcp.Version}, nil)
	srv.AddReceivingMiddleware(advertiseSchemas(provider))

	for _, t := range provider.GetTools() {
		srv.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: &jsonschema.Schema{Type: "object"},
			Annotations: &mcp.ToolAnnotations{Title: t.Title()},
		}, d.toolHandler(t.Name()))
		slog.Info("SETUP: Registered tool", "name", t.Name())
	}
	return srv
}

// advertiseSchemas replaces the open registration schema with the tool's
// declared schema in tools/list results.
func advertiseSchemas(provider magicmcp.ToolProvider) mcp.Middleware[*mcp.ServerSession] {
	return func(next mcp.MethodHandler[*mcp.ServerSession]) mcp.MethodHandler[*mcp.ServerSession] {
		return func(ctx context.Context, ss *mcp.ServerSession, method string, params mcp.Params) (mcp.Result, error) {
			res, err := next(ctx, ss, method, params)
			if err != nil || method != methodListTools {
				return res, err
			}
			list, ok := res.(*mcp.ListToolsResult)
			if !ok || list == nil {
				return res, err
			}

			advertised := *list
			advertised.Tools = make([]*mcp.Tool, 0, len(list.Tools))
			for _, tool := range list.Tools {
				if t, lookupErr := provider.GetTool(tool.Name); lookupErr == nil {
					copied := *tool
					copied.InputSchema = t.InputSchema()
					tool = &copied
				}
				advertised.Tools = append(advertised.Tools, tool)
			}
			return &advertised, nil
		}
	}
}

func (d *Dispatcher) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]any]) (*mcp.CallToolResultFor[any], error) {
		result, err := d.Dispatch(ctx, name, params.Arguments)
		return toCallToolResult(result, err), nil
	}
}

// toCallToolResult maps a tool outcome onto the MCP envelope. Errors become
// a single text block with IsError set, which is how MCP reports tool
// execution failures to the model.
func toCallToolResult(result tools.Result, err error) *mcp.CallToolResultFor[any] {
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}
	}

	content := make([]mcp.Content, 0, len(result.Content))
	for _, c := range result.Content {
		content = append(content, &mcp.TextContent{Text: c.Text})
	}
	return &mcp.CallToolResultFor[any]{Content: content}
}
