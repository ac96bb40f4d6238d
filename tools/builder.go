package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"magicmcp/tools/storage"
)

const RouteCreateUI = "/api/create-ui"

// UILibraries are the component libraries the builder can target.
var UILibraries = []any{"shadcn", "radix", "tailwind", "mui", "chakra", "mantine"}

// ComponentBuilder generates a new UI component. When a search query is
// given it first searches the component library and folds the matches into
// the generation request.
type ComponentBuilder struct {
	remote Remote
	files  storage.Reader
}

func NewComponentBuilder(remote Remote, files storage.Reader) *ComponentBuilder {
	return &ComponentBuilder{remote: remote, files: files}
}

func (t *ComponentBuilder) Name() string  { return "21st_magic_component_builder" }
func (t *ComponentBuilder) Title() string { return "Build UI Component" }
func (t *ComponentBuilder) Description() string {
	return "Use this tool when the user requests a new UI component, e.g. mentions /ui, /21 or /21st, or asks for a " +
		"button, input, dialog, table, form, banner, card or other React component. It ONLY returns the text snippet " +
		"for that component; integrate the snippet into the codebase afterwards."
}

func (t *ComponentBuilder) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"message": {
				Type:        "string",
				Description: "Full user's message describing the feature or component",
			},
			"searchQuery": {
				Type:        "string",
				Description: "Optional two to four word query used to search 21st.dev for similar components before generating",
			},
			"uiLibrary": {
				Type:        "string",
				Description: "Optional component library the generated code should use",
				Enum:        UILibraries,
			},
			"absolutePathToCurrentFile": {
				Type:        "string",
				Description: "Optional absolute path to the file the component will be added to",
			},
		},
		Required: []string{"message"},
	}
}

type createRequest struct {
	Message     string `json:"message"`
	SearchQuery string `json:"searchQuery,omitempty"`
	UILibrary   string `json:"uiLibrary,omitempty"`
	FileContent string `json:"fileContent"`
	Inspiration string `json:"inspiration,omitempty"`
}

func (t *ComponentBuilder) Run(ctx context.Context, input map[string]any) (Result, error) {
	req := createRequest{
		Message:     stringArg(input, "message"),
		SearchQuery: stringArg(input, "searchQuery"),
		UILibrary:   stringArg(input, "uiLibrary"),
		FileContent: readBestEffort(ctx, t.files, t.Name(), stringArg(input, "absolutePathToCurrentFile")),
	}

	if req.SearchQuery != "" {
		inspiration, err := fetchUI(ctx, t.remote, req.Message, req.SearchQuery)
		if err != nil {
			return Result{}, fmt.Errorf("create ui search step: %w", err)
		}
		slog.Debug("TOOL: Search step folded into request", "tool", t.Name(), "inspiration_bytes", len(inspiration))
		req.Inspiration = inspiration
	}

	var resp textResponse
	if err := t.remote.Post(ctx, RouteCreateUI, req, &resp); err != nil {
		return Result{}, fmt.Errorf("create ui: %w", err)
	}
	return TextResult(resp.Text), nil
}
