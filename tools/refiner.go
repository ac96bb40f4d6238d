package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"magicmcp/tools/storage"
)

const RouteRefineUI = "/api/refine-ui"

// ComponentRefiner sends the current content of a component file together
// with the user's feedback and returns an improved version.
type ComponentRefiner struct {
	remote Remote
	files  storage.Reader
}

func NewComponentRefiner(remote Remote, files storage.Reader) *ComponentRefiner {
	return &ComponentRefiner{remote: remote, files: files}
}

func (t *ComponentRefiner) Name() string  { return "21st_magic_component_refiner" }
func (t *ComponentRefiner) Title() string { return "Refine UI Component" }
func (t *ComponentRefiner) Description() string {
	return "Use this tool when the user asks to refine, improve or fix an existing UI component " +
		"(for example with /ui or /21 commands), or when the context is about polishing a small component " +
		"or molecule rather than a whole page. It ONLY returns the refined version of that component based on the user's feedback."
}

func (t *ComponentRefiner) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"userMessage": {
				Type:        "string",
				Description: "Full user's message about UI refinement",
			},
			"absolutePathToRefiningFile": {
				Type:        "string",
				Description: "Absolute path to the file that needs to be refined",
			},
			"context": {
				Type:        "string",
				Description: "What user asks to refactor specifically, hints related to current file/codebase",
			},
		},
		Required: []string{"userMessage", "absolutePathToRefiningFile", "context"},
	}
}

type refineRequest struct {
	UserMessage string `json:"userMessage"`
	FileContent string `json:"fileContent"`
	Context     string `json:"context"`
}

func (t *ComponentRefiner) Run(ctx context.Context, input map[string]any) (Result, error) {
	req := refineRequest{
		UserMessage: stringArg(input, "userMessage"),
		// A missing file still produces a request with empty content.
		FileContent: readBestEffort(ctx, t.files, t.Name(), stringArg(input, "absolutePathToRefiningFile")),
		Context:     stringArg(input, "context"),
	}

	var resp textResponse
	if err := t.remote.Post(ctx, RouteRefineUI, req, &resp); err != nil {
		return Result{}, fmt.Errorf("refine ui: %w", err)
	}
	return TextResult(resp.Text), nil
}
