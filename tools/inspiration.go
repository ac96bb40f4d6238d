package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

const RouteFetchUI = "/api/fetch-ui"

// ComponentInspiration searches the 21st.dev component library and returns
// matching components without generating new code.
type ComponentInspiration struct {
	remote Remote
}

func NewComponentInspiration(remote Remote) *ComponentInspiration {
	return &ComponentInspiration{remote: remote}
}

func (t *ComponentInspiration) Name() string  { return "21st_magic_component_inspiration" }
func (t *ComponentInspiration) Title() string { return "Component Inspiration" }
func (t *ComponentInspiration) Description() string {
	return "Use this tool when the user wants to see existing components, get inspiration, or fetch component " +
		"data and previews from 21st.dev. It returns the data of matching components without generating new code."
}

func (t *ComponentInspiration) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"message": {
				Type:        "string",
				Description: "Full user's message about the components they are looking for",
			},
			"searchQuery": {
				Type:        "string",
				Description: "Search query for 21st.dev (library for searching UI components) to find a UI component that matches the user's message. Must be a two to four word description.",
			},
		},
		Required: []string{"message", "searchQuery"},
	}
}

type fetchRequest struct {
	Message     string `json:"message"`
	SearchQuery string `json:"searchQuery"`
}

func (t *ComponentInspiration) Run(ctx context.Context, input map[string]any) (Result, error) {
	text, err := fetchUI(ctx, t.remote, stringArg(input, "message"), stringArg(input, "searchQuery"))
	if err != nil {
		return Result{}, err
	}
	return TextResult(text), nil
}

// fetchUI is shared with the builder's search step.
func fetchUI(ctx context.Context, remote Remote, message, query string) (string, error) {
	var resp textResponse
	if err := remote.Post(ctx, RouteFetchUI, fetchRequest{Message: message, SearchQuery: query}, &resp); err != nil {
		return "", fmt.Errorf("fetch ui: %w", err)
	}
	return resp.Text, nil
}
