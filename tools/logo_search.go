package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"magicmcp/tools/schema"
)

const RouteLogoSearch = "/api/logo-search"

var LogoFormats = []any{"JSX", "TSX", "SVG"}

const defaultLogoFormat = "TSX"

// LogoSearch looks up company/brand logos and returns them as components
// or raw SVG.
type LogoSearch struct {
	remote Remote
}

func NewLogoSearch(remote Remote) *LogoSearch { return &LogoSearch{remote: remote} }

func (t *LogoSearch) Name() string  { return "logo_search" }
func (t *LogoSearch) Title() string { return "Search Logos" }
func (t *LogoSearch) Description() string {
	return "Search for company and brand logos and return them in the requested format (JSX, TSX or SVG). " +
		"Supports several queries in one call, e.g. [\"discord\", \"github\", \"slack\"]."
}

func (t *LogoSearch) InputSchema() *jsonschema.Schema {
	minQueries := 1
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"queries": {
				Type:        "array",
				Description: "Company or brand names to search for",
				Items:       &jsonschema.Schema{Type: "string"},
				MinItems:    &minQueries,
			},
			"format": {
				Type:        "string",
				Description: "Output format of the logos, defaults to TSX",
				Enum:        LogoFormats,
			},
		},
		Required: []string{"queries"},
	}
}

type logoRequest struct {
	Queries []string `json:"queries"`
	Format  string   `json:"format"`
}

// Logo is one item of the logo search answer.
type Logo struct {
	Query   string `json:"query"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type logoResponse struct {
	Results []Logo `json:"results"`
}

func (t *LogoSearch) Run(ctx context.Context, input map[string]any) (Result, error) {
	req := logoRequest{Format: stringArg(input, "format")}
	if req.Format == "" {
		req.Format = defaultLogoFormat
	}
	if raw, ok := input["queries"].([]any); ok {
		for _, q := range raw {
			if s, _ := q.(string); strings.TrimSpace(s) != "" {
				req.Queries = append(req.Queries, strings.TrimSpace(s))
			}
		}
	}
	if len(req.Queries) == 0 {
		return Result{}, &schema.ValidationError{Path: "queries", Reason: "expected at least one non-blank query"}
	}

	var resp logoResponse
	if err := t.remote.Post(ctx, RouteLogoSearch, req, &resp); err != nil {
		return Result{}, fmt.Errorf("logo search: %w", err)
	}
	return TextResult(renderLogos(req, resp.Results)), nil
}

func renderLogos(req logoRequest, logos []Logo) string {
	if len(logos) == 0 {
		return "No logos found for: " + strings.Join(req.Queries, ", ")
	}

	lang := strings.ToLower(req.Format)
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d logo(s) in %s format:\n", len(logos), req.Format)
	for _, l := range logos {
		title := l.Title
		if title == "" {
			title = l.Query
		}
		fmt.Fprintf(&b, "\n### %s\n", title)
		if l.URL != "" {
			fmt.Fprintf(&b, "Source: %s\n", l.URL)
		}
		fmt.Fprintf(&b, "```%s\n%s\n```\n", lang, strings.TrimSpace(l.Content))
	}
	return b.String()
}
