package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (Result, error)
}

// Remote is the slice of the 21st.dev client the tools depend on.
type Remote interface {
	Post(ctx context.Context, route string, body any, out any) error
}

const ContentTypeText = "text"

// Content is a single block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the ordered list of content blocks returned to the caller.
type Result struct {
	Content []Content `json:"content"`
}

func TextResult(text string) Result {
	return Result{Content: []Content{{Type: ContentTypeText, Text: text}}}
}

// Text joins the text blocks of the result.
func (r Result) Text() string {
	var s string
	for _, c := range r.Content {
		if c.Type == ContentTypeText {
			s += c.Text
		}
	}
	return s
}

// textResponse is the common answer shape of the generation routes.
type textResponse struct {
	Text string `json:"text"`
}

func stringArg(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}
