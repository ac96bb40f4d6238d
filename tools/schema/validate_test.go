package schema

import (
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *jsonschema.Schema {
	minOne := 1
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"message": {Type: "string"},
			"count":   {Type: "integer"},
			"ratio":   {Type: "number"},
			"strict":  {Type: "boolean"},
			"format":  {Type: "string", Enum: []any{"JSX", "TSX", "SVG"}},
			"queries": {Type: "array", Items: &jsonschema.Schema{Type: "string"}, MinItems: &minOne},
			"options": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"theme": {Type: "string"},
				},
				Required: []string{"theme"},
			},
		},
		Required: []string{"message"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		expected map[string]any
	}{
		{
			name:     "required only",
			args:     map[string]any{"message": "hi"},
			expected: map[string]any{"message": "hi"},
		},
		{
			name: "all fields",
			args: map[string]any{
				"message": "hi",
				"count":   3.0,
				"ratio":   0.5,
				"strict":  true,
				"format":  "SVG",
				"queries": []any{"github", "discord"},
				"options": map[string]any{"theme": "dark"},
			},
			expected: map[string]any{
				"message": "hi",
				"count":   3.0,
				"ratio":   0.5,
				"strict":  true,
				"format":  "SVG",
				"queries": []any{"github", "discord"},
				"options": map[string]any{"theme": "dark"},
			},
		},
		{
			name:     "integer accepts go int",
			args:     map[string]any{"message": "hi", "count": 7},
			expected: map[string]any{"message": "hi", "count": 7.0},
		},
		{
			name:     "number accepts json.Number",
			args:     map[string]any{"message": "hi", "ratio": json.Number("1.25")},
			expected: map[string]any{"message": "hi", "ratio": 1.25},
		},
		{
			name:     "number accepts numeric string",
			args:     map[string]any{"message": "hi", "count": " 12 "},
			expected: map[string]any{"message": "hi", "count": 12.0},
		},
		{
			name:     "string slice becomes array",
			args:     map[string]any{"message": "hi", "queries": []string{"slack"}},
			expected: map[string]any{"message": "hi", "queries": []any{"slack"}},
		},
		{
			name:     "null optional field dropped",
			args:     map[string]any{"message": "hi", "format": nil},
			expected: map[string]any{"message": "hi"},
		},
		{
			name:     "undeclared fields pass through",
			args:     map[string]any{"message": "hi", "extra": 1},
			expected: map[string]any{"message": "hi", "extra": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(testSchema(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		path     string
		expected string
		actual   string
	}{
		{
			name:     "nil args missing required",
			args:     nil,
			path:     "message",
			expected: "string",
			actual:   "missing",
		},
		{
			name:     "required field null",
			args:     map[string]any{"message": nil},
			path:     "message",
			expected: "string",
			actual:   "missing",
		},
		{
			name:     "wrong primitive",
			args:     map[string]any{"message": 42.0},
			path:     "message",
			expected: "string",
			actual:   "number",
		},
		{
			name:     "fractional integer",
			args:     map[string]any{"message": "hi", "count": 1.5},
			path:     "count",
			expected: "integer",
			actual:   "number",
		},
		{
			name:     "non numeric string",
			args:     map[string]any{"message": "hi", "ratio": "lots"},
			path:     "ratio",
			expected: "number",
			actual:   "string",
		},
		{
			name:     "enum violation",
			args:     map[string]any{"message": "hi", "format": "PNG"},
			path:     "format",
			expected: "one of [JSX, TSX, SVG]",
			actual:   "PNG",
		},
		{
			name:     "array item type",
			args:     map[string]any{"message": "hi", "queries": []any{"ok", true}},
			path:     "queries[1]",
			expected: "string",
			actual:   "boolean",
		},
		{
			name:     "array expected",
			args:     map[string]any{"message": "hi", "queries": "github"},
			path:     "queries",
			expected: "array of string",
			actual:   "string",
		},
		{
			name:     "nested required",
			args:     map[string]any{"message": "hi", "options": map[string]any{}},
			path:     "options.theme",
			expected: "string",
			actual:   "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(testSchema(), tt.args)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
			assert.Equal(t, tt.expected, verr.Expected)
			assert.Equal(t, tt.actual, verr.Actual)
			assert.Contains(t, err.Error(), tt.path)
		})
	}

	t.Run("min items", func(t *testing.T) {
		_, err := Validate(testSchema(), map[string]any{"message": "hi", "queries": []any{}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "queries", verr.Path)
		assert.Contains(t, verr.Error(), "at least 1")
	})

	t.Run("nil schema", func(t *testing.T) {
		_, err := Validate(nil, map[string]any{})
		assert.Error(t, err)
	})
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	args := map[string]any{"message": "hi", "count": 2, "format": nil}
	_, err := Validate(testSchema(), args)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"message": "hi", "count": 2, "format": nil}, args)
}

func TestValidate_EnumKinds(t *testing.T) {
	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"level": {Type: "string", Enum: []any{"1", "2"}},
			"size":  {Type: "integer", Enum: []any{1, 2}},
		},
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{name: "numeric looking string enum", args: map[string]any{"level": "1"}},
		{name: "string enum miss", args: map[string]any{"level": "3"}, wantErr: true},
		{name: "integer enum", args: map[string]any{"size": 2}},
		{name: "integer enum from json number", args: map[string]any{"size": json.Number("1")}},
		{name: "integer enum miss", args: map[string]any{"size": 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(s, tt.args)
			if tt.wantErr {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
