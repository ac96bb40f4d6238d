// Package schema checks tool arguments against the jsonschema declared for
// the tool before anything is forwarded upstream.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// ValidationError identifies the first argument that did not match the schema.
type ValidationError struct {
	Path     string
	Expected string
	Actual   string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid argument %q: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Validate checks args against an object schema and returns a copy with
// numeric values coerced to float64. Null optional fields are dropped and
// undeclared fields are passed through untouched.
func Validate(s *jsonschema.Schema, args map[string]any) (map[string]any, error) {
	if s == nil {
		return nil, fmt.Errorf("validate: nil schema")
	}
	if args == nil {
		args = map[string]any{}
	}
	v, err := validateObject("", s, args)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func validateObject(path string, s *jsonschema.Schema, obj map[string]any) (map[string]any, error) {
	for _, name := range s.Required {
		if v, ok := obj[name]; !ok || v == nil {
			return nil, &ValidationError{
				Path:     join(path, name),
				Expected: expectedType(s.Properties[name]),
				Actual:   "missing",
			}
		}
	}

	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, ok := obj[name]
		if !ok {
			continue
		}
		if v == nil {
			delete(out, name)
			continue
		}
		coerced, err := validateValue(join(path, name), s.Properties[name], v)
		if err != nil {
			return nil, err
		}
		out[name] = coerced
	}
	return out, nil
}

func validateValue(path string, s *jsonschema.Schema, v any) (any, error) {
	if s == nil {
		return v, nil
	}

	var out any
	switch s.Type {
	case "string":
		str, ok := v.(string)
		if !ok {
			return nil, mismatch(path, s, v)
		}
		out = str
	case "boolean":
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch(path, s, v)
		}
		out = b
	case "number", "integer":
		f, ok := toFloat(v)
		if !ok {
			return nil, mismatch(path, s, v)
		}
		if s.Type == "integer" && f != math.Trunc(f) {
			return nil, mismatch(path, s, v)
		}
		out = f
	case "array":
		items, ok := toSlice(v)
		if !ok {
			return nil, mismatch(path, s, v)
		}
		if s.MinItems != nil && len(items) < *s.MinItems {
			return nil, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("expected at least %d item(s), got %d", *s.MinItems, len(items)),
			}
		}
		arr := make([]any, len(items))
		for i, it := range items {
			c, err := validateValue(fmt.Sprintf("%s[%d]", path, i), s.Items, it)
			if err != nil {
				return nil, err
			}
			arr[i] = c
		}
		out = arr
	case "object":
		m, ok := v.(map[string]any)
		if !ok {
			return nil, mismatch(path, s, v)
		}
		o, err := validateObject(path, s, m)
		if err != nil {
			return nil, err
		}
		out = o
	case "":
		out = v
	default:
		return nil, fmt.Errorf("validate %s: unsupported schema type %q", path, s.Type)
	}

	if len(s.Enum) > 0 && !inEnum(s.Enum, out) {
		return nil, &ValidationError{
			Path:     path,
			Expected: "one of " + formatEnum(s.Enum),
			Actual:   fmt.Sprintf("%v", out),
		}
	}
	return out, nil
}

func mismatch(path string, s *jsonschema.Schema, v any) *ValidationError {
	return &ValidationError{Path: path, Expected: expectedType(s), Actual: typeName(v)}
}

func expectedType(s *jsonschema.Schema) string {
	if s == nil || s.Type == "" {
		return "value"
	}
	if s.Type == "array" && s.Items != nil && s.Items.Type != "" {
		return "array of " + s.Items.Type
	}
	return s.Type
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// toFloat accepts the looser numeric forms callers send: any Go number,
// json.Number and numeric strings.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// inEnum compares numerically only when both sides are numbers, so a
// string enum like ["1", "2"] matches the string "1".
func inEnum(enum []any, v any) bool {
	vf, vNum := v.(float64)
	for _, e := range enum {
		if _, isStr := e.(string); !isStr && vNum {
			if ef, ok := toFloat(e); ok && ef == vf {
				return true
			}
		}
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

func formatEnum(enum []any) string {
	parts := make([]string, len(enum))
	for i, e := range enum {
		parts[i] = fmt.Sprintf("%v", e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
