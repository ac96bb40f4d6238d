package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"magicmcp"
	"magicmcp/tools"
	"magicmcp/tools/schema"
	"magicmcp/tools/storage"
	"magicmcp/twentyfirst"
)

// stubRemote answers every route with the same text, or fails with err.
type stubRemote struct {
	text  string
	err   error
	calls int
}

func (s *stubRemote) Post(ctx context.Context, route string, body any, out any) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	payload := fmt.Sprintf(`{"text":%q,"results":[]}`, s.text)
	return json.Unmarshal([]byte(payload), out)
}

func newTestRegistry(t *testing.T, remote tools.Remote) *tools.Registry {
	t.Helper()
	registry, err := tools.NewRegistry(tools.NewMagicTools(remote, storage.NewTestReader(nil))...)
	require.NoError(t, err)
	return registry
}

func TestDispatcher_Dispatch(t *testing.T) {
	remote := &stubRemote{text: "<Card/>"}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var buf bytes.Buffer
	d, err := NewDispatcher(newTestRegistry(t, remote), magicmcp.NewStreamCallLogger(&buf), tp.Tracer("test"), nil)
	require.NoError(t, err)

	result, err := d.Dispatch(context.Background(), "21st_magic_component_inspiration", map[string]any{
		"message":     "cards",
		"searchQuery": "pricing card",
	})
	require.NoError(t, err)
	assert.Equal(t, tools.TextResult("<Card/>"), result)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.call", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	var entry magicmcp.CallLog
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "21st_magic_component_inspiration", entry.Tool)
	assert.Equal(t, "<Card/>", entry.Output)
	assert.Empty(t, entry.Error)
}

func TestDispatcher_Errors(t *testing.T) {
	tests := []struct {
		name      string
		remoteErr error
		tool      string
		args      map[string]any
		kind      string
		calls     int
	}{
		{
			name:  "validation",
			tool:  "logo_search",
			args:  map[string]any{},
			kind:  "validation",
			calls: 0,
		},
		{
			name:  "unknown tool",
			tool:  "nope",
			args:  map[string]any{},
			kind:  "unknown_tool",
			calls: 0,
		},
		{
			name:      "remote service",
			remoteErr: &twentyfirst.RemoteServiceError{Route: tools.RouteRefineUI, Status: 500, Message: "internal"},
			tool:      "21st_magic_component_refiner",
			args:      map[string]any{"userMessage": "a", "absolutePathToRefiningFile": "/a.tsx", "context": "b"},
			kind:      "remote_service",
			calls:     1,
		},
		{
			name:      "transport",
			remoteErr: &twentyfirst.TransportError{Route: tools.RouteCreateUI, Err: errors.New("connection refused")},
			tool:      "21st_magic_component_builder",
			args:      map[string]any{"message": "a"},
			kind:      "transport",
			calls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &stubRemote{err: tt.remoteErr}
			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			logger := magicmcp.NewFileCallLogger(nil)

			d, err := NewDispatcher(newTestRegistry(t, remote), logger, tp.Tracer("test"), nil)
			require.NoError(t, err)

			_, err = d.Dispatch(context.Background(), tt.tool, tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.Equal(t, tt.calls, remote.calls)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, tt.kind, spans[0].Status().Description)
		})
	}
}

func TestDispatcher_RemoteErrorCarriesStatusAndMessage(t *testing.T) {
	remote := &stubRemote{err: &twentyfirst.RemoteServiceError{Route: tools.RouteRefineUI, Status: 500, Message: "internal"}}
	d, err := NewDispatcher(newTestRegistry(t, remote), nil, nil, nil)
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), "21st_magic_component_refiner", map[string]any{
		"userMessage": "a", "absolutePathToRefiningFile": "/a.tsx", "context": "b",
	})

	var rerr *twentyfirst.RemoteServiceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 500, rerr.Status)
	assert.Equal(t, "internal", rerr.Message)
	assert.True(t, strings.Contains(err.Error(), "internal"))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "validation", ErrorKind(fmt.Errorf("wrapped: %w", &schema.ValidationError{Path: "x"})))
	assert.Equal(t, "cancelled", ErrorKind(context.Canceled))
	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}

func TestNewDispatcher_NilProvider(t *testing.T) {
	_, err := NewDispatcher(nil, nil, nil, nil)
	assert.Error(t, err)
}
