package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentInspiration_Run(t *testing.T) {
	remote := newFakeRemote(map[string]any{RouteFetchUI: map[string]any{"text": `[{"name":"hero"}]`}})
	tool := NewComponentInspiration(remote)

	result, err := tool.Run(context.Background(), map[string]any{
		"message":     "show me hero sections",
		"searchQuery": "hero section",
	})
	require.NoError(t, err)
	assert.Equal(t, TextResult(`[{"name":"hero"}]`), result)

	calls := remote.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, RouteFetchUI, calls[0].Route)
	assert.Equal(t, map[string]any{"message": "show me hero sections", "searchQuery": "hero section"}, calls[0].Body)
}

func TestComponentInspiration_ToolMethods(t *testing.T) {
	tool := NewComponentInspiration(newFakeRemote(nil))
	assert.Equal(t, "21st_magic_component_inspiration", tool.Name())
	assert.Equal(t, []string{"message", "searchQuery"}, tool.InputSchema().Required)
}
