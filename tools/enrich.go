package tools

import (
	"context"
	"fmt"
	"log/slog"

	"magicmcp/tools/storage"
)

// LocalIOError reports a failed enrichment read. It is logged, never
// returned to the caller.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }

// readBestEffort returns the content at path, or "" when path is empty or
// the read fails. A failed read must not block the remote call.
func readBestEffort(ctx context.Context, r storage.Reader, tool, path string) string {
	if path == "" || r == nil {
		return ""
	}
	b, err := r.Read(ctx, path)
	if err != nil {
		slog.Warn("TOOL: Enrichment read failed, continuing with empty content",
			"tool", tool,
			"error", &LocalIOError{Path: path, Err: err},
		)
		return ""
	}
	return string(b)
}
