package magicmcp

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// CallLogger is the interface for tool call logging.
type CallLogger interface {
	LogCall(call CallLog) error
}

// CallLog represents a single tool invocation as seen by the dispatcher
type CallLog struct {
	Tool       string         `json:"tool"`
	Timestamp  time.Time      `json:"timestamp"`
	DurationMS int64          `json:"duration_ms"`
	Input      map[string]any `json:"input,omitempty"`
	Output     string         `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// FileCallLogger accumulates calls and writes them as one document on Flush
type FileCallLogger struct {
	mu     sync.Mutex
	calls  []CallLog
	writer io.Writer
}

// NewFileCallLogger creates a new buffering call logger
func NewFileCallLogger(writer io.Writer) *FileCallLogger {
	return &FileCallLogger{
		calls:  make([]CallLog, 0),
		writer: writer,
	}
}

// LogCall adds a call to the buffer (does not flush immediately)
func (l *FileCallLogger) LogCall(call CallLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
	return nil
}

// Flush writes all accumulated calls to the writer
func (l *FileCallLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"session": map[string]any{
			"timestamp": time.Now(),
			"server":    ServerName,
			"version":   Version,
			"calls":     l.calls,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal call log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write call log: %w", err)
	}

	l.calls = l.calls[:0]
	return nil
}

// NoOpCallLogger discards all entries
type NoOpCallLogger struct{}

func NewNoOpCallLogger() *NoOpCallLogger {
	return &NoOpCallLogger{}
}

func (nop *NoOpCallLogger) LogCall(call CallLog) error {
	return nil
}

// StreamCallLogger writes each call as a JSON line as soon as it is logged
// (stderr for stdio deployments, stdout for Lambda/CloudWatch)
type StreamCallLogger struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewStreamCallLogger(writer io.Writer) *StreamCallLogger {
	return &StreamCallLogger{writer: writer}
}

func (l *StreamCallLogger) LogCall(call CallLog) error {
	data, err := json.Marshal(call)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = fmt.Fprintln(l.writer, string(data))
	return err
}
