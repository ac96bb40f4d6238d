// Package server exposes the tool registry over MCP and wraps every call
// with logging and telemetry.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"magicmcp"
	"magicmcp/tools"
	"magicmcp/tools/schema"
	"magicmcp/twentyfirst"
)

// Dispatcher routes a call by name to the tool provider. Calls share no
// mutable state, so Dispatch is safe for concurrent use.
type Dispatcher struct {
	tools  magicmcp.ToolProvider
	logger magicmcp.CallLogger
	tracer trace.Tracer

	callsCounter    metric.Int64Counter
	failuresCounter metric.Int64Counter
	durationHist    metric.Float64Histogram
}

// NewDispatcher wires the provider to a call logger, tracer and meter. Nil
// logger, tracer or meter fall back to no-op implementations.
func NewDispatcher(provider magicmcp.ToolProvider, logger magicmcp.CallLogger, tracer trace.Tracer, meter metric.Meter) (*Dispatcher, error) {
	if provider == nil {
		return nil, errors.New("dispatcher: nil tool provider")
	}
	if logger == nil {
		logger = magicmcp.NewNoOpCallLogger()
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(magicmcp.TracerName)
	}
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(magicmcp.TracerName)
	}

	callsCounter, err := meter.Int64Counter("tool_calls_total",
		metric.WithDescription("Total number of tool calls dispatched"))
	if err != nil {
		return nil, err
	}
	failuresCounter, err := meter.Int64Counter("tool_calls_failed_total",
		metric.WithDescription("Total number of tool calls that failed"))
	if err != nil {
		return nil, err
	}
	durationHist, err := meter.Float64Histogram("tool_call_duration_seconds",
		metric.WithDescription("Time taken to execute a tool call in seconds"))
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		tools:           provider,
		logger:          logger,
		tracer:          tracer,
		callsCounter:    callsCounter,
		failuresCounter: failuresCounter,
		durationHist:    durationHist,
	}, nil
}

// Dispatch runs one tool call. Failures are logged for the operator and
// returned unchanged for the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (tools.Result, error) {
	ctx, span := d.tracer.Start(ctx, "tool.call", trace.WithAttributes(
		attribute.String("tool.name", name),
	))
	defer span.End()

	slog.Info("DISPATCH: Handling tool call", "tool", name, "args_count", len(args))
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("DISPATCH: Arguments", "tool", name, "args", magicmcp.Sdump(args))
	}

	start := time.Now()
	result, err := d.tools.Call(ctx, name, args)
	elapsed := time.Since(start)

	toolAttr := attribute.String("tool_name", name)
	d.callsCounter.Add(ctx, 1, metric.WithAttributes(toolAttr))
	d.durationHist.Record(ctx, elapsed.Seconds(), metric.WithAttributes(toolAttr))

	entry := magicmcp.CallLog{
		Tool:       name,
		Timestamp:  start,
		DurationMS: elapsed.Milliseconds(),
		Input:      args,
	}

	if err != nil {
		kind := ErrorKind(err)
		d.failuresCounter.Add(ctx, 1, metric.WithAttributes(toolAttr, attribute.String("error_type", kind)))
		span.SetStatus(codes.Error, kind)
		span.RecordError(err)
		slog.Error("DISPATCH: Tool call failed", "tool", name, "error_type", kind, "error", err)

		entry.Error = err.Error()
		d.logCall(entry)
		return tools.Result{}, err
	}

	span.AddEvent("Tool executed successfully", trace.WithAttributes(
		attribute.Int("content_blocks", len(result.Content)),
		attribute.Float64("tool_execution_time_seconds", elapsed.Seconds()),
	))
	slog.Info("DISPATCH: Tool call completed", "tool", name, "elapsed_ms", elapsed.Milliseconds())

	entry.Output = result.Text()
	d.logCall(entry)
	return result, nil
}

func (d *Dispatcher) logCall(entry magicmcp.CallLog) {
	if err := d.logger.LogCall(entry); err != nil {
		slog.Error("Failed to log tool call", "error", err, "tool", entry.Tool)
	}
}

// ErrorKind classifies err for metrics and logs.
func ErrorKind(err error) string {
	var (
		verr *schema.ValidationError
		terr *twentyfirst.TransportError
		rerr *twentyfirst.RemoteServiceError
	)
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, tools.ErrUnknownTool):
		return "unknown_tool"
	case errors.As(err, &terr):
		return "transport"
	case errors.As(err, &rerr):
		return "remote_service"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
