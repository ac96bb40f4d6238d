package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"magicmcp"
	"magicmcp/tools"
	"magicmcp/tools/storage"
	"magicmcp/twentyfirst"
)

// Stack is everything an entry point needs to serve tool calls.
type Stack struct {
	Registry   *tools.Registry
	Dispatcher *Dispatcher
	MCP        *mcp.Server

	shutdown func(ctx context.Context) error
}

// Shutdown flushes telemetry.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s.shutdown == nil {
		return nil
	}
	return s.shutdown(ctx)
}

// Setup builds the client, registry, dispatcher and MCP server from
// configuration. Any failure here is fatal for the process.
func Setup(ctx context.Context, svc magicmcp.ServiceConfig, cfg magicmcp.ServerConfig, otelCfg magicmcp.OtelConfig, logger magicmcp.CallLogger) (*Stack, error) {
	client, err := twentyfirst.NewClient(twentyfirst.ClientOpts{
		BaseURL:   svc.BaseURL,
		APIKey:    svc.APIKey,
		UserAgent: magicmcp.UserAgent(),
		Timeout:   svc.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create 21st.dev client: %w", err)
	}

	files, err := newFileReader(ctx, cfg.S3Paths)
	if err != nil {
		return nil, err
	}

	registry, err := tools.NewRegistry(tools.NewMagicTools(client, files)...)
	if err != nil {
		return nil, fmt.Errorf("create tool registry: %w", err)
	}

	tracerProvider, meterProvider, otelShutdown, err := magicmcp.InitOtel(ctx, otelCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize OpenTelemetry: %w", err)
	}

	d, err := NewDispatcher(registry, logger,
		tracerProvider.Tracer(magicmcp.TracerName),
		meterProvider.Meter(magicmcp.TracerName))
	if err != nil {
		return nil, errors.Join(err, otelShutdown(ctx))
	}

	slog.Info("SETUP: Tools registered", "count", len(registry.GetTools()), "base_url", svc.BaseURL, "s3_paths", cfg.S3Paths)

	return &Stack{
		Registry:   registry,
		Dispatcher: d,
		MCP:        NewMCPServer(registry, d),
		shutdown:   otelShutdown,
	}, nil
}

func newFileReader(ctx context.Context, s3Paths bool) (storage.Reader, error) {
	if !s3Paths {
		return storage.NewMux(storage.NewFileReader(), nil), nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(3))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return storage.NewMux(storage.NewFileReader(), storage.NewS3Reader(s3.NewFromConfig(awsCfg))), nil
}
