package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"magicmcp"
	"magicmcp/server"
)

func main() {
	var svcConfig magicmcp.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var serverConfig magicmcp.ServerConfig
	if err := envdecode.Decode(&serverConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var otelConfig magicmcp.OtelConfig
	if err := envdecode.Decode(&otelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	// stdout carries the protocol, so every log line goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: serverConfig.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, svcConfig, serverConfig, otelConfig); err != nil {
		slog.Error("SETUP: Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svcConfig magicmcp.ServiceConfig, serverConfig magicmcp.ServerConfig, otelConfig magicmcp.OtelConfig) error {
	logger, cleanup, err := newCallLogger(serverConfig.CallLogPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush call log", "error", err)
		}
	}()

	stack, err := server.Setup(ctx, svcConfig, serverConfig, otelConfig, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.Shutdown(context.Background()); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	slog.Info("SETUP: Starting server", "name", magicmcp.ServerName, "version", magicmcp.Version, "transport", "stdio")
	if err := stack.MCP.Run(ctx, mcp.NewStdioTransport()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("SETUP: Server stopped")
	return nil
}

func newCallLogger(path string) (magicmcp.CallLogger, func() error, error) {
	if path == "" {
		return magicmcp.NewNoOpCallLogger(), func() error { return nil }, nil
	}
	if path == "-" {
		return magicmcp.NewStreamCallLogger(os.Stderr), func() error { return nil }, nil
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open call log: %w", err)
	}

	logger := magicmcp.NewFileCallLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
