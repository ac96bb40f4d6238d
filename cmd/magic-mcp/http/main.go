package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeshaw/envdecode"

	"magicmcp"
	"magicmcp/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var svcConfig magicmcp.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var serverConfig magicmcp.ServerConfig
	if err := envdecode.Decode(&serverConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var httpConfig magicmcp.HTTPConfig
	if err := envdecode.Decode(&httpConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var otelConfig magicmcp.OtelConfig
	if err := envdecode.Decode(&otelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: serverConfig.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, svcConfig, serverConfig, httpConfig, otelConfig); err != nil {
		slog.Error("SETUP: Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svcConfig magicmcp.ServiceConfig, serverConfig magicmcp.ServerConfig, httpConfig magicmcp.HTTPConfig, otelConfig magicmcp.OtelConfig) error {
	stack, err := server.Setup(ctx, svcConfig, serverConfig, otelConfig, magicmcp.NewStreamCallLogger(os.Stderr))
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.Shutdown(context.Background()); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	if httpConfig.Token == "" {
		slog.Warn("SETUP: MCP_TOKEN is empty, /mcp is unauthenticated")
	}

	httpServer := &http.Server{
		Addr:              httpConfig.Addr,
		Handler:           server.NewRouter(stack.MCP, httpConfig.Token),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("SETUP: Starting server", "name", magicmcp.ServerName, "version", magicmcp.Version, "transport", "http", "addr", httpConfig.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	slog.Info("SETUP: Server stopped")
	return nil
}
