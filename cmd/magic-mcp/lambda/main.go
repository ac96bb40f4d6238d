package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joeshaw/envdecode"

	"magicmcp"
	"magicmcp/server"
	"magicmcp/tools"
)

type Params struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

type Results struct {
	Content []tools.Content `json:"content"`
	IsError bool            `json:"isError,omitempty"`
}

func main() {
	ctx := context.Background()

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

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: serverConfig.Level()})))

	// CloudWatch picks the call log up from stdout.
	stack, err := server.Setup(ctx, svcConfig, serverConfig, otelConfig, magicmcp.NewStreamCallLogger(os.Stdout))
	if err != nil {
		log.Fatalf("SETUP: Failed to build server: %s", err)
	}

	fn := func(ctx context.Context, params Params) (Results, error) {
		result, err := stack.Dispatcher.Dispatch(ctx, params.Tool, params.Arguments)
		if err != nil {
			return Results{
				Content: []tools.Content{{Type: tools.ContentTypeText, Text: err.Error()}},
				IsError: true,
			}, nil
		}
		return Results{Content: result.Content}, nil
	}

	lambda.Start(fn)
}
