package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mindwell-ai/convo-eval/internal/mcpadapter"
	"github.com/mindwell-ai/convo-eval/internal/setup"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "convo-eval",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List the registered evaluation metrics with their UI labels and categories",
	}, mcpadapter.NewListMetricsHandler(deps.Registry))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_transcript",
		Description: "Evaluate a therapist-patient transcript with the requested metrics; failures are isolated per metric",
	}, mcpadapter.NewEvaluateHandler(deps.Executor))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_single_metric",
		Description: "Evaluate a transcript with one metric. Faster than a full run.",
	}, mcpadapter.NewEvaluateSingleMetricHandler(deps.Executor))

	return server
}
