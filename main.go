package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"reddit-mcp-server/client"
	"reddit-mcp-server/config"
	"reddit-mcp-server/logging"
	"reddit-mcp-server/server"
	"reddit-mcp-server/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redditClient := client.New(cfg, logger)

	if cfg.VerifyAuth {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		err := redditClient.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Error("Reddit authentication check failed", "username", cfg.Username, "error", err)
			os.Exit(1)
		}
		logger.Info("Reddit authentication verified", "username", cfg.Username)
	}

	toolHandler := tools.NewHandler(redditClient, logger)
	mcpServer := server.New(toolHandler, cfg, logger)

	if err := mcpServer.Run(ctx); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
