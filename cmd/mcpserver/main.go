package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/artist-site/internal/logging"
	"github.com/tendant/artist-site/internal/mcp"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/config"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
)

// Config holds the MCP transport settings. Content settings are shared with
// the HTTP server (DATABASE_URL, STORAGE_URL, CONTENT_SOURCE_URL, ...).
type Config struct {
	Port    uint16 `env:"MCP_PORT" env-default:"8000"`
	BaseUrl string `env:"MCP_BASE_URL" env-default:"http://localhost:8000"`
}

func main() {
	var mode = flag.String("mode", "stdio", "Server mode: 'stdio', 'sse', or 'http'")
	flag.Parse()

	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	siteCfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// stdout carries the protocol in stdio mode
	logger, err := logging.New(os.Stderr, logging.Options{Level: siteCfg.LogLevel, JSON: siteCfg.IsProduction()})
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx := context.Background()
	repo, closer, err := siteCfg.BuildRepository(ctx)
	if err != nil {
		logger.Error("Failed to build repository", "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	blobs, err := siteCfg.BuildBlobStore()
	if err != nil {
		logger.Error("Failed to build blob store", "error", err)
		os.Exit(1)
	}

	src, err := siteCfg.BuildSource(repo, blobs)
	if err != nil {
		logger.Error("Failed to build content source", "error", err)
		os.Exit(1)
	}

	handler := mcp.NewHandler(
		repo,
		sitecontent.NewLoader(src, sitecontent.WithLogger(logger)),
		snapshot.New(repo, blobs,
			snapshot.WithKeys(siteCfg.SnapshotKeys...),
			snapshot.WithLogger(logger),
		),
		logger,
	)

	s := server.NewMCPServer(
		"Artist Site Content",
		"1.0.0",
		server.WithResourceCapabilities(true, true),
	)
	handler.RegisterTools(s)

	switch *mode {
	case "sse":
		sseServer := server.NewSSEServer(s, server.WithBaseURL(cfg.BaseUrl))
		logger.Info("Starting SSE server", "base_url", cfg.BaseUrl)
		if err := sseServer.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error("Failed to start SSE server", "error", err)
			os.Exit(1)
		}
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		logger.Info("HTTP server listening", "port", cfg.Port)
		if err := httpServer.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	default:
		logger.Info("Starting in stdio mode")
		if err := server.ServeStdio(s); err != nil {
			logger.Error("Failed to start stdio server", "error", err)
			os.Exit(1)
		}
	}
}
