package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/api"
	"github.com/tendant/artist-site/pkg/sitecontent/config"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
	"github.com/tendant/artist-site/pkg/sitecontent/source"
)

// app holds the wired components of the content server
type app struct {
	config  *config.ServerConfig
	logger  *slog.Logger
	repo    sitecontent.Repository
	closer  io.Closer
	blobs   sitecontent.BlobStore
	source  sitecontent.Source
	store   *sitecontent.Store
	handler *api.Handler
}

func newApp(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) (*app, error) {
	repo, closer, err := cfg.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	blobs, err := cfg.BuildBlobStore()
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	src, err := cfg.BuildSource(repo, blobs)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to build content source: %w", err)
	}

	store := sitecontent.NewStore(sitecontent.NewLoader(src, sitecontent.WithLogger(logger)))
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("Serving default content", "source", src.String(), "error", err)
	}

	if file, ok := src.(*source.File); ok {
		go func() {
			err := file.Watch(ctx, func() {
				if err := store.Refresh(ctx); err != nil {
					logger.Warn("Failed to reload content", "source", file.String(), "error", err)
					return
				}
				logger.Info("Reloaded content", "source", file.String())
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("Content watcher stopped", "error", err)
			}
		}()
	}

	gen := snapshot.New(repo, blobs,
		snapshot.WithKeys(cfg.SnapshotKeys...),
		snapshot.WithLogger(logger),
	)

	handler := api.NewHandler(store,
		api.WithRepository(repo),
		api.WithBlobStore(blobs),
		api.WithGenerator(gen),
		api.WithSnapshotKeys(cfg.SnapshotKeys...),
		api.WithLogger(logger),
	)

	return &app{
		config:  cfg,
		logger:  logger,
		repo:    repo,
		closer:  closer,
		blobs:   blobs,
		source:  src,
		store:   store,
		handler: handler,
	}, nil
}

// Routes sets up the HTTP routes
func (a *app) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.LoggingMiddleware(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// The site editor runs on its own dev server outside production
	if !a.config.IsProduction() {
		r.Use(api.CORSMiddleware(nil))
	}

	r.Mount("/", a.handler.Routes())
	return r
}

func (a *app) Close() error {
	return a.closer.Close()
}
