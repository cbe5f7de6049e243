package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tendant/artist-site/internal/logging"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "sitectl",
		Short: "Artist site content tool",
		Long: `Command line tool for the artist site's CMS content.

Manages the CMS sections, normalizes raw content records and publishes the
content.json snapshot the site is built from. The datastore, snapshot storage
and content source are read from the same environment as the server
(DATABASE_URL, STORAGE_URL, CONTENT_SOURCE_URL, SNAPSHOT_KEYS).`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewNormalizeCommand())
	rootCmd.AddCommand(NewContentCommand())
	rootCmd.AddCommand(NewSectionsCommand())
	rootCmd.AddCommand(NewStorageCommand())

	return rootCmd
}

// env holds the components a command works with
type env struct {
	config *config.ServerConfig
	logger *slog.Logger
	repo   sitecontent.Repository
	blobs  sitecontent.BlobStore
	closer io.Closer
}

func (e *env) Close() error {
	return e.closer.Close()
}

func newLogger(cmd *cobra.Command, level string) (*slog.Logger, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	return logging.New(cmd.ErrOrStderr(), logging.Options{Level: level})
}

// openEnv builds the datastore and snapshot storage from the environment.
func openEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cmd, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	repo, closer, err := cfg.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	blobs, err := cfg.BuildBlobStore()
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	logger.Debug("Opened content environment",
		"database", cfg.DatabaseType,
		"storage", cfg.Storage.Type,
	)
	return &env{config: cfg, logger: logger, repo: repo, blobs: blobs, closer: closer}, nil
}
