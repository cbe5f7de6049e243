package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/repo/memory"
	repopg "github.com/tendant/artist-site/pkg/sitecontent/repo/postgres"
	reposqlite "github.com/tendant/artist-site/pkg/sitecontent/repo/sqlite"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
	"github.com/tendant/artist-site/pkg/sitecontent/source"
	fsstorage "github.com/tendant/artist-site/pkg/sitecontent/storage/fs"
	memorystorage "github.com/tendant/artist-site/pkg/sitecontent/storage/memory"
	s3storage "github.com/tendant/artist-site/pkg/sitecontent/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		LogLevel:     "info",
		DatabaseType: "memory",
		DBSchema:     "",
		Storage:      StorageConfig{Type: "memory"},
		SnapshotKeys: append([]string(nil), snapshot.DefaultKeys...),
	}
}

// ServerConfig represents the configuration of the content server and CLI
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing
	LogLevel    string // debug, info, warn, error

	// CMS datastore
	DatabaseURL  string
	DatabaseType string // "memory", "postgres", "sqlite"
	DBSchema     string // Postgres schema to use; empty keeps the server default

	// Snapshot storage
	Storage StorageConfig

	// ContentSourceURL selects where the raw record is read from. Empty reads
	// the live datastore. A comma-separated list is tried in order.
	ContentSourceURL string

	// SnapshotKeys are the object keys content.json is written to
	SnapshotKeys []string
}

// StorageConfig selects and configures the snapshot blob store
type StorageConfig struct {
	Type string // "memory", "fs", "s3"
	FS   fsstorage.Config
	S3   s3storage.Config
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "postgres", "sqlite":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when using %s", c.DatabaseType)
		}
	default:
		return errors.New("database_type must be 'memory', 'postgres' or 'sqlite'")
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.FS.BaseDir == "" {
			return errors.New("filesystem storage requires a base directory")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("s3 storage requires a bucket")
		}
	default:
		return fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}

	if len(c.SnapshotKeys) == 0 {
		return errors.New("at least one snapshot key is required")
	}
	if slices.Contains(c.SnapshotKeys, "") {
		return errors.New("snapshot keys cannot be empty")
	}

	for _, raw := range sourceURLs(c.ContentSourceURL) {
		if _, err := parseSourceURL(raw); err != nil {
			return err
		}
	}

	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// BuildRepository creates the CMS datastore. The returned closer releases
// its connections.
func (c *ServerConfig) BuildRepository(ctx context.Context) (sitecontent.Repository, io.Closer, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nopCloser{}, nil
	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, nil, err
		}
		repo := repopg.NewWithPool(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, closerFunc(pool.Close), nil
	case "sqlite":
		repo, err := reposqlite.Open(c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres and optionally sets search_path for the session.
// It fails if the schema (when provided) does not exist.
func PingPostgres(ctx context.Context, databaseURL, schema string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := newPool(ctx, databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// BuildBlobStore creates the snapshot blob store
func (c *ServerConfig) BuildBlobStore() (sitecontent.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(c.Storage.FS)
	case "s3":
		return s3storage.New(c.Storage.S3)
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}

// BuildSource creates the raw-record source named by ContentSourceURL:
//
//	""                       the live datastore
//	http(s)://host/path      a published content.json or /api/load-content
//	file:///path/content.json a local snapshot
//	store://key              an object in the snapshot blob store
//
// Several comma-separated URLs become a fallback chain.
func (c *ServerConfig) BuildSource(repo sitecontent.Repository, store sitecontent.BlobStore) (sitecontent.Source, error) {
	urls := sourceURLs(c.ContentSourceURL)
	if len(urls) == 0 {
		if repo == nil {
			return nil, errors.New("a repository is required for the live content source")
		}
		return source.NewRepository(repo), nil
	}

	var chain source.Fallback
	for _, raw := range urls {
		u, err := parseSourceURL(raw)
		if err != nil {
			return nil, err
		}
		switch u.Scheme {
		case "http", "https":
			chain = append(chain, source.NewHTTP(raw))
		case "file":
			chain = append(chain, source.NewFile(filePath(u)))
		case "store":
			if store == nil {
				return nil, fmt.Errorf("content source %s requires a blob store", raw)
			}
			chain = append(chain, source.NewBlob(store, strings.TrimPrefix(raw, "store://")))
		}
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return chain, nil
}

func sourceURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

func parseSourceURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid CONTENT_SOURCE_URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("content source %q has no host", raw)
		}
	case "file":
		if filePath(u) == "" {
			return nil, fmt.Errorf("content source %q has no path", raw)
		}
	case "store":
		if strings.TrimPrefix(raw, "store://") == "" {
			return nil, fmt.Errorf("content source %q has no object key", raw)
		}
	default:
		return nil, fmt.Errorf("unsupported content source %q (use http(s)://, file:// or store://)", raw)
	}
	return u, nil
}

// filePath returns the path of a file:// URL. "file://data/content.json" is
// treated as relative.
func filePath(u *url.URL) string {
	return u.Host + u.Path
}
