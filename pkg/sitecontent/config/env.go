package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	s3storage "github.com/tendant/artist-site/pkg/sitecontent/storage/s3"
)

// envConfig is the environment surface read by WithEnv.
type envConfig struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"`
	LogLevel    string `env:"LOG_LEVEL"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBSchema    string `env:"CONTENT_DB_SCHEMA"`

	StorageURL         string `env:"STORAGE_URL"`
	AWSRegion          string `env:"AWS_REGION"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint        string `env:"AWS_S3_ENDPOINT"`

	ContentSourceURL string   `env:"CONTENT_SOURCE_URL"`
	SnapshotKeys     []string `env:"SNAPSHOT_KEYS" env-separator:","`
}

// WithEnv applies environment variable overrides.
//
// Server:
//
//	PORT - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//	LOG_LEVEL - debug, info (default), warn or error
//
// CMS datastore:
//
//	DATABASE_URL - "memory" (default), "postgres(ql)://..." or "sqlite://path/to/cms.db"
//	CONTENT_DB_SCHEMA - Postgres search_path schema
//
// Snapshot storage:
//
//	STORAGE_URL - "memory://" (default), "file:///path/to/site" or
//	              "s3://bucket?region=us-east-1&endpoint=http://localhost:9000"
//	AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_S3_ENDPOINT
//
// Content:
//
//	CONTENT_SOURCE_URL - where the raw record is read from (default: the datastore)
//	SNAPSHOT_KEYS - comma-separated snapshot object keys
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}
		if env.LogLevel != "" {
			c.LogLevel = env.LogLevel
		}
		if env.DBSchema != "" {
			c.DBSchema = env.DBSchema
		}
		if env.ContentSourceURL != "" {
			c.ContentSourceURL = env.ContentSourceURL
		}
		if keys := trimAll(env.SnapshotKeys); len(keys) > 0 {
			c.SnapshotKeys = keys
		}

		if err := applyDatabaseEnv(env, c); err != nil {
			return err
		}
		return applyStorageEnv(env, c)
	}
}

// applyDatabaseEnv applies database configuration from environment
func applyDatabaseEnv(env envConfig, c *ServerConfig) error {
	dbURL := env.DatabaseURL

	switch {
	case dbURL == "" || dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	case strings.HasPrefix(dbURL, "sqlite://"):
		path := strings.TrimPrefix(dbURL, "sqlite://")
		if path == "" {
			return fmt.Errorf("sqlite path cannot be empty in DATABASE_URL")
		}
		c.DatabaseType = "sqlite"
		c.DatabaseURL = path
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory', 'postgresql://...' or 'sqlite://...')", dbURL)
	}

	return nil
}

// applyStorageEnv applies storage configuration from environment
func applyStorageEnv(env envConfig, c *ServerConfig) error {
	storageURL := env.StorageURL

	switch {
	case storageURL == "" || storageURL == "memory" || storageURL == "memory://":
		c.Storage = StorageConfig{Type: "memory"}
		return nil
	case strings.HasPrefix(storageURL, "file://"):
		path := strings.TrimPrefix(storageURL, "file://")
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.Storage = StorageConfig{Type: "fs"}
		c.Storage.FS.BaseDir = path
		return nil
	case strings.HasPrefix(storageURL, "s3://"):
		return applyS3Storage(storageURL, env, c)
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", storageURL)
}

// applyS3Storage configures S3 storage from URL
// Format: s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true
func applyS3Storage(raw string, env envConfig, c *ServerConfig) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
	}

	query := u.Query()
	s3cfg := s3storage.Config{
		Bucket:          u.Host,
		Region:          firstNonEmpty(query.Get("region"), env.AWSRegion, "us-east-1"),
		Endpoint:        firstNonEmpty(query.Get("endpoint"), env.AWSEndpoint),
		AccessKeyID:     env.AWSAccessKeyID,
		SecretAccessKey: env.AWSSecretAccessKey,
	}

	// Custom endpoints are usually MinIO, which wants path-style addressing.
	s3cfg.UsePathStyle = s3cfg.Endpoint != ""
	if v := query.Get("path_style"); v != "" {
		pathStyle, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid path_style in STORAGE_URL: %w", err)
		}
		s3cfg.UsePathStyle = pathStyle
	}
	if v := query.Get("create_bucket"); v != "" {
		create, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid create_bucket in STORAGE_URL: %w", err)
		}
		s3cfg.CreateBucketIfNotExist = create
	}
	if sse := query.Get("sse"); sse != "" {
		s3cfg.EnableSSE = true
		s3cfg.SSEAlgorithm = sse
		s3cfg.SSEKMSKeyID = query.Get("kms_key_id")
	}

	c.Storage = StorageConfig{Type: "s3", S3: s3cfg}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
