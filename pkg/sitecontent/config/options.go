package config

import (
	"fmt"

	s3storage "github.com/tendant/artist-site/pkg/sitecontent/storage/s3"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the CMS datastore. For sqlite the url is the
// database file path.
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		switch dbType {
		case "memory":
		case "postgres", "sqlite":
			if url == "" {
				return fmt.Errorf("database URL is required for %s", dbType)
			}
		default:
			return fmt.Errorf("database type must be 'memory', 'postgres' or 'sqlite', got: %s", dbType)
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithStorage replaces the snapshot storage configuration
func WithStorage(storage StorageConfig) Option {
	return func(c *ServerConfig) error {
		c.Storage = storage
		return nil
	}
}

// WithFilesystemStorage stores snapshots under baseDir
func WithFilesystemStorage(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.Storage = StorageConfig{Type: "fs"}
		c.Storage.FS.BaseDir = baseDir
		return nil
	}
}

// WithS3Storage stores snapshots in an S3 bucket
func WithS3Storage(s3cfg s3storage.Config) Option {
	return func(c *ServerConfig) error {
		if s3cfg.Bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		if s3cfg.Region == "" {
			s3cfg.Region = "us-east-1"
		}
		c.Storage = StorageConfig{Type: "s3", S3: s3cfg}
		return nil
	}
}

// WithContentSource sets where the raw record is read from
func WithContentSource(url string) Option {
	return func(c *ServerConfig) error {
		c.ContentSourceURL = url
		return nil
	}
}

// WithSnapshotKeys sets the object keys content.json is written to
func WithSnapshotKeys(keys ...string) Option {
	return func(c *ServerConfig) error {
		if len(keys) == 0 {
			return fmt.Errorf("at least one snapshot key is required")
		}
		c.SnapshotKeys = append([]string(nil), keys...)
		return nil
	}
}
