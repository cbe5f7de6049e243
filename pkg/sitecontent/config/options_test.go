package config

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
	"github.com/tendant/artist-site/pkg/sitecontent/source"
	s3storage "github.com/tendant/artist-site/pkg/sitecontent/storage/s3"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, snapshot.DefaultKeys, cfg.SnapshotKeys)
	assert.Empty(t, cfg.ContentSourceURL)
}

func TestOptions(t *testing.T) {
	cfg, err := Load(
		WithPort("3000"),
		WithEnvironment("production"),
		WithDatabase("postgres", "postgres://localhost/site"),
		WithDatabaseSchema("cms"),
		WithS3Storage(s3storage.Config{Bucket: "site"}),
		WithContentSource("store://public/content.json"),
		WithSnapshotKeys("public/content.json"),
	)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "cms", cfg.DBSchema)
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, []string{"public/content.json"}, cfg.SnapshotKeys)
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty port", WithPort("")},
		{"empty environment", WithEnvironment("")},
		{"unknown database", WithDatabase("mysql", "mysql://localhost")},
		{"postgres without URL", WithDatabase("postgres", "")},
		{"sqlite without path", WithDatabase("sqlite", "")},
		{"filesystem without dir", WithFilesystemStorage("")},
		{"s3 without bucket", WithS3Storage(s3storage.Config{})},
		{"no snapshot keys", WithSnapshotKeys()},
		{"bad content source", WithContentSource("gopher://example.com")},
		{"blank snapshot key", WithSnapshotKeys("ok.json", "")},
		{"unknown storage", WithStorage(StorageConfig{Type: "gcs"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestBuildRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		repo, closer, err := cfg.BuildRepository(ctx)
		require.NoError(t, err)
		defer closer.Close()

		_, err = repo.PutSection(ctx, "hero", json.RawMessage(`{"title":"x"}`))
		assert.NoError(t, err)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cms.db")
		cfg, err := Load(WithDatabase("sqlite", path))
		require.NoError(t, err)

		repo, closer, err := cfg.BuildRepository(ctx)
		require.NoError(t, err)

		_, err = repo.PutSection(ctx, "hero", json.RawMessage(`{"title":"x"}`))
		require.NoError(t, err)
		require.NoError(t, closer.Close())
		assert.FileExists(t, path)
	})
}

func TestBuildBlobStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg, err := Load(WithFilesystemStorage(dir))
	require.NoError(t, err)

	store, err := cfg.BuildBlobStore()
	require.NoError(t, err)

	require.NoError(t, store.UploadWithParams(ctx, strings.NewReader(`{}`), sitecontent.UploadParams{
		ObjectKey: "public/content.json",
		MimeType:  "application/json",
	}))
	assert.FileExists(t, filepath.Join(dir, "public", "content.json"))
}

func TestBuildSource(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	repo, closer, err := cfg.BuildRepository(context.Background())
	require.NoError(t, err)
	defer closer.Close()
	store, err := cfg.BuildBlobStore()
	require.NoError(t, err)

	tests := []struct {
		name     string
		url      string
		wantType any
		wantName string
	}{
		{"datastore", "", &source.Repository{}, "repository"},
		{"http", "https://example.com/content.json", &source.HTTP{}, "https://example.com/content.json"},
		{"file", "file:///srv/site/content.json", &source.File{}, "file:///srv/site/content.json"},
		{"store", "store://public/content.json", &source.Blob{}, "store://public/content.json"},
		{
			"fallback chain",
			"http://localhost:5173/api/load-content, http://localhost:5173/content.json",
			source.Fallback{},
			"http://localhost:5173/api/load-content | http://localhost:5173/content.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.ContentSourceURL = tt.url

			src, err := cfg.BuildSource(repo, store)
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, src)
			assert.Equal(t, tt.wantName, src.String())
		})
	}
}

func TestBuildSourceErrors(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.BuildSource(nil, nil)
	assert.Error(t, err, "datastore source needs a repository")

	cfg.ContentSourceURL = "store://public/content.json"
	_, err = cfg.BuildSource(nil, nil)
	assert.Error(t, err, "store source needs a blob store")
}
