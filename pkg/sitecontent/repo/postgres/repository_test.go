package postgres_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/repo/postgres"
)

// newTestRepository connects to CONTENT_TEST_DATABASE_URL and isolates the
// test in a throwaway schema.
func newTestRepository(t *testing.T) *postgres.Repository {
	t.Helper()

	dsn := os.Getenv("CONTENT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping postgres test: CONTENT_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("site_content_test_%d", time.Now().UnixNano())

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := postgres.NewWithPool(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestRepository_SectionLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	hero, err := repo.PutSection(ctx, "hero", json.RawMessage(`{"title": "First"}`))
	require.NoError(t, err)
	assert.Equal(t, "hero", hero.Name)

	_, err = repo.PutSection(ctx, "about", json.RawMessage(`{"title": "About"}`))
	require.NoError(t, err)

	updated, err := repo.PutSection(ctx, "hero", json.RawMessage(`{"title": "Second"}`))
	require.NoError(t, err)
	assert.Equal(t, hero.ID, updated.ID)
	assert.True(t, !updated.UpdatedAt.Before(hero.UpdatedAt))

	got, err := repo.GetSection(ctx, "hero")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "Second"}`, string(got.Content))

	list, err := repo.ListSections(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hero", list[0].Name)
	assert.Equal(t, "about", list[1].Name)

	require.NoError(t, repo.DeleteSection(ctx, "hero"))
	_, err = repo.GetSection(ctx, "hero")
	assert.ErrorIs(t, err, sitecontent.ErrSectionNotFound)
	assert.ErrorIs(t, repo.DeleteSection(ctx, "hero"), sitecontent.ErrSectionNotFound)
}

func TestRepository_RejectsInvalidInput(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.PutSection(ctx, "", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, sitecontent.ErrInvalidSectionName)

	_, err = repo.PutSection(ctx, "hero", json.RawMessage(`{oops`))
	assert.ErrorIs(t, err, sitecontent.ErrMalformedRecord)
}
