package sqlite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/repo/sqlite"
)

func openRepository(t *testing.T, path string) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_SectionLifecycle(t *testing.T) {
	repo := openRepository(t, filepath.Join(t.TempDir(), "cms", "content.db"))
	ctx := context.Background()

	hero, err := repo.PutSection(ctx, "hero", json.RawMessage(`{"title": "First"}`))
	require.NoError(t, err)
	assert.Equal(t, "hero", hero.Name)
	assert.False(t, hero.CreatedAt.IsZero())

	_, err = repo.PutSection(ctx, "about", json.RawMessage(`{"title": "About"}`))
	require.NoError(t, err)

	updated, err := repo.PutSection(ctx, "hero", json.RawMessage(`{"title": "Second"}`))
	require.NoError(t, err)
	assert.Equal(t, hero.ID, updated.ID)
	assert.True(t, hero.CreatedAt.Equal(updated.CreatedAt))

	list, err := repo.ListSections(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hero", list[0].Name)
	assert.JSONEq(t, `{"title": "Second"}`, string(list[0].Content))
	assert.Equal(t, "about", list[1].Name)

	require.NoError(t, repo.DeleteSection(ctx, "hero"))
	_, err = repo.GetSection(ctx, "hero")
	assert.ErrorIs(t, err, sitecontent.ErrSectionNotFound)
	assert.ErrorIs(t, repo.DeleteSection(ctx, "hero"), sitecontent.ErrSectionNotFound)
}

func TestRepository_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	_, err = first.PutSection(ctx, "footer", json.RawMessage(`{"services": "Weddings, Concerts"}`))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := openRepository(t, path)
	rows, err := second.ListSections(ctx)
	require.NoError(t, err)

	got := sitecontent.Normalize(sitecontent.RecordFromSections(rows), sitecontent.DefaultContent())
	assert.Equal(t, []string{"Weddings", "Concerts"}, got.Footer.Services)
}

func TestRepository_RejectsInvalidInput(t *testing.T) {
	repo := openRepository(t, filepath.Join(t.TempDir(), "content.db"))
	ctx := context.Background()

	_, err := repo.PutSection(ctx, "a/b", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, sitecontent.ErrInvalidSectionName)

	_, err = repo.PutSection(ctx, "hero", json.RawMessage(`not json`))
	assert.ErrorIs(t, err, sitecontent.ErrMalformedRecord)
}
