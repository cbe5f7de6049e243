package source_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/repo/memory"
	"github.com/tendant/artist-site/pkg/sitecontent/source"
	memorystorage "github.com/tendant/artist-site/pkg/sitecontent/storage/memory"
)

func TestHTTP_FetchSendsNoCacheRequest(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hero": {"title": "Remote"}, "about": {}}`))
	}))
	defer srv.Close()

	fixed := time.UnixMilli(1700000000123)
	src := source.NewHTTP(srv.URL+"/content.json?v=2", source.WithClock(func() time.Time { return fixed }))

	record, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"hero", "about"}, record.Names())
	require.NotNil(t, got)
	assert.Equal(t, "/content.json", got.URL.Path)
	assert.Equal(t, "1700000000123", got.URL.Query().Get("t"))
	assert.Equal(t, "2", got.URL.Query().Get("v"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", got.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", got.Header.Get("Pragma"))
	assert.Equal(t, "0", got.Header.Get("Expires"))
}

func TestHTTP_FetchErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := source.NewHTTP(srv.URL).Fetch(context.Background())

		var fetchErr *sitecontent.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.Status)
		assert.ErrorIs(t, err, sitecontent.ErrFetchFailed)
	})

	t.Run("body is not an object", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>index</html>`))
		}))
		defer srv.Close()

		_, err := source.NewHTTP(srv.URL).Fetch(context.Background())

		assert.ErrorIs(t, err, sitecontent.ErrMalformedRecord)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := source.NewHTTP(url).Fetch(context.Background())

		assert.ErrorIs(t, err, sitecontent.ErrFetchFailed)
	})
}

func TestHTTP_FailureNormalizesToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	loader := sitecontent.NewLoader(source.NewHTTP(srv.URL))

	assert.Equal(t, sitecontent.DefaultContent(), loader.Load(context.Background()))
}

func TestFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"footer": {"services": "A, B"}}`), 0644))

	record, err := source.NewFile(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"footer"}, record.Names())

	_, err = source.NewFile(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	assert.ErrorIs(t, err, sitecontent.ErrFetchFailed)
}

func TestFile_WatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	src := source.NewFile(path, source.WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- src.Watch(ctx, func() { calls.Add(1) })
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"hero": {}}`), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte(`{}`), 0644))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst of writes yields one callback")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestBlob_Fetch(t *testing.T) {
	store := memorystorage.New()
	ctx := context.Background()
	require.NoError(t, store.Upload(ctx, "dist/content.json", strings.NewReader(`{"hero": {"title": "Published"}}`)))

	record, err := source.NewBlob(store, "dist/content.json").Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Published", sitecontent.Normalize(record, sitecontent.DefaultContent()).Hero.Title)

	_, err = source.NewBlob(store, "public/content.json").Fetch(ctx)
	assert.ErrorIs(t, err, sitecontent.ErrFetchFailed)
	assert.ErrorIs(t, err, sitecontent.ErrObjectNotFound)
}

func TestRepository_FetchKeepsCreationOrder(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	_, err := repo.PutSection(ctx, "images", json.RawMessage(`{"bookExperience": {"title": "From images"}}`))
	require.NoError(t, err)
	_, err = repo.PutSection(ctx, "bookExperience", json.RawMessage(`{"title": "Standalone"}`))
	require.NoError(t, err)

	record, err := source.NewRepository(repo).Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"images", "bookExperience"}, record.Names())
	assert.Equal(t, "Standalone", sitecontent.Normalize(record, sitecontent.DefaultContent()).BookExperience.Title)
}

type stubSource struct {
	name   string
	record sitecontent.RawRecord
	err    error
	calls  int
}

func (s *stubSource) Fetch(ctx context.Context) (sitecontent.RawRecord, error) {
	s.calls++
	return s.record, s.err
}

func (s *stubSource) String() string { return s.name }

func TestFallback(t *testing.T) {
	api := &stubSource{name: "api", err: errors.New("api down")}
	static := &stubSource{name: "static", record: sitecontent.RawRecord{Sections: []sitecontent.RawSection{{Name: "hero"}}}}
	never := &stubSource{name: "never"}

	record, err := source.Fallback{api, static, never}.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"hero"}, record.Names())
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, 1, static.calls)
	assert.Equal(t, 0, never.calls)
	assert.Equal(t, "api | static | never", source.Fallback{api, static, never}.String())
}

func TestFallback_AllFail(t *testing.T) {
	first := errors.New("first")
	second := &sitecontent.FetchError{Source: "static", Status: 404, Err: sitecontent.ErrFetchFailed}

	_, err := source.Fallback{
		&stubSource{name: "a", err: first},
		&stubSource{name: "b", err: second},
	}.Fetch(context.Background())

	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, sitecontent.ErrFetchFailed)

	_, err = source.Fallback{}.Fetch(context.Background())
	assert.ErrorIs(t, err, sitecontent.ErrFetchFailed)
}
