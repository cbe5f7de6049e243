package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	require.NoError(t, err)

	ctx := context.Background()
	key := "dist/content.json"
	data := []byte(`{"hero":{"title":"fs"}}`)

	require.NoError(t, backend.UploadWithParams(ctx, bytes.NewReader(data), sitecontent.UploadParams{
		ObjectKey: key,
		MimeType:  "application/json",
	}))

	meta, err := backend.GetObjectMeta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, "application/json", meta.ContentType)

	rc, err := backend.Download(ctx, key)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, string(data), string(got))

	require.NoError(t, backend.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(tmp, key))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(tmp, "dist"))
	assert.True(t, os.IsNotExist(err), "empty directories are cleaned up")
}

func TestFSBackend_OverwriteLeavesNoTempFiles(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "content.json", strings.NewReader("first")))
	require.NoError(t, backend.Upload(ctx, "content.json", strings.NewReader("second")))

	got, err := os.ReadFile(filepath.Join(tmp, "content.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".content.json."), "leftover temp file %s", e.Name())
	}
}

func TestFSBackend_ConcurrentUploads(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	require.NoError(t, err)
	ctx := context.Background()

	payloads := []string{`{"v":1}`, `{"v":2}`, `{"v":3}`, `{"v":4}`}
	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, backend.Upload(ctx, "content.json", strings.NewReader(p)))
		}(p)
	}
	wg.Wait()

	got, err := os.ReadFile(filepath.Join(tmp, "content.json"))
	require.NoError(t, err)
	assert.Contains(t, payloads, string(got))
}

func TestFSBackend_Errors(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = backend.Download(ctx, "missing.json")
	assert.ErrorIs(t, err, sitecontent.ErrObjectNotFound)

	_, err = backend.GetObjectMeta(ctx, "missing.json")
	assert.ErrorIs(t, err, sitecontent.ErrObjectNotFound)

	assert.ErrorIs(t, backend.Delete(ctx, "missing.json"), sitecontent.ErrObjectNotFound)

	assert.Error(t, backend.Upload(ctx, "../outside.json", strings.NewReader("x")))
}
