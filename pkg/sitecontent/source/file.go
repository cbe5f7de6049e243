package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

const defaultDebounce = 500 * time.Millisecond

// File reads a raw record from a local JSON file, typically the generated
// content.json.
type File struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// FileOption configures a File source
type FileOption func(*File)

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) FileOption {
	return func(f *File) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithFileLogger sets the logger used by Watch.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFile creates a source for the file at path.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) String() string {
	return "file://" + f.path
}

// Fetch reads and parses the file.
func (f *File) Fetch(ctx context.Context) (sitecontent.RawRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: f.String(), Err: fmt.Errorf("%w: %w", sitecontent.ErrFetchFailed, err)}
	}

	record, err := sitecontent.ParseRecord(data)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: f.String(), Err: err}
	}
	return record, nil
}

// Watch calls onChange after the file is written, created, renamed or
// removed, once the changes have settled for the debounce interval. It
// watches the parent directory so atomic rename-into-place writes are seen.
// Watch blocks until ctx is done.
func (f *File) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			f.logger.Debug("Content file changed", "path", f.path, "op", event.Op.String())

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(f.debounce, func() {
				if ctx.Err() == nil {
					onChange()
				}
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("Content file watcher error", "path", f.path, "error", err)
		}
	}
}
