package sitecontent

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Loader fetches a raw record from a Source and normalizes it.
type Loader struct {
	source   Source
	defaults Content
	logger   *slog.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithDefaults overrides DefaultContent as the fallback value.
func WithDefaults(defaults Content) LoaderOption {
	return func(l *Loader) {
		l.defaults = defaults.Clone()
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader for source.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:   source,
		defaults: DefaultContent(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Defaults returns a copy of the fallback content.
func (l *Loader) Defaults() Content {
	return l.defaults.Clone()
}

// Load fetches and normalizes the content. A failed fetch is logged and
// handled exactly like an empty record, so the defaults come back
// unchanged.
func (l *Loader) Load(ctx context.Context) Content {
	content, _ := l.load(ctx)
	return content
}

func (l *Loader) load(ctx context.Context) (Content, error) {
	var raw RawRecord
	if l.source != nil {
		record, err := l.source.Fetch(ctx)
		if err != nil {
			l.logger.Warn("Content fetch failed, using defaults", "source", l.source.String(), "error", err)
			return Normalize(RawRecord{}, l.defaults), err
		}
		raw = record
	}
	return Normalize(raw, l.defaults), nil
}

// Snapshot is a loaded Content value and when it was loaded.
type Snapshot struct {
	Content  Content
	LoadedAt time.Time
	// Err is the fetch error that produced a defaults-only load, if any.
	Err error
}

// Store holds the current Content. Refresh replaces the whole value; readers
// never see a partially updated one.
type Store struct {
	loader  *Loader
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes Refresh
}

// NewStore creates a Store that serves the loader's defaults until the first
// Refresh.
func NewStore(loader *Loader) *Store {
	s := &Store{loader: loader}
	s.current.Store(&Snapshot{Content: Normalize(RawRecord{}, loader.defaults)})
	return s
}

// Current returns the current content. Callers must treat it as read-only.
func (s *Store) Current() Content {
	return s.current.Load().Content
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Refresh reloads the content from the source. The returned error is the
// fetch error, if any; the store has been updated with defaults in that case.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.loader.load(ctx)
	s.current.Store(&Snapshot{Content: content, LoadedAt: time.Now().UTC(), Err: err})
	return err
}
