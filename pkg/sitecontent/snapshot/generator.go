// Package snapshot publishes the normalized site content as a static
// content.json document.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

// DefaultKeys are the object keys the site build reads content.json from.
var DefaultKeys = []string{"dist/content.json", "public/content.json"}

// Generator reads the CMS sections, normalizes them and writes the result to
// every configured key.
type Generator struct {
	repo     sitecontent.Repository
	store    sitecontent.BlobStore
	keys     []string
	defaults sitecontent.Content
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithKeys sets the object keys written by Generate.
func WithKeys(keys ...string) Option {
	return func(g *Generator) {
		if len(keys) > 0 {
			g.keys = append([]string(nil), keys...)
		}
	}
}

// WithDefaults sets the content used when the datastore is empty or
// unreachable.
func WithDefaults(defaults sitecontent.Content) Option {
	return func(g *Generator) {
		g.defaults = defaults.Clone()
	}
}

// WithLogger sets the generator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator.
func New(repo sitecontent.Repository, store sitecontent.BlobStore, opts ...Option) *Generator {
	g := &Generator{
		repo:     repo,
		store:    store,
		keys:     append([]string(nil), DefaultKeys...),
		defaults: sitecontent.DefaultContent(),
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Keys returns the object keys written by Generate.
func (g *Generator) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Result describes one Generate run.
type Result struct {
	ID           uuid.UUID `json:"id"`
	Sections     []string  `json:"sections"`
	UsedDefaults bool      `json:"usedDefaults"`
	Keys         []string  `json:"keys"`
	Bytes        int       `json:"bytes"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// Build returns the indented snapshot document and the section names it was
// built from. A datastore error or an empty datastore yields the defaults;
// the datastore error is logged, not returned.
func (g *Generator) Build(ctx context.Context) ([]byte, []string, error) {
	var record sitecontent.RawRecord
	if g.repo != nil {
		rows, err := g.repo.ListSections(ctx)
		if err != nil {
			g.logger.Error("Failed to fetch content sections, using defaults", "error", err)
		} else {
			record = sitecontent.RecordFromSections(rows)
		}
	}

	content := sitecontent.Normalize(record, g.defaults)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(content); err != nil {
		return nil, nil, fmt.Errorf("encode content: %w", err)
	}
	return buf.Bytes(), record.Names(), nil
}

// Generate builds the snapshot and uploads it to every key as
// application/json. Every key is attempted; upload failures are joined.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	data, sections, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:           uuid.New(),
		Sections:     sections,
		UsedDefaults: len(sections) == 0,
		Bytes:        len(data),
		GeneratedAt:  g.now(),
	}

	var errs []error
	for _, key := range g.keys {
		err := g.store.UploadWithParams(ctx, bytes.NewReader(data), sitecontent.UploadParams{
			ObjectKey: key,
			MimeType:  "application/json",
		})
		if err != nil {
			g.logger.Error("Failed to write content snapshot", "key", key, "error", err)
			errs = append(errs, fmt.Errorf("write %s: %w", key, err))
			continue
		}
		result.Keys = append(result.Keys, key)
	}

	if err := errors.Join(errs...); err != nil {
		return result, err
	}

	g.logger.Info("Generated content snapshot",
		"run_id", result.ID,
		"sections", len(result.Sections),
		"defaults", result.UsedDefaults,
		"keys", result.Keys,
		"bytes", result.Bytes,
	)
	return result, nil
}
