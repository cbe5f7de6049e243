package source

import (
	"context"
	"fmt"
	"io"

	"github.com/tendant/artist-site/pkg/sitecontent"
)

// Blob reads a published snapshot from a blob store.
type Blob struct {
	store sitecontent.BlobStore
	key   string
}

// NewBlob creates a source for the object at key.
func NewBlob(store sitecontent.BlobStore, key string) *Blob {
	return &Blob{store: store, key: key}
}

func (b *Blob) String() string {
	return "store://" + b.key
}

func (b *Blob) Fetch(ctx context.Context) (sitecontent.RawRecord, error) {
	rc, err := b.store.Download(ctx, b.key)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: b.String(), Err: fmt.Errorf("%w: %w", sitecontent.ErrFetchFailed, err)}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxRecordSize))
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: b.String(), Err: err}
	}

	record, err := sitecontent.ParseRecord(data)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: b.String(), Err: err}
	}
	return record, nil
}

// Repository reads the live CMS sections, one raw section per row in
// creation order.
type Repository struct {
	repo sitecontent.Repository
}

// NewRepository creates a source backed by repo.
func NewRepository(repo sitecontent.Repository) *Repository {
	return &Repository{repo: repo}
}

func (r *Repository) String() string {
	return "repository"
}

func (r *Repository) Fetch(ctx context.Context) (sitecontent.RawRecord, error) {
	rows, err := r.repo.ListSections(ctx)
	if err != nil {
		return sitecontent.RawRecord{}, &sitecontent.FetchError{Source: r.String(), Err: fmt.Errorf("%w: %w", sitecontent.ErrFetchFailed, err)}
	}
	return sitecontent.RecordFromSections(rows), nil
}
