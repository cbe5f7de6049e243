package sitecontent

import (
	"context"
	"encoding/json"
	"io"
)

// Source fetches the raw content record.
type Source interface {
	// Fetch returns the current raw record. Any error is treated by Loader
	// as an empty record.
	Fetch(ctx context.Context) (RawRecord, error)

	// String names the source in logs.
	String() string
}

// Repository is the content-management datastore: one JSON document per
// named section.
type Repository interface {
	// ListSections returns all sections in creation order.
	ListSections(ctx context.Context) ([]*SectionRecord, error)

	// GetSection returns ErrSectionNotFound when name is unknown.
	GetSection(ctx context.Context, name string) (*SectionRecord, error)

	// PutSection creates or replaces the document of a section.
	PutSection(ctx context.Context, name string, content json.RawMessage) (*SectionRecord, error)

	// DeleteSection returns ErrSectionNotFound when name is unknown.
	DeleteSection(ctx context.Context, name string) error
}

// BlobStore defines the interface for snapshot storage backends
type BlobStore interface {
	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download returns ErrObjectNotFound when the key does not exist
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}
