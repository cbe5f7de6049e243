package sitecontent

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrSectionNotFound indicates a section was not found in the datastore
	ErrSectionNotFound = errors.New("section not found")

	// ErrObjectNotFound indicates a snapshot object was not found in storage
	ErrObjectNotFound = errors.New("object not found")

	// ErrMalformedRecord indicates a raw record is not a JSON object
	ErrMalformedRecord = errors.New("malformed content record")

	// ErrFetchFailed indicates a raw record could not be fetched
	ErrFetchFailed = errors.New("content fetch failed")

	// ErrInvalidSectionName indicates an empty or unusable section name
	ErrInvalidSectionName = errors.New("invalid section name")
)

// FetchError represents a failure to fetch a raw record from a source
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch from %s failed with status %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch from %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
