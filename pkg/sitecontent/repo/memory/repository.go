package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

// Repository implements sitecontent.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	sections map[string]*sitecontent.SectionRecord
	order    []string // names in creation order
	now      func() time.Time
}

// New creates a new in-memory repository
func New() sitecontent.Repository {
	return &Repository{
		sections: make(map[string]*sitecontent.SectionRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func copyRecord(rec *sitecontent.SectionRecord) *sitecontent.SectionRecord {
	out := *rec
	out.Content = append(json.RawMessage(nil), rec.Content...)
	return &out
}

func (r *Repository) ListSections(ctx context.Context) ([]*sitecontent.SectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*sitecontent.SectionRecord, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, copyRecord(r.sections[name]))
	}
	return out, nil
}

func (r *Repository) GetSection(ctx context.Context, name string) (*sitecontent.SectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.sections[name]
	if !exists {
		return nil, sitecontent.ErrSectionNotFound
	}
	return copyRecord(rec), nil
}

func (r *Repository) PutSection(ctx context.Context, name string, content json.RawMessage) (*sitecontent.SectionRecord, error) {
	if err := sitecontent.ValidateSection(name, content); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	rec, exists := r.sections[name]
	if !exists {
		rec = &sitecontent.SectionRecord{
			ID:        uuid.New(),
			Name:      name,
			CreatedAt: now,
		}
		r.sections[name] = rec
		r.order = append(r.order, name)
	}
	rec.Content = append(json.RawMessage(nil), content...)
	rec.UpdatedAt = now

	return copyRecord(rec), nil
}

func (r *Repository) DeleteSection(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sections[name]; !exists {
		return sitecontent.ErrSectionNotFound
	}
	delete(r.sections, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return nil
}
