// Package sqlite stores CMS sections in a local SQLite file, for running the
// site without a hosted database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/artist-site/pkg/sitecontent"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS site_content (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	section_name TEXT NOT NULL UNIQUE,
	content      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
)`

// Repository implements sitecontent.Repository on SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repository{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSection(row scanner) (*sitecontent.SectionRecord, error) {
	var (
		rec                  sitecontent.SectionRecord
		id, content          string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &rec.Name, &content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	rec.Content = json.RawMessage(content)
	return &rec, nil
}

const sectionColumns = `id, section_name, content, created_at, updated_at`

func (r *Repository) ListSections(ctx context.Context) ([]*sitecontent.SectionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sectionColumns+` FROM site_content ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []*sitecontent.SectionRecord
	for rows.Next() {
		rec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, rec)
	}
	return sections, rows.Err()
}

func (r *Repository) GetSection(ctx context.Context, name string) (*sitecontent.SectionRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM site_content WHERE section_name = ?`, name)
	rec, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitecontent.ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get section %s: %w", name, err)
	}
	return rec, nil
}

func (r *Repository) PutSection(ctx context.Context, name string, content json.RawMessage) (*sitecontent.SectionRecord, error) {
	if err := sitecontent.ValidateSection(name, content); err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO site_content (id, section_name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (section_name)
		DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		uuid.NewString(), name, string(content), timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("put section %s: %w", name, err)
	}

	return r.GetSection(ctx, name)
}

func (r *Repository) DeleteSection(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM site_content WHERE section_name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete section %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete section %s: %w", name, err)
	}
	if n == 0 {
		return sitecontent.ErrSectionNotFound
	}
	return nil
}
