package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Schema creates the CMS table. Each row is one named section of the site.
const Schema = `
CREATE TABLE IF NOT EXISTS site_content (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	section_name TEXT NOT NULL UNIQUE,
	content      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repository implements sitecontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// EnsureSchema creates the site_content table when it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return r.handlePostgresError("ensure schema", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("section already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "22P02", "22032": // invalid_text_representation, invalid_json_text
			return fmt.Errorf("%w: %s", sitecontent.ErrMalformedRecord, pgErr.Message)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return sitecontent.ErrSectionNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const sectionColumns = `id, section_name, content, created_at, updated_at`

func scanSection(row pgx.Row) (*sitecontent.SectionRecord, error) {
	var rec sitecontent.SectionRecord
	var content []byte
	if err := row.Scan(&rec.ID, &rec.Name, &content, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Content = json.RawMessage(content)
	return &rec, nil
}

func (r *Repository) ListSections(ctx context.Context) ([]*sitecontent.SectionRecord, error) {
	query := `SELECT ` + sectionColumns + ` FROM site_content ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list sections", err)
	}
	defer rows.Close()

	var sections []*sitecontent.SectionRecord
	for rows.Next() {
		rec, err := scanSection(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan section", err)
		}
		sections = append(sections, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list sections", err)
	}

	return sections, nil
}

func (r *Repository) GetSection(ctx context.Context, name string) (*sitecontent.SectionRecord, error) {
	query := `SELECT ` + sectionColumns + ` FROM site_content WHERE section_name = $1`

	rec, err := scanSection(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, r.handlePostgresError("get section", err)
	}
	return rec, nil
}

func (r *Repository) PutSection(ctx context.Context, name string, content json.RawMessage) (*sitecontent.SectionRecord, error) {
	if err := sitecontent.ValidateSection(name, content); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO site_content (section_name, content)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (section_name)
		DO UPDATE SET content = EXCLUDED.content, updated_at = now()
		RETURNING ` + sectionColumns

	rec, err := scanSection(r.db.QueryRow(ctx, query, name, string(content)))
	if err != nil {
		return nil, r.handlePostgresError("put section", err)
	}
	return rec, nil
}

func (r *Repository) DeleteSection(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM site_content WHERE section_name = $1`, name)
	if err != nil {
		return r.handlePostgresError("delete section", err)
	}
	if tag.RowsAffected() == 0 {
		return sitecontent.ErrSectionNotFound
	}
	return nil
}
