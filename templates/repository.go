package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Schema creates the templates table.
const Schema = `CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	is_public   INTEGER NOT NULL DEFAULT 0,
	fields_json TEXT NOT NULL DEFAULT '[]',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_templates_owner ON templates(owner, created_at);`

const selectColumns = `SELECT id, owner, title, description, content, category, is_public,
	fields_json, created_at, updated_at FROM templates`

// Visibility filters List results.
type Visibility string

const (
	VisibilityAll    Visibility = ""
	VisibilityMine   Visibility = "my"
	VisibilityPublic Visibility = "public"
)

// Query selects templates visible to Owner.
type Query struct {
	Owner      string
	Search     string
	Category   string
	Visibility Visibility
	Limit      int
}

// Repository stores templates in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock replaces time.Now for created and updated times.
func WithClock(now func() time.Time) Option { return func(r *Repository) { r.now = now } }

// NewRepository applies Schema to db and returns a repository on it.
func NewRepository(db *sql.DB, opts ...Option) (*Repository, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("templates: schema: %w", err)
	}
	r := &Repository{db: db, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Save validates t, derives its fields from the content and writes it. A
// template without an id is created; otherwise the owner's template with
// that id is replaced.
func (r *Repository) Save(ctx context.Context, t *Template) error {
	if err := t.validate(); err != nil {
		return err
	}
	now := r.now()

	if t.ID == "" {
		t.ID = uuid.New().String()
		t.CreatedAt = now
		t.UpdatedAt = now
		t.Fields = deriveFields(t.Content, t.Fields)
		fields, err := json.Marshal(t.Fields)
		if err != nil {
			return fmt.Errorf("templates: encode fields: %w", err)
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO templates (id, owner, title, description, content, category,
			is_public, fields_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Owner, t.Title, t.Description, t.Content, t.Category,
			t.IsPublic, string(fields), t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("templates: insert: %w", err)
		}
		return nil
	}

	prev, err := r.Get(ctx, t.ID)
	if err != nil {
		return err
	}
	if prev.Owner != t.Owner {
		return ErrNotFound
	}
	if t.Fields == nil {
		t.Fields = prev.Fields
	}
	t.Fields = deriveFields(t.Content, t.Fields)
	t.CreatedAt = prev.CreatedAt
	t.UpdatedAt = now
	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("templates: encode fields: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE templates SET title=?, description=?, content=?, category=?,
		is_public=?, fields_json=?, updated_at=? WHERE id=?`,
		t.Title, t.Description, t.Content, t.Category,
		t.IsPublic, string(fields), t.UpdatedAt.UnixMilli(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("templates: update: %w", err)
	}
	return nil
}

// Get returns the template with id regardless of owner.
func (r *Repository) Get(ctx context.Context, id string) (*Template, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// List returns the templates matching q, newest first.
func (r *Repository) List(ctx context.Context, q Query) ([]*Template, error) {
	var (
		where = []string{"(owner = ? OR is_public = 1)"}
		args  = []any{q.Owner}
	)
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		args = append(args, like, like)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	switch q.Visibility {
	case VisibilityMine:
		where = append(where, "owner = ?")
		args = append(args, q.Owner)
	case VisibilityPublic:
		where = append(where, "is_public = 1")
	}

	query := selectColumns + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC, rowid DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("templates: list: %w", err)
	}
	defer rows.Close()

	var out []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes the owner's template with id.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("templates: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (*Template, error) {
	var (
		t                Template
		fields           string
		created, updated int64
	)
	if err := s.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Content, &t.Category,
		&t.IsPublic, &fields, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
		return nil, fmt.Errorf("templates: decode fields of %s: %w", t.ID, err)
	}
	t.CreatedAt = time.UnixMilli(created)
	t.UpdatedAt = time.UnixMilli(updated)
	return &t, nil
}
