package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Schema creates the table used by SQLite.
const Schema = `CREATE TABLE IF NOT EXISTS local_storage (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// SQLite stores items in the local_storage table. The caller owns db and
// must have applied Schema.
type SQLite struct {
	db *sql.DB

	mu    sync.RWMutex
	quota int
}

// NewSQLite wraps db with the default quota.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, quota: DefaultQuota}
}

// SetQuota changes the per-value size limit in bytes.
func (s *SQLite) SetQuota(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = n
}

func (s *SQLite) limit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quota
}

func (s *SQLite) GetItem(ctx context.Context, ns, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE namespace = ? AND key = ?`, ns, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: get %s/%s: %w", ns, key, err)
	}
	return v, true, nil
}

func (s *SQLite) SetItem(ctx context.Context, ns, key, value string) error {
	if len(value) > s.limit() {
		return ErrQuotaExceeded
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ns, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("storage: set %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *SQLite) RemoveItem(ctx context.Context, ns, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM local_storage WHERE namespace = ? AND key = ?`, ns, key); err != nil {
		return fmt.Errorf("storage: remove %s/%s: %w", ns, key, err)
	}
	return nil
}
