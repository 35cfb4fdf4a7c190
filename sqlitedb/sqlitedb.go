// Package sqlitedb opens the SQLite databases used for template and draft
// storage with the pragmas the service relies on.
package sqlitedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Open opens the database at path, creating parent directories, then runs
// each schema statement in order. Use ":memory:" for a throwaway database.
//
// The pool is capped at one connection: pragmas are per connection and an
// in-memory database only exists on the connection that created it.
func Open(path string, schemas ...string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitedb: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitedb: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitedb: %s: %w", p, err)
		}
	}
	for _, s := range schemas {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitedb: exec schema: %w", err)
		}
	}
	return db, nil
}
