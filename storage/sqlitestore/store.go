// Package sqlitestore persists engine records in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/cubeforge/collab/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS collab_records (
	name       TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Config holds configuration options for the SQLite store.
type Config struct {
	// DataSourceName is the SQLite connection string, e.g.
	// "file:collab.db?_journal_mode=WAL" or ":memory:".
	DataSourceName string

	// EnableWAL appends WAL journal mode to file-backed data sources for
	// better concurrency.
	EnableWAL bool
}

// Store keeps one row per record.
type Store struct {
	db *sql.DB
}

// New opens (and if necessary initializes) the database.
func New(cfg Config) (*Store, error) {
	dsn := cfg.DataSourceName
	if dsn == "" {
		dsn = ":memory:"
	}
	if cfg.EnableWAL && dsn != ":memory:" {
		dsn += "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Read(ctx context.Context, rec storage.Record) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM collab_records WHERE name = ?`, string(rec),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rec, err)
	}
	return data, nil
}

func (s *Store) Write(ctx context.Context, rec storage.Record, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collab_records (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(rec), data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", rec, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, rec storage.Record) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM collab_records WHERE name = ?`, string(rec))
	if err != nil {
		return fmt.Errorf("delete %s: %w", rec, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
