// Package store persists category verdicts in a small SQLite database, so a
// transaction classified once (in particular by the paid LLM path) is never
// classified again across re-imports.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"

	"fintidy"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "store").Logger()

// Store is the verdict cache, keyed by content fingerprint.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and brings the schema
// up to date.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Verdict is one cached classification.
type Verdict struct {
	Fingerprint string
	Category    string
	Origin      fintidy.Origin
	AssignedAt  time.Time
}

// Put records a verdict, replacing any earlier one for the same fingerprint.
func (s *Store) Put(ctx context.Context, fingerprint, category string, origin fintidy.Origin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (fingerprint, category, origin, assigned_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			category = excluded.category,
			origin = excluded.origin,
			assigned_at = excluded.assigned_at`,
		fingerprint, category, string(origin), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put verdict %s: %w", fingerprint, err)
	}
	logger.Debug().Str("fingerprint", fingerprint).Str("category", category).Msg("verdict cached")
	return nil
}

// Get returns the cached verdict for a fingerprint, if any.
func (s *Store) Get(ctx context.Context, fingerprint string) (Verdict, bool, error) {
	var v Verdict
	var origin string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, category, origin, assigned_at FROM assignments WHERE fingerprint = ?`,
		fingerprint).Scan(&v.Fingerprint, &v.Category, &origin, &v.AssignedAt)
	if err == sql.ErrNoRows {
		return Verdict{}, false, nil
	}
	if err != nil {
		return Verdict{}, false, fmt.Errorf("get verdict %s: %w", fingerprint, err)
	}
	v.Origin = fintidy.Origin(origin)
	return v, true, nil
}

// All returns every cached verdict, keyed by fingerprint.
func (s *Store) All(ctx context.Context) (map[string]Verdict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, category, origin, assigned_at FROM assignments`)
	if err != nil {
		return nil, fmt.Errorf("list verdicts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Verdict)
	for rows.Next() {
		var v Verdict
		var origin string
		if err := rows.Scan(&v.Fingerprint, &v.Category, &origin, &v.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		v.Origin = fintidy.Origin(origin)
		out[v.Fingerprint] = v
	}
	return out, rows.Err()
}
