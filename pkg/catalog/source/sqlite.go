package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/randalmurphal/catalog/pkg/catalog/config"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteSource reads declarations from a SQLite table. Put and Delete
// manage the table; the registry itself only calls Load.
type SQLiteSource struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteSource opens (and if needed creates) the declarations table.
// The path should be a file path (e.g., "./catalog.db") or ":memory:" for testing.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS declarations (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			aliases TEXT NOT NULL,
			attrs TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// Put inserts or replaces declarations. A replaced declaration keeps its
// original position in Load order.
func (s *SQLiteSource) Put(ctx context.Context, decls ...Declaration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, d := range decls {
		if err := d.Validate(); err != nil {
			return err
		}
		aliases, err := json.Marshal(nonNil(d.Aliases))
		if err != nil {
			return fmt.Errorf("encode aliases for %s: %w", d.Name, err)
		}
		attrs, err := json.Marshal(d.Attrs.Raw())
		if err != nil {
			return fmt.Errorf("encode attrs for %s: %w", d.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO declarations (name, kind, aliases, attrs, sequence, updated_at)
			VALUES (
				?, ?, ?, ?,
				COALESCE((SELECT MAX(sequence) FROM declarations), 0) + 1,
				?
			)
			ON CONFLICT(name) DO UPDATE SET
				kind = excluded.kind,
				aliases = excluded.aliases,
				attrs = excluded.attrs,
				updated_at = excluded.updated_at
		`, d.Name, d.Kind, string(aliases), string(attrs), now)
		if err != nil {
			return fmt.Errorf("put declaration %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes the declaration with the given name.
// Returns nil if it doesn't exist.
func (s *SQLiteSource) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM declarations WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete declaration: %w", err)
	}
	return nil
}

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context) ([]Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, aliases, attrs
		FROM declarations
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("list declarations: %w", err)
	}
	defer rows.Close()

	var decls []Declaration
	for rows.Next() {
		var d Declaration
		var aliases, attrs string
		if err := rows.Scan(&d.Name, &d.Kind, &aliases, &attrs); err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		if err := json.Unmarshal([]byte(aliases), &d.Aliases); err != nil {
			return nil, fmt.Errorf("decode aliases for %s: %w", d.Name, err)
		}
		if len(d.Aliases) == 0 {
			d.Aliases = nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(attrs), &m); err != nil {
			return nil, fmt.Errorf("decode attrs for %s: %w", d.Name, err)
		}
		d.Attrs = config.New(m)
		decls = append(decls, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate declarations: %w", err)
	}
	return decls, nil
}

// Close implements Source.
func (s *SQLiteSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
