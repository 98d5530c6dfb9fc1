package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DataDirName is the project data directory created under the root.
const DataDirName = ".spikenet"

// SQLitePatternStore implements PatternStore on a SQLite database at
// <root>/.spikenet/spikenet.db.
type SQLitePatternStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLitePatternStore opens (creating if needed) the database under
// projectRoot and initializes the schema.
func NewSQLitePatternStore(projectRoot string) (*SQLitePatternStore, error) {
	dataDir := filepath.Join(projectRoot, DataDirName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DataDirName, err)
	}

	dbPath := filepath.Join(dataDir, "spikenet.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLitePatternStore{db: db, dbPath: dbPath}, nil
}

// initSchema creates the patterns table when missing.
func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS patterns (
			id                TEXT PRIMARY KEY,
			label             TEXT NOT NULL,
			bits              BLOB NOT NULL,
			last_accessed     TEXT NOT NULL,
			recognition_count INTEGER NOT NULL DEFAULT 0,
			metadata          TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_patterns_label ON patterns(label);
	`)
	return err
}

// Put inserts or replaces the pattern.
func (s *SQLitePatternStore) Put(ctx context.Context, p Pattern) error {
	if p.ID == "" {
		return fmt.Errorf("pattern ID is required")
	}

	var metadata []byte
	if p.Metadata != nil {
		var err error
		metadata, err = json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO patterns (id, label, bits, last_accessed, recognition_count, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Label, p.Bits, p.LastAccessed.UTC().Format(time.RFC3339Nano),
		p.RecognitionCount, nullableString(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to put pattern %s: %w", p.ID, err)
	}
	return nil
}

// Get returns the pattern or nil when absent.
func (s *SQLitePatternStore) Get(ctx context.Context, id string) (*Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, bits, last_accessed, recognition_count, metadata
		FROM patterns WHERE id = ?`, id)

	p, err := scanPattern(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pattern %s: %w", id, err)
	}
	return p, nil
}

// Delete removes the pattern, reporting whether it existed.
func (s *SQLitePatternStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM patterns WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pattern %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all patterns ordered by ID.
func (s *SQLitePatternStore) List(ctx context.Context) ([]Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, bits, last_accessed, recognition_count, metadata
		FROM patterns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	var out []Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Clear removes every pattern.
func (s *SQLitePatternStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM patterns`); err != nil {
		return fmt.Errorf("failed to clear patterns: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLitePatternStore) Close() error {
	return s.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(row scanner) (*Pattern, error) {
	var p Pattern
	var accessed string
	var metadata sql.NullString

	if err := row.Scan(&p.ID, &p.Label, &p.Bits, &accessed, &p.RecognitionCount, &metadata); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, accessed)
	if err != nil {
		return nil, fmt.Errorf("bad last_accessed for %s: %w", p.ID, err)
	}
	p.LastAccessed = ts

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &p.Metadata); err != nil {
			return nil, fmt.Errorf("bad metadata for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
