package cache

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no layout exists for a signature.
var ErrNotFound = stderrors.New("layout not found")

// Cell is one tile's solved grid position.
type Cell struct {
	Col int
	Row int
}

// Layout maps tile filenames to their solved positions.
type Layout map[string]Cell

// Store persists solved layouts in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a new SQLite-backed layout store. Use ":memory:" for an
// in-memory database, or a file path for persistent storage.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS layouts (
		signature TEXT NOT NULL,
		file TEXT NOT NULL,
		col INTEGER NOT NULL,
		row INTEGER NOT NULL,
		solved_at INTEGER NOT NULL,
		PRIMARY KEY (signature, file)
	);
	CREATE INDEX IF NOT EXISTS idx_layouts_signature ON layouts(signature);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put stores the layout for a signature, replacing any previous entry.
func (s *Store) Put(ctx context.Context, signature string, layout Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM layouts WHERE signature = ?", signature); err != nil {
		return fmt.Errorf("clear previous layout: %w", err)
	}

	now := time.Now().Unix()
	for file, cell := range layout {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO layouts (signature, file, col, row, solved_at) VALUES (?, ?, ?, ?, ?)",
			signature, file, cell.Col, cell.Row, now,
		)
		if err != nil {
			return fmt.Errorf("insert layout row: %w", err)
		}
	}
	return tx.Commit()
}

// Get retrieves the layout for a signature. Returns ErrNotFound when the
// signature has never been solved.
func (s *Store) Get(ctx context.Context, signature string) (Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT file, col, row FROM layouts WHERE signature = ?", signature)
	if err != nil {
		return nil, fmt.Errorf("query layout: %w", err)
	}
	defer rows.Close()

	layout := make(Layout)
	for rows.Next() {
		var file string
		var cell Cell
		if err := rows.Scan(&file, &cell.Col, &cell.Row); err != nil {
			return nil, fmt.Errorf("scan layout row: %w", err)
		}
		layout[file] = cell
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if len(layout) == 0 {
		return nil, ErrNotFound
	}
	return layout, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
