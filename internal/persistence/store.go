package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/aristath/tasker/internal/config"
	"github.com/aristath/tasker/internal/scheduler"
)

// Store persists the whole task registry document.
// Load on an empty or missing store returns an empty document.
type Store interface {
	scheduler.Storage
	Close() error
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewJSONStore(cfg.Path)
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.Path)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite store at dbPath.
// Creates parent directories if needed. Enables WAL mode, foreign keys, and busy timeout.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	// modernc.org/sqlite doesn't support _foreign_keys in the connection string
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	return openSQLite(ctx, connStr)
}

// NewMemoryStore creates an in-memory SQLite store for testing.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	return openSQLite(ctx, "file::memory:?mode=memory")
}

func openSQLite(ctx context.Context, connStr string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: the registry is the only writer, and an in-memory
	// database is private to the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
