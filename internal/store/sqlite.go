package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-sync/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a KeyValueStore on a single-writer SQLite database.
// Writes are serialized by mu; reads go straight to the pool.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	mu     sync.Mutex
}

// New returns the SQLite store, or a MemoryStore when no path is configured.
func New(cfg *config.Config, logger *zap.Logger) (KeyValueStore, func() error, error) {
	if cfg.SQLitePath == "" {
		logger.Warn("SQLITE_PATH is empty, local state will not survive restarts")
		return NewMemoryStore(), func() error { return nil }, nil
	}
	s, err := NewSQLiteStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func NewSQLiteStore(cfg *config.Config, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", cfg.SQLitePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // Single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite key-value store ready", zap.String("path", cfg.SQLitePath))
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ping checks the database connection
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	return s.PutMany(ctx, map[string][]byte{key: value})
}

// PutMany upserts every entry inside one transaction.
func (s *SQLiteStore) PutMany(ctx context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, query, key, value, now); err != nil {
			return fmt.Errorf("failed to put %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
