package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const credentialsSchema = `
CREATE TABLE IF NOT EXISTS credentials (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteBackend persists credentials in a SQLite database.
type SQLiteBackend struct {
	db      *sql.DB
	timeout time.Duration
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for a
// throwaway database.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open credentials db: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{db: db, timeout: 5 * time.Second}
	ctx, cancel := b.ctx()
	defer cancel()
	if _, err := db.ExecContext(ctx, credentialsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate credentials db: %w", err)
	}
	return b, nil
}

// Close releases the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

func (b *SQLiteBackend) Get(key string) (string, bool, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *SQLiteBackend) Set(key, value string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (b *SQLiteBackend) Remove(key string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	_, err := b.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	return err
}
