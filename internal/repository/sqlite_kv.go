package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/horae/internal/db"
)

// SQLiteKV implements KV over the kv_entries table.
type SQLiteKV struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteKV creates a store on conn. A nil uow disables WithinTx and runs
// mutations directly on conn.
func NewSQLiteKV(conn db.DBTX, uow db.UnitOfWork) *SQLiteKV {
	return &SQLiteKV{db: conn, uow: uow}
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying kv entry %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_entries (key, value, revision, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = kv_entries.revision + 1,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("upserting kv entry %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting kv entry %s: %w", key, err)
	}
	return nil
}

// Revision returns how many times key has been written, or 0 when absent.
func (s *SQLiteKV) Revision(ctx context.Context, key string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM kv_entries WHERE key = ?`, key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying revision of %s: %w", key, err)
	}
	return rev, nil
}

func (s *SQLiteKV) WithinTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	if s.uow == nil {
		return fn(ctx, s)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteKV(tx, nil))
	})
}
