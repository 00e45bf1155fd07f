package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const pgSchema = `CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	revision   BIGINT NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresKV implements KV over a kv_entries table in PostgreSQL.
type PostgresKV struct {
	q    pgQuerier
	inTx bool
}

func NewPostgresKV(q pgQuerier) *PostgresKV {
	return &PostgresKV{q: q}
}

// OpenPostgresKV connects a pool to dsn and ensures the schema exists.
func OpenPostgresKV(ctx context.Context, dsn string) (*PostgresKV, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	kv := NewPostgresKV(pool)
	if err := kv.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return kv, pool, nil
}

func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	if _, err := p.q.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("creating kv_entries: %w", err)
	}
	return nil
}

// Get reads key. Inside WithinTx it first takes a transaction-scoped
// advisory lock on the key, since FOR UPDATE locks nothing while the row
// does not exist yet.
func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`
	if p.inTx {
		if _, err := p.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return "", false, fmt.Errorf("locking kv entry %s: %w", key, err)
		}
		query += ` FOR UPDATE`
	}
	var value string
	if err := p.q.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying kv entry %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_entries (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, revision = kv_entries.revision + 1, updated_at = now()`
	if _, err := p.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upserting kv entry %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Remove(ctx context.Context, key string) error {
	if _, err := p.q.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("deleting kv entry %s: %w", key, err)
	}
	return nil
}

// WithinTx runs fn in a transaction; reads inside it lock the key until commit.
func (p *PostgresKV) WithinTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	tx, err := p.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, &PostgresKV{q: tx, inTx: true}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
