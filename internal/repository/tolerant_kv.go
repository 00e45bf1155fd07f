package repository

import (
	"context"

	"go.uber.org/zap"
)

// TolerantKV degrades storage failures: reads report absent, writes become
// no-ops. Every swallowed error is logged.
type TolerantKV struct {
	inner KV
	log   *zap.Logger
}

func NewTolerantKV(inner KV, log *zap.Logger) *TolerantKV {
	return &TolerantKV{inner: inner, log: loggerOrNop(log)}
}

func (t *TolerantKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, found, err := t.inner.Get(ctx, key)
	if err != nil {
		t.log.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return "", false, nil
	}
	return v, found, nil
}

func (t *TolerantKV) Set(ctx context.Context, key, value string) error {
	if err := t.inner.Set(ctx, key, value); err != nil {
		t.log.Warn("storage write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (t *TolerantKV) Remove(ctx context.Context, key string) error {
	if err := t.inner.Remove(ctx, key); err != nil {
		t.log.Warn("storage remove failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// WithinTx returns errors produced by fn itself and swallows the rest.
func (t *TolerantKV) WithinTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	var fnErr error
	err := Mutate(ctx, t.inner, func(ctx context.Context, tx KV) error {
		fnErr = fn(ctx, &TolerantKV{inner: tx, log: t.log})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		t.log.Warn("storage transaction failed", zap.Error(err))
	}
	return nil
}

// DisabledKV stands in when no storage is available at all.
type DisabledKV struct{}

func (DisabledKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (DisabledKV) Set(context.Context, string, string) error         { return nil }
func (DisabledKV) Remove(context.Context, string) error              { return nil }
