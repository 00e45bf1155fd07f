package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Mutate runs fn inside a transaction when kv supports one, directly otherwise.
func Mutate(ctx context.Context, kv KV, fn func(ctx context.Context, kv KV) error) error {
	if t, ok := kv.(Transactional); ok {
		return t.WithinTx(ctx, fn)
	}
	return fn(ctx, kv)
}

// loadJSON decodes the blob under key into out. A missing or undecodable blob
// reports found=false; the latter is logged and otherwise treated as absent.
func loadJSON(ctx context.Context, kv KV, log *zap.Logger, key string, out any) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn("discarding corrupt blob", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
