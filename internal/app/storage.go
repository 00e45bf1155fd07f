package app

import (
	"context"
	"fmt"

	"github.com/alexanderramin/horae/internal/config"
	"github.com/alexanderramin/horae/internal/db"
	"github.com/alexanderramin/horae/internal/repository"
	"go.uber.org/zap"
)

// OpenStore opens the configured backend. The returned close func releases
// the underlying connection and is never nil.
func OpenStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (repository.KV, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return repository.NewMemoryKV(), func() error { return nil }, nil
	case "postgres":
		kv, pool, err := repository.OpenPostgresKV(ctx, cfg.DSN.Value())
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage opened", zap.String("driver", "postgres"))
		return kv, func() error { pool.Close(); return nil }, nil
	case "sqlite", "":
		database, err := db.OpenDB(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		log.Info("storage opened", zap.String("driver", "sqlite"), zap.String("path", cfg.Path))
		return repository.NewSQLiteKV(database, db.NewSQLiteUnitOfWork(database)), database.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
