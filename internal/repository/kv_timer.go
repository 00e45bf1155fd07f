package repository

import (
	"context"

	"github.com/alexanderramin/horae/internal/domain"
	"go.uber.org/zap"
)

// KVTimerStateRepo keeps the single timer snapshot under KeyTimerState.
type KVTimerStateRepo struct {
	kv  KV
	log *zap.Logger
}

func NewKVTimerStateRepo(kv KV, log *zap.Logger) *KVTimerStateRepo {
	return &KVTimerStateRepo{kv: kv, log: loggerOrNop(log)}
}

// Save overwrites the snapshot wholesale.
func (r *KVTimerStateRepo) Save(ctx context.Context, s *domain.TimerState) error {
	if s == nil {
		return r.Clear(ctx)
	}
	return saveJSON(ctx, r.kv, KeyTimerState, s)
}

// Load returns nil when no snapshot exists or it cannot be decoded.
func (r *KVTimerStateRepo) Load(ctx context.Context) (*domain.TimerState, error) {
	var s domain.TimerState
	found, err := loadJSON(ctx, r.kv, r.log, KeyTimerState, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *KVTimerStateRepo) Clear(ctx context.Context) error {
	return r.kv.Remove(ctx, KeyTimerState)
}
