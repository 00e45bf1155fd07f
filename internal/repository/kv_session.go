package repository

import (
	"context"

	"github.com/alexanderramin/horae/internal/domain"
	"go.uber.org/zap"
)

// KVSessionLogRepo keeps the capped LocalSession log under KeyLocalSessions.
type KVSessionLogRepo struct {
	kv    KV
	log   *zap.Logger
	limit int
}

func NewKVSessionLogRepo(kv KV, log *zap.Logger) *KVSessionLogRepo {
	return &KVSessionLogRepo{kv: kv, log: loggerOrNop(log), limit: domain.MaxLocalSessions}
}

func (r *KVSessionLogRepo) List(ctx context.Context) ([]domain.LocalSession, error) {
	var sessions []domain.LocalSession
	if _, err := loadJSON(ctx, r.kv, r.log, KeyLocalSessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Append adds s and evicts the oldest entries beyond the cap.
func (r *KVSessionLogRepo) Append(ctx context.Context, s domain.LocalSession) error {
	return Mutate(ctx, r.kv, func(ctx context.Context, kv KV) error {
		var sessions []domain.LocalSession
		if _, err := loadJSON(ctx, kv, r.log, KeyLocalSessions, &sessions); err != nil {
			return err
		}
		return saveJSON(ctx, kv, KeyLocalSessions, domain.AppendCapped(sessions, s, r.limit))
	})
}
