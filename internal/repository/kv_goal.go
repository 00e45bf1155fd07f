package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/horae/internal/domain"
	"go.uber.org/zap"
)

type KVGoalRepo struct {
	kv  KV
	log *zap.Logger
}

func NewKVGoalRepo(kv KV, log *zap.Logger) *KVGoalRepo {
	return &KVGoalRepo{kv: kv, log: loggerOrNop(log)}
}

func (r *KVGoalRepo) List(ctx context.Context) ([]*domain.StudyGoal, error) {
	var goals []*domain.StudyGoal
	if _, err := loadJSON(ctx, r.kv, r.log, KeyStudyGoals, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *KVGoalRepo) Create(ctx context.Context, g *domain.StudyGoal) error {
	return Mutate(ctx, r.kv, func(ctx context.Context, kv KV) error {
		var goals []*domain.StudyGoal
		if _, err := loadJSON(ctx, kv, r.log, KeyStudyGoals, &goals); err != nil {
			return err
		}
		return saveJSON(ctx, kv, KeyStudyGoals, append(goals, g))
	})
}

func (r *KVGoalRepo) Delete(ctx context.Context, id string) error {
	return Mutate(ctx, r.kv, func(ctx context.Context, kv KV) error {
		var goals []*domain.StudyGoal
		if _, err := loadJSON(ctx, kv, r.log, KeyStudyGoals, &goals); err != nil {
			return err
		}
		for i, g := range goals {
			if g.ID == id {
				goals = append(goals[:i], goals[i+1:]...)
				return saveJSON(ctx, kv, KeyStudyGoals, goals)
			}
		}
		return fmt.Errorf("study goal %s: %w", id, ErrNotFound)
	})
}
