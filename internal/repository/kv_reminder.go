package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/horae/internal/domain"
	"go.uber.org/zap"
)

// KVReminderRepo stores all reminders as one JSON array under KeyReminders.
type KVReminderRepo struct {
	kv  KV
	log *zap.Logger
}

func NewKVReminderRepo(kv KV, log *zap.Logger) *KVReminderRepo {
	return &KVReminderRepo{kv: kv, log: loggerOrNop(log)}
}

func (r *KVReminderRepo) load(ctx context.Context, kv KV) ([]*domain.Reminder, error) {
	var list []*domain.Reminder
	if _, err := loadJSON(ctx, kv, r.log, KeyReminders, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *KVReminderRepo) List(ctx context.Context) ([]*domain.Reminder, error) {
	return r.load(ctx, r.kv)
}

func (r *KVReminderRepo) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	list, err := r.load(ctx, r.kv)
	if err != nil {
		return nil, err
	}
	for _, rem := range list {
		if rem.ID == id {
			return rem, nil
		}
	}
	return nil, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
}

func (r *KVReminderRepo) Create(ctx context.Context, rem *domain.Reminder) error {
	return Mutate(ctx, r.kv, func(ctx context.Context, kv KV) error {
		list, err := r.load(ctx, kv)
		if err != nil {
			return err
		}
		return saveJSON(ctx, kv, KeyReminders, append(list, rem))
	})
}

func (r *KVReminderRepo) Update(ctx context.Context, id string, fn func(rem *domain.Reminder) error) (*domain.Reminder, error) {
	var updated *domain.Reminder
	err := Mutate(ctx, r.kv, func(ctx context.Context, kv KV) error {
		list, err := r.load(ctx, kv)
		if err != nil {
			return err
		}
		for _, rem := range list {
			if rem.ID != id {
				continue
			}
			if err := fn(rem); err != nil {
				return err
			}
			updated = rem
			return saveJSON(ctx, kv, KeyReminders, list)
		}
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *KVReminderRepo) Delete(ctx context.Context, id string) error {
	return Mutate(ctx, r.kv, func(ctx context.Context, kv KV) error {
		list, err := r.load(ctx, kv)
		if err != nil {
			return err
		}
		for i, rem := range list {
			if rem.ID == id {
				list = append(list[:i], list[i+1:]...)
				return saveJSON(ctx, kv, KeyReminders, list)
			}
		}
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	})
}

func (r *KVReminderRepo) ReplaceAll(ctx context.Context, reminders []*domain.Reminder) error {
	if reminders == nil {
		reminders = []*domain.Reminder{}
	}
	return saveJSON(ctx, r.kv, KeyReminders, reminders)
}
