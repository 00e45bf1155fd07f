package repository

import "context"

// KVAlarmMarkerRepo persists whether the alarm cycle is running.
type KVAlarmMarkerRepo struct {
	kv KV
}

func NewKVAlarmMarkerRepo(kv KV) *KVAlarmMarkerRepo {
	return &KVAlarmMarkerRepo{kv: kv}
}

func (r *KVAlarmMarkerRepo) IsActive(ctx context.Context) (bool, error) {
	v, found, err := r.kv.Get(ctx, KeyAlarmActive)
	if err != nil {
		return false, err
	}
	return found && v == "true", nil
}

func (r *KVAlarmMarkerRepo) SetActive(ctx context.Context, active bool) error {
	if !active {
		return r.kv.Remove(ctx, KeyAlarmActive)
	}
	return r.kv.Set(ctx, KeyAlarmActive, "true")
}
