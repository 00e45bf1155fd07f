package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const exportFormatVersion = 1

// ReminderExport is the YAML document written by Export and read by Import.
type ReminderExport struct {
	Version    int                `yaml:"version"`
	ExportedAt time.Time          `yaml:"exported_at"`
	Reminders  []*domain.Reminder `yaml:"reminders"`
}

func (s *reminderService) Export(ctx context.Context) ([]byte, error) {
	all, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortByDue(all, s.cfg.Location)
	if all == nil {
		all = []*domain.Reminder{}
	}
	out, err := yaml.Marshal(ReminderExport{
		Version:    exportFormatVersion,
		ExportedAt: s.clk.Now().UTC(),
		Reminders:  all,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding reminders: %w", err)
	}
	return out, nil
}

// Import loads an export document. Every reminder is validated before
// anything is written. With replace the stored set is swapped for the
// document; otherwise reminders are upserted by id.
func (s *reminderService) Import(ctx context.Context, data []byte, replace bool) (n int, err error) {
	startedAt := s.clk.Now()
	fields := map[string]any{"replace": replace}
	defer func() { s.observe(ctx, "reminder-import", startedAt, fields, err) }()

	var doc ReminderExport
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parsing reminder export: %w", err)
	}
	if doc.Version != 0 && doc.Version != exportFormatVersion {
		return 0, fmt.Errorf("unsupported reminder export version %d", doc.Version)
	}

	var errs []error
	for i, r := range doc.Reminders {
		if r == nil {
			errs = append(errs, fmt.Errorf("reminders[%d]: empty entry", i))
			continue
		}
		if r.Recurring == "" {
			r.Recurring = domain.RecurNone
		}
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("reminders[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}

	existing, err := s.reminders.List(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]*domain.Reminder, len(existing))
	for _, r := range existing {
		byID[r.ID] = r
	}

	now := s.clk.Now().UTC()
	merged := existing
	if replace {
		merged = nil
	}
	for _, r := range doc.Reminders {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		r.UpdatedAt = now
		if r.Version < 1 {
			r.Version = 1
		}
		prev, ok := byID[r.ID]
		if ok {
			if prev.Version >= r.Version {
				r.Version = prev.Version + 1
			}
			if !replace {
				*prev = *r
				continue
			}
		}
		merged = append(merged, r)
	}

	if replace {
		for id := range byID {
			s.sched.Cancel(id)
		}
	}
	if err := s.reminders.ReplaceAll(ctx, merged); err != nil {
		return 0, fmt.Errorf("saving imported reminders: %w", err)
	}

	report := s.RearmAll(ctx)
	fields["count"] = len(doc.Reminders)
	s.log.Info("reminders imported", zap.Int("count", len(doc.Reminders)), zap.Int("armed", report.Armed))
	return len(doc.Reminders), nil
}
