package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/logging"
	"github.com/alexanderramin/horae/internal/metrics"
	"github.com/alexanderramin/horae/internal/notify"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/alexanderramin/horae/internal/scheduler"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// ReminderInput is the user-supplied part of a new reminder.
type ReminderInput struct {
	Title           string                `json:"title" yaml:"title"`
	Description     string                `json:"description,omitempty" yaml:"description,omitempty"`
	Date            string                `json:"date" yaml:"date"`
	Time            string                `json:"time" yaml:"time"`
	Type            domain.ReminderType   `json:"type" yaml:"type"`
	Subject         string                `json:"subject,omitempty" yaml:"subject,omitempty"`
	Location        string                `json:"location,omitempty" yaml:"location,omitempty"`
	WhatsAppEnabled bool                  `json:"whatsappEnabled" yaml:"whatsapp_enabled"`
	WhatsAppNumber  string                `json:"whatsappNumber,omitempty" yaml:"whatsapp_number,omitempty"`
	TelegramEnabled bool                  `json:"telegramEnabled" yaml:"telegram_enabled"`
	TelegramChatID  string                `json:"telegramChatId,omitempty" yaml:"telegram_chat_id,omitempty"`
	EmailEnabled    bool                  `json:"emailEnabled" yaml:"email_enabled"`
	NotifyBefore    *int                  `json:"notifyBefore,omitempty" yaml:"notify_before,omitempty"`
	Recurring       domain.RecurrenceKind `json:"recurring,omitempty" yaml:"recurring,omitempty"`
	RecurringDays   []int                 `json:"recurringDays,omitempty" yaml:"recurring_days,omitempty"`
	TimetableID     string                `json:"timetableId,omitempty" yaml:"timetable_id,omitempty"`
}

// SendResult is the user-facing outcome of a delivery attempt.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Channels holds the configured outbound gateways. A nil channel is disabled.
type Channels struct {
	WhatsApp notify.Channel
	Telegram notify.Channel
}

type ReminderConfig struct {
	Location *time.Location
	// Horizon bounds how far ahead callbacks are armed.
	Horizon time.Duration
	// DefaultNotifyBefore is used when the input leaves NotifyBefore unset.
	DefaultNotifyBefore int
}

type reminderService struct {
	reminders repository.ReminderRepo
	channels  Channels
	alarm     Alarm
	clk       clock.Clock
	cfg       ReminderConfig
	sched     *scheduler.Scheduler
	log       *zap.Logger
	observer  UseCaseObserver
}

func NewReminderService(
	reminders repository.ReminderRepo,
	channels Channels,
	alarm Alarm,
	clk clock.Clock,
	cfg ReminderConfig,
	log *zap.Logger,
	m *metrics.Metrics,
	observers ...UseCaseObserver,
) ReminderService {
	cfg.Location = locationOrLocal(cfg.Location)
	log = loggerOrNop(log)
	s := &reminderService{
		reminders: reminders,
		channels:  channels,
		alarm:     alarm,
		clk:       clk,
		cfg:       cfg,
		log:       log,
		observer:  useCaseObserverOrNoop(observers),
	}
	s.sched = scheduler.New(clk, s.deliver,
		scheduler.WithHorizon(cfg.Horizon),
		scheduler.WithLocation(cfg.Location),
		scheduler.WithLogger(log.Named("scheduler")),
		scheduler.WithMetrics(m),
	)
	return s
}

func (s *reminderService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.clk.Now().Sub(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *reminderService) now() time.Time {
	return s.clk.Now().In(s.cfg.Location)
}

func (s *reminderService) List(ctx context.Context) ([]*domain.Reminder, error) {
	return s.reminders.List(ctx)
}

func (s *reminderService) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	return s.reminders.GetByID(ctx, id)
}

func (s *reminderService) ListUpcoming(ctx context.Context, windowDays int) ([]*domain.Reminder, error) {
	all, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	from := s.now()
	to := from.Add(time.Duration(windowDays) * 24 * time.Hour)

	var out []*domain.Reminder
	for _, r := range all {
		if !r.Completed && r.IsDueWithin(from, to, s.cfg.Location) {
			out = append(out, r)
		}
	}
	domain.SortByDue(out, s.cfg.Location)
	return out, nil
}

func (s *reminderService) ListToday(ctx context.Context) ([]*domain.Reminder, error) {
	all, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now().Format(domain.ReminderDateLayout)

	var out []*domain.Reminder
	for _, r := range all {
		if !r.Completed && r.Date == today {
			out = append(out, r)
		}
	}
	domain.SortByDue(out, s.cfg.Location)
	return out, nil
}

func (s *reminderService) Add(ctx context.Context, in ReminderInput) (r *domain.Reminder, err error) {
	startedAt := s.clk.Now()
	fields := map[string]any{"type": string(in.Type)}
	defer func() { s.observe(ctx, "reminder-add", startedAt, fields, err) }()

	r = s.fromInput(in)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.reminders.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("saving reminder: %w", err)
	}
	fields["outcome"] = string(s.sched.Arm(r))
	fields["reminder_id"] = r.ID
	return r, nil
}

func (s *reminderService) fromInput(in ReminderInput) *domain.Reminder {
	now := s.clk.Now().UTC()
	notifyBefore := s.cfg.DefaultNotifyBefore
	if in.NotifyBefore != nil {
		notifyBefore = *in.NotifyBefore
	}
	recurring := in.Recurring
	if recurring == "" {
		recurring = domain.RecurNone
	}
	reminderType := in.Type
	if reminderType == "" {
		reminderType = domain.ReminderStudy
	}
	return &domain.Reminder{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Date:            in.Date,
		Time:            in.Time,
		Type:            reminderType,
		Subject:         in.Subject,
		Location:        in.Location,
		WhatsAppEnabled: in.WhatsAppEnabled,
		WhatsAppNumber:  in.WhatsAppNumber,
		TelegramEnabled: in.TelegramEnabled,
		TelegramChatID:  in.TelegramChatID,
		EmailEnabled:    in.EmailEnabled,
		NotifyBefore:    notifyBefore,
		Recurring:       recurring,
		RecurringDays:   append([]int(nil), in.RecurringDays...),
		CreatedAt:       now,
		UpdatedAt:       now,
		TimetableID:     in.TimetableID,
		Version:         1,
	}
}

func (s *reminderService) Update(ctx context.Context, id string, patch domain.ReminderPatch) (updated *domain.Reminder, err error) {
	startedAt := s.clk.Now()
	fields := map[string]any{"reminder_id": id}
	defer func() { s.observe(ctx, "reminder-update", startedAt, fields, err) }()

	now := s.clk.Now().UTC()
	updated, err = s.reminders.Update(ctx, id, func(r *domain.Reminder) error {
		merged := *r
		merged.Apply(patch, now)
		if err := merged.Validate(); err != nil {
			return err
		}
		*r = merged
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	fields["outcome"] = string(s.sched.Arm(updated))
	return updated, nil
}

func (s *reminderService) Delete(ctx context.Context, id string) (bool, error) {
	s.sched.Cancel(id)
	err := s.reminders.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info("reminder deleted", zap.String("reminder_id", id))
	return true, nil
}

func (s *reminderService) MarkCompleted(ctx context.Context, id string) (bool, error) {
	completed := true
	r, err := s.Update(ctx, id, domain.ReminderPatch{Completed: &completed})
	if err != nil || r == nil {
		return false, err
	}
	s.sched.Cancel(id)
	return true, nil
}

// SendNotification submits r to every enabled outbound channel. It succeeds
// only when each of them accepts; failures are joined into Error.
func (s *reminderService) SendNotification(ctx context.Context, r *domain.Reminder, forceText bool) SendResult {
	startedAt := s.clk.Now()
	var firstErr error
	defer func() {
		s.observe(ctx, "reminder-send", startedAt, map[string]any{"reminder_id": r.ID, "force_text": forceText}, firstErr)
	}()

	if !r.HasOutboundChannel() {
		firstErr = ErrNoChannel
		return SendResult{Error: ErrNoChannel.Error()}
	}

	body := notify.FormatReminderMessage(r)
	type target struct {
		ch notify.Channel
		to string
	}
	var targets []target
	if r.WhatsAppEnabled {
		targets = append(targets, target{s.channels.WhatsApp, domain.NormalizePhone(r.WhatsAppNumber)})
	}
	if r.TelegramEnabled {
		targets = append(targets, target{s.channels.Telegram, strings.TrimSpace(r.TelegramChatID)})
	}

	result := SendResult{Success: true}
	var problems []string
	for _, t := range targets {
		if t.ch == nil {
			problems = append(problems, notify.ErrChannelDisabled.Error())
			continue
		}
		receipt, err := t.ch.Send(ctx, notify.Message{
			To:        t.to,
			Body:      body,
			TitleHint: r.Title,
			ForceText: forceText,
		})
		switch {
		case err != nil:
			s.log.Warn("reminder send failed",
				zap.String("channel", t.ch.Name()),
				logging.Address("to", t.to),
				zap.Error(err))
			problems = append(problems, fmt.Sprintf("%s: %s", t.ch.Name(), describeSendError(err)))
		case !receipt.Accepted:
			problems = append(problems, fmt.Sprintf("%s: %s", t.ch.Name(), receipt.Error))
		case result.ID == "":
			result.ID = receipt.DeliveryID
		}
	}
	if len(problems) > 0 {
		result.Success = false
		result.Error = strings.Join(problems, "; ")
		firstErr = errors.New(result.Error)
	}
	return result
}

func describeSendError(err error) string {
	switch {
	case errors.Is(err, notify.ErrTimeout):
		return "the messaging gateway did not respond in time"
	case errors.Is(err, notify.ErrGatewayUnavailable):
		return "the messaging gateway could not be reached"
	case errors.Is(err, notify.ErrChannelDisabled):
		return notify.ErrChannelDisabled.Error()
	case errors.Is(err, notify.ErrInvalidAddress):
		return "the destination address is not valid for this channel"
	}
	return err.Error()
}

// deliver is the scheduler callback. The record is reloaded so a reminder
// that was deleted, completed or edited since arming is left alone.
func (s *reminderService) deliver(ctx context.Context, id string, version int64) {
	r, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		s.log.Debug("fired reminder no longer exists", zap.String("reminder_id", id), zap.Error(err))
		return
	}
	if r.Completed || r.Version != version {
		s.log.Debug("fired reminder superseded",
			zap.String("reminder_id", id),
			zap.Int64("armed_version", version),
			zap.Int64("current_version", r.Version),
			zap.Bool("completed", r.Completed))
		return
	}

	if res := s.SendNotification(ctx, r, false); !res.Success {
		s.log.Warn("reminder delivery failed", zap.String("reminder_id", id), zap.String("error", res.Error))
	}
	title, body := notify.FormatLocalNotification(r)
	s.alarm.Notify(ctx, title, body)
}

func (s *reminderService) RearmAll(ctx context.Context) scheduler.ArmReport {
	return s.RearmSince(ctx, s.clk.Now())
}

func (s *reminderService) RearmSince(ctx context.Context, since time.Time) scheduler.ArmReport {
	var report scheduler.ArmReport
	all, err := s.reminders.List(ctx)
	if err != nil {
		s.log.Warn("listing reminders for re-arm", zap.Error(err))
		return report
	}
	for _, r := range all {
		report.Add(s.sched.ArmSince(r, since))
	}
	s.log.Info("reminders re-armed",
		zap.Int("armed", report.Armed),
		zap.Int("deferred", report.Deferred),
		zap.Int("lapsed", report.Lapsed),
		zap.Int("skipped", report.Skipped),
		zap.Int("fired", report.Fired))
	return report
}

// Close cancels every armed callback and waits for running deliveries.
func (s *reminderService) Close() {
	s.sched.Stop()
}
