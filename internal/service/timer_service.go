package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/metrics"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

type TimerConfig struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
	Location       *time.Location
}

func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Work:           25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
		Location:       time.Local,
	}
}

type StartTimerRequest struct {
	Subject string             `json:"subject"`
	Type    domain.SessionType `json:"type"`
	// Duration overrides the configured segment length when positive.
	Duration time.Duration `json:"-"`
}

type TimerStatus struct {
	State     *domain.TimerState `json:"state"`
	Phase     domain.TimerPhase  `json:"phase"`
	Remaining int                `json:"remaining"`
	Progress  float64            `json:"progress"`
}

// Completion describes a segment that ran to zero and what should follow it.
type Completion struct {
	Session      domain.LocalSession `json:"session"`
	Next         domain.SessionType  `json:"next"`
	NextDuration time.Duration       `json:"nextDuration"`
	LongBreak    bool                `json:"longBreak"`
}

type timerService struct {
	timers   repository.TimerStateRepo
	sessions repository.SessionLogRepo
	alarm    Alarm
	clk      clock.Clock
	cfg      TimerConfig
	log      *zap.Logger
	metrics  *metrics.Metrics
	observer UseCaseObserver

	// mu serializes load-modify-save of the snapshot within the process.
	mu sync.Mutex
}

func NewTimerService(
	timers repository.TimerStateRepo,
	sessions repository.SessionLogRepo,
	alarm Alarm,
	clk clock.Clock,
	cfg TimerConfig,
	log *zap.Logger,
	m *metrics.Metrics,
	observers ...UseCaseObserver,
) TimerService {
	def := DefaultTimerConfig()
	if cfg.Work <= 0 {
		cfg.Work = def.Work
	}
	if cfg.ShortBreak <= 0 {
		cfg.ShortBreak = def.ShortBreak
	}
	if cfg.LongBreak <= 0 {
		cfg.LongBreak = def.LongBreak
	}
	if cfg.LongBreakEvery < 1 {
		cfg.LongBreakEvery = def.LongBreakEvery
	}
	cfg.Location = locationOrLocal(cfg.Location)
	return &timerService{
		timers:   timers,
		sessions: sessions,
		alarm:    alarm,
		clk:      clk,
		cfg:      cfg,
		log:      loggerOrNop(log),
		metrics:  m,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *timerService) now() time.Time {
	return s.clk.Now().In(s.cfg.Location)
}

func (s *timerService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.clk.Now().Sub(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *timerService) countSegment(t domain.SessionType, result string) {
	if s.metrics != nil {
		s.metrics.TimerSegmentsTotal.WithLabelValues(string(t), result).Inc()
	}
}

func (s *timerService) Start(ctx context.Context, req StartTimerRequest) (state *domain.TimerState, err error) {
	startedAt := s.clk.Now()
	fields := map[string]any{"type": string(req.Type), "subject": req.Subject}
	defer func() { s.observe(ctx, "timer-start", startedAt, fields, err) }()

	sessionType := req.Type
	if sessionType == "" {
		sessionType = domain.SessionWork
	}
	if sessionType != domain.SessionWork && sessionType != domain.SessionBreak {
		return nil, fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidSession, req.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.timers.Load(ctx)
	if err != nil {
		return nil, err
	}
	if current.Phase() != domain.PhaseInactive {
		return nil, ErrTimerActive
	}

	if err := s.alarm.Stop(ctx); err != nil {
		s.log.Warn("stopping alarm before timer start", zap.Error(err))
	}

	log, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	work, breaks := todayCounts(log, now)

	length := req.Duration
	if length <= 0 {
		length = s.segmentLength(sessionType, work)
	}

	state = domain.NewTimerState(sessionType, req.Subject, length, now)
	state.PomodoroCount = work
	state.Breaks = breaks
	if err := s.timers.Save(ctx, state); err != nil {
		return nil, err
	}
	fields["seconds"] = state.TotalDuration
	s.log.Info("timer started",
		zap.String("type", string(sessionType)),
		zap.String("subject", req.Subject),
		zap.Duration("length", length))
	return state, nil
}

// segmentLength picks the configured length; a break after every
// LongBreakEvery-th pomodoro of the day is a long one.
func (s *timerService) segmentLength(t domain.SessionType, workToday int) time.Duration {
	if t == domain.SessionWork {
		return s.cfg.Work
	}
	if s.isLongBreak(workToday) {
		return s.cfg.LongBreak
	}
	return s.cfg.ShortBreak
}

func (s *timerService) isLongBreak(workToday int) bool {
	return workToday > 0 && workToday%s.cfg.LongBreakEvery == 0
}

func (s *timerService) Pause(ctx context.Context) (*domain.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.timers.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil || !state.Pause(s.now()) {
		return nil, ErrTimerNotRunning
	}
	if err := s.timers.Save(ctx, state); err != nil {
		return nil, err
	}
	s.log.Info("timer paused", zap.Int("remaining", state.RemainingAtPause))
	return state, nil
}

func (s *timerService) Resume(ctx context.Context) (*domain.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.timers.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil || !state.Resume(s.now()) {
		return nil, ErrTimerNotPaused
	}
	if err := s.timers.Save(ctx, state); err != nil {
		return nil, err
	}
	s.log.Info("timer resumed", zap.Int("remaining", state.RemainingAtPause))
	return state, nil
}

func (s *timerService) Stop(ctx context.Context) (logged *domain.LocalSession, err error) {
	startedAt := s.clk.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "timer-stop", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.timers.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state.Phase() == domain.PhaseInactive {
		return nil, nil
	}

	now := s.now()
	elapsed := domain.Elapsed(state, now)
	fields["elapsed_seconds"] = elapsed
	if state.SessionType == domain.SessionWork && elapsed >= 60 {
		sess := domain.LocalSession{
			ID:          uuid.New().String(),
			Subject:     state.Subject,
			Duration:    wholeMinutes(elapsed, 1),
			CompletedAt: now,
			SessionType: domain.SessionWork,
		}
		if err := s.sessions.Append(ctx, sess); err != nil {
			return nil, err
		}
		logged = &sess
	}
	if err := s.timers.Clear(ctx); err != nil {
		return nil, err
	}
	s.countSegment(state.SessionType, "stopped")
	s.log.Info("timer stopped", zap.Int("elapsed_seconds", elapsed), zap.Bool("logged", logged != nil))
	return logged, nil
}

func (s *timerService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.timers.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.timers.Clear(ctx); err != nil {
		return err
	}
	if state != nil {
		s.countSegment(state.SessionType, "reset")
		s.log.Info("timer reset")
	}
	return nil
}

func (s *timerService) Status(ctx context.Context) (TimerStatus, error) {
	state, err := s.timers.Load(ctx)
	if err != nil {
		return TimerStatus{}, err
	}
	now := s.now()
	return TimerStatus{
		State:     state,
		Phase:     state.Phase(),
		Remaining: domain.Remaining(state, now),
		Progress:  domain.Progress(state, now),
	}, nil
}

func (s *timerService) Check(ctx context.Context) (completion *Completion, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.timers.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !state.Finished(now) {
		return nil, nil
	}

	startedAt := s.clk.Now()
	fields := map[string]any{"type": string(state.SessionType)}
	defer func() { s.observe(ctx, "timer-complete", startedAt, fields, err) }()

	sess := domain.LocalSession{
		ID:          uuid.New().String(),
		Subject:     state.Subject,
		Duration:    wholeMinutes(state.TotalDuration, 1),
		CompletedAt: now,
		SessionType: state.SessionType,
	}
	if err := s.sessions.Append(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.timers.Clear(ctx); err != nil {
		return nil, err
	}
	s.countSegment(state.SessionType, "completed")

	completion = &Completion{Session: sess, Next: domain.SessionWork, NextDuration: s.cfg.Work}
	title, body := "Break over", "Ready to focus again?"
	if state.SessionType == domain.SessionWork {
		workToday := state.PomodoroCount + 1
		completion.Next = domain.SessionBreak
		completion.LongBreak = s.isLongBreak(workToday)
		completion.NextDuration = s.segmentLength(domain.SessionBreak, workToday)
		title = "Pomodoro complete!"
		body = fmt.Sprintf("Time for a %d minute break.", int(completion.NextDuration/time.Minute))
	}

	if err := s.alarm.Start(ctx); err != nil {
		s.log.Warn("starting alarm", zap.Error(err))
	}
	s.alarm.Notify(ctx, title, body)

	s.log.Info("timer completed",
		zap.String("type", string(state.SessionType)),
		zap.Int("minutes", sess.Duration),
		zap.String("next", string(completion.Next)))
	return completion, nil
}
