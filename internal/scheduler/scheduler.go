// Package scheduler arms one-shot reminder callbacks on a clock.
//
// Only reminders whose notify instant falls within the horizon are armed;
// the rest are picked up by a later re-arm pass. A callback fires at most
// once per reminder and instant within a process.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/metrics"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// DefaultHorizon bounds how far ahead a callback is armed.
const DefaultHorizon = 24 * time.Hour

type Outcome string

const (
	Armed    Outcome = "armed"
	Deferred Outcome = "deferred"
	Lapsed   Outcome = "lapsed"
	Skipped  Outcome = "skipped"
	Fired    Outcome = "fired"
)

// ArmReport tallies the outcomes of a scheduling pass.
type ArmReport struct {
	Armed    int `json:"armed"`
	Deferred int `json:"deferred"`
	Lapsed   int `json:"lapsed"`
	Skipped  int `json:"skipped"`
	Fired    int `json:"fired"`
}

func (r *ArmReport) Add(o Outcome) {
	switch o {
	case Armed:
		r.Armed++
	case Deferred:
		r.Deferred++
	case Lapsed:
		r.Lapsed++
	case Fired:
		r.Fired++
	default:
		r.Skipped++
	}
}

// FireFunc is invoked when an armed instant is reached. version is the
// reminder version captured at arm time.
type FireFunc func(ctx context.Context, reminderID string, version int64)

type handle struct {
	timer   *clock.Timer
	at      time.Time
	version int64
	cancel  chan struct{}
}

type Scheduler struct {
	clk     clock.Clock
	fire    FireFunc
	horizon time.Duration
	loc     *time.Location
	log     *zap.Logger
	metrics *metrics.Metrics

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	armed  map[string]*handle
	fired  map[string]time.Time
	closed bool
}

type Option func(*Scheduler)

func WithHorizon(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.horizon = d
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

func New(clk clock.Clock, fire FireFunc, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		clk:     clk,
		fire:    fire,
		horizon: DefaultHorizon,
		loc:     time.Local,
		log:     zap.NewNop(),
		ctx:     ctx,
		stop:    cancel,
		armed:   make(map[string]*handle),
		fired:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arm decides whether r gets a pending callback and replaces any previous one.
func (s *Scheduler) Arm(r *domain.Reminder) Outcome {
	return s.ArmSince(r, s.clk.Now())
}

// ArmSince is Arm for a catch-up pass: an instant in [since, now) is due
// immediately instead of lapsed. since is clamped to now.
func (s *Scheduler) ArmSince(r *domain.Reminder, since time.Time) Outcome {
	outcome := s.arm(r, since)
	s.log.Debug("reminder scheduling decision",
		zap.String("reminder_id", r.ID),
		zap.String("outcome", string(outcome)))
	if s.metrics != nil {
		s.metrics.ArmOutcomesTotal.WithLabelValues(string(outcome)).Inc()
	}
	return outcome
}

func (s *Scheduler) arm(r *domain.Reminder, since time.Time) Outcome {
	if r.Completed || !r.HasOutboundChannel() {
		s.Cancel(r.ID)
		return Skipped
	}
	at, err := r.NotifyInstant(s.loc)
	if err != nil {
		s.Cancel(r.ID)
		return Skipped
	}

	now := s.clk.Now()
	if since.After(now) {
		since = now
	}
	if at.Before(since) {
		s.Cancel(r.ID)
		return Lapsed
	}
	if at.Sub(now) > s.horizon {
		s.Cancel(r.ID)
		return Deferred
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Skipped
	}
	if firedAt, ok := s.fired[r.ID]; ok && firedAt.Equal(at) {
		return Fired
	}
	if h, ok := s.armed[r.ID]; ok {
		if h.at.Equal(at) && h.version == r.Version {
			return Armed
		}
		s.cancelLocked(r.ID, h)
	}

	h := &handle{at: at, version: r.Version, cancel: make(chan struct{})}
	var ready <-chan time.Time
	if delay := at.Sub(now); delay > 0 {
		h.timer = s.clk.NewTimer(delay)
		ready = h.timer.C
	} else {
		due := make(chan time.Time, 1)
		due <- now
		ready = due
	}
	s.armed[r.ID] = h
	s.setGaugeLocked()

	s.wg.Add(1)
	go s.wait(r.ID, h, ready)
	return Armed
}

func (s *Scheduler) wait(id string, h *handle, ready <-chan time.Time) {
	defer s.wg.Done()
	select {
	case <-ready:
	case <-h.cancel:
		return
	}

	s.mu.Lock()
	if s.armed[id] != h {
		s.mu.Unlock()
		return
	}
	delete(s.armed, id)
	s.fired[id] = h.at
	s.setGaugeLocked()
	s.mu.Unlock()

	s.log.Info("reminder fired", zap.String("reminder_id", id), zap.Time("at", h.at))
	s.fire(s.ctx, id, h.version)
}

// Cancel drops the pending callback for id, if any.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.armed[id]; ok {
		s.cancelLocked(id, h)
		s.setGaugeLocked()
	}
}

func (s *Scheduler) cancelLocked(id string, h *handle) {
	if h.timer != nil {
		h.timer.Stop()
	}
	close(h.cancel)
	delete(s.armed, id)
}

func (s *Scheduler) IsArmed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.armed[id]
	return ok
}

// ArmedAt returns the pending instant for id.
func (s *Scheduler) ArmedAt(id string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.armed[id]
	if !ok {
		return time.Time{}, false
	}
	return h.at, true
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// Stop cancels every pending callback and waits for in-flight ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.closed = true
	for id, h := range s.armed {
		s.cancelLocked(id, h)
	}
	s.setGaugeLocked()
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
}

func (s *Scheduler) setGaugeLocked() {
	if s.metrics != nil {
		s.metrics.RemindersArmed.Set(float64(len(s.armed)))
	}
}
