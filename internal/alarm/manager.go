// Package alarm rings the end-of-segment alarm and raises platform
// notifications.
package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/horae/internal/metrics"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// DefaultInterval separates the start of consecutive pattern plays.
const DefaultInterval = 5 * time.Second

type cycle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns at most one repeating alarm cycle per process. The durable
// marker lets other processes observe the alarm state.
type Manager struct {
	clk      clock.Clock
	player   Player
	notifier Notifier
	marker   repository.AlarmMarkerRepo
	pattern  Pattern
	interval time.Duration
	log      *zap.Logger
	metrics  *metrics.Metrics

	mu    sync.Mutex
	cycle *cycle

	permMu sync.Mutex
}

type Option func(*Manager)

func WithPattern(p Pattern) Option {
	return func(m *Manager) {
		if len(p) > 0 {
			m.pattern = p
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

func NewManager(clk clock.Clock, player Player, notifier Notifier, marker repository.AlarmMarkerRepo, opts ...Option) *Manager {
	m := &Manager{
		clk:      clk,
		player:   player,
		notifier: notifier,
		marker:   marker,
		pattern:  DefaultPattern,
		interval: DefaultInterval,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start stops any running cycle, plays the pattern now and then every
// interval until Stop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()

	cycleCtx, cancel := context.WithCancel(context.Background())
	c := &cycle{cancel: cancel, done: make(chan struct{})}
	m.cycle = c
	go m.run(cycleCtx, c, m.clk.NewTimer(m.interval))

	if err := m.marker.SetActive(ctx, true); err != nil {
		m.log.Warn("persisting alarm marker", zap.Error(err))
	}
	m.log.Info("alarm started", zap.Duration("interval", m.interval))
	return nil
}

func (m *Manager) run(ctx context.Context, c *cycle, timer *clock.Timer) {
	defer close(c.done)
	defer timer.Stop()

	m.play(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(m.interval)
			m.play(ctx)
		}
	}
}

func (m *Manager) play(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if m.metrics != nil {
		m.metrics.AlarmCyclesTotal.Inc()
	}
	if err := m.player.Play(ctx, m.pattern); err != nil {
		m.log.Warn("playing alarm pattern", zap.Error(err))
	}
}

// Stop cancels the cycle and clears the marker. Safe to call when idle.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()

	if err := m.marker.SetActive(ctx, false); err != nil {
		m.log.Warn("clearing alarm marker", zap.Error(err))
	}
	return nil
}

// Release cancels this process's cycle and leaves the marker alone, so an
// alarm raised here keeps ringing in the daemon.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.cycle == nil {
		return
	}
	m.cycle.cancel()
	<-m.cycle.done
	m.cycle = nil
	m.log.Info("alarm stopped")
}

// IsActive reports the durable marker, which may have been set by another
// process.
func (m *Manager) IsActive(ctx context.Context) bool {
	active, err := m.marker.IsActive(ctx)
	if err != nil {
		m.log.Warn("reading alarm marker", zap.Error(err))
		return false
	}
	return active
}

// Running reports whether this process owns a cycle.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycle != nil
}

// Sync aligns this process's cycle with the durable marker, so an alarm
// raised or silenced by another process follows here too.
func (m *Manager) Sync(ctx context.Context) error {
	active := m.IsActive(ctx)
	m.mu.Lock()
	running := m.cycle != nil
	if running && !active {
		m.stopLocked()
	}
	m.mu.Unlock()
	if active && !running {
		return m.Start(ctx)
	}
	return nil
}

// PlayOnce plays the pattern a single time without touching the marker.
func (m *Manager) PlayOnce(ctx context.Context) error {
	return m.player.Play(ctx, m.pattern)
}

// Notify raises a platform notification. Permission is requested only while
// undecided; a denial drops the notification silently.
func (m *Manager) Notify(ctx context.Context, title, body string) {
	m.permMu.Lock()
	perm := m.notifier.Permission()
	if perm == PermissionDefault {
		perm = m.notifier.RequestPermission(ctx)
	}
	m.permMu.Unlock()

	if perm != PermissionGranted {
		m.log.Debug("notification suppressed", zap.String("permission", string(perm)))
		return
	}
	if err := m.notifier.Show(ctx, title, body); err != nil {
		m.log.Warn("showing notification", zap.Error(err))
	}
}
