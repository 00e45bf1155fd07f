package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/notify"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/alexanderramin/horae/internal/testutil"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	kv        repository.KV
	timers    repository.TimerStateRepo
	reminders repository.ReminderRepo
	goals     repository.GoalRepo
	sessions  repository.SessionLogRepo
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	kv := repository.NewNamespaced(
		repository.NewSQLiteKV(database, testutil.NewTestUoW(database)),
		testutil.TestUserID,
	)
	return repos{
		kv:        kv,
		timers:    repository.NewKVTimerStateRepo(kv, nil),
		reminders: repository.NewKVReminderRepo(kv, nil),
		goals:     repository.NewKVGoalRepo(kv, nil),
		sessions:  repository.NewKVSessionLogRepo(kv, nil),
	}
}

func newFakeClock(at time.Time) clock.FakeClock {
	fc := clock.NewFake()
	fc.Set(at)
	return fc
}

type notification struct {
	title, body string
}

type fakeAlarm struct {
	mu       sync.Mutex
	starts   int
	stops    int
	active   bool
	notified []notification
}

func (a *fakeAlarm) Start(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts++
	a.active = true
	return nil
}

func (a *fakeAlarm) Stop(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
	a.active = false
	return nil
}

func (a *fakeAlarm) IsActive(context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *fakeAlarm) Notify(_ context.Context, title, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notified = append(a.notified, notification{title, body})
}

func (a *fakeAlarm) notifications() []notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]notification(nil), a.notified...)
}

type fakeChannel struct {
	name    string
	receipt notify.Receipt
	err     error

	mu   sync.Mutex
	sent []notify.Message
}

func acceptingChannel(name, id string) *fakeChannel {
	return &fakeChannel{name: name, receipt: notify.Receipt{Accepted: true, DeliveryID: id}}
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Send(_ context.Context, msg notify.Message) (notify.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return c.receipt, c.err
}

func (c *fakeChannel) messages() []notify.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Message(nil), c.sent...)
}

func TestTodayCounts(t *testing.T) {
	now := testutil.Monday.Add(8 * time.Hour)
	sessions := []domain.LocalSession{
		testutil.NewTestSession(25, testutil.WithCompletedAt(now.Add(-time.Hour))),
		testutil.NewTestSession(25, testutil.WithCompletedAt(now.Add(-2*time.Hour))),
		testutil.NewTestSession(5, testutil.AsBreak(), testutil.WithCompletedAt(now.Add(-90*time.Minute))),
		testutil.NewTestSession(25, testutil.WithCompletedAt(now.Add(-24*time.Hour))),
	}

	work, breaks := todayCounts(sessions, now)
	assert.Equal(t, 2, work)
	assert.Equal(t, 1, breaks)
}

func TestWholeMinutes(t *testing.T) {
	assert.Equal(t, 1, wholeMinutes(30, 1))
	assert.Equal(t, 1, wholeMinutes(119, 1))
	assert.Equal(t, 25, wholeMinutes(1500, 1))
	assert.Equal(t, 0, wholeMinutes(59, 0))
}

func TestSetupRepos_SharesOneStore(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, r.sessions.Append(ctx, testutil.NewTestSession(10)))

	other := repository.NewKVSessionLogRepo(r.kv, nil)
	got, err := other.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
