package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/notify"
	"github.com/alexanderramin/horae/internal/testutil"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminderFixture struct {
	svc      *reminderService
	repos    repos
	clk      clock.FakeClock
	alarm    *fakeAlarm
	whatsapp *fakeChannel
	telegram *fakeChannel
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()
	f := &reminderFixture{
		repos:    setupRepos(t),
		clk:      newFakeClock(testutil.Monday),
		alarm:    &fakeAlarm{},
		whatsapp: acceptingChannel("whatsapp", "SM1"),
		telegram: acceptingChannel("telegram", "77"),
	}
	svc := NewReminderService(f.repos.reminders,
		Channels{WhatsApp: f.whatsapp, Telegram: f.telegram},
		f.alarm, f.clk,
		ReminderConfig{Location: time.UTC, Horizon: 24 * time.Hour, DefaultNotifyBefore: 30},
		nil, nil)
	t.Cleanup(svc.Close)
	f.svc = svc.(*reminderService)
	return f
}

func input(title string, due time.Time) ReminderInput {
	return ReminderInput{
		Title: title,
		Date:  due.Format(domain.ReminderDateLayout),
		Time:  due.Format(domain.ReminderTimeLayout),
		Type:  domain.ReminderExam,
	}
}

func withWhatsApp(in ReminderInput) ReminderInput {
	in.WhatsAppEnabled = true
	in.WhatsAppNumber = "+49 170 1234567"
	return in
}

func intPtr(v int) *int { return &v }

func TestReminderAdd_AssignsIdentityAndDefaults(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	r, err := f.svc.Add(ctx, input("Calculus exam", testutil.Monday.Add(48*time.Hour)))
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, int64(1), r.Version)
	assert.False(t, r.Completed)
	assert.Equal(t, 30, r.NotifyBefore, "default lead time applies")
	assert.Equal(t, domain.RecurNone, r.Recurring)
	assert.True(t, r.CreatedAt.Equal(testutil.Monday))

	stored, err := f.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calculus exam", stored.Title)
}

func TestReminderAdd_ExplicitZeroLeadTime(t *testing.T) {
	f := newReminderFixture(t)
	in := input("Quiz", testutil.Monday.Add(time.Hour))
	in.NotifyBefore = intPtr(0)

	r, err := f.svc.Add(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0, r.NotifyBefore)
}

func TestReminderAdd_RejectsInvalid(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, input("  ", testutil.Monday))
	assert.ErrorIs(t, err, domain.ErrInvalidReminder)

	bad := input("Lab", testutil.Monday)
	bad.WhatsAppEnabled = true
	bad.WhatsAppNumber = "call me"
	_, err = f.svc.Add(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidReminder)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReminderAdd_ArmsOnlyWithinHorizonAndWithChannel(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	soon, err := f.svc.Add(ctx, withWhatsApp(input("Soon", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)
	far, err := f.svc.Add(ctx, withWhatsApp(input("Far", testutil.Monday.Add(72*time.Hour))))
	require.NoError(t, err)
	quiet, err := f.svc.Add(ctx, input("Quiet", testutil.Monday.Add(3*time.Hour)))
	require.NoError(t, err)

	assert.True(t, f.svc.sched.IsArmed(soon.ID))
	assert.False(t, f.svc.sched.IsArmed(far.ID))
	assert.False(t, f.svc.sched.IsArmed(quiet.ID))

	at, ok := f.svc.sched.ArmedAt(soon.ID)
	require.True(t, ok)
	assert.True(t, at.Equal(testutil.Monday.Add(150*time.Minute)))
}

func TestReminderUpdate_UnknownIDReturnsNil(t *testing.T) {
	f := newReminderFixture(t)
	title := "x"
	r, err := f.svc.Update(context.Background(), "missing", domain.ReminderPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestReminderUpdate_BumpsVersionAndRearms(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	r, err := f.svc.Add(ctx, withWhatsApp(input("Essay", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)

	newTime := "14:00"
	updated, err := f.svc.Update(ctx, r.ID, domain.ReminderPatch{Time: &newTime, NotifyBefore: intPtr(60)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "14:00", updated.Time)

	at, ok := f.svc.sched.ArmedAt(r.ID)
	require.True(t, ok)
	assert.True(t, at.Equal(testutil.Monday.Add(4*time.Hour)), "armed at 13:00, got %s", at)
}

func TestReminderUpdate_InvalidPatchLeavesRecordUntouched(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	r, err := f.svc.Add(ctx, input("Essay", testutil.Monday.Add(3*time.Hour)))
	require.NoError(t, err)

	badDate := "2025-13-45"
	_, err = f.svc.Update(ctx, r.ID, domain.ReminderPatch{Date: &badDate})
	assert.ErrorIs(t, err, domain.ErrInvalidReminder)

	stored, err := f.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Date, stored.Date)
	assert.Equal(t, int64(1), stored.Version)
}

func TestReminderDelete(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	r, err := f.svc.Add(ctx, withWhatsApp(input("Essay", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)
	require.True(t, f.svc.sched.IsArmed(r.ID))

	ok, err := f.svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, f.svc.sched.IsArmed(r.ID))

	ok, err = f.svc.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReminderMarkCompleted_CancelsAndNeverSends(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	r, err := f.svc.Add(ctx, withWhatsApp(input("Essay", testutil.Monday.Add(time.Hour))))
	require.NoError(t, err)

	ok, err := f.svc.MarkCompleted(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, f.svc.sched.IsArmed(r.ID))

	f.clk.Add(2 * time.Hour)
	assert.Empty(t, f.whatsapp.messages())

	// Even a stale callback for the old version does nothing.
	f.svc.deliver(ctx, r.ID, 1)
	f.svc.deliver(ctx, r.ID, 2)
	assert.Empty(t, f.whatsapp.messages())
	assert.Empty(t, f.alarm.notifications())

	ok, err = f.svc.MarkCompleted(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReminderFire_SendsOutboundAndLocal(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	in := withWhatsApp(input("Calculus exam", testutil.Monday.Add(time.Hour)))
	in.TelegramEnabled = true
	in.TelegramChatID = " 12345 "
	in.Location = "Room 101"
	r, err := f.svc.Add(ctx, in)
	require.NoError(t, err)

	f.clk.Add(30 * time.Minute)

	require.Eventually(t, func() bool {
		return len(f.alarm.notifications()) == 1
	}, time.Second, 5*time.Millisecond)

	wa := f.whatsapp.messages()
	require.Len(t, wa, 1)
	assert.Equal(t, "+491701234567", wa[0].To)
	assert.Contains(t, wa[0].Body, "Calculus exam")
	assert.False(t, wa[0].ForceText)

	tg := f.telegram.messages()
	require.Len(t, tg, 1)
	assert.Equal(t, "12345", tg[0].To)

	note := f.alarm.notifications()[0]
	assert.Contains(t, note.title, "Calculus exam")
	assert.Contains(t, note.body, "10:00 AM")
	assert.Contains(t, note.body, "Room 101")

	assert.False(t, f.svc.sched.IsArmed(r.ID))
	report := f.svc.RearmAll(ctx)
	assert.Equal(t, 1, report.Fired, "a fired instant is not re-armed")
}

func TestReminderDeliver_SkipsSupersededVersion(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	r, err := f.svc.Add(ctx, withWhatsApp(input("Essay", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)
	title := "Essay draft"
	_, err = f.svc.Update(ctx, r.ID, domain.ReminderPatch{Title: &title})
	require.NoError(t, err)

	f.svc.deliver(ctx, r.ID, 1)
	assert.Empty(t, f.whatsapp.messages())

	f.svc.deliver(ctx, r.ID, 2)
	assert.Len(t, f.whatsapp.messages(), 1)

	f.svc.deliver(ctx, "deleted-id", 1)
	assert.Len(t, f.whatsapp.messages(), 1)
}

func TestReminderDeliver_LocalNotificationDespiteSendFailure(t *testing.T) {
	f := newReminderFixture(t)
	f.whatsapp.err = notify.ErrGatewayUnavailable
	ctx := context.Background()

	r, err := f.svc.Add(ctx, withWhatsApp(input("Essay", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)

	f.svc.deliver(ctx, r.ID, r.Version)
	assert.Len(t, f.alarm.notifications(), 1)
}

func TestSendNotification(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewTestReminder("Essay", testutil.WithWhatsApp("+491701234567"))

	t.Run("no channel", func(t *testing.T) {
		f := newReminderFixture(t)
		res := f.svc.SendNotification(ctx, testutil.NewTestReminder("Quiet"), false)
		assert.False(t, res.Success)
		assert.Equal(t, ErrNoChannel.Error(), res.Error)
	})

	t.Run("accepted", func(t *testing.T) {
		f := newReminderFixture(t)
		res := f.svc.SendNotification(ctx, r, true)
		assert.True(t, res.Success)
		assert.Equal(t, "SM1", res.ID)
		assert.True(t, f.whatsapp.messages()[0].ForceText)
	})

	t.Run("rejected by gateway", func(t *testing.T) {
		f := newReminderFixture(t)
		f.whatsapp.receipt = notify.Receipt{Error: notify.DescribeTwilioError(notify.TwilioOutsideSessionWin, ""), ErrorCode: "63016"}
		res := f.svc.SendNotification(ctx, r, false)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "last 24 hours")
	})

	t.Run("transport failure is translated", func(t *testing.T) {
		f := newReminderFixture(t)
		f.whatsapp.err = notify.ErrTimeout
		res := f.svc.SendNotification(ctx, r, false)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "did not respond in time")
	})

	t.Run("unconfigured channel", func(t *testing.T) {
		f := newReminderFixture(t)
		f.svc.channels.WhatsApp = nil
		res := f.svc.SendNotification(ctx, r, false)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, notify.ErrChannelDisabled.Error())
	})

	t.Run("every channel must accept", func(t *testing.T) {
		f := newReminderFixture(t)
		f.telegram.err = errors.New("boom")
		both := testutil.NewTestReminder("Essay", testutil.WithWhatsApp("+491701234567"), testutil.WithTelegram("42"))
		res := f.svc.SendNotification(ctx, both, false)
		assert.False(t, res.Success)
		assert.Equal(t, "SM1", res.ID)
		assert.Contains(t, res.Error, "telegram: boom")
	})
}

func TestRearmAll_Report(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	reminders := []*domain.Reminder{
		testutil.NewTestReminder("armed", testutil.WithWhatsApp("+491701234567"), testutil.WithDue(testutil.Monday.Add(2*time.Hour))),
		testutil.NewTestReminder("deferred", testutil.WithWhatsApp("+491701234567"), testutil.WithDue(testutil.Monday.Add(30*time.Hour))),
		testutil.NewTestReminder("lapsed", testutil.WithWhatsApp("+491701234567"), testutil.WithDue(testutil.Monday.Add(-time.Hour))),
		testutil.NewTestReminder("no channel", testutil.WithDue(testutil.Monday.Add(2*time.Hour))),
		testutil.NewTestReminder("done", testutil.WithWhatsApp("+491701234567"), testutil.WithCompleted()),
	}
	require.NoError(t, f.repos.reminders.ReplaceAll(ctx, reminders))

	report := f.svc.RearmAll(ctx)
	assert.Equal(t, 1, report.Armed)
	assert.Equal(t, 1, report.Deferred)
	assert.Equal(t, 1, report.Lapsed)
	assert.Equal(t, 2, report.Skipped)

	f.clk.Add(7 * time.Hour)
	report = f.svc.RearmAll(ctx)
	assert.Equal(t, 1, report.Armed, "deferred reminder enters the horizon")
}

func TestListUpcomingAndToday(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	reminders := []*domain.Reminder{
		testutil.NewTestReminder("in three days", testutil.WithDue(testutil.Monday.Add(72*time.Hour))),
		testutil.NewTestReminder("later today", testutil.WithDue(testutil.Monday.Add(6*time.Hour))),
		testutil.NewTestReminder("earlier today", testutil.WithDue(testutil.Monday.Add(-2*time.Hour))),
		testutil.NewTestReminder("soon", testutil.WithDue(testutil.Monday.Add(time.Hour))),
		testutil.NewTestReminder("next month", testutil.WithDue(testutil.Monday.Add(30*24*time.Hour))),
		testutil.NewTestReminder("done", testutil.WithDue(testutil.Monday.Add(2*time.Hour)), testutil.WithCompleted()),
		testutil.NewTestReminder("window edge", testutil.WithDue(testutil.Monday.Add(7*24*time.Hour))),
	}
	require.NoError(t, f.repos.reminders.ReplaceAll(ctx, reminders))

	upcoming, err := f.svc.ListUpcoming(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"soon", "later today", "in three days", "window edge"}, titles(upcoming))

	today, err := f.svc.ListToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"earlier today", "soon", "later today"}, titles(today))
}

func titles(rs []*domain.Reminder) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Title)
	}
	return out
}

func TestExportImport(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	a, err := f.svc.Add(ctx, input("Essay", testutil.Monday.Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, withWhatsApp(input("Exam", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)

	data, err := f.svc.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")
	assert.Contains(t, string(data), "whatsapp_number:")

	other := newReminderFixture(t)
	n, err := other.svc.Import(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	all, err := other.svc.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Essay", "Exam"}, titles(all))
	assert.Equal(t, 1, other.svc.sched.Len(), "imported reminders are armed")

	// Upsert bumps the version of a reminder that already exists.
	n, err = f.svc.Import(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	stored, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	all, err = f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImport_ReplaceSwapsSet(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	old, err := f.svc.Add(ctx, withWhatsApp(input("Old", testutil.Monday.Add(3*time.Hour))))
	require.NoError(t, err)

	doc := []byte(`version: 1
reminders:
  - title: New
    date: "2025-03-11"
    time: "10:00"
    type: class
`)
	n, err := f.svc.Import(ctx, doc, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].Title)
	assert.NotEmpty(t, all[0].ID)
	assert.Equal(t, int64(1), all[0].Version)
	assert.False(t, f.svc.sched.IsArmed(old.ID))
}

func TestImport_RejectsInvalidWithoutWriting(t *testing.T) {
	f := newReminderFixture(t)
	ctx := context.Background()

	doc := []byte(`reminders:
  - title: Fine
    date: "2025-03-11"
    time: "10:00"
    type: study
  - title: ""
    date: "someday"
    time: "10:00"
    type: study
`)
	_, err := f.svc.Import(ctx, doc, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidReminder)
	assert.Contains(t, err.Error(), "reminders[1]")

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.svc.Import(ctx, []byte("version: 9\n"), false)
	assert.Error(t, err)
}
