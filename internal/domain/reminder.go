package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	ReminderDateLayout = "2006-01-02"
	ReminderTimeLayout = "15:04"
)

var channelAddressPattern = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

type Reminder struct {
	ID              string         `json:"id" yaml:"id"`
	Title           string         `json:"title" yaml:"title"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty"`
	Date            string         `json:"date" yaml:"date"`
	Time            string         `json:"time" yaml:"time"`
	Type            ReminderType   `json:"type" yaml:"type"`
	Subject         string         `json:"subject,omitempty" yaml:"subject,omitempty"`
	Location        string         `json:"location,omitempty" yaml:"location,omitempty"`
	WhatsAppEnabled bool           `json:"whatsappEnabled" yaml:"whatsapp_enabled"`
	WhatsAppNumber  string         `json:"whatsappNumber,omitempty" yaml:"whatsapp_number,omitempty"`
	TelegramEnabled bool           `json:"telegramEnabled" yaml:"telegram_enabled"`
	TelegramChatID  string         `json:"telegramChatId,omitempty" yaml:"telegram_chat_id,omitempty"`
	EmailEnabled    bool           `json:"emailEnabled" yaml:"email_enabled"`
	NotifyBefore    int            `json:"notifyBefore" yaml:"notify_before"`
	Recurring       RecurrenceKind `json:"recurring" yaml:"recurring"`
	RecurringDays   []int          `json:"recurringDays,omitempty" yaml:"recurring_days,omitempty"`
	Completed       bool           `json:"completed" yaml:"completed"`
	CreatedAt       time.Time      `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" yaml:"updated_at"`
	TimetableID     string         `json:"timetableId,omitempty" yaml:"timetable_id,omitempty"`
	Version         int64          `json:"version" yaml:"version"`
}

// Recurrence is the tagged form of the Recurring/RecurringDays pair.
// It is carried and validated but never expanded into further instances.
type Recurrence struct {
	Kind RecurrenceKind
	Days []time.Weekday
}

func (r *Reminder) Recurrence() Recurrence {
	kind := r.Recurring
	if kind == "" {
		kind = RecurNone
	}
	rec := Recurrence{Kind: kind}
	if kind == RecurWeekly {
		for _, d := range r.RecurringDays {
			rec.Days = append(rec.Days, time.Weekday(d))
		}
		sort.Slice(rec.Days, func(i, j int) bool { return rec.Days[i] < rec.Days[j] })
	}
	return rec
}

// DueInstant combines Date and Time in loc.
func (r *Reminder) DueInstant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(ReminderDateLayout+" "+ReminderTimeLayout, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due %q %q: %v", ErrInvalidReminder, r.Date, r.Time, err)
	}
	return t, nil
}

// NotifyInstant is DueInstant minus the NotifyBefore lead time.
func (r *Reminder) NotifyInstant(loc *time.Location) (time.Time, error) {
	due, err := r.DueInstant(loc)
	if err != nil {
		return time.Time{}, err
	}
	return due.Add(-time.Duration(r.NotifyBefore) * time.Minute), nil
}

// HasOutboundChannel reports whether any push channel is enabled.
func (r *Reminder) HasOutboundChannel() bool {
	return r.WhatsAppEnabled || r.TelegramEnabled
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if _, err := time.Parse(ReminderDateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidReminder, r.Date)
	}
	if _, err := time.Parse(ReminderTimeLayout, r.Time); err != nil {
		return fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidReminder, r.Time)
	}
	if !ValidReminderTypes[r.Type] {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidReminder, r.Type)
	}
	if r.NotifyBefore < 0 {
		return fmt.Errorf("%w: notify-before must not be negative", ErrInvalidReminder)
	}
	if r.Recurring != "" && !validRecurrence[r.Recurring] {
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidReminder, r.Recurring)
	}
	for _, d := range r.RecurringDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidReminder, d)
		}
	}
	if r.WhatsAppEnabled && !channelAddressPattern.MatchString(NormalizePhone(r.WhatsAppNumber)) {
		return fmt.Errorf("%w: whatsapp number %q is not a valid international number", ErrInvalidReminder, r.WhatsAppNumber)
	}
	if r.TelegramEnabled && strings.TrimSpace(r.TelegramChatID) == "" {
		return fmt.Errorf("%w: telegram chat id is required when telegram is enabled", ErrInvalidReminder)
	}
	return nil
}

// NormalizePhone strips spaces, dashes and parentheses from a number.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// ReminderPatch holds optional field updates. Nil fields are left unchanged.
type ReminderPatch struct {
	Title           *string
	Description     *string
	Date            *string
	Time            *string
	Type            *ReminderType
	Subject         *string
	Location        *string
	WhatsAppEnabled *bool
	WhatsAppNumber  *string
	TelegramEnabled *bool
	TelegramChatID  *string
	EmailEnabled    *bool
	NotifyBefore    *int
	Recurring       *RecurrenceKind
	RecurringDays   []int
	Completed       *bool
	TimetableID     *string
}

// Apply merges the patch into r, bumps Version and stamps UpdatedAt.
func (r *Reminder) Apply(p ReminderPatch, now time.Time) {
	r.Title = patched(r.Title, p.Title)
	r.Description = patched(r.Description, p.Description)
	r.Date = patched(r.Date, p.Date)
	r.Time = patched(r.Time, p.Time)
	r.Type = patched(r.Type, p.Type)
	r.Subject = patched(r.Subject, p.Subject)
	r.Location = patched(r.Location, p.Location)
	r.WhatsAppEnabled = patched(r.WhatsAppEnabled, p.WhatsAppEnabled)
	r.WhatsAppNumber = patched(r.WhatsAppNumber, p.WhatsAppNumber)
	r.TelegramEnabled = patched(r.TelegramEnabled, p.TelegramEnabled)
	r.TelegramChatID = patched(r.TelegramChatID, p.TelegramChatID)
	r.EmailEnabled = patched(r.EmailEnabled, p.EmailEnabled)
	r.NotifyBefore = patched(r.NotifyBefore, p.NotifyBefore)
	r.Recurring = patched(r.Recurring, p.Recurring)
	if p.RecurringDays != nil {
		r.RecurringDays = append([]int(nil), p.RecurringDays...)
	}
	r.Completed = patched(r.Completed, p.Completed)
	r.TimetableID = patched(r.TimetableID, p.TimetableID)
	r.Version++
	r.UpdatedAt = now
}

// IsDueWithin reports whether the due instant lies in [from, to].
func (r *Reminder) IsDueWithin(from, to time.Time, loc *time.Location) bool {
	due, err := r.DueInstant(loc)
	if err != nil {
		return false
	}
	return !due.Before(from) && !due.After(to)
}

// SortByDue orders reminders ascending by due instant; unparsable ones sort last.
func SortByDue(reminders []*Reminder, loc *time.Location) {
	sort.SliceStable(reminders, func(i, j int) bool {
		di, erri := reminders[i].DueInstant(loc)
		dj, errj := reminders[j].DueInstant(loc)
		if erri != nil || errj != nil {
			return erri == nil && errj != nil
		}
		return di.Before(dj)
	})
}
