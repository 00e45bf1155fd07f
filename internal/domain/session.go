package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MaxLocalSessions bounds the session log; older entries are evicted first.
const MaxLocalSessions = 100

type LocalSession struct {
	ID          string      `json:"id"`
	Subject     string      `json:"subject"`
	Duration    int         `json:"duration"`
	CompletedAt time.Time   `json:"completedAt"`
	SessionType SessionType `json:"sessionType"`
}

func (s *LocalSession) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidSession)
	}
	if s.SessionType != SessionWork && s.SessionType != SessionBreak {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidSession, s.SessionType)
	}
	return nil
}

// AppendCapped appends s and drops the oldest entries past limit.
func AppendCapped(log []LocalSession, s LocalSession, limit int) []LocalSession {
	log = append(log, s)
	if limit > 0 && len(log) > limit {
		log = append([]LocalSession(nil), log[len(log)-limit:]...)
	}
	return log
}

type SubjectMinutes struct {
	Subject string `json:"subject"`
	Minutes int    `json:"minutes"`
}

type SessionSummary struct {
	TodayMinutes   int              `json:"todayMinutes"`
	WeekMinutes    int              `json:"weekMinutes"`
	TodayPomodoros int              `json:"todayPomodoros"`
	TotalSessions  int              `json:"totalSessions"`
	WeekSubjects   []SubjectMinutes `json:"weekSubjects"`
}

// Summarize aggregates work sessions for today and the trailing 7 days.
func Summarize(sessions []LocalSession, now time.Time) SessionSummary {
	today := StartOfDay(now)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	bySubject := make(map[string]int)

	sum := SessionSummary{TotalSessions: len(sessions)}
	for _, s := range sessions {
		if s.SessionType != SessionWork {
			continue
		}
		if !s.CompletedAt.Before(today) {
			sum.TodayMinutes += s.Duration
			sum.TodayPomodoros++
		}
		if !s.CompletedAt.Before(weekAgo) {
			sum.WeekMinutes += s.Duration
			subject := strings.TrimSpace(s.Subject)
			if subject == "" {
				subject = "General"
			}
			bySubject[subject] += s.Duration
		}
	}

	for subject, min := range bySubject {
		sum.WeekSubjects = append(sum.WeekSubjects, SubjectMinutes{Subject: subject, Minutes: min})
	}
	sort.Slice(sum.WeekSubjects, func(i, j int) bool {
		if sum.WeekSubjects[i].Minutes != sum.WeekSubjects[j].Minutes {
			return sum.WeekSubjects[i].Minutes > sum.WeekSubjects[j].Minutes
		}
		return sum.WeekSubjects[i].Subject < sum.WeekSubjects[j].Subject
	})
	return sum
}

// CountSince counts sessions of the given type completed at or after from.
func CountSince(sessions []LocalSession, sessionType SessionType, from time.Time) int {
	var n int
	for _, s := range sessions {
		if s.SessionType == sessionType && !s.CompletedAt.Before(from) {
			n++
		}
	}
	return n
}
