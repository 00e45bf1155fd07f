package service

import (
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"go.uber.org/zap"
)

// todayCounts returns the work and break sessions completed since local
// midnight of now.
func todayCounts(sessions []domain.LocalSession, now time.Time) (work, breaks int) {
	from := domain.StartOfDay(now)
	return domain.CountSince(sessions, domain.SessionWork, from),
		domain.CountSince(sessions, domain.SessionBreak, from)
}

// wholeMinutes converts seconds to completed minutes, never below min.
func wholeMinutes(seconds, min int) int {
	m := seconds / 60
	if m < min {
		return min
	}
	return m
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
