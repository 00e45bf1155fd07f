package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
)

type sessionService struct {
	sessions repository.SessionLogRepo
	clk      clock.Clock
	loc      *time.Location
}

func NewSessionService(sessions repository.SessionLogRepo, clk clock.Clock, loc *time.Location) SessionService {
	return &sessionService{sessions: sessions, clk: clk, loc: locationOrLocal(loc)}
}

func (s *sessionService) List(ctx context.Context) ([]domain.LocalSession, error) {
	return s.sessions.List(ctx)
}

// Append logs a session, filling in the id, completion instant and type
// when they are missing.
func (s *sessionService) Append(ctx context.Context, sess domain.LocalSession) (*domain.LocalSession, error) {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.CompletedAt.IsZero() {
		sess.CompletedAt = s.clk.Now()
	}
	if sess.SessionType == "" {
		sess.SessionType = domain.SessionWork
	}
	sess.Subject = strings.TrimSpace(sess.Subject)
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := s.sessions.Append(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *sessionService) Summary(ctx context.Context) (domain.SessionSummary, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	return domain.Summarize(sessions, s.clk.Now().In(s.loc)), nil
}
