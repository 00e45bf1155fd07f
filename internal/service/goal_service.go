package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
)

const defaultGoalColor = "#6366f1"

type GoalInput struct {
	Title         string            `json:"title"`
	TargetMinutes int               `json:"targetMinutes"`
	Period        domain.GoalPeriod `json:"period"`
	Subject       string            `json:"subject,omitempty"`
	Color         string            `json:"color,omitempty"`
}

type GoalWithProgress struct {
	Goal     *domain.StudyGoal   `json:"goal"`
	Progress domain.GoalProgress `json:"progress"`
}

type goalService struct {
	goals    repository.GoalRepo
	sessions repository.SessionLogRepo
	clk      clock.Clock
	loc      *time.Location
	observer UseCaseObserver
}

func NewGoalService(
	goals repository.GoalRepo,
	sessions repository.SessionLogRepo,
	clk clock.Clock,
	loc *time.Location,
	observers ...UseCaseObserver,
) GoalService {
	return &goalService{
		goals:    goals,
		sessions: sessions,
		clk:      clk,
		loc:      locationOrLocal(loc),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *goalService) List(ctx context.Context) ([]*domain.StudyGoal, error) {
	return s.goals.List(ctx)
}

func (s *goalService) Add(ctx context.Context, in GoalInput) (g *domain.StudyGoal, err error) {
	startedAt := s.clk.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "goal-add",
			StartedAt: startedAt,
			Duration:  s.clk.Now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"period": string(in.Period)},
		})
	}()

	period := in.Period
	if period == "" {
		period = domain.PeriodDaily
	}
	g = &domain.StudyGoal{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(in.Title),
		TargetMinutes: in.TargetMinutes,
		Period:        period,
		Subject:       strings.TrimSpace(in.Subject),
		Color:         domain.CoalesceStr(in.Color, defaultGoalColor),
		CreatedAt:     s.clk.Now().UTC(),
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *goalService) Delete(ctx context.Context, id string) (bool, error) {
	err := s.goals.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *goalService) Progress(ctx context.Context, g *domain.StudyGoal) (domain.GoalProgress, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return domain.GoalProgress{}, err
	}
	return domain.ProgressFor(g, sessions, s.clk.Now().In(s.loc)), nil
}

func (s *goalService) ProgressAll(ctx context.Context) ([]GoalWithProgress, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now().In(s.loc)
	out := make([]GoalWithProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalWithProgress{Goal: g, Progress: domain.ProgressFor(g, sessions, now)})
	}
	return out, nil
}
