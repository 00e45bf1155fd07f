// Package httpapi exposes the horae services as a JSON API for a UI.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/horae/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services are the use cases the API serves.
type Services struct {
	Timer     service.TimerService
	Reminders service.ReminderService
	Goals     service.GoalService
	Sessions  service.SessionService
	Alarm     service.Alarm
}

type Server struct {
	echo   *echo.Echo
	svc    Services
	logger *zap.Logger
	addr   string
}

func NewServer(svc Services, logger *zap.Logger, addr string) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if svc.Timer == nil || svc.Reminders == nil || svc.Goals == nil || svc.Sessions == nil || svc.Alarm == nil {
		return nil, fmt.Errorf("all services are required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(e, logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{echo: e, svc: svc, logger: logger, addr: addr}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")

	v1.GET("/timer", s.handleTimerStatus)
	v1.POST("/timer/:action", s.handleTimerAction)

	v1.GET("/reminders", s.handleListReminders)
	v1.POST("/reminders", s.handleAddReminder)
	v1.POST("/reminders/rearm", s.handleRearm)
	v1.GET("/reminders/:id", s.handleGetReminder)
	v1.PATCH("/reminders/:id", s.handleUpdateReminder)
	v1.DELETE("/reminders/:id", s.handleDeleteReminder)
	v1.POST("/reminders/:id/complete", s.handleCompleteReminder)
	v1.POST("/reminders/:id/send", s.handleSendReminder)

	v1.GET("/goals", s.handleListGoals)
	v1.POST("/goals", s.handleAddGoal)
	v1.GET("/goals/progress", s.handleGoalProgress)
	v1.DELETE("/goals/:id", s.handleDeleteGoal)

	v1.GET("/sessions", s.handleListSessions)
	v1.POST("/sessions", s.handleAppendSession)
	v1.GET("/sessions/summary", s.handleSessionSummary)

	v1.GET("/alarm", s.handleAlarmStatus)
	v1.POST("/alarm/stop", s.handleAlarmStop)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.addr))
	err := s.echo.Start(s.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
