package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// StartTimerRequest is the body of POST /api/v1/timer/start.
type StartTimerRequest struct {
	Subject string             `json:"subject"`
	Type    domain.SessionType `json:"type"`
	Minutes int                `json:"minutes"`
}

type StopTimerResponse struct {
	Logged *domain.LocalSession `json:"logged"`
}

func (s *Server) handleTimerStatus(c echo.Context) error {
	status, err := s.svc.Timer.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleTimerAction(c echo.Context) error {
	ctx := c.Request().Context()
	switch c.Param("action") {
	case "start":
		var req StartTimerRequest
		if c.Request().ContentLength != 0 {
			if err := c.Bind(&req); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
			}
		}
		if req.Minutes < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "minutes must not be negative")
		}
		state, err := s.svc.Timer.Start(ctx, service.StartTimerRequest{
			Subject:  req.Subject,
			Type:     req.Type,
			Duration: time.Duration(req.Minutes) * time.Minute,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, state)
	case "pause":
		state, err := s.svc.Timer.Pause(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, state)
	case "resume":
		state, err := s.svc.Timer.Resume(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, state)
	case "stop":
		logged, err := s.svc.Timer.Stop(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, StopTimerResponse{Logged: logged})
	case "reset":
		if err := s.svc.Timer.Reset(ctx); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
	return echo.NewHTTPError(http.StatusNotFound, "unknown timer action "+strconv.Quote(c.Param("action")))
}

func (s *Server) handleListReminders(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		list []*domain.Reminder
		err  error
	)
	switch {
	case c.QueryParam("upcoming") != "":
		days, convErr := strconv.Atoi(c.QueryParam("upcoming"))
		if convErr != nil || days < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "upcoming must be a positive number of days")
		}
		list, err = s.svc.Reminders.ListUpcoming(ctx, days)
	case c.QueryParam("today") == "true":
		list, err = s.svc.Reminders.ListToday(ctx)
	default:
		list, err = s.svc.Reminders.List(ctx)
	}
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Reminder{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleAddReminder(c echo.Context) error {
	var in service.ReminderInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	r, err := s.svc.Reminders.Add(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) handleGetReminder(c echo.Context) error {
	r, err := s.svc.Reminders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// ReminderPatchRequest mirrors domain.ReminderPatch with wire names.
type ReminderPatchRequest struct {
	Title           *string                `json:"title"`
	Description     *string                `json:"description"`
	Date            *string                `json:"date"`
	Time            *string                `json:"time"`
	Type            *domain.ReminderType   `json:"type"`
	Subject         *string                `json:"subject"`
	Location        *string                `json:"location"`
	WhatsAppEnabled *bool                  `json:"whatsappEnabled"`
	WhatsAppNumber  *string                `json:"whatsappNumber"`
	TelegramEnabled *bool                  `json:"telegramEnabled"`
	TelegramChatID  *string                `json:"telegramChatId"`
	EmailEnabled    *bool                  `json:"emailEnabled"`
	NotifyBefore    *int                   `json:"notifyBefore"`
	Recurring       *domain.RecurrenceKind `json:"recurring"`
	RecurringDays   []int                  `json:"recurringDays"`
	Completed       *bool                  `json:"completed"`
	TimetableID     *string                `json:"timetableId"`
}

func (p ReminderPatchRequest) toPatch() domain.ReminderPatch {
	return domain.ReminderPatch{
		Title:           p.Title,
		Description:     p.Description,
		Date:            p.Date,
		Time:            p.Time,
		Type:            p.Type,
		Subject:         p.Subject,
		Location:        p.Location,
		WhatsAppEnabled: p.WhatsAppEnabled,
		WhatsAppNumber:  p.WhatsAppNumber,
		TelegramEnabled: p.TelegramEnabled,
		TelegramChatID:  p.TelegramChatID,
		EmailEnabled:    p.EmailEnabled,
		NotifyBefore:    p.NotifyBefore,
		Recurring:       p.Recurring,
		RecurringDays:   p.RecurringDays,
		Completed:       p.Completed,
		TimetableID:     p.TimetableID,
	}
}

func (s *Server) handleUpdateReminder(c echo.Context) error {
	var req ReminderPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	r, err := s.svc.Reminders.Update(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	if r == nil {
		return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleDeleteReminder(c echo.Context) error {
	ok, err := s.svc.Reminders.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCompleteReminder(c echo.Context) error {
	ok, err := s.svc.Reminders.MarkCompleted(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSendReminder(c echo.Context) error {
	ctx := c.Request().Context()
	r, err := s.svc.Reminders.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	forceText, _ := strconv.ParseBool(c.QueryParam("forceText"))
	res := s.svc.Reminders.SendNotification(ctx, r, forceText)
	code := http.StatusOK
	if !res.Success {
		code = http.StatusBadGateway
	}
	return c.JSON(code, res)
}

func (s *Server) handleRearm(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Reminders.RearmAll(c.Request().Context()))
}

func (s *Server) handleListGoals(c echo.Context) error {
	goals, err := s.svc.Goals.List(c.Request().Context())
	if err != nil {
		return err
	}
	if goals == nil {
		goals = []*domain.StudyGoal{}
	}
	return c.JSON(http.StatusOK, goals)
}

func (s *Server) handleAddGoal(c echo.Context) error {
	var in service.GoalInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	g, err := s.svc.Goals.Add(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) handleGoalProgress(c echo.Context) error {
	progress, err := s.svc.Goals.ProgressAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progress)
}

func (s *Server) handleDeleteGoal(c echo.Context) error {
	ok, err := s.svc.Goals.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListSessions(c echo.Context) error {
	sessions, err := s.svc.Sessions.List(c.Request().Context())
	if err != nil {
		return err
	}
	if sessions == nil {
		sessions = []domain.LocalSession{}
	}
	return c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleAppendSession(c echo.Context) error {
	var in domain.LocalSession
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sess, err := s.svc.Sessions.Append(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

func (s *Server) handleSessionSummary(c echo.Context) error {
	sum, err := s.svc.Sessions.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

type AlarmResponse struct {
	Active bool `json:"active"`
}

func (s *Server) handleAlarmStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, AlarmResponse{Active: s.svc.Alarm.IsActive(c.Request().Context())})
}

func (s *Server) handleAlarmStop(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.svc.Alarm.Stop(ctx); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AlarmResponse{Active: s.svc.Alarm.IsActive(ctx)})
}
