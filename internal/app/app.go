// Package app wires configuration, storage and transports into the horae
// services and runs the background daemon.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/horae/internal/alarm"
	"github.com/alexanderramin/horae/internal/config"
	"github.com/alexanderramin/horae/internal/metrics"
	"github.com/alexanderramin/horae/internal/notify"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// App holds the wired services for one user.
type App struct {
	Config   config.Config
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Clock    clock.Clock
	Location *time.Location

	Timer     service.TimerService
	Reminders service.ReminderService
	Goals     service.GoalService
	Sessions  service.SessionService
	Alarm     *alarm.Manager

	closeStore func() error
}

// Open builds every service from cfg. Call Close when done.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.clk == nil {
		o.clk = clock.New()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, closeStore := o.store, func() error { return nil }
	if store == nil {
		store, closeStore, err = OpenStore(ctx, cfg.Storage, log)
		if err != nil {
			return nil, err
		}
	}
	kv := repository.NewTolerantKV(repository.NewNamespaced(store, cfg.User), log.Named("storage"))

	m := metrics.New()
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(log.Named("usecase")),
		service.NewMetricsUseCaseObserver(m),
	}

	if o.player == nil {
		o.player, err = buildPlayer(cfg.Alarm)
		if err != nil {
			_ = closeStore()
			return nil, err
		}
	}
	if o.notifier == nil {
		o.notifier = alarm.NopNotifier{}
		if cfg.Alarm.Notifications {
			o.notifier = alarm.NewDesktopNotifier()
		}
	}
	mgr := alarm.NewManager(o.clk, o.player, o.notifier, repository.NewKVAlarmMarkerRepo(kv),
		alarm.WithInterval(cfg.Alarm.Interval),
		alarm.WithLogger(log.Named("alarm")),
		alarm.WithMetrics(m),
	)

	channels := buildChannels(cfg, log, m)
	if o.channels != nil {
		channels = *o.channels
	}

	sessions := repository.NewKVSessionLogRepo(kv, log)
	a := &App{
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Clock:    o.clk,
		Location: loc,
		Alarm:    mgr,
		Timer: service.NewTimerService(repository.NewKVTimerStateRepo(kv, log), sessions, mgr, o.clk,
			service.TimerConfig{
				Work:           time.Duration(cfg.Timer.WorkMinutes) * time.Minute,
				ShortBreak:     time.Duration(cfg.Timer.ShortBreakMinutes) * time.Minute,
				LongBreak:      time.Duration(cfg.Timer.LongBreakMinutes) * time.Minute,
				LongBreakEvery: cfg.Timer.LongBreakEvery,
				Location:       loc,
			}, log.Named("timer"), m, observers...),
		Reminders: service.NewReminderService(repository.NewKVReminderRepo(kv, log), channels, mgr, o.clk,
			service.ReminderConfig{
				Location:            loc,
				Horizon:             cfg.Reminders.Horizon,
				DefaultNotifyBefore: cfg.Reminders.DefaultNotifyBefore,
			}, log.Named("reminders"), m, observers...),
		Goals:      service.NewGoalService(repository.NewKVGoalRepo(kv, log), sessions, o.clk, loc, observers...),
		Sessions:   service.NewSessionService(sessions, o.clk, loc),
		closeStore: closeStore,
	}
	return a, nil
}

// Close cancels armed reminders and this process's alarm cycle, then
// releases storage. The durable alarm marker is left as is.
func (a *App) Close() error {
	a.Reminders.Close()
	a.Alarm.Release()
	return a.closeStore()
}

func buildPlayer(cfg config.AlarmConfig) (alarm.Player, error) {
	switch cfg.Player {
	case "none":
		return alarm.NopPlayer{}, nil
	case "bell":
		return alarm.NewBellPlayer(os.Stderr), nil
	case "command":
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("alarm.command is required when alarm.player is command")
		}
		return &alarm.CommandPlayer{Name: cfg.Command[0], Args: cfg.Command[1:]}, nil
	}
	return alarm.DetectPlayer(os.Stderr), nil
}

// buildChannels returns the transports the config enables. A Telegram bot
// that fails to authenticate is logged and left disabled.
func buildChannels(cfg config.Config, log *zap.Logger, m *metrics.Metrics) service.Channels {
	observer := notify.Observers{notify.NewLogObserver(log.Named("notify")), notify.NewMetricsObserver(m)}

	var ch service.Channels
	if cfg.WhatsApp.Enabled() {
		client := notify.NewWhatsAppClient(notify.TwilioConfig{
			AccountSID: cfg.WhatsApp.AccountSID,
			AuthToken:  cfg.WhatsApp.AuthToken.Value(),
			From:       cfg.WhatsApp.From,
			ContentSID: cfg.WhatsApp.ContentSID,
			BaseURL:    cfg.WhatsApp.BaseURL,
			Timeout:    cfg.WhatsApp.Timeout,
		}, observer)
		ch.WhatsApp = notify.Throttle(client, cfg.WhatsApp.RatePerSecond, cfg.WhatsApp.Burst)
	}
	if cfg.Telegram.Token.IsSet() {
		tg, err := notify.NewTelegramChannel(cfg.Telegram.Token.Value(), cfg.Telegram.Endpoint, nil, observer)
		if err != nil {
			log.Warn("telegram channel disabled", zap.Error(err))
		} else {
			log.Info("telegram channel ready", zap.String("bot", tg.BotName()))
			ch.Telegram = notify.Throttle(tg, cfg.Telegram.RatePerSecond, 1)
		}
	}
	return ch
}
