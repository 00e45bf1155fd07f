// Package config loads horae settings from YAML and HORAE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	// User namespaces every persisted key.
	User      string          `koanf:"user" json:"user"`
	Timezone  string          `koanf:"timezone" json:"timezone"`
	Storage   StorageConfig   `koanf:"storage" json:"storage"`
	Timer     TimerConfig     `koanf:"timer" json:"timer"`
	Alarm     AlarmConfig     `koanf:"alarm" json:"alarm"`
	Reminders RemindersConfig `koanf:"reminders" json:"reminders"`
	WhatsApp  WhatsAppConfig  `koanf:"whatsapp" json:"whatsapp"`
	Telegram  TelegramConfig  `koanf:"telegram" json:"telegram"`
	Log       LogConfig       `koanf:"log" json:"log"`
	HTTP      HTTPConfig      `koanf:"http" json:"http"`
}

type StorageConfig struct {
	// Driver is one of sqlite, postgres, memory.
	Driver string `koanf:"driver" json:"driver"`
	Path   string `koanf:"path" json:"path"`
	DSN    Secret `koanf:"dsn" json:"dsn"`
}

type TimerConfig struct {
	WorkMinutes       int `koanf:"work_minutes" json:"work_minutes"`
	ShortBreakMinutes int `koanf:"short_break_minutes" json:"short_break_minutes"`
	LongBreakMinutes  int `koanf:"long_break_minutes" json:"long_break_minutes"`
	LongBreakEvery    int `koanf:"long_break_every" json:"long_break_every"`
}

type AlarmConfig struct {
	Interval time.Duration `koanf:"interval" json:"interval"`
	// Player is auto, bell, command or none.
	Player        string   `koanf:"player" json:"player"`
	Command       []string `koanf:"command" json:"command"`
	Notifications bool     `koanf:"notifications" json:"notifications"`
}

type RemindersConfig struct {
	Horizon             time.Duration `koanf:"horizon" json:"horizon"`
	RearmInterval       time.Duration `koanf:"rearm_interval" json:"rearm_interval"`
	DefaultNotifyBefore int           `koanf:"default_notify_before" json:"default_notify_before"`
	UpcomingDays        int           `koanf:"upcoming_days" json:"upcoming_days"`
}

type WhatsAppConfig struct {
	AccountSID    string        `koanf:"account_sid" json:"account_sid"`
	AuthToken     Secret        `koanf:"auth_token" json:"auth_token"`
	From          string        `koanf:"from" json:"from"`
	ContentSID    string        `koanf:"content_sid" json:"content_sid"`
	BaseURL       string        `koanf:"base_url" json:"base_url"`
	Timeout       time.Duration `koanf:"timeout" json:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second" json:"rate_per_second"`
	Burst         int           `koanf:"burst" json:"burst"`
}

func (w WhatsAppConfig) Enabled() bool {
	return w.AccountSID != "" && w.AuthToken.IsSet() && w.From != ""
}

type TelegramConfig struct {
	Token         Secret  `koanf:"token" json:"token"`
	Endpoint      string  `koanf:"endpoint" json:"endpoint"`
	RatePerSecond float64 `koanf:"rate_per_second" json:"rate_per_second"`
}

type LogConfig struct {
	Level string `koanf:"level" json:"level"`
	// Format is console or json.
	Format string `koanf:"format" json:"format"`
}

type HTTPConfig struct {
	Addr            string        `koanf:"addr" json:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// HomeDir is where horae keeps its config file and database.
func HomeDir() string {
	if dir := os.Getenv("HORAE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".horae"
	}
	return filepath.Join(home, ".horae")
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		User:     "local",
		Timezone: "Local",
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   filepath.Join(HomeDir(), "horae.db"),
		},
		Timer: TimerConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakEvery:    4,
		},
		Alarm: AlarmConfig{
			Interval:      5 * time.Second,
			Player:        "auto",
			Notifications: true,
		},
		Reminders: RemindersConfig{
			Horizon:             24 * time.Hour,
			RearmInterval:       15 * time.Minute,
			DefaultNotifyBefore: 30,
			UpcomingDays:        7,
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:       "https://api.twilio.com",
			Timeout:       10 * time.Second,
			RatePerSecond: 1,
			Burst:         1,
		},
		Telegram: TelegramConfig{
			RatePerSecond: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		HTTP: HTTPConfig{
			Addr:            "127.0.0.1:7420",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Location resolves Timezone; "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate rejects settings the rest of the program cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.User == "" {
		errs = append(errs, errors.New("user is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	case "postgres":
		if !c.Storage.DSN.IsSet() {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be sqlite, postgres or memory", c.Storage.Driver))
	}

	if c.Timer.WorkMinutes <= 0 || c.Timer.ShortBreakMinutes <= 0 || c.Timer.LongBreakMinutes <= 0 {
		errs = append(errs, errors.New("timer lengths must be positive"))
	}
	if c.Timer.LongBreakEvery < 1 {
		errs = append(errs, errors.New("timer.long_break_every must be at least 1"))
	}

	if c.Alarm.Interval < time.Second {
		errs = append(errs, fmt.Errorf("alarm.interval %s is shorter than 1s", c.Alarm.Interval))
	}
	switch c.Alarm.Player {
	case "auto", "bell", "none":
	case "command":
		if len(c.Alarm.Command) == 0 {
			errs = append(errs, errors.New("alarm.command is required when alarm.player is command"))
		}
	default:
		errs = append(errs, fmt.Errorf("alarm.player %q must be auto, bell, command or none", c.Alarm.Player))
	}

	if c.Reminders.Horizon <= 0 {
		errs = append(errs, errors.New("reminders.horizon must be positive"))
	}
	if c.Reminders.RearmInterval <= 0 {
		errs = append(errs, errors.New("reminders.rearm_interval must be positive"))
	}
	if c.Reminders.DefaultNotifyBefore < 0 {
		errs = append(errs, errors.New("reminders.default_notify_before must not be negative"))
	}
	if c.Reminders.UpcomingDays < 1 {
		errs = append(errs, errors.New("reminders.upcoming_days must be at least 1"))
	}

	if c.WhatsApp.RatePerSecond <= 0 || c.Telegram.RatePerSecond <= 0 {
		errs = append(errs, errors.New("channel rate_per_second must be positive"))
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", c.Log.Format))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}

	return errors.Join(errs...)
}
