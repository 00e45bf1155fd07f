package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/horae/internal/app"
	"github.com/alexanderramin/horae/internal/cli"
	"github.com/alexanderramin/horae/internal/config"
	"github.com/alexanderramin/horae/internal/httpapi"
	"github.com/alexanderramin/horae/internal/logging"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logging.Sync(log) }()

	a, err := app.Open(ctx, *cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("closing app", zap.Error(err))
		}
	}()

	root := cli.NewRootCmd(&cli.App{
		Timer:        a.Timer,
		Reminders:    a.Reminders,
		Goals:        a.Goals,
		Sessions:     a.Sessions,
		Alarm:        a.Alarm,
		Clock:        a.Clock,
		Location:     a.Location,
		UpcomingDays: cfg.Reminders.UpcomingDays,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		Serve: func(ctx context.Context) error { return serve(ctx, a) },
	})
	return root.ExecuteContext(ctx)
}

// serve runs the daemon and the HTTP API until ctx is cancelled or either
// of them fails.
func serve(ctx context.Context, a *app.App) error {
	srv, err := httpapi.NewServer(httpapi.Services{
		Timer:     a.Timer,
		Reminders: a.Reminders,
		Goals:     a.Goals,
		Sessions:  a.Sessions,
		Alarm:     a.Alarm,
	}, a.Log, a.Config.HTTP.Addr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	daemonErr := make(chan error, 1)
	go func() { daemonErr <- a.Run(ctx) }()
	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()

	select {
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		a.Log.Error("http shutdown", zap.Error(serr))
	}
	if derr := <-daemonErr; derr != nil && err == nil {
		err = derr
	}
	return err
}
