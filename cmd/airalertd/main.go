package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jlorelli/airalert/internal/config"
	"github.com/jlorelli/airalert/internal/httpapi"
	"github.com/jlorelli/airalert/internal/logging"
	"github.com/jlorelli/airalert/internal/notify"
	"github.com/jlorelli/airalert/internal/provider"
	"github.com/jlorelli/airalert/internal/scheduler"
	"github.com/jlorelli/airalert/internal/state"
)

func main() {
	configPath := flag.String("config", "/etc/air-alert.yaml", "path to the air quality alert config")
	statePath := flag.String("state-file", "/srv/air-alert-state.json", "file where alert state is saved")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "airalertd:", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "airalertd:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// A corrupt state file is fatal: guessing would risk duplicate or
	// missed alerts. The operator has to inspect or remove it.
	store := state.NewFileStore(*statePath)
	states, err := store.Load()
	if err != nil {
		logger.Error("state_load_error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "airalertd:", err)
		os.Exit(1)
	}

	var reader provider.Reader = provider.NewPurpleAir(cfg.Provider.BaseURL, cfg.ProviderTimeout())
	reader = &provider.RetryReader{
		Inner:    reader,
		Attempts: cfg.Provider.RetryAttempts,
		Backoff:  cfg.RetryBackoff(),
	}

	var channels notify.Multi
	if s := notify.NewSMTP(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.UseTLS,
		cfg.Email.Username, cfg.Email.Password,
		cfg.Email.Sender, cfg.Email.Recipients,
	); s != nil {
		channels = append(channels, s)
	}
	if wh := notify.NewWebhook(cfg.SlackWebhook); wh != nil {
		channels = append(channels, wh)
	}

	sensors := cfg.SensorList()
	poller := scheduler.NewPoller(
		logger,
		sensors,
		reader,
		store,
		channels,
		scheduler.Messages{
			Unhealthy: cfg.Messages.Unhealthy,
			Normal:    cfg.Messages.Normal,
			Status:    cfg.Messages.Status,
		},
		cfg.PollInterval(),
		cfg.ProviderTimeout(),
		states,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatusEmailHour != nil {
		reporter := &scheduler.StatusReporter{
			Logger:     logger,
			Source:     poller,
			Notifier:   channels,
			StatusText: cfg.Messages.Status,
			Hour:       *cfg.StatusEmailHour,
		}
		if err := reporter.Start(); err != nil {
			logger.Error("status_reporter_error", zap.Error(err))
			fmt.Fprintln(os.Stderr, "airalertd:", err)
			os.Exit(1)
		}
		defer reporter.Stop()
	}

	if cfg.HTTP.Addr != "" {
		api := httpapi.NewServer(logger, sensors, poller, cfg.HTTP.APIKeys, cfg.HTTP.RPM, cfg.HTTP.Burst)
		srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: api.Router()}
		go func() {
			logger.Info("ops_listen", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops_server_error", zap.Error(err))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	logger.Info("airalertd_started",
		zap.Int("sensors", len(sensors)),
		zap.Duration("poll_interval", cfg.PollInterval()),
		zap.String("state_file", *statePath),
	)

	poller.Run(ctx)
	logger.Info("airalertd_stopped")
}
