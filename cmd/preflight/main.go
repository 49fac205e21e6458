// cmd/preflight validates a deployment before the daemon is (re)started:
// the config must parse and the state file, if present, must not be corrupt.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jlorelli/airalert/internal/config"
	"github.com/jlorelli/airalert/internal/state"
)

func main() {
	configPath := flag.String("config", "/etc/air-alert.yaml", "path to the air quality alert config")
	statePath := flag.String("state-file", "/srv/air-alert-state.json", "file where alert state is saved")
	flag.Parse()

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err.Error())
	}
	ok(fmt.Sprintf("config loads: %d sensor(s), poll every %s", len(cfg.Sensors), cfg.PollInterval()))

	if cfg.Email.SMTPHost != "" {
		ok(fmt.Sprintf("email channel: %s:%d → %d recipient(s)", cfg.Email.SMTPHost, cfg.Email.SMTPPort, len(cfg.Email.Recipients)))
		if cfg.Email.LoginRequired && os.Getenv("AIRALERT_SMTP_PASSWORD") == "" && cfg.Email.Password == "" {
			warn("login_required set but no password in config or AIRALERT_SMTP_PASSWORD")
		}
	} else {
		warn("no email channel configured")
	}
	if cfg.SlackWebhook != "" {
		ok("slack webhook channel configured")
	}
	if cfg.StatusEmailHour == nil {
		warn("status_email_hour unset — no daily summary will be sent")
	}
	if cfg.HTTP.Addr == "" {
		warn("http.addr empty — ops endpoint (healthz/metrics/state) disabled")
	}

	for _, s := range cfg.SensorList() {
		if s.RecoveryThreshold == s.AlertThreshold {
			warn(fmt.Sprintf("sensor %s: no hysteresis band (recovery == alert threshold %v); alerts may flap", s.ID, s.AlertThreshold))
		}
	}

	// A missing state file is the normal first run; a corrupt one will
	// keep the daemon from starting.
	if _, err := os.Stat(*statePath); os.IsNotExist(err) {
		warn("state file missing — daemon will start with empty state (first run)")
	} else if _, err := state.NewFileStore(*statePath).Load(); err != nil {
		fail(err.Error())
	} else {
		ok("state file loads")
	}

	ok("preflight passed")
}
