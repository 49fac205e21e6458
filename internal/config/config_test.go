package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goodConfig = `
sensors:
  - id: "61605"
    label: Rooftop
    alert_threshold: 150
    recovery_threshold: 100
  - id: "38085"
    alert_threshold: 150
poll_interval_seconds: 60
status_email_hour: 13
email:
  smtp_addr: smtp.example.com
  smtp_port: 587
  use_tls: true
  login_required: true
  email_addr: alerts@example.com
  email_pw: hunter2
  sender_email: air-report@example.com
  addresses:
    - ops@example.com
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "air-alert.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, goodConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sensors) != 2 || cfg.PollIntervalSeconds != 60 {
		t.Fatalf("basic fields wrong: %+v", cfg)
	}
	if cfg.StatusEmailHour == nil || *cfg.StatusEmailHour != 13 {
		t.Fatalf("status_email_hour wrong: %v", cfg.StatusEmailHour)
	}
	// defaults
	if cfg.LogDir != "logs" || cfg.Provider.RetryAttempts != 2 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if !strings.Contains(cfg.Messages.Unhealthy, "$AQI") {
		t.Fatalf("default unhealthy text missing: %q", cfg.Messages.Unhealthy)
	}

	sensors := cfg.SensorList()
	if sensors[0].RecoveryThreshold != 100 {
		t.Fatalf("explicit recovery threshold lost: %+v", sensors[0])
	}
	// no recovery_threshold configured: defaults to the alert threshold
	if sensors[1].RecoveryThreshold != 150 {
		t.Fatalf("recovery default wrong: %+v", sensors[1])
	}
	if sensors[1].Label != "38085" {
		t.Fatalf("label should fall back to id: %+v", sensors[1])
	}
}

func TestLoad_EnvOverridesPassword(t *testing.T) {
	t.Setenv("AIRALERT_SMTP_PASSWORD", "from-env")
	cfg, err := Load(writeConfig(t, goodConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.Password != "from-env" {
		t.Fatalf("env override not applied: %q", cfg.Email.Password)
	}
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoad_RejectsBadConfigs(t *testing.T) {
	cases := map[string]string{
		"not yaml":          "{{{{",
		"no sensors":        "email:\n  smtp_addr: x\n  smtp_port: 25\n  sender_email: a@b\n  addresses: [c@d]\n",
		"duplicate ids":     "sensors:\n  - {id: \"1\", alert_threshold: 150}\n  - {id: \"1\", alert_threshold: 150}\nslack_webhook: https://hooks.example.com/x\n",
		"zero threshold":    "sensors:\n  - {id: \"1\", alert_threshold: 0}\nslack_webhook: https://hooks.example.com/x\n",
		"inverted recovery": "sensors:\n  - {id: \"1\", alert_threshold: 150, recovery_threshold: 200}\nslack_webhook: https://hooks.example.com/x\n",
		"no channel":        "sensors:\n  - {id: \"1\", alert_threshold: 150}\n",
		"bad status hour":   "sensors:\n  - {id: \"1\", alert_threshold: 150}\nslack_webhook: https://hooks.example.com/x\nstatus_email_hour: 24\n",
		"missing recipient": "sensors:\n  - {id: \"1\", alert_threshold: 150}\nemail:\n  smtp_addr: x\n  smtp_port: 25\n  sender_email: a@b\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
