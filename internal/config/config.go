// Package config loads the daemon configuration once at startup. Any
// malformed or missing field is fatal: the process refuses to enter the
// polling loop with a config it cannot trust.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jlorelli/airalert/internal/domain"
)

type SensorConfig struct {
	ID                string   `yaml:"id"`
	Label             string   `yaml:"label"`
	AlertThreshold    float64  `yaml:"alert_threshold"`
	RecoveryThreshold *float64 `yaml:"recovery_threshold"` // nil: no hysteresis band
}

type EmailConfig struct {
	SMTPHost      string   `yaml:"smtp_addr"`
	SMTPPort      int      `yaml:"smtp_port"`
	UseTLS        bool     `yaml:"use_tls"` // STARTTLS after EHLO
	LoginRequired bool     `yaml:"login_required"`
	Username      string   `yaml:"email_addr"`
	Password      string   `yaml:"email_pw"` // AIRALERT_SMTP_PASSWORD overrides
	Sender        string   `yaml:"sender_email"`
	Recipients    []string `yaml:"addresses"`
}

// MessagesConfig holds the operator-facing email bodies. $AQI and
// $LEVEL_STRING are substituted at send time.
type MessagesConfig struct {
	Unhealthy string `yaml:"unhealthy_email_text"`
	Normal    string `yaml:"normal_email_text"`
	Status    string `yaml:"status_email_text"`
}

type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RetryAttempts  int    `yaml:"retry_attempts"`
	RetryBackoffMS int    `yaml:"retry_backoff_ms"`
}

type HTTPConfig struct {
	Addr    string   `yaml:"addr"` // empty: ops endpoint disabled
	APIKeys []string `yaml:"api_keys"`
	RPM     int      `yaml:"rpm"`
	Burst   int      `yaml:"burst"`
}

type Config struct {
	Sensors             []SensorConfig `yaml:"sensors"`
	PollIntervalSeconds int            `yaml:"poll_interval_seconds"`
	StatusEmailHour     *int           `yaml:"status_email_hour"` // nil: daily summary disabled
	Email               EmailConfig    `yaml:"email"`
	SlackWebhook        string         `yaml:"slack_webhook"`
	Messages            MessagesConfig `yaml:"messages"`
	Provider            ProviderConfig `yaml:"provider"`
	HTTP                HTTPConfig     `yaml:"http"`
	LogDir              string         `yaml:"log_dir"`
}

const (
	defaultUnhealthyText = "An unhealthy AQI of $AQI ($LEVEL_STRING) has been detected.\nSensitive groups should stay indoors; others should limit outdoor activity.\n"
	defaultNormalText    = "The air quality has returned to safe levels (AQI $AQI, $LEVEL_STRING).\n"
	defaultStatusText    = "Good morning, here is your daily air quality summary:\n"
)

// Load parses and validates the YAML config at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = 300
	}
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.Messages.Unhealthy == "" {
		c.Messages.Unhealthy = defaultUnhealthyText
	}
	if c.Messages.Normal == "" {
		c.Messages.Normal = defaultNormalText
	}
	if c.Messages.Status == "" {
		c.Messages.Status = defaultStatusText
	}
	if c.Provider.TimeoutSeconds == 0 {
		c.Provider.TimeoutSeconds = 10
	}
	if c.Provider.RetryAttempts == 0 {
		c.Provider.RetryAttempts = 2
	}
	if c.Provider.RetryBackoffMS == 0 {
		c.Provider.RetryBackoffMS = 300
	}
	if c.HTTP.RPM == 0 {
		c.HTTP.RPM = 120
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = 60
	}
	// secrets can come from the environment instead of the file
	if v := os.Getenv("AIRALERT_SMTP_PASSWORD"); v != "" {
		c.Email.Password = v
	}
}

func (c *Config) validate() error {
	if len(c.Sensors) == 0 {
		return fmt.Errorf("no sensors configured")
	}
	seen := map[string]bool{}
	for i, s := range c.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensor %d: missing id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("sensor %q: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if s.AlertThreshold <= 0 {
			return fmt.Errorf("sensor %q: alert_threshold must be > 0", s.ID)
		}
		if s.RecoveryThreshold != nil && *s.RecoveryThreshold > s.AlertThreshold {
			return fmt.Errorf("sensor %q: recovery_threshold %v exceeds alert_threshold %v",
				s.ID, *s.RecoveryThreshold, s.AlertThreshold)
		}
	}
	if c.PollIntervalSeconds < 1 {
		return fmt.Errorf("poll_interval_seconds must be >= 1")
	}
	if c.StatusEmailHour != nil && (*c.StatusEmailHour < 0 || *c.StatusEmailHour > 23) {
		return fmt.Errorf("status_email_hour must be within 0..23")
	}

	emailConfigured := c.Email.SMTPHost != ""
	if !emailConfigured && c.SlackWebhook == "" {
		return fmt.Errorf("no notification channel configured (email or slack_webhook)")
	}
	if emailConfigured {
		if c.Email.SMTPPort < 1 || c.Email.SMTPPort > 65535 {
			return fmt.Errorf("email: smtp_port %d out of range", c.Email.SMTPPort)
		}
		if c.Email.Sender == "" {
			return fmt.Errorf("email: sender_email is required")
		}
		if len(c.Email.Recipients) == 0 {
			return fmt.Errorf("email: at least one recipient address is required")
		}
		if c.Email.LoginRequired && (c.Email.Username == "" || c.Email.Password == "") {
			return fmt.Errorf("email: login_required set but email_addr/email_pw missing")
		}
	}
	return nil
}

// SensorList converts the configured sensors into domain values, filling
// the recovery threshold explicitly so downstream code never guesses.
func (c *Config) SensorList() []domain.Sensor {
	out := make([]domain.Sensor, 0, len(c.Sensors))
	for _, s := range c.Sensors {
		recovery := s.AlertThreshold
		if s.RecoveryThreshold != nil {
			recovery = *s.RecoveryThreshold
		}
		label := s.Label
		if label == "" {
			label = s.ID
		}
		out = append(out, domain.Sensor{
			ID:                domain.SensorID(s.ID),
			Label:             label,
			AlertThreshold:    s.AlertThreshold,
			RecoveryThreshold: recovery,
		})
	}
	return out
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Provider.RetryBackoffMS) * time.Millisecond
}
