package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jlorelli/airalert/internal/notify"
)

// SummarySource yields the current per-sensor view. Implemented by Poller.
type SummarySource interface {
	Snapshot() []SensorSnapshot
}

// StatusReporter sends the daily summary mail at minute 0 of the
// configured hour. It only reads sensor state; it never drives the alert
// state machine.
type StatusReporter struct {
	Logger     *zap.Logger
	Source     SummarySource
	Notifier   notify.Notifier
	StatusText string
	Hour       int

	cron *cron.Cron
}

// Start schedules the daily job. Stop with Stop().
func (r *StatusReporter) Start() error {
	r.cron = cron.New()
	spec := fmt.Sprintf("0 %d * * *", r.Hour)
	if _, err := r.cron.AddFunc(spec, r.send); err != nil {
		return fmt.Errorf("schedule daily summary: %w", err)
	}
	r.cron.Start()
	r.Logger.Info("status_reporter_started", zap.Int("hour", r.Hour))
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *StatusReporter) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *StatusReporter) send() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	snaps := r.Source.Snapshot()

	// headline value is the worst AQI currently observed
	worst := 0.0
	for _, s := range snaps {
		if s.LastValue != nil && *s.LastValue > worst {
			worst = *s.LastValue
		}
	}

	var b strings.Builder
	b.WriteString(renderTemplate(r.StatusText, worst))
	b.WriteString("\n")
	b.WriteString(summarize(snaps))

	if err := r.Notifier.Send(ctx, subjectStatus, b.String()); err != nil {
		r.Logger.Error("status_email_error", zap.Error(err))
		return
	}
	r.Logger.Info("status_email_sent", zap.Int("sensors", len(snaps)))
}
