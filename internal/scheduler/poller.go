// Package scheduler drives the evaluation cycles: the Poller owns the
// polling loop and the per-sensor state machine, the StatusReporter owns
// the daily summary mail. One logical worker, no concurrent polls.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jlorelli/airalert/internal/alert"
	"github.com/jlorelli/airalert/internal/domain"
	"github.com/jlorelli/airalert/internal/metrics"
	"github.com/jlorelli/airalert/internal/notify"
	"github.com/jlorelli/airalert/internal/provider"
)

// StateStore persists the full sensor_id → state mapping. The write must be
// atomic (see internal/state); the Poller calls it synchronously before any
// notification for the same transition goes out.
type StateStore interface {
	Save(states map[domain.SensorID]*domain.SensorState) error
}

// SensorSnapshot is a read-only view of one sensor for the ops API and the
// daily summary.
type SensorSnapshot struct {
	ID                 domain.SensorID `json:"id"`
	Label              string          `json:"label"`
	Status             domain.Status   `json:"status"`
	LastValue          *float64        `json:"last_value,omitempty"`
	LastTransitionTime *time.Time      `json:"last_transition_time,omitempty"`
	LastSampledAt      *time.Time      `json:"last_sampled_at,omitempty"`
}

type Poller struct {
	Logger   *zap.Logger
	Sensors  []domain.Sensor
	Reader   provider.Reader
	Store    StateStore
	Notifier notify.Notifier
	Messages Messages
	Interval time.Duration
	Timeout  time.Duration

	// mu guards states and readings: the loop is the only writer, the ops
	// HTTP handlers read snapshots concurrently.
	mu       sync.RWMutex
	states   map[domain.SensorID]*domain.SensorState
	readings map[domain.SensorID]domain.Reading
}

// NewPoller wires the loop around previously loaded state. Entries for
// sensors no longer configured are kept in the mapping (and re-saved) but
// never evaluated.
func NewPoller(
	logger *zap.Logger,
	sensors []domain.Sensor,
	reader provider.Reader,
	store StateStore,
	notifier notify.Notifier,
	messages Messages,
	interval time.Duration,
	timeout time.Duration,
	initial map[domain.SensorID]*domain.SensorState,
) *Poller {
	if initial == nil {
		initial = map[domain.SensorID]*domain.SensorState{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{
		Logger:   logger,
		Sensors:  sensors,
		Reader:   reader,
		Store:    store,
		Notifier: notifier,
		Messages: messages,
		Interval: interval,
		Timeout:  timeout,
		states:   initial,
		readings: map[domain.SensorID]domain.Reading{},
	}
}

// Run does an immediate pass, then one pass per tick until ctx is
// cancelled. Cancellation is also checked between sensors inside a pass; a
// single read or send always runs to completion or failure first.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	p.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("poller_stopped")
			return
		case <-t.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	dirty := false // last_value changed with no status transition in the cycle

	for _, s := range p.Sensors {
		if ctx.Err() != nil {
			p.Logger.Info("poll_cycle_aborted")
			return
		}
		if p.pollSensor(ctx, s) {
			dirty = true
		}
	}

	if dirty {
		if err := p.save(); err != nil {
			metrics.StateSaveErrorsTotal.Inc()
			p.Logger.Error("state_save_error", zap.Error(err))
		}
	}

	metrics.PollCyclesTotal.Inc()
	p.Logger.Info("poll_cycle_done", zap.Int("sensors", len(p.Sensors)))
}

// pollSensor runs one read-evaluate-persist-notify pass for one sensor.
// The returned flag reports a value change that still needs a save (a
// status transition saves immediately and clears it).
func (p *Poller) pollSensor(ctx context.Context, s domain.Sensor) (needsSave bool) {
	rctx, cancel := context.WithTimeout(ctx, p.Timeout)
	reading, err := p.Reader.Read(rctx, s.ID)
	cancel()
	if err != nil {
		// transient: skip this sensor for the cycle, keep its status
		metrics.ReadErrorsTotal.WithLabelValues(string(s.ID)).Inc()
		p.Logger.Warn("read_error",
			zap.String("sensor_id", string(s.ID)),
			zap.String("label", s.Label),
			zap.Error(err),
		)
		return false
	}

	metrics.SensorAQI.WithLabelValues(string(s.ID), s.Label).Set(reading.AQI)

	p.mu.Lock()
	st := p.states[s.ID]
	if st == nil {
		st = domain.NewSensorState()
		p.states[s.ID] = st
		needsSave = true
	}
	prevStatus := st.Status
	prevTransition := st.LastTransitionTime

	newStatus, trans := alert.Evaluate(prevStatus, reading.AQI, s)

	if st.LastValue == nil || *st.LastValue != reading.AQI {
		needsSave = true
	}
	v := reading.AQI
	st.LastValue = &v
	p.readings[s.ID] = reading

	if trans == alert.TransitionNone {
		p.mu.Unlock()
		p.setAlertingGauge(s, newStatus)
		return needsSave
	}

	now := time.Now().UTC()
	st.Status = newStatus
	st.LastTransitionTime = &now
	p.mu.Unlock()

	// Persist before notify: the worst failure mode is a missed
	// notification, never a duplicate after a restart.
	if err := p.save(); err != nil {
		metrics.StateSaveErrorsTotal.Inc()
		p.Logger.Error("state_save_error",
			zap.String("sensor_id", string(s.ID)),
			zap.Error(err),
		)
		// roll the transition back so the next cycle re-evaluates it
		p.mu.Lock()
		st.Status = prevStatus
		st.LastTransitionTime = prevTransition
		p.mu.Unlock()
		return needsSave
	}

	metrics.TransitionsTotal.WithLabelValues(string(s.ID), trans.String()).Inc()
	p.setAlertingGauge(s, newStatus)
	p.Logger.Info("status_transition",
		zap.String("sensor_id", string(s.ID)),
		zap.String("label", s.Label),
		zap.String("from", string(prevStatus)),
		zap.String("to", string(newStatus)),
		zap.Float64("aqi", reading.AQI),
	)

	subject, body := p.composeTransition(trans, reading)
	if err := p.Notifier.Send(ctx, subject, body); err != nil {
		// the transition is already durable, so a failed send is dropped
		// rather than retried; next cycle will not resend it either
		metrics.NotificationsTotal.WithLabelValues(trans.String(), "failed").Inc()
		p.Logger.Error("notify_error",
			zap.String("sensor_id", string(s.ID)),
			zap.Error(err),
		)
	} else {
		metrics.NotificationsTotal.WithLabelValues(trans.String(), "sent").Inc()
	}
	return false
}

func (p *Poller) save() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Store.Save(p.states)
}

func (p *Poller) setAlertingGauge(s domain.Sensor, status domain.Status) {
	v := 0.0
	if status == domain.StatusAlerting {
		v = 1.0
	}
	metrics.SensorAlerting.WithLabelValues(string(s.ID), s.Label).Set(v)
}

// Snapshot returns the configured sensors in config order with their
// current state, for the ops API and the daily summary.
func (p *Poller) Snapshot() []SensorSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]SensorSnapshot, 0, len(p.Sensors))
	for _, s := range p.Sensors {
		snap := SensorSnapshot{ID: s.ID, Label: s.Label, Status: domain.StatusNormal}
		if st := p.states[s.ID]; st != nil {
			snap.Status = st.Status
			snap.LastValue = st.LastValue
			snap.LastTransitionTime = st.LastTransitionTime
		}
		if r, ok := p.readings[s.ID]; ok {
			t := r.SampledAt
			snap.LastSampledAt = &t
		}
		out = append(out, snap)
	}
	return out
}
