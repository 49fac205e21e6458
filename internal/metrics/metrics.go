package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airalert_poll_cycles_total",
			Help: "Total number of completed polling cycles",
		},
	)

	ReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airalert_read_errors_total",
			Help: "Total number of failed sensor reads",
		},
		[]string{"sensor_id"},
	)

	SensorAQI = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "airalert_sensor_aqi",
			Help: "Last successfully observed AQI per sensor",
		},
		[]string{"sensor_id", "label"},
	)

	SensorAlerting = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "airalert_sensor_alerting",
			Help: "1 when the sensor is in the ALERTING state, else 0",
		},
		[]string{"sensor_id", "label"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airalert_transitions_total",
			Help: "Total number of alert state transitions",
		},
		[]string{"sensor_id", "kind"}, // kind: alert_start, recovery
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airalert_notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"kind", "status"}, // status: sent, failed
	)

	StateSaveErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airalert_state_save_errors_total",
			Help: "Total number of failed state file writes",
		},
	)
)
