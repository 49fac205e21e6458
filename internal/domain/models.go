package domain

import "time"

type SensorID string

// Status is the alert state of a single sensor. There is no persisted
// "unknown": a failed read leaves the previous status in place.
type Status string

const (
	StatusNormal   Status = "NORMAL"
	StatusAlerting Status = "ALERTING"
)

// Sensor is one configured sensor, immutable for the process lifetime.
// RecoveryThreshold <= AlertThreshold; when the operator leaves it unset,
// config loading copies AlertThreshold into it (no hysteresis band).
type Sensor struct {
	ID                SensorID `json:"id"`
	Label             string   `json:"label"`
	AlertThreshold    float64  `json:"alert_threshold"`
	RecoveryThreshold float64  `json:"recovery_threshold"`
}

// Reading is one successful fetch from the data provider.
type Reading struct {
	SensorID  SensorID  `json:"sensor_id"`
	Label     string    `json:"label,omitempty"`
	PM25      float64   `json:"pm25"`
	AQI       float64   `json:"aqi"`
	SampledAt time.Time `json:"sampled_at"` // sensor-reported sample time
	ReadAt    time.Time `json:"read_at"`    // when we fetched it
}

// SensorState is the unit of persistence: the last-known alert state of
// one sensor. LastValue is nil until the first successful poll and
// LastTransitionTime is nil until the first status change.
type SensorState struct {
	Status             Status     `json:"status"`
	LastValue          *float64   `json:"last_value,omitempty"`
	LastTransitionTime *time.Time `json:"last_transition_time,omitempty"`
}

// NewSensorState is the state a sensor gets the first time it is polled
// and the state file has no entry for it yet.
func NewSensorState() *SensorState {
	return &SensorState{Status: StatusNormal}
}
