// Package alert holds the pure transition logic of the per-sensor alert
// state machine. It knows nothing about persistence or notification; the
// scheduler drives those around it.
package alert

import "github.com/jlorelli/airalert/internal/domain"

// Transition classifies the outcome of one evaluation.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionAlertStart
	TransitionRecovery
)

func (t Transition) String() string {
	switch t {
	case TransitionAlertStart:
		return "alert_start"
	case TransitionRecovery:
		return "recovery"
	default:
		return "none"
	}
}

// Evaluate maps (previous status, new AQI value, thresholds) to the new
// status and the transition, if any. The recovery threshold must be <= the
// alert threshold; values in between keep an ALERTING sensor alerting
// (hysteresis, so a value oscillating near the boundary does not flap).
//
// Failed reads never reach Evaluate: the caller skips the sensor for the
// cycle, so a transient provider error can neither raise nor clear an alert.
func Evaluate(prev domain.Status, value float64, s domain.Sensor) (domain.Status, Transition) {
	switch prev {
	case domain.StatusAlerting:
		if value < s.RecoveryThreshold {
			return domain.StatusNormal, TransitionRecovery
		}
		return domain.StatusAlerting, TransitionNone
	default:
		if value >= s.AlertThreshold {
			return domain.StatusAlerting, TransitionAlertStart
		}
		return domain.StatusNormal, TransitionNone
	}
}
