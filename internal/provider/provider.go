package provider

import (
	"context"
	"errors"

	"github.com/jlorelli/airalert/internal/domain"
)

// ErrRead marks a failed fetch from the data provider. The polling loop
// treats it as recoverable: the sensor is skipped for the cycle and retried
// on the next one, with no status change and no notification.
var ErrRead = errors.New("sensor read failed")

// Reader fetches the current reading for one sensor.
type Reader interface {
	Read(ctx context.Context, id domain.SensorID) (domain.Reading, error)
}
