package scheduler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jlorelli/airalert/internal/alert"
	"github.com/jlorelli/airalert/internal/aqi"
	"github.com/jlorelli/airalert/internal/domain"
)

const (
	subjectAlert  = "Air Quality Alert"
	subjectStatus = "Daily Air Quality Summary"
)

// Messages are the operator-configured email bodies. $AQI and
// $LEVEL_STRING are substituted with the triggering value and its EPA
// category name.
type Messages struct {
	Unhealthy string
	Normal    string
	Status    string
}

func renderTemplate(tpl string, value float64) string {
	s := strings.ReplaceAll(tpl, "$AQI", strconv.Itoa(int(math.Round(value))))
	return strings.ReplaceAll(s, "$LEVEL_STRING", aqi.Category(value))
}

// summarize renders the per-sensor block appended to every mail.
func summarize(snaps []SensorSnapshot) string {
	var b strings.Builder
	for _, s := range snaps {
		aqiTxt := "n/a"
		if s.LastValue != nil {
			aqiTxt = strconv.Itoa(int(math.Round(*s.LastValue)))
		}
		sampledTxt := "never"
		if s.LastSampledAt != nil {
			sampledTxt = s.LastSampledAt.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "Location: %s\nLast sampled: %s\nAQI: %s\nStatus: %s\n\n",
			s.Label, sampledTxt, aqiTxt, s.Status)
	}
	return b.String()
}

func (p *Poller) composeTransition(trans alert.Transition, reading domain.Reading) (subject, body string) {
	tpl := p.Messages.Unhealthy
	if trans == alert.TransitionRecovery {
		tpl = p.Messages.Normal
	}
	var b strings.Builder
	b.WriteString(renderTemplate(tpl, reading.AQI))
	b.WriteString("\nA summary of the sensor data follows:\n\n")
	b.WriteString(summarize(p.Snapshot()))
	return subjectAlert, b.String()
}
