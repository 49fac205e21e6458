// Package aqi converts raw PM2.5 concentrations into the EPA Air Quality
// Index. Breakpoints per https://forum.airnowtech.org/t/the-aqi-equation/169.
package aqi

type breakpoint struct {
	concLo, concHi float64
	aqiLo, aqiHi   float64
}

var breakpoints = []breakpoint{
	{250.5, 500.4, 301, 500},
	{150.5, 250.4, 201, 300},
	{55.5, 150.4, 151, 200},
	{35.5, 55.4, 101, 150},
	{12.1, 35.4, 51, 100},
	{0, 12.0, 0, 50},
}

// FromPM25 computes the AQI for a PM2.5 concentration in µg/m³ by linear
// interpolation within the matching breakpoint band.
func FromPM25(conc float64) float64 {
	if conc < 0 {
		conc = 0
	}
	bp := breakpoints[len(breakpoints)-1]
	for _, b := range breakpoints {
		if conc > b.concLo {
			bp = b
			break
		}
	}
	return (bp.aqiHi-bp.aqiLo)/(bp.concHi-bp.concLo)*(conc-bp.concLo) + bp.aqiLo
}

// Category returns the EPA level name for an AQI value.
func Category(aqi float64) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}
