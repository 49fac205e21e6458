package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jlorelli/airalert/internal/aqi"
	"github.com/jlorelli/airalert/internal/domain"
)

const DefaultBaseURL = "https://www.purpleair.com"

// PurpleAir reads sensors from the PurpleAir JSON API
// (GET {base}/json?show={sensor_id}).
type PurpleAir struct {
	BaseURL string
	Client  *http.Client
}

func NewPurpleAir(baseURL string, timeout time.Duration) *PurpleAir {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PurpleAir{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// purpleAirResponse mirrors the fields we need from the API. PM2_5Value
// arrives as a string.
type purpleAirResponse struct {
	Results []struct {
		Label    string `json:"Label"`
		PM25     string `json:"PM2_5Value"`
		LastSeen int64  `json:"LastSeen"`
	} `json:"results"`
}

func (p *PurpleAir) Read(ctx context.Context, id domain.SensorID) (domain.Reading, error) {
	url := fmt.Sprintf("%s/json?show=%s", p.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("%w: sensor %s: %v", ErrRead, id, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("%w: sensor %s: %v", ErrRead, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Reading{}, fmt.Errorf("%w: sensor %s: http %d", ErrRead, id, resp.StatusCode)
	}

	var body purpleAirResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Reading{}, fmt.Errorf("%w: sensor %s: decode: %v", ErrRead, id, err)
	}
	if len(body.Results) == 0 {
		return domain.Reading{}, fmt.Errorf("%w: sensor %s: empty results", ErrRead, id)
	}

	r := body.Results[0]
	pm25, err := strconv.ParseFloat(r.PM25, 64)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("%w: sensor %s: bad PM2_5Value %q", ErrRead, id, r.PM25)
	}

	return domain.Reading{
		SensorID:  id,
		Label:     r.Label,
		PM25:      pm25,
		AQI:       aqi.FromPM25(pm25),
		SampledAt: time.Unix(r.LastSeen, 0).UTC(),
		ReadAt:    time.Now().UTC(),
	}, nil
}
