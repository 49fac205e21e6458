// cmd/cli prints the daemon's current per-sensor alert state by querying
// the ops endpoint of a running airalertd.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type sensorSnapshot struct {
	ID                 string     `json:"id"`
	Label              string     `json:"label"`
	Status             string     `json:"status"`
	LastValue          *float64   `json:"last_value"`
	LastTransitionTime *time.Time `json:"last_transition_time"`
	LastSampledAt      *time.Time `json:"last_sampled_at"`
}

func main() {
	api := os.Getenv("AIRALERT_API")
	if api == "" {
		api = "http://localhost:8080"
	}

	req, err := http.NewRequest(http.MethodGet, api+"/api/state", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad API base:", err)
		os.Exit(1)
	}
	if key := os.Getenv("AIRALERT_API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error contacting daemon:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "daemon returned status:", resp.Status)
		os.Exit(1)
	}

	var snaps []sensorSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snaps); err != nil {
		fmt.Fprintln(os.Stderr, "bad response:", err)
		os.Exit(1)
	}

	for _, s := range snaps {
		aqi := "n/a"
		if s.LastValue != nil {
			aqi = fmt.Sprintf("%.0f", *s.LastValue)
		}
		marker := " "
		if s.Status == "ALERTING" {
			marker = "!"
		}
		fmt.Printf("%s %-10s %-24s AQI %-5s %s\n", marker, s.ID, s.Label, aqi, s.Status)
		if s.LastTransitionTime != nil {
			fmt.Printf("             last transition: %s\n", s.LastTransitionTime.Format(time.RFC3339))
		}
	}
}
