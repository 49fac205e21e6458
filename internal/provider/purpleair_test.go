package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleBody = `{"results":[{"Label":"SLAC Rooftop","PM2_5Value":"42.7","LastSeen":1755700000}]}`

func TestPurpleAir_ReadOK(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer ts.Close()

	p := NewPurpleAir(ts.URL, time.Second)
	reading, err := p.Read(context.Background(), "61605")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotPath != "/json?show=61605" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if reading.Label != "SLAC Rooftop" || reading.PM25 != 42.7 {
		t.Fatalf("unexpected reading: %+v", reading)
	}
	if reading.AQI <= 100 || reading.AQI > 150 {
		t.Fatalf("42.7 µg/m³ should land in the 101-150 AQI band, got %v", reading.AQI)
	}
	if reading.SampledAt.Unix() != 1755700000 {
		t.Fatalf("sampled_at wrong: %v", reading.SampledAt)
	}
}

func TestPurpleAir_Non200IsReadError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewPurpleAir(ts.URL, time.Second).Read(context.Background(), "61605")
	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}

func TestPurpleAir_MalformedBodyIsReadError(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{"results":[`,
		"empty result": `{"results":[]}`,
		"bad pm25":     `{"results":[{"Label":"x","PM2_5Value":"n/a","LastSeen":0}]}`,
	}
	for name, body := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewPurpleAir(ts.URL, time.Second).Read(context.Background(), "1")
		ts.Close()
		if !errors.Is(err, ErrRead) {
			t.Errorf("%s: expected ErrRead, got %v", name, err)
		}
	}
}
