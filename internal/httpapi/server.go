// Package httpapi is the read-only operations surface of the daemon:
// health, prometheus metrics and the current per-sensor alert state. It
// never mutates anything; the polling loop stays the sole writer.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jlorelli/airalert/internal/domain"
	"github.com/jlorelli/airalert/internal/httpapi/middleware"
	"github.com/jlorelli/airalert/internal/scheduler"
)

// StateSource yields the current sensor view; implemented by the Poller.
type StateSource interface {
	Snapshot() []scheduler.SensorSnapshot
}

type Server struct {
	Logger  *zap.Logger
	Sensors []domain.Sensor
	Source  StateSource
	APIKeys []string
	RPM     int
	Burst   int
}

func NewServer(l *zap.Logger, sensors []domain.Sensor, src StateSource, apiKeys []string, rpm, burst int) *Server {
	return &Server{
		Logger:  l,
		Sensors: sensors,
		Source:  src,
		APIKeys: apiKeys,
		RPM:     rpm,
		Burst:   burst,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.RPM, s.Burst))
		r.Use(middleware.RequireKey(s.APIKeys))
		r.Get("/api/sensors", s.handleListSensors)
		r.Get("/api/state", s.handleState)
	})

	return r
}

func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Sensors)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snaps := s.Source.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snaps)
}
