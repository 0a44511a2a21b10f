// Package httpapi exposes the engine's read-only HTTP surface: health,
// readiness, metrics, and current-conditions queries.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
	"github.com/couchcryptid/colony-weather-sim/internal/storm"
	"github.com/couchcryptid/colony-weather-sim/internal/weather"
)

// EngineAPI is the read surface the HTTP layer needs from the engine.
type EngineAPI interface {
	CheckReadiness(ctx context.Context) error
	SampleAt(loc mars.Coordinate) weather.Sample
	SunRecordAt(loc mars.Coordinate) (weather.SunRecord, bool)
	ActiveStorms() []storm.Storm
}

// Server exposes health, readiness, metrics, and weather query endpoints.
type Server struct {
	httpServer *http.Server
	engine     EngineAPI
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /v1 query routes.
func NewServer(addr string, engine EngineAPI, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/weather", s.handleWeather)
	mux.HandleFunc("GET /v1/sun", s.handleSun)
	mux.HandleFunc("GET /v1/storms", s.handleStorms)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.engine.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.SampleAt(loc))
}

func (s *Server) handleSun(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}
	rec, found := s.engine.SunRecordAt(loc)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no sun record for location yet"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type stormView struct {
	ID             uint64          `json:"id"`
	Classification string          `json:"classification"`
	SizeKm         float64         `json:"size_km"`
	SpeedMS        float64         `json:"speed_ms"`
	Settlement     string          `json:"settlement"`
	Location       mars.Coordinate `json:"location"`
	BirthSol       int             `json:"birth_sol"`
}

func (s *Server) handleStorms(w http.ResponseWriter, _ *http.Request) {
	active := s.engine.ActiveStorms()
	views := make([]stormView, 0, len(active))
	for _, st := range active {
		views = append(views, stormView{
			ID:             uint64(st.ID),
			Classification: st.Class.Name(),
			SizeKm:         st.SizeKm,
			SpeedMS:        st.SpeedMS,
			Settlement:     st.Anchor,
			Location:       st.Location,
			BirthSol:       st.BirthSol,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// parseLocation reads lat/lon query parameters; responds 400 on bad input.
func parseLocation(w http.ResponseWriter, r *http.Request) (mars.Coordinate, bool) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lon query parameters are required"})
		return mars.Coordinate{}, false
	}
	return mars.NewCoordinate(lat, lon), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
