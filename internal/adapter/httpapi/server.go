// Package httpapi exposes the dashboard's HTTP surface: health and metrics
// probes, aggregate analytics endpoints, map-layer specs, and the
// allocations log.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/helpline-analytics-service/internal/allocations"
	"github.com/couchcryptid/helpline-analytics-service/internal/analysis"
	"github.com/couchcryptid/helpline-analytics-service/internal/chart"
	"github.com/couchcryptid/helpline-analytics-service/internal/config"
	"github.com/couchcryptid/helpline-analytics-service/internal/dataset"
	"github.com/couchcryptid/helpline-analytics-service/internal/export"
	"github.com/couchcryptid/helpline-analytics-service/internal/mapview"
	"github.com/couchcryptid/helpline-analytics-service/internal/observability"
)

// DataSource is the snapshot store the API serves from.
type DataSource interface {
	Snapshot() (*dataset.Snapshot, bool)
	Load(ctx context.Context) error
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard HTTP API.
type Server struct {
	httpServer *http.Server
	data       DataSource
	alloc      *allocations.Store // nil disables the allocations endpoints
	dashboard  config.Dashboard
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires all routes. Pass a nil allocations store to disable the
// allocations endpoints.
func NewServer(addr string, data DataSource, alloc *allocations.Store, dashboard config.Dashboard, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:      data,
		alloc:     alloc,
		dashboard: dashboard,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/summary", s.instrument("summary", s.handleSummary))
	mux.HandleFunc("GET /api/trends/daily", s.instrument("trends_daily", s.handleDailyTrend))
	mux.HandleFunc("GET /api/trends/hourly", s.instrument("trends_hourly", s.handleHourlyTrend))
	mux.HandleFunc("GET /api/categories", s.instrument("categories", s.handleCategories))
	mux.HandleFunc("GET /api/jurisdictions", s.instrument("jurisdictions", s.handleJurisdictions))
	mux.HandleFunc("GET /api/insights", s.instrument("insights", s.handleInsights))

	mux.HandleFunc("GET /api/map/scatter", s.instrument("map_scatter", s.handleScatter))
	mux.HandleFunc("GET /api/map/heatmap", s.instrument("map_heatmap", s.handleHeatmap))
	mux.HandleFunc("GET /api/map/hexbin", s.instrument("map_hexbin", s.handleHexbin))
	mux.HandleFunc("GET /api/records.geojson", s.instrument("records_geojson", s.handleGeoJSON))

	mux.HandleFunc("GET /api/export.xlsx", s.instrument("export_xlsx", s.handleExport))

	mux.HandleFunc("GET /api/allocations", s.instrument("allocations_list", s.handleAllocationsList))
	mux.HandleFunc("POST /api/allocations", s.instrument("allocations_add", s.handleAllocationsAdd))

	mux.HandleFunc("POST /api/reload", s.instrument("reload", s.handleReload))

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

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.data.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// snapshot fetches the active snapshot or writes a 503 and returns false.
func (s *Server) snapshot(w http.ResponseWriter) (*dataset.Snapshot, bool) {
	snap, ok := s.data.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, errors.New("call log has not been loaded yet"))
		return nil, false
	}
	return snap, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records := filter.Apply(snap.Records)

	writeJSON(w, http.StatusOK, map[string]any{
		"title":   s.dashboard.Title,
		"kpis":    analysis.ComputeKPIs(records),
		"dropped": snap.Dropped,
		"source": map[string]any{
			"path":      snap.Meta.Path,
			"format":    snap.Meta.Format,
			"records":   snap.Meta.RecordCount,
			"loaded_at": snap.Meta.LoadedAt,
		},
	})
}

func (s *Server) handleDailyTrend(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	daily := analysis.CallsByDay(filter.Apply(snap.Records))
	writeJSON(w, http.StatusOK, map[string]any{
		"daily": daily,
		"chart": chart.DailyTrend(daily),
	})
}

func (s *Server) handleHourlyTrend(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records := filter.Apply(snap.Records)

	hourly := analysis.CallsByHour(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"hourly":   hourly,
		"weekdays": analysis.CallsByWeekday(records),
		"chart":    chart.HourlyHistogram(hourly),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dist := analysis.CountByCategory(filter.Apply(snap.Records))
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": dist,
		"chart":      chart.CategoryPie(dist),
	})
}

func (s *Server) handleJurisdictions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jurisdictions": analysis.CountByJurisdiction(filter.Apply(snap.Records)),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"insights": analysis.Insights(filter.Apply(snap.Records)),
	})
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	palette := mapview.Palette(s.dashboard.Palette)
	writeJSON(w, http.StatusOK, mapview.Scatter(filter.Apply(snap.Mappable), palette))
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, mapview.Heatmap(filter.Apply(snap.Mappable)))
}

func (s *Server) handleHexbin(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := mapview.HexbinOptions{
		RadiusMeters:   s.dashboard.Hexbin.RadiusMeters,
		ElevationScale: s.dashboard.Hexbin.ElevationScale,
		Coverage:       s.dashboard.Hexbin.Coverage,
	}
	// Per-request overrides beat the configured defaults.
	if v, err := queryFloat(r, "radius"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if v > 0 {
		opts.RadiusMeters = v
	}
	if v, err := queryFloat(r, "elevation_scale"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if v > 0 {
		opts.ElevationScale = v
	}
	if v, err := queryFloat(r, "coverage"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	} else if v > 0 {
		opts.Coverage = v
	}

	writeJSON(w, http.StatusOK, mapview.Hexbin(filter.Apply(snap.Mappable), opts))
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(mapview.GeoJSON(filter.Apply(snap.Mappable))) //nolint:errcheck // client went away
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="112_summary.xlsx"`)
	if err := export.Write(w, filter.Apply(snap.Records)); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("export failed", "error", err)
	}
}

func (s *Server) handleAllocationsList(w http.ResponseWriter, _ *http.Request) {
	if s.alloc == nil {
		writeError(w, http.StatusNotFound, errors.New("allocations log is not configured"))
		return
	}
	entries, err := s.alloc.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"allocations": entries})
}

func (s *Server) handleAllocationsAdd(w http.ResponseWriter, r *http.Request) {
	if s.alloc == nil {
		writeError(w, http.StatusNotFound, errors.New("allocations log is not configured"))
		return
	}

	var entry allocations.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	added, err := s.alloc.Add(entry)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.data.Load(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	snap, _ := s.data.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "reloaded",
		"records":  len(snap.Records),
		"mappable": len(snap.Mappable),
		"dropped":  snap.Dropped,
	})
}

// parseFilter reads the shared filter query parameters: from and to as
// YYYY-MM-DD dates (both inclusive), plus repeatable category and
// jurisdiction values.
func parseFilter(r *http.Request) (analysis.Filter, error) {
	q := r.URL.Query()
	var f analysis.Filter

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		// Inclusive of the whole end day.
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	f.Categories = q["category"]
	f.Jurisdictions = q["jurisdiction"]
	return f, nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, errors.New("invalid " + key + ", expected a positive number")
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
