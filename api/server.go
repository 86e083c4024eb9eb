// Package api provides the HTTP REST API server for AirDesk.
//
// It exposes endpoints for air-quality analysis, source attribution,
// forecasting, policy simulation, city-wide risk reports, and WebSocket
// streaming of analysis events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/aqi"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/attribution"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/forecast"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/policy"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/risk"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/trend"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/config"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/datasource"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/infra"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	log      *logrus.Logger
	provider datasource.Provider
	calc     *aqi.Calculator
	attr     *attribution.Attributor
	est      *trend.Estimator
	sim      *policy.Simulator
	detector *risk.Detector
	wsHub    *WSHub
	cache    *infra.Cache
	limiter  *infra.RateLimiter
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}

	calc := aqi.NewCalculator(aqi.DefaultConfig())
	attr := attribution.NewAttributor(attribution.DefaultConfig())

	riskCfg := risk.DefaultConfig()
	if cfg.Risk.HotspotThreshold > 0 {
		riskCfg.HotspotThreshold = cfg.Risk.HotspotThreshold
	}
	if cfg.Risk.PeakWindows > 0 {
		riskCfg.PeakWindows = cfg.Risk.PeakWindows
	}

	srv := &Server{
		cfg:      cfg,
		log:      log,
		provider: datasource.NewSynthetic(cfg.Data.Seed),
		calc:     calc,
		attr:     attr,
		est:      trend.NewEstimator(trend.Config{Threshold: cfg.Engine.TrendThreshold}),
		sim:      policy.NewSimulator(calc, policy.DefaultCatalog()),
		detector: risk.NewDetector(riskCfg, calc, attr),
		wsHub:    NewWSHub(),
		cache:    infra.NewCache(5 * time.Minute),
		limiter:  infra.NewRateLimiter(120, time.Second),
	}
	srv.router = srv.buildRouter()
	return srv
}

// SetProvider swaps the reading source. Must be called before
// ListenAndServe; tests use it to inject fixed data.
func (s *Server) SetProvider(p datasource.Provider) {
	s.provider = p
	s.cache.Flush()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// forecaster builds a per-request Forecaster. The generator is not safe
// to share across requests; a configured seed pins the output.
func (s *Server) forecaster() *forecast.Forecaster {
	fcfg := forecast.DefaultConfig()
	if s.cfg.Forecast.NoiseAmplitude > 0 {
		fcfg.NoiseAmplitude = s.cfg.Forecast.NoiseAmplitude
	}
	if s.cfg.Forecast.BaseConfidence > 0 {
		fcfg.BaseConfidence = s.cfg.Forecast.BaseConfidence
	}
	fcfg.TrendThreshold = s.cfg.Engine.TrendThreshold

	var rng *rand.Rand
	if s.cfg.Forecast.Seed != 0 {
		rng = rand.New(rand.NewSource(s.cfg.Forecast.Seed))
	}
	return forecast.NewForecaster(fcfg, s.calc, rng)
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.WithField("addr", addr).Info("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-done
	s.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.rateLimit)

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/locations", s.handleLocations)

		r.Get("/analyze", s.handleAnalyzeAll)
		r.Get("/analyze/{location}", s.handleAnalyze)

		r.Get("/forecast/{location}", s.handleForecast)
		r.Get("/forecast/{location}/hourly", s.handleForecastHourly)

		r.Get("/policies", s.handlePolicies)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/simulate/compare", s.handleSimulateCompare)

		r.Get("/risk", s.handleRisk)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// rateLimit rejects requests once the global token bucket runs dry.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalysisPayload is the combined per-location analysis.
type AnalysisPayload struct {
	Reading     models.Reading           `json:"reading"`
	Index       models.IndexResult       `json:"index"`
	Attribution models.AttributionResult `json:"attribution"`
	Trend       models.TrendResult       `json:"trend"`
}

// ForecastPayload bundles a forecast with its spike alerts.
type ForecastPayload struct {
	Forecast models.ForecastResult `json:"forecast"`
	Spikes   []models.SpikeAlert   `json:"spikes,omitempty"`
}

// SimulateRequest is the body for POST /api/v1/simulate.
type SimulateRequest struct {
	Location string   `json:"location"`
	Policies []string `json:"policies"`
}

// CompareRequest is the body for POST /api/v1/simulate/compare.
type CompareRequest struct {
	Policy string `json:"policy"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":   "ok",
			"source":   s.provider.Name(),
			"time_ist": utils.FormatDateTimeIST(utils.NowIST()),
		},
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.provider.Locations(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "location")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	payload, err := s.analyzeOne(ctx, id)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]interface{}{
			"location": id,
			"aqi":      payload.Index.AQI,
			"category": payload.Index.Category,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: payload})
}

func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	readings, err := s.provider.CurrentAll(ctx)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	payloads := make([]AnalysisPayload, 0, len(readings))
	for _, reading := range readings {
		history, err := s.historyIndices(ctx, reading.LocationID)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		payloads = append(payloads, AnalysisPayload{
			Reading:     reading,
			Index:       s.calc.Compute(reading),
			Attribution: s.attr.Attribute(reading),
			Trend:       s.est.Estimate(history),
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: payloads})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "location")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	current, err := s.provider.Current(ctx, id)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	history, err := s.historyIndices(ctx, id)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	f := s.forecaster()
	result := f.Forecast(current, history)
	payload := ForecastPayload{Forecast: result, Spikes: f.DetectSpikes(result)}

	if len(payload.Spikes) > 0 {
		s.wsHub.Broadcast(WSMessage{
			Type: "spike_alert",
			Data: map[string]interface{}{
				"location": id,
				"spikes":   payload.Spikes,
			},
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: payload})
}

func (s *Server) handleForecastHourly(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "location")

	hours := 48
	if h := r.URL.Query().Get("hours"); h != "" {
		if parsed, err := parsePositiveInt(h, 336); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		} else {
			hours = parsed
		}
	}
	step := 1
	if st := r.URL.Query().Get("step"); st != "" {
		if parsed, err := parsePositiveInt(st, 24); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		} else {
			step = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	current, err := s.provider.Current(ctx, id)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.forecaster().HourlySeries(current, hours, step),
	})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.sim.Policies(),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}
	if len(req.Policies) == 0 {
		writeError(w, http.StatusBadRequest, "at least one policy is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	baseline, err := s.provider.Current(ctx, req.Location)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	result, err := s.sim.Simulate(baseline, req.Policies...)
	if err != nil {
		if errors.Is(err, policy.ErrUnknownPolicy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleSimulateCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Policy == "" {
		writeError(w, http.StatusBadRequest, "policy is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	baselines, err := s.provider.CurrentAll(ctx)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	impacts, err := s.sim.Compare(baselines, req.Policy)
	if err != nil {
		if errors.Is(err, policy.ErrUnknownPolicy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: impacts})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	// Readings are stable within the hour; serve the memoized report.
	if cached, ok := s.cache.Get("risk_report"); ok {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	current, err := s.provider.CurrentAll(ctx)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	hours := s.cfg.Data.HistoryHours
	if hours <= 0 {
		hours = 48
	}
	var history []models.Reading
	for _, loc := range s.provider.Locations() {
		past, err := s.provider.History(ctx, loc.ID, hours)
		if err != nil {
			writeProviderError(w, err)
			return
		}
		history = append(history, past...)
	}

	report, err := s.detector.Detect(ctx, current, history)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if report.Summary.Worst != nil {
		s.wsHub.Broadcast(WSMessage{
			Type: "risk_report",
			Data: map[string]interface{}{
				"high_risk_count": report.Summary.HighRiskCount,
				"worst_location":  report.Summary.Worst.LocationID,
				"worst_aqi":       report.Summary.Worst.AQI,
			},
		})
	}

	s.cache.Set("risk_report", report)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

// ============================================================
// Helpers
// ============================================================

// analyzeOne assembles the combined analysis for one location.
func (s *Server) analyzeOne(ctx context.Context, id string) (AnalysisPayload, error) {
	current, err := s.provider.Current(ctx, id)
	if err != nil {
		return AnalysisPayload{}, err
	}
	history, err := s.historyIndices(ctx, id)
	if err != nil {
		return AnalysisPayload{}, err
	}
	return AnalysisPayload{
		Reading:     current,
		Index:       s.calc.Compute(current),
		Attribution: s.attr.Attribute(current),
		Trend:       s.est.Estimate(history),
	}, nil
}

// historyIndices computes the index series for a location's trailing
// window.
func (s *Server) historyIndices(ctx context.Context, id string) ([]int, error) {
	hours := s.cfg.Data.HistoryHours
	if hours <= 0 {
		hours = 48
	}
	readings, err := s.provider.History(ctx, id, hours)
	if err != nil {
		return nil, err
	}
	series := make([]int, len(readings))
	for i, r := range readings {
		series[i] = s.calc.Compute(r).AQI
	}
	return series, nil
}

func parsePositiveInt(raw string, max int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid integer parameter")
	}
	if v <= 0 || v > max {
		return 0, errors.New("parameter out of range")
	}
	return v, nil
}

// writeProviderError maps data-source errors onto HTTP statuses.
func writeProviderError(w http.ResponseWriter, err error) {
	if errors.Is(err, datasource.ErrUnknownLocation) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
