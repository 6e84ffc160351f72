package restserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Zemnmez/MeteoNook/internal/constants"
	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/metrics"
	"github.com/Zemnmez/MeteoNook/internal/solver"
	"github.com/Zemnmez/MeteoNook/internal/types"
	"github.com/Zemnmez/MeteoNook/pkg/guessdata"
	"github.com/Zemnmez/MeteoNook/pkg/responseformat"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(ctrl.restConfig.EnableCORS),
	}
}

// dateFromRequest parses the {date} path variable, writing a 400 response
// on failure.
func (h *Handlers) dateFromRequest(w http.ResponseWriter, req *http.Request) (types.Date, bool) {
	vars := mux.Vars(req)
	date, err := types.ParseDate(vars["date"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return types.Date{}, false
	}
	return date, true
}

// ListObservations handles GET /api/v1/observations
func (h *Handlers) ListObservations(w http.ResponseWriter, req *http.Request) {
	stored := h.controller.deps.Store.List()

	bodies := make([]ObservationBody, len(stored))
	for i, obs := range stored {
		bodies[i] = fromObservation(obs)
	}
	h.formatter.WriteResponse(w, req, bodies, nil)
}

// GetObservation handles GET /api/v1/observations/{date}
func (h *Handlers) GetObservation(w http.ResponseWriter, req *http.Request) {
	date, ok := h.dateFromRequest(w, req)
	if !ok {
		return
	}

	obs, found := h.controller.deps.Store.Get(date)
	if !found {
		http.Error(w, "observation not found", http.StatusNotFound)
		return
	}
	h.formatter.WriteResponse(w, req, fromObservation(obs), nil)
}

// PutObservation handles PUT /api/v1/observations/{date}
func (h *Handlers) PutObservation(w http.ResponseWriter, req *http.Request) {
	date, ok := h.dateFromRequest(w, req)
	if !ok {
		return
	}

	var body ObservationBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "error: invalid request body", http.StatusBadRequest)
		return
	}

	obs, err := toObservation(date, &body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.controller.deps.Store.Put(obs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.UpdateObservationDays(h.controller.deps.Store.Len())

	h.formatter.WriteResponse(w, req, fromObservation(obs), nil)
}

// DeleteObservation handles DELETE /api/v1/observations/{date}
func (h *Handlers) DeleteObservation(w http.ResponseWriter, req *http.Request) {
	date, ok := h.dateFromRequest(w, req)
	if !ok {
		return
	}

	if !h.controller.deps.Store.Delete(date) {
		http.Error(w, "observation not found", http.StatusNotFound)
		return
	}
	metrics.UpdateObservationDays(h.controller.deps.Store.Len())

	w.WriteHeader(http.StatusNoContent)
}

// GetDayPatterns handles GET /api/v1/observations/{date}/patterns
func (h *Handlers) GetDayPatterns(w http.ResponseWriter, req *http.Request) {
	date, ok := h.dateFromRequest(w, req)
	if !ok {
		return
	}

	hem, err := h.controller.requestHemisphere(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	obs, found := h.controller.deps.Store.Get(date)
	if !found {
		http.Error(w, "observation not found", http.StatusNotFound)
		return
	}

	metrics.RecordSolverRun()
	patterns := h.controller.deps.Solver.GetPossiblePatterns(hem, obs)

	resp := DayPatternsResponse{
		Date:       date.String(),
		Hemisphere: hem.String(),
		Patterns:   patternEntries(patterns),
	}
	h.formatter.WriteResponse(w, req, resp, nil)
}

// Solve handles POST /api/v1/solve: every stored day is solved into a
// fresh accumulator and the combined facts are returned. The first
// contradictory day aborts the solve with a 409 conflict report.
func (h *Handlers) Solve(w http.ResponseWriter, req *http.Request) {
	hem, err := h.controller.requestHemisphere(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := guessdata.New()
	for _, obs := range h.controller.deps.Store.List() {
		metrics.RecordSolverRun()

		err := h.controller.deps.Solver.Populate(hem, data, obs)
		if err == nil {
			continue
		}

		if errors.Is(err, solver.ErrNoPatterns) {
			metrics.RecordSolverNoPatterns()
			h.formatter.WriteError(w, req, http.StatusConflict, SolveConflictResponse{
				Kind: "no_patterns",
				Date: obs.Date.String(),
			})
			return
		}

		var conflict *solver.StarConflictError
		if errors.As(err, &conflict) {
			metrics.RecordStarConflict()
			h.formatter.WriteError(w, req, http.StatusConflict, SolveConflictResponse{
				Kind:   "star_conflict",
				Date:   obs.Date.String(),
				Hour:   conflict.Hour,
				Minute: conflict.Minute,
			})
			return
		}

		log.Errorf("error solving %s: %v", obs.Date, err)
		http.Error(w, "error running solver", http.StatusInternalServerError)
		return
	}

	resp := SolveResponse{Hemisphere: hem.String(), Days: data.Days()}
	h.formatter.WriteResponse(w, req, resp, nil)
}

// forecastParams resolves the hemisphere and seed for a forecast request:
// island config values unless ?hemisphere= / ?seed= override them.
func (h *Handlers) forecastParams(w http.ResponseWriter, req *http.Request) (weather.Hemisphere, uint32, bool) {
	hem, err := h.controller.requestHemisphere(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, 0, false
	}

	seed := h.controller.island.Seed
	if s := req.URL.Query().Get("seed"); s != "" {
		parsed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			http.Error(w, "error: invalid seed", http.StatusBadRequest)
			return 0, 0, false
		}
		seed = uint32(parsed)
	}

	return hem, seed, true
}

// GetYearForecast handles GET /api/v1/forecast/{year}
func (h *Handlers) GetYearForecast(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "error: invalid year", http.StatusBadRequest)
		return
	}

	hem, seed, ok := h.forecastParams(w, req)
	if !ok {
		return
	}

	fc, err := h.controller.deps.Forecasts.YearForecast(hem, seed, year)
	if err != nil {
		log.Errorf("error building year forecast: %v", err)
		http.Error(w, "error building forecast: oracle unavailable", http.StatusBadGateway)
		return
	}
	h.formatter.WriteResponse(w, req, fc, nil)
}

// GetMonthForecast handles GET /api/v1/forecast/{year}/{month}
func (h *Handlers) GetMonthForecast(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "error: invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "error: invalid month", http.StatusBadRequest)
		return
	}

	hem, seed, ok := h.forecastParams(w, req)
	if !ok {
		return
	}

	fc, err := h.controller.deps.Forecasts.MonthForecast(hem, seed, year, month)
	if err != nil {
		log.Errorf("error building month forecast: %v", err)
		http.Error(w, "error building forecast: oracle unavailable", http.StatusBadGateway)
		return
	}
	h.formatter.WriteResponse(w, req, fc, nil)
}

// ListPatterns handles GET /api/v1/patterns
func (h *Handlers) ListPatterns(w http.ResponseWriter, req *http.Request) {
	entries := make([]PatternEntry, 0, weather.PatternCount)
	for p := weather.FirstPattern; p <= weather.MaxPattern; p++ {
		entries = append(entries, PatternEntry{ID: int(p), Name: p.String(), RainbowHour: rainbowHourFor(p)})
	}
	h.formatter.WriteResponse(w, req, entries, nil)
}

// GetHealth handles GET /health: process liveness plus an oracle
// reachability probe. Deps.Oracle must be the uncached client here, or a
// memoized month length would satisfy the probe forever.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{
		Status:          "ok",
		Version:         constants.Version,
		Oracle:          "ok",
		ObservationDays: h.controller.deps.Store.Len(),
	}

	h.controller.deps.Oracle.GetMonthLength(2000, 1)
	if src, ok := h.controller.deps.Oracle.(interface{ Err() error }); ok {
		if err := src.Err(); err != nil {
			resp.Status = "degraded"
			resp.Oracle = "unreachable"
			resp.OracleError = err.Error()
			h.formatter.WriteError(w, req, http.StatusServiceUnavailable, resp)
			return
		}
	}

	h.formatter.WriteResponse(w, req, resp, nil)
}
