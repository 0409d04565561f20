package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"routeopt/internal/buildinfo"
	"routeopt/internal/geo"
	"routeopt/internal/metrics"
	"routeopt/internal/model"
	"routeopt/internal/solver"
)

// OptimizeHandler handles POST /v1/optimize. Validation failures are 400s
// naming the violated field; an infeasible route is a 200 with
// is_feasible=false, because infeasibility is an outcome, not a fault.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.RoutingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateTransport(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}

	resp, err := s.optimize(r, req, nil)
	if err != nil {
		var inv *solver.InvalidInputError
		if errors.As(err, &inv) {
			metrics.OptimizeOutcomes.WithLabelValues("invalid").Inc()
			writeProblem(w, http.StatusBadRequest, "Invalid optimize request", inv.Error(), r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Optimize failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// optimize runs encode -> solve -> assemble for one request and records
// solver metrics. progress is optional and forwarded to the solver.
func (s *Server) optimize(r *http.Request, req model.RoutingRequest, progress func(solver.Snapshot)) (model.RoutingResponse, error) {
	prob, err := solver.Encode(req, s.Cfg, s.matrixProvider(r.Context()))
	if err != nil {
		return model.RoutingResponse{}, err
	}

	budget := time.Duration(s.Cfg.Routing.SearchBudgetSeconds * float64(time.Second))
	if req.Settings.TimeBudgetMs > 0 {
		budget = time.Duration(req.Settings.TimeBudgetMs) * time.Millisecond
	}
	res := solver.Solve(prob, solver.Options{Budget: budget, Progress: progress})

	metrics.SolverDuration.Observe(res.Elapsed.Seconds())
	metrics.SolverIterations.Observe(float64(res.Iterations))
	if res.Feasible {
		metrics.OptimizeOutcomes.WithLabelValues("feasible").Inc()
	} else {
		metrics.OptimizeOutcomes.WithLabelValues("infeasible").Inc()
	}
	for _, sk := range res.Skipped {
		metrics.SkippedDeliveries.WithLabelValues(sk.Reason).Inc()
	}
	return solver.BuildResponse(prob, res), nil
}

// MatrixHandler handles POST /v1/distance-matrix.
func (s *Server) MatrixHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.DistanceMatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if len(req.Points) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid matrix request", "at least one point is required", r.URL.Path)
		return
	}
	points := make([]geo.Point, 0, len(req.Points))
	for i, p := range req.Points {
		if !geo.ValidCoordinates(p.Lat, p.Lng) {
			writeProblem(w, http.StatusBadRequest, "Invalid matrix request",
				"coordinates out of range at index "+strconv.Itoa(i), r.URL.Path)
			return
		}
		points = append(points, geo.Point{Lat: p.Lat, Lng: p.Lng})
	}
	speed := req.SpeedKmh
	if speed == 0 {
		speed = s.Cfg.Routing.DefaultSpeedKmh
	}
	dist, tmin, err := s.matrixProvider(r.Context()).Matrices(points, speed)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Matrix build failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, model.DistanceMatrixResponse{
		Distances: dist,
		Times:     tmin,
		Points:    req.Points,
	})
}

// SolverConfigHandler handles GET /v1/solver/config.
func (s *Server) SolverConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"routing":  s.Cfg.Routing,
		"priority": s.Cfg.Priority,
	})
}

// HealthHandler handles GET /healthz.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"build":  buildinfo.Info(),
		"config": map[string]any{
			"max_travel_time_hours": s.Cfg.Routing.MaxTravelTimeHours,
			"default_speed_kmh":     s.Cfg.Routing.DefaultSpeedKmh,
			"search_budget_seconds": s.Cfg.Routing.SearchBudgetSeconds,
		},
	})
}

// ReadyHandler handles GET /readyz.
func (s *Server) ReadyHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
