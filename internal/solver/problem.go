// Package solver turns a pickup point, a set of prioritized deliveries with
// time windows, and a distance/time matrix into an ordered, timed stop
// sequence. The pipeline is encode -> construct -> improve -> schedule ->
// assemble; every call owns its inputs and shares no state with other calls.
package solver

import (
	"fmt"

	"routeopt/internal/config"
	"routeopt/internal/geo"
	"routeopt/internal/model"
)

// InvalidInputError rejects a request before any search begins. Field names
// the violated part of the request.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Problem is the immutable optimization model. Node 0 is the pickup;
// deliveries keep their input order at indices 1..N.
type Problem struct {
	Points  []geo.Point
	Dist    [][]float64 // kilometers
	Time    [][]float64 // minutes
	Windows []geo.Window

	// Weights and Penalties are indexed like Points; the pickup carries zero
	// for both.
	Weights   []float64
	Penalties []float64

	PickupWindow   geo.Window
	ServiceMinutes float64
	ReturnToOrigin bool
	CeilingMinutes float64
	Criterion      model.OptimizeBy
	SpeedKmh       float64

	Deliveries []model.Delivery
	Pickup     model.PickupLocation
}

// MatrixProvider supplies pairwise distance (km) and travel-time (minutes)
// matrices. Implementations may cache; the solver itself never does.
type MatrixProvider interface {
	Matrices(points []geo.Point, speedKmh float64) (dist, tmin [][]float64, err error)
}

// Encode validates the request and builds the Problem. A nil provider means
// matrices are computed directly from the coordinates at the request's
// vehicle speed. Downstream components never re-validate coordinates.
func Encode(req model.RoutingRequest, cfg config.Config, mp MatrixProvider) (*Problem, error) {
	if len(req.Deliveries) == 0 {
		return nil, &InvalidInputError{Field: "deliveries", Reason: "at least one delivery is required"}
	}
	if !geo.ValidCoordinates(req.Pickup.Lat, req.Pickup.Lng) {
		return nil, &InvalidInputError{
			Field:  "pickup",
			Reason: fmt.Sprintf("coordinates out of range: %v, %v", req.Pickup.Lat, req.Pickup.Lng),
		}
	}

	pickupStart, err := geo.ParseTime(req.Pickup.StartTime)
	if err != nil {
		return nil, &InvalidInputError{Field: "pickup.start_time", Reason: err.Error()}
	}
	pickupEnd, err := geo.ParseTime(req.Pickup.EndTime)
	if err != nil {
		return nil, &InvalidInputError{Field: "pickup.end_time", Reason: err.Error()}
	}
	pickupWindow := geo.NormalizeWindow(pickupStart, pickupEnd)

	n := len(req.Deliveries) + 1
	points := make([]geo.Point, 0, n)
	windows := make([]geo.Window, 0, n)
	weights := make([]float64, 0, n)
	penalties := make([]float64, 0, n)

	points = append(points, geo.Point{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng})
	windows = append(windows, pickupWindow)
	weights = append(weights, 0)
	penalties = append(penalties, 0)

	criterion := req.Settings.OptimizeBy
	if criterion == "" {
		criterion = model.OptimizeByPriority
	}
	switch criterion {
	case model.OptimizeByPriority, model.OptimizeByDistance, model.OptimizeByTime:
	default:
		return nil, &InvalidInputError{Field: "settings.optimize_by", Reason: fmt.Sprintf("unknown criterion %q", criterion)}
	}

	for i, d := range req.Deliveries {
		if !geo.ValidCoordinates(d.Lat, d.Lng) {
			return nil, &InvalidInputError{
				Field:  fmt.Sprintf("deliveries[%d]", i),
				Reason: fmt.Sprintf("coordinates out of range: %v, %v", d.Lat, d.Lng),
			}
		}
		if !d.Priority.Valid() {
			return nil, &InvalidInputError{
				Field:  fmt.Sprintf("deliveries[%d].priority", i),
				Reason: fmt.Sprintf("unknown tier %d", d.Priority),
			}
		}
		ws, err := geo.ParseTime(d.TimeWindow.Start)
		if err != nil {
			return nil, &InvalidInputError{Field: fmt.Sprintf("deliveries[%d].time_window.start", i), Reason: err.Error()}
		}
		we, err := geo.ParseTime(d.TimeWindow.End)
		if err != nil {
			return nil, &InvalidInputError{Field: fmt.Sprintf("deliveries[%d].time_window.end", i), Reason: err.Error()}
		}
		points = append(points, geo.Point{Lat: d.Lat, Lng: d.Lng})
		windows = append(windows, geo.NormalizeWindow(ws, we))
		w, pen := tierObjective(d.Priority, criterion, cfg.Priority)
		weights = append(weights, w)
		penalties = append(penalties, pen)
	}

	speed := cfg.Routing.DefaultSpeedKmh
	if req.Settings.VehicleSpeedKmph != nil {
		speed = *req.Settings.VehicleSpeedKmph
	}
	service := cfg.Routing.DefaultServiceTimeMinutes
	if req.Settings.TimePerStopMinutes != nil {
		service = *req.Settings.TimePerStopMinutes
	}
	if service < 0 {
		return nil, &InvalidInputError{Field: "settings.time_per_stop_minutes", Reason: "must be >= 0"}
	}
	returnToOrigin := true
	if req.Settings.ReturnToOrigin != nil {
		returnToOrigin = *req.Settings.ReturnToOrigin
	}

	var dist, tmin [][]float64
	if mp != nil {
		var mpErr error
		dist, tmin, mpErr = mp.Matrices(points, speed)
		if mpErr != nil {
			return nil, fmt.Errorf("build matrices: %w", mpErr)
		}
		if len(dist) != n || len(tmin) != n {
			return nil, &InvalidInputError{Field: "matrices", Reason: fmt.Sprintf("expected %dx%d", n, n)}
		}
	} else {
		dist, tmin = geo.BuildMatrices(points, speed)
	}

	return &Problem{
		Points:         points,
		Dist:           dist,
		Time:           tmin,
		Windows:        windows,
		Weights:        weights,
		Penalties:      penalties,
		PickupWindow:   pickupWindow,
		ServiceMinutes: float64(service),
		ReturnToOrigin: returnToOrigin,
		CeilingMinutes: cfg.Routing.MaxTravelTimeMinutes(),
		Criterion:      criterion,
		SpeedKmh:       speed,
		Deliveries:     req.Deliveries,
		Pickup:         req.Pickup,
	}, nil
}

// tierObjective maps a priority tier to its inclusion weight and omission
// penalty. Under the distance and time criteria the tiers are flattened:
// every delivery carries the same penalty so the search still prefers
// inclusion, but no tier outranks another.
func tierObjective(p model.Priority, criterion model.OptimizeBy, cfg config.Priority) (weight, penalty float64) {
	if criterion != model.OptimizeByPriority {
		return 0, cfg.HighPenalty
	}
	switch p {
	case model.PriorityHigh:
		return cfg.HighWeight, cfg.HighPenalty
	case model.PriorityMedium:
		return cfg.MediumWeight, cfg.MediumPenalty
	default:
		return cfg.LowWeight, cfg.LowPenalty
	}
}
