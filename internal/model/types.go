// Package model defines the request/response types of the routing API.
package model

// Priority is the delivery tier. Lower numeric value means higher priority,
// matching the wire format (1=high, 2=medium, 3=low).
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Valid reports whether the value is one of the three tiers.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return "unknown"
}

// OptimizeBy selects the leg-cost criterion of the solver.
type OptimizeBy string

const (
	OptimizeByDistance OptimizeBy = "distance"
	OptimizeByTime     OptimizeBy = "time"
	OptimizeByPriority OptimizeBy = "priority"
)

// TimeWindow is an "HH:MM" interval; End before Start means the window
// spans midnight.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PickupLocation is the tour origin with its operating window.
type PickupLocation struct {
	Address   string  `json:"address"`
	Zipcode   string  `json:"zipcode"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}

// Settings carries per-request tuning. Pointer fields distinguish an
// explicit zero (e.g. vehicle_speed_kmph: 0) from an omitted field that
// falls back to the configured default.
type Settings struct {
	ReturnToOrigin     *bool      `json:"return_to_origin,omitempty"`
	TimePerStopMinutes *int       `json:"time_per_stop_minutes,omitempty"`
	VehicleSpeedKmph   *float64   `json:"vehicle_speed_kmph,omitempty"`
	OptimizeBy         OptimizeBy `json:"optimize_by,omitempty"`
	TimeBudgetMs       int        `json:"time_budget_ms,omitempty"`
}

// Delivery is one candidate stop.
type Delivery struct {
	Address    string     `json:"address"`
	Zipcode    string     `json:"zipcode"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	Priority   Priority   `json:"priority"`
	TimeWindow TimeWindow `json:"time_window"`
}

// RoutingRequest is the body of POST /v1/optimize.
type RoutingRequest struct {
	Pickup     PickupLocation `json:"pickup"`
	Settings   Settings       `json:"settings"`
	Deliveries []Delivery     `json:"deliveries"`
}

// RouteStop is one timed stop of the computed tour. DepartureTime is empty
// for the terminal return-to-pickup stop, which has no service time.
type RouteStop struct {
	Stop          string   `json:"stop"`
	Zipcode       string   `json:"zipcode"`
	ArrivalTime   string   `json:"arrival_time"`
	DepartureTime string   `json:"departure_time,omitempty"`
	Address       string   `json:"address,omitempty"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Priority      Priority `json:"priority,omitempty"`
}

// SkippedDelivery reports an omitted delivery with its taxonomy reason.
type SkippedDelivery struct {
	Address  string   `json:"address"`
	Zipcode  string   `json:"zipcode"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
}

// OptimizationMetrics summarizes one solver run.
type OptimizationMetrics struct {
	Iterations        int     `json:"iterations"`
	ProcessingTimeSec float64 `json:"processing_time_seconds"`
	Objective         float64 `json:"objective_value"`
	Method            string  `json:"optimization_method"`
	TotalStops        int     `json:"total_stops"`
	SkippedStops      int     `json:"skipped_stops"`
}

// RoutingResponse is the body returned by POST /v1/optimize.
type RoutingResponse struct {
	Route               []RouteStop         `json:"route"`
	TotalDistanceKm     float64             `json:"total_distance_km"`
	TotalTimeMinutes    int                 `json:"total_time_minutes"`
	IsFeasible          bool                `json:"is_feasible"`
	SkippedDeliveries   []SkippedDelivery   `json:"skipped_deliveries"`
	OptimizationMetrics OptimizationMetrics `json:"optimization_metrics"`
}

// DistanceMatrixRequest is the body of POST /v1/distance-matrix.
type DistanceMatrixRequest struct {
	Points   []LatLng `json:"points"`
	SpeedKmh float64  `json:"speed_kmh,omitempty"`
}

// LatLng is a bare coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceMatrixResponse returns pairwise kilometers and minutes.
type DistanceMatrixResponse struct {
	Distances [][]float64 `json:"distances"`
	Times     [][]float64 `json:"times"`
	Points    []LatLng    `json:"points"`
}
