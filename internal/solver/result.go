package solver

import (
	"math"
	"time"

	"routeopt/internal/geo"
	"routeopt/internal/model"
)

// Skip reasons form a fixed taxonomy; they are wire values, not freeform
// text.
const (
	ReasonExcluded          = "excluded_by_optimizer"
	ReasonWindowUnreachable = "time_window_unreachable"
	ReasonInfeasibleRoute   = "infeasible_route"
)

// Skipped pairs an omitted delivery node with its reason.
type Skipped struct {
	Node   int
	Reason string
}

// Result is the assembled outcome of one optimization run. Order holds
// delivery node indices; the pickup bookends are implicit.
type Result struct {
	Order    []int
	Schedule Schedule
	Feasible bool
	Skipped  []Skipped

	Objective  float64
	Iterations int
	Elapsed    time.Duration
}

// assemble decorates the final search state with skip reasons and metrics.
// An empty tour means no delivery could be served at all: the result is
// infeasible and every delivery is skipped as infeasible_route. Otherwise
// the tour is feasible and each omitted delivery is classified by whether
// it could have been served alone.
func (p *Problem) assemble(st searchState, iterations int, elapsed time.Duration) Result {
	res := Result{
		Order:      st.order,
		Schedule:   st.sched,
		Objective:  st.obj,
		Iterations: iterations,
		Elapsed:    elapsed,
	}
	if len(st.order) == 0 {
		for node := 1; node < len(p.Points); node++ {
			res.Skipped = append(res.Skipped, Skipped{Node: node, Reason: ReasonInfeasibleRoute})
		}
		return res
	}

	res.Feasible = st.sched.Feasible
	for _, node := range st.rejected {
		reason := ReasonExcluded
		if !p.standaloneReachable(node) {
			reason = ReasonWindowUnreachable
		}
		res.Skipped = append(res.Skipped, Skipped{Node: node, Reason: reason})
	}
	return res
}

// standaloneReachable reports whether a delivery could be served on its own
// directly from the pickup, ignoring the return leg. A delivery that fails
// even this test has an unreachable time window rather than an unlucky spot
// in the search.
func (p *Problem) standaloneReachable(node int) bool {
	solo := *p
	solo.ReturnToOrigin = false
	return solo.evaluate([]int{node}).Feasible
}

// BuildResponse renders a Result into the wire response, restoring address
// metadata and formatting absolute minutes back to "HH:MM" strings.
func BuildResponse(p *Problem, res Result) model.RoutingResponse {
	resp := model.RoutingResponse{
		IsFeasible:        res.Feasible,
		SkippedDeliveries: []model.SkippedDelivery{},
		OptimizationMetrics: model.OptimizationMetrics{
			Iterations:        res.Iterations,
			ProcessingTimeSec: res.Elapsed.Seconds(),
			Objective:         res.Objective,
			Method:            string(p.Criterion),
			SkippedStops:      len(res.Skipped),
		},
	}

	for _, sk := range res.Skipped {
		d := p.Deliveries[sk.Node-1]
		resp.SkippedDeliveries = append(resp.SkippedDeliveries, model.SkippedDelivery{
			Address:  d.Address,
			Zipcode:  d.Zipcode,
			Priority: d.Priority,
			Reason:   sk.Reason,
		})
	}

	if !res.Feasible {
		resp.Route = []model.RouteStop{}
		return resp
	}

	start := geo.FormatTime(p.PickupWindow.Start)
	resp.Route = append(resp.Route, model.RouteStop{
		Stop:          p.Pickup.Address,
		Zipcode:       p.Pickup.Zipcode,
		ArrivalTime:   start,
		DepartureTime: start,
		Address:       p.Pickup.Address,
		Lat:           p.Pickup.Lat,
		Lng:           p.Pickup.Lng,
	})
	for k, node := range res.Order {
		d := p.Deliveries[node-1]
		resp.Route = append(resp.Route, model.RouteStop{
			Stop:          d.Address,
			Zipcode:       d.Zipcode,
			ArrivalTime:   geo.FormatTime(int(math.Round(res.Schedule.Arrivals[k]))),
			DepartureTime: geo.FormatTime(int(math.Round(res.Schedule.Departures[k]))),
			Address:       d.Address,
			Lat:           d.Lat,
			Lng:           d.Lng,
			Priority:      d.Priority,
		})
	}
	if p.ReturnToOrigin {
		resp.Route = append(resp.Route, model.RouteStop{
			Stop:        p.Pickup.Address + " (Return)",
			Zipcode:     p.Pickup.Zipcode,
			ArrivalTime: geo.FormatTime(int(math.Round(res.Schedule.ReturnArrival))),
			Address:     p.Pickup.Address,
			Lat:         p.Pickup.Lat,
			Lng:         p.Pickup.Lng,
		})
	}

	resp.TotalDistanceKm = res.Schedule.TotalDistanceKm
	resp.TotalTimeMinutes = int(math.Round(res.Schedule.TotalTimeMinutes))
	resp.OptimizationMetrics.TotalStops = len(resp.Route)
	return resp
}
