package solver

import (
	"math"

	"routeopt/internal/model"
)

// Schedule is the timed expansion of a tour order. Arrival and departure
// minutes are absolute (counted from midnight of the pickup day) and aligned
// with the order slice; ReturnArrival is set when the tour ends back at the
// pickup.
type Schedule struct {
	Arrivals      []float64
	Departures    []float64
	ReturnArrival float64
	Feasible      bool

	// TotalDistanceKm sums consecutive leg distances. TotalTimeMinutes sums
	// leg travel plus service time at every stop that has a successor;
	// waiting for a window to open is not counted.
	TotalDistanceKm  float64
	TotalTimeMinutes float64
}

// evaluate walks one tour order from the pickup's window start and computes
// arrivals, departures, and feasibility in a single pass. An early arrival
// waits for the window to open; a late arrival makes the tour infeasible.
// The walk never mutates the problem or the order.
func (p *Problem) evaluate(order []int) Schedule {
	s := Schedule{
		Arrivals:   make([]float64, len(order)),
		Departures: make([]float64, len(order)),
		Feasible:   true,
	}
	clock := float64(p.PickupWindow.Start)
	prev := 0
	for k, node := range order {
		travel := p.Time[prev][node]
		if math.IsInf(travel, 1) {
			s.Feasible = false
			return s
		}
		s.TotalDistanceKm += p.Dist[prev][node]
		s.TotalTimeMinutes += travel

		arr := clock + travel
		w := p.Windows[node]
		if !w.Contains(arr) {
			wait := w.WaitUntilStart(arr)
			if wait <= 0 {
				s.Feasible = false
				return s
			}
			arr += wait
		}
		if !p.withinPickupBound(arr) {
			s.Feasible = false
			return s
		}

		s.Arrivals[k] = arr
		s.Departures[k] = arr + p.ServiceMinutes
		clock = s.Departures[k]
		if k < len(order)-1 || p.ReturnToOrigin {
			s.TotalTimeMinutes += p.ServiceMinutes
		}
		prev = node
	}

	if p.ReturnToOrigin && len(order) > 0 {
		travel := p.Time[prev][0]
		if math.IsInf(travel, 1) {
			s.Feasible = false
			return s
		}
		s.TotalDistanceKm += p.Dist[prev][0]
		s.TotalTimeMinutes += travel
		s.ReturnArrival = clock + travel
		if !p.withinPickupBound(s.ReturnArrival) {
			s.Feasible = false
			return s
		}
	}

	if s.TotalTimeMinutes > p.CeilingMinutes {
		s.Feasible = false
	}
	return s
}

// withinPickupBound checks an arrival against the pickup's operating window
// end. A wrapping pickup window imposes no upper clock bound.
func (p *Problem) withinPickupBound(arrival float64) bool {
	if p.PickupWindow.Wraps {
		return true
	}
	return arrival <= float64(p.PickupWindow.End)
}

// legCost is the criterion-selected cost of a schedule: minutes under the
// time criterion, kilometers otherwise.
func (p *Problem) legCost(s Schedule) float64 {
	if p.Criterion == model.OptimizeByTime {
		return s.TotalTimeMinutes
	}
	return s.TotalDistanceKm
}

// objective is the value minimized by the local search: leg cost plus the
// omission penalty of every delivery missing from the order, minus the
// inclusion weight of every delivery present.
func (p *Problem) objective(order []int, s Schedule) float64 {
	obj := p.legCost(s)
	included := make([]bool, len(p.Points))
	for _, node := range order {
		included[node] = true
	}
	for node := 1; node < len(p.Points); node++ {
		if included[node] {
			obj -= p.Weights[node]
		} else {
			obj += p.Penalties[node]
		}
	}
	return obj
}
