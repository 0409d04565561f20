package solver

import "time"

// DefaultBudget bounds the local search wall clock when the request does
// not set one.
const DefaultBudget = 30 * time.Second

// Snapshot is a point-in-time view of the search, emitted to the optional
// progress callback after every improvement pass.
type Snapshot struct {
	Passes     int     `json:"passes"`
	Iterations int     `json:"iterations"`
	Objective  float64 `json:"objective"`
	Stops      int     `json:"stops"`
	Rejected   int     `json:"rejected"`
}

// Options tunes one Solve call.
type Options struct {
	// Budget is the wall-clock ceiling of the local search. Zero means
	// DefaultBudget.
	Budget time.Duration
	// Progress, when set, receives a Snapshot after each improvement pass.
	// It runs on the solving goroutine and must return quickly.
	Progress func(Snapshot)
}

// Solve runs the full pipeline: greedy construction, bounded local search,
// final scheduling, and assembly. It is pure and synchronous; concurrent
// calls on distinct Problems need no coordination.
func Solve(p *Problem, opts Options) Result {
	budget := opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	start := time.Now()
	deadline := start.Add(budget)

	order, rejected := p.construct()
	st := p.newState(order, rejected)

	evals := 0
	passes := 0
	for {
		improved := p.pass(&st, deadline, &evals)
		passes++
		if opts.Progress != nil {
			opts.Progress(Snapshot{
				Passes:     passes,
				Iterations: evals,
				Objective:  st.obj,
				Stops:      len(st.order),
				Rejected:   len(st.rejected),
			})
		}
		if !improved || time.Now().After(deadline) {
			break
		}
	}

	return p.assemble(st, evals, time.Since(start))
}
