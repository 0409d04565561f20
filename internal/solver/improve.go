package solver

import (
	"sort"
	"time"
)

// searchState is the current tour during local search. Moves replace the
// whole state atomically: a candidate order is fully re-evaluated (including
// every downstream arrival shift) before it can become current, so the tour
// is never observed half-mutated.
type searchState struct {
	order    []int
	sched    Schedule
	obj      float64
	rejected []int
}

func (p *Problem) newState(order, rejected []int) searchState {
	s := p.evaluate(order)
	return searchState{
		order:    order,
		sched:    s,
		obj:      p.objective(order, s),
		rejected: rejected,
	}
}

// pass scans every move family once — relocate, swap, or-opt segment
// relocation (length 2-3), and re-insertion of rejected deliveries with
// optional displacement of a single lower-weight stop — and applies the
// first improving move it finds. Acceptance is first-improvement on the
// objective; exact objective ties are broken by lower total distance. The
// scan order is fixed, so with a fixed budget the search is reproducible.
// It reports whether any move was accepted.
func (p *Problem) pass(cur *searchState, deadline time.Time, evals *int) bool {
	n := len(cur.order)

	// Relocate one stop.
	for i := 0; i < n; i++ {
		trimmed := removeAt(cur.order, i)
		for j := 0; j <= len(trimmed); j++ {
			if j == i {
				continue
			}
			if p.tryOrder(cur, insertAt(trimmed, cur.order[i], j), evals) {
				return true
			}
		}
		if timedOut(deadline, *evals) {
			return false
		}
	}

	// Swap two stops.
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			cand := append([]int(nil), cur.order...)
			cand[i], cand[j] = cand[j], cand[i]
			if p.tryOrder(cur, cand, evals) {
				return true
			}
		}
		if timedOut(deadline, *evals) {
			return false
		}
	}

	// Or-opt: move a short contiguous segment.
	for segLen := 2; segLen <= 3; segLen++ {
		for i := 0; i+segLen <= n; i++ {
			seg := append([]int(nil), cur.order[i:i+segLen]...)
			rest := append(append([]int(nil), cur.order[:i]...), cur.order[i+segLen:]...)
			for j := 0; j <= len(rest); j++ {
				if j == i {
					continue
				}
				cand := make([]int, 0, n)
				cand = append(cand, rest[:j]...)
				cand = append(cand, seg...)
				cand = append(cand, rest[j:]...)
				if p.tryOrder(cur, cand, evals) {
					return true
				}
			}
			if timedOut(deadline, *evals) {
				return false
			}
		}
	}

	// Re-insert rejected deliveries, cheapest feasible position first.
	for _, node := range cur.rejected {
		if pos, ok := p.cheapestInsertion(cur.order, node); ok {
			if p.tryReinsert(cur, insertAt(cur.order, node, pos), node, -1, evals) {
				return true
			}
		}
		// Displace a single included stop of strictly lower weight.
		for vi, victim := range cur.order {
			if p.Weights[victim] >= p.Weights[node] {
				continue
			}
			trimmed := removeAt(cur.order, vi)
			if pos, ok := p.cheapestInsertion(trimmed, node); ok {
				if p.tryReinsert(cur, insertAt(trimmed, node, pos), node, victim, evals) {
					return true
				}
			}
		}
		if timedOut(deadline, *evals) {
			return false
		}
	}

	return false
}

// tryOrder evaluates a reordering of the current stops and accepts it when
// it improves the objective, or matches it with a shorter total distance.
func (p *Problem) tryOrder(cur *searchState, cand []int, evals *int) bool {
	*evals++
	s := p.evaluate(cand)
	if !s.Feasible {
		return false
	}
	obj := p.objective(cand, s)
	if obj < cur.obj-costEps ||
		(obj < cur.obj+costEps && s.TotalDistanceKm < cur.sched.TotalDistanceKm-costEps) {
		cur.order = cand
		cur.sched = s
		cur.obj = obj
		return true
	}
	return false
}

// tryReinsert accepts a candidate order that brings a rejected delivery
// back in, updating the rejection list. victim < 0 means no stop was
// displaced.
func (p *Problem) tryReinsert(cur *searchState, cand []int, node, victim int, evals *int) bool {
	*evals++
	s := p.evaluate(cand)
	if !s.Feasible {
		return false
	}
	obj := p.objective(cand, s)
	if obj >= cur.obj-costEps {
		return false
	}
	rejected := make([]int, 0, len(cur.rejected))
	for _, r := range cur.rejected {
		if r != node {
			rejected = append(rejected, r)
		}
	}
	if victim > 0 {
		rejected = append(rejected, victim)
		sort.Ints(rejected)
	}
	cur.order = cand
	cur.sched = s
	cur.obj = obj
	cur.rejected = rejected
	return true
}

// timedOut polls the deadline cheaply; it is only consulted at scan
// boundaries so accepted moves are always complete.
func timedOut(deadline time.Time, evals int) bool {
	return evals%32 == 0 && time.Now().After(deadline)
}
