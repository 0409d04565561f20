package solver

import "sort"

// construct builds the initial tour by priority-ordered greedy insertion.
// Deliveries are processed in descending weight order, ties by ascending
// input index, so construction is deterministic. Each delivery takes the
// cheapest insertion position that keeps the whole schedule feasible;
// deliveries with no feasible position land on the rejection list for the
// improvement phase to retry, they never abort construction.
func (p *Problem) construct() (order, rejected []int) {
	candidates := make([]int, 0, len(p.Points)-1)
	for node := 1; node < len(p.Points); node++ {
		candidates = append(candidates, node)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if p.Weights[a] != p.Weights[b] {
			return p.Weights[a] > p.Weights[b]
		}
		return a < b
	})

	for _, node := range candidates {
		pos, ok := p.cheapestInsertion(order, node)
		if !ok {
			rejected = append(rejected, node)
			continue
		}
		order = insertAt(order, node, pos)
	}
	sort.Ints(rejected)
	return order, rejected
}

// cheapestInsertion evaluates every position in the current tour and
// returns the feasible one with the lowest leg cost. Evaluating the full
// candidate schedule covers the arrival shift of every downstream stop.
// The strict comparison keeps the earliest position on cost ties.
func (p *Problem) cheapestInsertion(order []int, node int) (int, bool) {
	bestPos := -1
	bestCost := 0.0
	for pos := 0; pos <= len(order); pos++ {
		cand := insertAt(order, node, pos)
		s := p.evaluate(cand)
		if !s.Feasible {
			continue
		}
		c := p.legCost(s)
		if bestPos < 0 || c < bestCost-costEps {
			bestPos = pos
			bestCost = c
		}
	}
	return bestPos, bestPos >= 0
}

const costEps = 1e-9

func insertAt(order []int, node, pos int) []int {
	out := make([]int, 0, len(order)+1)
	out = append(out, order[:pos]...)
	out = append(out, node)
	out = append(out, order[pos:]...)
	return out
}

func removeAt(order []int, pos int) []int {
	out := make([]int, 0, len(order)-1)
	out = append(out, order[:pos]...)
	out = append(out, order[pos+1:]...)
	return out
}
