// Package ordering decides the order of nodes within each rank of a layered
// graph so that edges between consecutive ranks cross as little as possible.
package ordering

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/screenflow/pkg/dag"
)

// Orderer computes a left-to-right (or top-to-bottom) order for every rank.
// The graph must only contain edges between consecutive ranks.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of sweeps used when Barycentric.Passes is zero.
const DefaultPasses = 12

// Barycentric is the classic Sugiyama heuristic: each sweep sorts a rank by
// the mean position of its neighbors in the previous rank (downward sweeps
// use parents, upward sweeps children), followed by a transpose pass that
// swaps adjacent nodes while that removes crossings. The ordering with the
// fewest crossings seen is returned.
//
// The result depends only on the graph's insertion order.
type Barycentric struct {
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				sortByBarycenter(g, orders, rows[i], rows[i-1], true)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				sortByBarycenter(g, orders, rows[i], rows[i+1], false)
			}
		}
		transpose(g, orders, rows)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}
	return best
}

func sortByBarycenter(g *dag.DAG, orders map[int][]string, row, adjRow int, useParents bool) {
	adjPos := dag.PosMap(orders[adjRow])
	current := orders[row]

	type keyed struct {
		id  string
		bar float64
	}
	keys := make([]keyed, len(current))
	for i, id := range current {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		bar := float64(i)
		if n > 0 {
			bar = sum / float64(n)
		}
		keys[i] = keyed{id, bar}
	}

	slices.SortStableFunc(keys, func(a, b keyed) int { return cmp.Compare(a.bar, b.bar) })
	for i, k := range keys {
		current[i] = k.id
	}
}

// transpose swaps adjacent nodes while a swap strictly lowers the crossings
// with both neighbouring ranks.
func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	limit := 4 * len(rows)
	for iter, improved := 0, true; improved && iter < limit; iter++ {
		improved = false
		for _, r := range rows {
			order := orders[r]
			var abovePos, belowPos map[string]int
			if prev, ok := orders[r-1]; ok {
				abovePos = dag.PosMap(prev)
			}
			if next, ok := orders[r+1]; ok {
				belowPos = dag.PosMap(next)
			}
			for i := 0; i+1 < len(order); i++ {
				l, rt := order[i], order[i+1]
				before := pairCrossings(g, l, rt, abovePos, belowPos)
				after := pairCrossings(g, rt, l, abovePos, belowPos)
				if after < before {
					order[i], order[i+1] = rt, l
					improved = true
				}
			}
		}
	}
}

func pairCrossings(g *dag.DAG, left, right string, abovePos, belowPos map[string]int) int {
	c := 0
	if abovePos != nil {
		c += dag.CountPairCrossingsWithPos(g, left, right, abovePos, true)
	}
	if belowPos != nil {
		c += dag.CountPairCrossingsWithPos(g, left, right, belowPos, false)
	}
	return c
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		out[r] = slices.Clone(orders[r])
	}
	return out
}
