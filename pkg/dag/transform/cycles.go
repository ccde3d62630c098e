package transform

import "github.com/matzehuels/screenflow/pkg/dag"

// BreakCycles makes g acyclic by removing every back edge found by a
// depth-first search and returns the removed edges in discovery order.
//
// The search starts from roots (typically the flow's starting points), then
// from the remaining sources, then from any node still unvisited, so the
// edges pointing back towards the entry of a flow are the ones dropped.
// Unknown roots are ignored. Self loops are always removed.
func BreakCycles(g *dag.DAG, roots ...string) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	visit := func(id string) {
		if _, ok := g.Node(id); ok && color[id] == white {
			dfs(id)
		}
	}
	for _, id := range roots {
		visit(id)
	}
	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, n := range g.Nodes() {
		visit(n.ID)
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
