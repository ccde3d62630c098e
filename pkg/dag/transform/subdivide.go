package transform

import (
	"fmt"

	"github.com/matzehuels/screenflow/pkg/dag"
)

// Subdivide replaces every edge spanning more than one rank with a chain of
// virtual nodes, one per intermediate rank, so that all edges connect
// consecutive ranks afterwards:
//
//	Before: login (rank 0) → checkout (rank 3)
//	After:  login → login_v_1 → login_v_2 → checkout
//
// The returned map holds, for each original long edge, the IDs of the virtual
// nodes inserted for it in order from source to target. Layout code uses the
// final positions of these nodes as bend points of the routed edge.
//
// Virtual node IDs have the form "source_v_rank"; a numeric suffix is added
// on collision. Edges pointing backwards or within a rank are left alone.
func Subdivide(g *dag.DAG) map[dag.Edge][]string {
	gen := newIDGen(g.Nodes())
	chains := make(map[dag.Edge][]string)

	var toRemove []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}
		if _, done := chains[e]; done {
			continue
		}

		toRemove = append(toRemove, e)
		chain := make([]string, 0, dst.Row-src.Row-1)
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			prevID = addVirtual(g, gen, prevID, src.ID, row)
			chain = append(chain, prevID)
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID}); err != nil {
			panic(err)
		}
		chains[e] = chain
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
	return chains
}

func addVirtual(g *dag.DAG, gen *idGen, from, master string, row int) string {
	id := gen.next(master, row)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Row:      row,
		Kind:     dag.NodeKindVirtual,
		MasterID: master,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_v_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
