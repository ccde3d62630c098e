// Package dag provides the layered graph used to lay out screen flows.
//
// Nodes carry a Row, the rank along the primary axis of the drawing. Edges
// are directed and may form cycles while a graph is being built; the
// [transform] subpackage removes cycles, assigns ranks and splits long edges
// so that, before ordering, every edge connects two consecutive ranks.
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "login", Row: 0})
//	g.AddNode(dag.Node{ID: "home", Row: 1})
//	g.AddEdge(dag.Edge{From: "login", To: "home"})
//
// [CountCrossings] and [CountLayerCrossings] count edge crossings of a given
// rank ordering with a Fenwick tree in O(E log V), which the barycentric
// ordering sweeps evaluate after every pass.
//
// Iteration order is insertion order everywhere, which makes layouts
// reproducible. A DAG is not safe for concurrent use.
//
// [transform]: github.com/matzehuels/screenflow/pkg/dag/transform
package dag
