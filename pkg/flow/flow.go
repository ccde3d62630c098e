package flow

import (
	"math"

	"github.com/matzehuels/screenflow/pkg/dag"
)

// Defaults applied when a reaction omits its trigger or navigation kind.
// The two are independent of each other.
const (
	DefaultTrigger = "ON_CLICK"
	DefaultAction  = "NAVIGATE"
)

// ScreenNode is a distinct navigable screen.
type ScreenNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Transition is a directed, triggered relation between two screens.
type Transition struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Trigger  string `json:"trigger"`
	Action   string `json:"action"`
}

// Graph is the extraction result. Nodes are unique by ID in first-discovery
// order; Edges may contain parallel transitions but no self loops.
type Graph struct {
	Nodes            []ScreenNode `json:"nodes"`
	Edges            []Transition `json:"edges"`
	StartingPointIDs []string     `json:"starting_point_ids"`
}

// IsEmpty reports whether no screens were found.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Node returns the screen with the given ID.
func (g Graph) Node(id string) (ScreenNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ScreenNode{}, false
}

// InDegree returns the number of transitions entering id.
func (g Graph) InDegree(id string) int {
	n := 0
	for _, e := range g.Edges {
		if e.TargetID == id {
			n++
		}
	}
	return n
}

// OutDegree returns the number of transitions leaving id.
func (g Graph) OutDegree(id string) int {
	n := 0
	for _, e := range g.Edges {
		if e.SourceID == id {
			n++
		}
	}
	return n
}

// ToDAG converts the graph into a layered graph for layout. Nodes keep
// discovery order; parallel transitions collapse into a single edge. Edges
// referencing unknown screens are dropped.
func (g Graph) ToDAG() *dag.DAG {
	d := dag.New()
	for _, n := range g.Nodes {
		_ = d.AddNode(dag.Node{ID: n.ID})
	}
	for _, e := range g.Edges {
		if e.SourceID == e.TargetID || d.HasEdge(e.SourceID, e.TargetID) {
			continue
		}
		_ = d.AddEdge(dag.Edge{From: e.SourceID, To: e.TargetID})
	}
	return d
}

// round rounds half away from zero.
func round(v float64) int { return int(math.Round(v)) }
