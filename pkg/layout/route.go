package layout

import (
	"github.com/matzehuels/screenflow/pkg/dag"
	"github.com/matzehuels/screenflow/pkg/flow"
)

// router builds polylines for transitions once all cards are placed.
type router struct {
	dir   Direction
	cfg   Config
	nodes map[string]Node
	// far is the coordinate just beyond the drawing on the secondary axis,
	// where back edges travel.
	far   float64
	loops map[[2]string]int
}

func newRouter(res Result, dir Direction, cfg Config) *router {
	r := &router{
		dir:   dir,
		cfg:   cfg,
		nodes: make(map[string]Node, len(res.Nodes)),
		loops: make(map[[2]string]int),
	}
	for _, n := range res.Nodes {
		r.nodes[n.ID] = n
	}
	_, _, maxX, maxY := res.Bounds()
	if dir.Horizontal() {
		r.far = maxY
	} else {
		r.far = maxX
	}
	return r
}

// Exit returns the point where an arrow leaves a card: right-center for LR,
// bottom-center for TB.
func Exit(n Node, dir Direction) Point {
	if dir.Horizontal() {
		return Point{X: n.X + n.Width, Y: n.Y + n.Height/2}
	}
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height}
}

// Entry returns the point where an arrow enters a card: left-center for LR,
// top-center for TB.
func Entry(n Node, dir Direction) Point {
	if dir.Horizontal() {
		return Point{X: n.X, Y: n.Y + n.Height/2}
	}
	return Point{X: n.X + n.Width/2, Y: n.Y}
}

func (r *router) route(t flow.Transition, chains map[dag.Edge][]string, centers map[string]Point) Edge {
	e := Edge{Transition: t, Points: []Point{}}
	src, okS := r.nodes[t.SourceID]
	dst, okD := r.nodes[t.TargetID]
	if !okS || !okD {
		return e
	}

	if dst.Rank > src.Rank {
		e.Points = append(e.Points, Exit(src, r.dir))
		for _, id := range chains[dag.Edge{From: t.SourceID, To: t.TargetID}] {
			e.Points = append(e.Points, centers[id])
		}
		e.Points = append(e.Points, Entry(dst, r.dir))
		return e
	}

	// Against the rank order: leave from the far side of the source, run
	// past every card, come back into the far side of the target. Each
	// distinct pair gets its own lane.
	e.Back = true
	key := [2]string{t.SourceID, t.TargetID}
	lane, ok := r.loops[key]
	if !ok {
		lane = len(r.loops)
		r.loops[key] = lane
	}
	offset := r.far + r.cfg.NodeSep/2 + float64(lane)*r.cfg.NodeSep/4

	if r.dir.Horizontal() {
		from := Point{X: src.X + src.Width/2, Y: src.Y + src.Height}
		to := Point{X: dst.X + dst.Width/2, Y: dst.Y + dst.Height}
		e.Points = append(e.Points, from, Point{X: from.X, Y: offset}, Point{X: to.X, Y: offset}, to)
	} else {
		from := Point{X: src.X + src.Width, Y: src.Y + src.Height/2}
		to := Point{X: dst.X + dst.Width, Y: dst.Y + dst.Height/2}
		e.Points = append(e.Points, from, Point{X: offset, Y: from.Y}, Point{X: offset, Y: to.Y}, to)
	}
	return e
}
