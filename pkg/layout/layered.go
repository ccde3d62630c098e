package layout

import (
	"context"

	"github.com/matzehuels/screenflow/pkg/dag"
	"github.com/matzehuels/screenflow/pkg/dag/transform"
	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout/ordering"
)

// Layered is the native layered layout engine.
type Layered struct {
	Config Config
}

// Name implements [Engine].
func (Layered) Name() string { return EngineLayered }

// Layout implements [Engine].
func (l Layered) Layout(ctx context.Context, g flow.Graph, dir Direction) (Result, error) {
	res := emptyResult(dir, EngineLayered)
	if g.IsEmpty() {
		return res, nil
	}
	cfg := l.Config.WithDefaults()

	d := g.ToDAG()
	transform.BreakCycles(d, g.StartingPointIDs...)
	transform.AssignLayers(d)
	chains := transform.Subdivide(d)
	if err := d.Validate(); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInternal, err, "rank assignment")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	orders := ordering.Barycentric{Passes: cfg.Passes}.OrderRows(d)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	centers := place(d, orders, cfg, dir)

	for _, sn := range g.Nodes {
		c := centers[sn.ID]
		n, _ := d.Node(sn.ID)
		res.Nodes = append(res.Nodes, Node{
			ScreenNode: sn,
			X:          c.X - cfg.CardWidth/2,
			Y:          c.Y - cfg.CardHeight/2,
			Rank:       n.Row,
			Width:      cfg.CardWidth,
			Height:     cfg.CardHeight,
		})
	}

	r := newRouter(res, dir, cfg)
	for _, t := range g.Edges {
		res.Edges = append(res.Edges, r.route(t, chains, centers))
	}
	return res, nil
}

// place assigns a center point to every node of d, screens and virtual
// nodes alike. Rank r sits at primary offset r*(cardPrimary+RankSep); within
// a rank, cards are spaced NodeSep apart and virtual nodes take no space
// beyond the separation. Every rank is centered against the widest one.
func place(d *dag.DAG, orders map[int][]string, cfg Config, dir Direction) map[string]Point {
	primary, secondary := cfg.extent(dir)

	slot := func(id string) float64 {
		if n, ok := d.Node(id); ok && n.IsVirtual() {
			return 0
		}
		return secondary
	}
	span := func(ids []string) float64 {
		s := 0.0
		for i, id := range ids {
			if i > 0 {
				s += cfg.NodeSep
			}
			s += slot(id)
		}
		return s
	}

	widest := 0.0
	for _, ids := range orders {
		widest = max(widest, span(ids))
	}

	centers := make(map[string]Point, d.NodeCount())
	for _, r := range d.RowIDs() {
		ids := orders[r]
		p := float64(r)*(primary+cfg.RankSep) + primary/2
		s := (widest - span(ids)) / 2
		for i, id := range ids {
			if i > 0 {
				s += cfg.NodeSep
			}
			w := slot(id)
			mid := s + w/2
			s += w
			if dir.Horizontal() {
				centers[id] = Point{X: p, Y: mid}
			} else {
				centers[id] = Point{X: mid, Y: p}
			}
		}
	}
	return centers
}
