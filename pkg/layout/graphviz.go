package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/screenflow/pkg/flow"
)

// pointsPerInch converts Graphviz inches to diagram pixels.
const pointsPerInch = 72.0

// Graphviz lays out flows with Graphviz dot, run in-process.
type Graphviz struct {
	Config Config
}

// Name implements [Engine].
func (Graphviz) Name() string { return EngineGraphviz }

// Layout implements [Engine].
func (gv Graphviz) Layout(ctx context.Context, g flow.Graph, dir Direction) (Result, error) {
	res := emptyResult(dir, EngineGraphviz)
	if g.IsEmpty() {
		return res, nil
	}
	cfg := gv.Config.WithDefaults()

	dot := ToDOT(g, dir, cfg)
	out, err := renderPlain(ctx, dot)
	if err != nil {
		return Result{}, err
	}
	plain, err := parsePlain(out)
	if err != nil {
		return Result{}, err
	}
	return plain.result(g, dir, cfg)
}

// dotID names the i-th screen in DOT. Screen IDs may contain characters DOT
// would need to quote, and the plain format echoes names unquoted only when
// they are simple.
func dotID(i int) string { return "n" + strconv.Itoa(i) }

// ToDOT converts a flow graph to Graphviz DOT with fixed-size cards and the
// configured separations. Screens are named n0, n1, ... in discovery order.
func ToDOT(g flow.Graph, dir Direction, cfg Config) string {
	cfg = cfg.WithDefaults()
	index := make(map[string]int, len(g.Nodes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(cfg.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(cfg.NodeSep))
	buf.WriteString("  splines=polyline;\n")
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, width=%s, height=%s, label=\"\"];\n",
		inches(cfg.CardWidth), inches(cfg.CardHeight))
	buf.WriteString("\n")

	for i, n := range g.Nodes {
		index[n.ID] = i
		fmt.Fprintf(&buf, "  %s [tooltip=%q];\n", dotID(i), n.Name)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		from, okF := index[e.SourceID]
		to, okT := index[e.TargetID]
		if !okF || !okT || from == to {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotID(from), dotID(to))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

func renderPlain(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// plainLayout is the content of Graphviz "plain" output, still in inches
// with the origin at the bottom left.
type plainLayout struct {
	height float64
	nodes  map[string]Point
	edges  []plainEdge
}

type plainEdge struct {
	tail, head string
	points     []Point
}

// parsePlain reads Graphviz plain output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... xn yn [label xl yl] style color
//	stop
func parsePlain(data []byte) (plainLayout, error) {
	p := plainLayout{nodes: make(map[string]Point)}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for line := 1; sc.Scan(); line++ {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return p, fmt.Errorf("plain line %d: short graph statement", line)
			}
			h, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				return p, fmt.Errorf("plain line %d: height: %w", line, err)
			}
			p.height = h
		case "node":
			if len(f) < 4 {
				return p, fmt.Errorf("plain line %d: short node statement", line)
			}
			pt, err := parsePoint(f[2], f[3])
			if err != nil {
				return p, fmt.Errorf("plain line %d: %w", line, err)
			}
			p.nodes[f[1]] = pt
		case "edge":
			if len(f) < 4 {
				return p, fmt.Errorf("plain line %d: short edge statement", line)
			}
			n, err := strconv.Atoi(f[3])
			if err != nil || len(f) < 4+2*n {
				return p, fmt.Errorf("plain line %d: bad point count", line)
			}
			e := plainEdge{tail: f[1], head: f[2], points: make([]Point, 0, n)}
			for i := range n {
				pt, err := parsePoint(f[4+2*i], f[5+2*i])
				if err != nil {
					return p, fmt.Errorf("plain line %d: %w", line, err)
				}
				e.points = append(e.points, pt)
			}
			p.edges = append(p.edges, e)
		case "stop":
			return p, nil
		}
	}
	if err := sc.Err(); err != nil {
		return p, fmt.Errorf("read plain output: %w", err)
	}
	return p, nil
}

func parsePoint(xs, ys string) (Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return Point{}, fmt.Errorf("x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return Point{}, fmt.Errorf("y %q: %w", ys, err)
	}
	return Point{X: x, Y: y}, nil
}

// px converts a plain-format point to pixels with y pointing down.
func (p plainLayout) px(pt Point) Point {
	return Point{X: pt.X * pointsPerInch, Y: (p.height - pt.Y) * pointsPerInch}
}

func (p plainLayout) result(g flow.Graph, dir Direction, cfg Config) (Result, error) {
	res := emptyResult(dir, EngineGraphviz)
	index := make(map[string]string, len(g.Nodes))
	primary := make(map[string]float64, len(g.Nodes))

	for i, sn := range g.Nodes {
		name := dotID(i)
		c, ok := p.nodes[name]
		if !ok {
			return Result{}, fmt.Errorf("graphviz output is missing screen %s", sn.ID)
		}
		c = p.px(c)
		index[sn.ID] = name
		if dir.Horizontal() {
			primary[sn.ID] = c.X
		} else {
			primary[sn.ID] = c.Y
		}
		res.Nodes = append(res.Nodes, Node{
			ScreenNode: sn,
			X:          c.X - cfg.CardWidth/2,
			Y:          c.Y - cfg.CardHeight/2,
			Width:      cfg.CardWidth,
			Height:     cfg.CardHeight,
		})
	}
	assignRanks(res.Nodes, primary)

	// dot emits edges in its own order; pair them back up per (tail, head).
	queues := make(map[[2]string][][]Point)
	for _, e := range p.edges {
		key := [2]string{e.tail, e.head}
		pts := make([]Point, len(e.points))
		for i, pt := range e.points {
			pts[i] = p.px(pt)
		}
		queues[key] = append(queues[key], pts)
	}
	for _, t := range g.Edges {
		e := Edge{Transition: t, Points: []Point{}}
		key := [2]string{index[t.SourceID], index[t.TargetID]}
		if q := queues[key]; len(q) > 0 {
			e.Points, queues[key] = q[0], q[1:]
		}
		if s, ok := primary[t.SourceID]; ok && primary[t.TargetID] <= s {
			e.Back = true
		}
		res.Edges = append(res.Edges, e)
	}
	return res, nil
}

// assignRanks numbers the distinct primary coordinates of the cards.
func assignRanks(nodes []Node, primary map[string]float64) {
	var levels []float64
	for _, n := range nodes {
		v := primary[n.ID]
		found := false
		for _, l := range levels {
			if l == v {
				found = true
				break
			}
		}
		if !found {
			levels = append(levels, v)
		}
	}
	for i := range nodes {
		v := primary[nodes[i].ID]
		for _, l := range levels {
			if l < v {
				nodes[i].Rank++
			}
		}
	}
}
