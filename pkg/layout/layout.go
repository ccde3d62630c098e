package layout

import (
	"strings"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
)

// Direction is the primary axis of a layout.
type Direction string

// Layout directions.
const (
	LeftToRight Direction = "LR"
	TopToBottom Direction = "TB"
)

// ParseDirection accepts LR, TB and their spelled-out forms, case-insensitively.
// An empty string selects [LeftToRight].
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lr", "left-to-right", "horizontal":
		return LeftToRight, nil
	case "tb", "top-to-bottom", "vertical":
		return TopToBottom, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (use LR or TB)", s)
}

// Horizontal reports whether ranks advance along the x axis.
func (d Direction) Horizontal() bool { return d != TopToBottom }

// String returns the canonical name.
func (d Direction) String() string { return string(d) }

// Point is a position in diagram pixels, y pointing down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a positioned screen. X and Y are the top-left corner of a card of
// Width by Height; the screen's own dimensions stay in ScreenNode.
type Node struct {
	flow.ScreenNode
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Rank   int     `json:"rank"`
	Width  float64 `json:"render_width"`
	Height float64 `json:"render_height"`
}

// Center returns the card's center point.
func (n Node) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// Edge is a routed transition. Points may be empty when an engine did not
// route the edge.
type Edge struct {
	flow.Transition
	Points []Point `json:"points"`
	// Back marks transitions that point against the rank order.
	Back bool `json:"back,omitempty"`
}

// Result is the output of a layout request.
type Result struct {
	Direction Direction `json:"direction"`
	Engine    string    `json:"engine"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
}

// Node returns the positioned screen with the given ID.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Bounds returns the smallest rectangle containing every card.
func (r Result) Bounds() (minX, minY, maxX, maxY float64) {
	for i, n := range r.Nodes {
		if i == 0 {
			minX, minY, maxX, maxY = n.X, n.Y, n.X+n.Width, n.Y+n.Height
			continue
		}
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X+n.Width)
		maxY = max(maxY, n.Y+n.Height)
	}
	return
}

func emptyResult(dir Direction, engine string) Result {
	return Result{Direction: dir, Engine: engine, Nodes: []Node{}, Edges: []Edge{}}
}
