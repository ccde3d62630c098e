package diagram

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/screenflow/pkg/layout"
)

// Arrow geometry.
const (
	ArrowGap   = 8.0
	HeadLength = 12.0
	HeadAngle  = 30.0 // degrees off the shaft
)

// Arrow is one transition drawn as a polyline shaft and a two-segment head.
// Shaft and Head are SVG path data relative to (X, Y), the minimum corner of
// every point of the arrow.
type Arrow struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Trigger  string  `json:"trigger"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Shaft    string  `json:"shaft"`
	Head     string  `json:"head"`
	Color    string  `json:"color"`
	Back     bool    `json:"back,omitempty"`
}

// headHalfWidth is the distance from the shaft to each barb.
var headHalfWidth = HeadLength * math.Tan(HeadAngle*math.Pi/180)

// buildArrow shortens the polyline by ArrowGap at both ends and attaches an
// arrowhead to its end. It returns false when the anchors coincide and no
// direction can be derived.
func buildArrow(pts []layout.Point) (shaft, head []layout.Point, ok bool) {
	pts = dedupe(pts)
	if len(pts) < 2 {
		return nil, nil, false
	}

	shaft = make([]layout.Point, len(pts))
	copy(shaft, pts)
	last := len(shaft) - 1
	shaft[0] = toward(shaft[0], shaft[1], ArrowGap)
	shaft[last] = toward(shaft[last], shaft[last-1], ArrowGap)

	end, prev := shaft[last], shaft[last-1]
	dx, dy := end.X-prev.X, end.Y-prev.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil, nil, false
	}
	ux, uy := dx/length, dy/length
	px, py := -uy, ux

	base := layout.Point{X: end.X - ux*HeadLength, Y: end.Y - uy*HeadLength}
	head = []layout.Point{
		{X: base.X + px*headHalfWidth, Y: base.Y + py*headHalfWidth},
		end,
		{X: base.X - px*headHalfWidth, Y: base.Y - py*headHalfWidth},
	}
	return shaft, head, true
}

// toward moves p toward q by d, capped at a quarter of the segment so that
// short segments never collapse or flip.
func toward(p, q layout.Point, d float64) layout.Point {
	dx, dy := q.X-p.X, q.Y-p.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return p
	}
	d = min(d, length/4)
	return layout.Point{X: p.X + dx/length*d, Y: p.Y + dy/length*d}
}

func dedupe(pts []layout.Point) []layout.Point {
	out := make([]layout.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

func origin(sets ...[]layout.Point) (minX, minY, maxX, maxY float64) {
	first := true
	for _, pts := range sets {
		for _, p := range pts {
			if first {
				minX, minY, maxX, maxY = p.X, p.Y, p.X, p.Y
				first = false
				continue
			}
			minX, minY = min(minX, p.X), min(minY, p.Y)
			maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
		}
	}
	return
}

// pathData renders an open polyline as "M x y L x y ...", relative to (ox, oy).
func pathData(pts []layout.Point, ox, oy float64) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(num(p.X - ox))
		sb.WriteByte(' ')
		sb.WriteString(num(p.Y - oy))
	}
	return sb.String()
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
