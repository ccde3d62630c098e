package diagram

import (
	"unicode/utf8"

	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/tier"
)

// Container and badge geometry.
const (
	Padding       = 40.0
	LabelRow      = 28.0
	LabelFontSize = 13.0
	BadgeOffset   = 14.0
	BadgeHeight   = 20.0
	BadgeFontSize = 11.0
	BadgePadding  = 8.0
	BadgeOpacity  = 0.18

	charWidthRatio = 0.55
)

// DefaultName is used when no name is given.
const DefaultName = "Flow"

// Diagram is the renderable description of one generation pass: a container
// of Width by Height holding one card per screen and one arrow per
// transition, plus badges when the tier enables interaction labels.
type Diagram struct {
	Name      string           `json:"name"`
	Tier      string           `json:"tier"`
	Direction layout.Direction `json:"direction"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Cards     []Card           `json:"cards"`
	Arrows    []Arrow          `json:"arrows"`
	Badges    []Badge          `json:"badges"`
}

// Card is a screen. The label is drawn in the row above (X, Y).
type Card struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Thumbnail []byte  `json:"thumbnail,omitempty"`
}

// Badge is the trigger label of a transition. The background is drawn in
// Color at Opacity and the text in Color at full opacity.
type Badge struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
}

// Option configures [Compose].
type Option func(*composer)

type composer struct {
	name       string
	routed     bool
	thumbnails map[string][]byte
}

// WithName names the diagram container.
func WithName(name string) Option { return func(c *composer) { c.name = name } }

// WithRoutedEdges draws each shaft along the layout's route points instead of
// a straight line between the anchors. Route points also count towards the
// container size.
func WithRoutedEdges() Option { return func(c *composer) { c.routed = true } }

// WithThumbnails attaches PNG thumbnails by screen ID. Screens without an
// entry get an empty card.
func WithThumbnails(thumbs map[string][]byte) Option {
	return func(c *composer) { c.thumbnails = thumbs }
}

// Compose turns a layout into a [Diagram]. Everything is translated so the
// bounding box of the cards, label rows included, starts at (Padding, Padding).
//
// The tier decides the edge colors (per source with flow highlighting,
// [NeutralColor] otherwise) and whether badges are produced. Edges whose
// endpoints have no card and edges with coinciding anchors are skipped.
func Compose(l layout.Result, colors ColorMap, t tier.Config, opts ...Option) Diagram {
	c := composer{name: DefaultName}
	for _, opt := range opts {
		opt(&c)
	}

	d := Diagram{
		Name:      c.name,
		Tier:      t.Name,
		Direction: l.Direction,
		Cards:     []Card{},
		Arrows:    []Arrow{},
		Badges:    []Badge{},
	}
	if len(l.Nodes) == 0 {
		d.Width, d.Height = 2*Padding, 2*Padding
		return d
	}

	minX, minY, maxX, maxY := c.bounds(l)
	dx, dy := Padding-minX, Padding-minY
	d.Width = maxX - minX + 2*Padding
	d.Height = maxY - minY + 2*Padding

	nodes := make(map[string]layout.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		n.X += dx
		n.Y += dy
		nodes[n.ID] = n
		d.Cards = append(d.Cards, Card{
			ID:        n.ID,
			Name:      n.Name,
			Label:     truncateLabel(n.Name, n.Width),
			X:         n.X,
			Y:         n.Y,
			Width:     n.Width,
			Height:    n.Height,
			Thumbnail: c.thumbnails[n.ID],
		})
	}

	for _, e := range l.Edges {
		src, okS := nodes[e.SourceID]
		dst, okD := nodes[e.TargetID]
		if !okS || !okD {
			continue
		}
		color := NeutralColor
		if t.FlowHighlighting {
			color = colors.Color(e.SourceID)
		}

		from, to := layout.Exit(src, l.Direction), layout.Entry(dst, l.Direction)
		pts := []layout.Point{from, to}
		if c.routed && len(e.Points) >= 2 {
			pts = translate(e.Points, dx, dy)
		}
		arrow, ok := newArrow(e, pts, color)
		if !ok {
			continue
		}
		d.Arrows = append(d.Arrows, arrow)

		if t.InteractionLabels {
			d.Badges = append(d.Badges, newBadge(e, from, to, color))
		}
	}
	return d
}

// bounds folds every card and its label row into one rectangle.
func (c composer) bounds(l layout.Result) (minX, minY, maxX, maxY float64) {
	for i, n := range l.Nodes {
		top := n.Y - LabelRow
		if i == 0 {
			minX, minY, maxX, maxY = n.X, top, n.X+n.Width, n.Y+n.Height
			continue
		}
		minX, minY = min(minX, n.X), min(minY, top)
		maxX, maxY = max(maxX, n.X+n.Width), max(maxY, n.Y+n.Height)
	}
	if c.routed {
		for _, e := range l.Edges {
			for _, p := range e.Points {
				minX, minY = min(minX, p.X), min(minY, p.Y)
				maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
			}
		}
	}
	return
}

func newArrow(e layout.Edge, pts []layout.Point, color string) (Arrow, bool) {
	shaft, head, ok := buildArrow(pts)
	if !ok {
		return Arrow{}, false
	}
	ox, oy, mx, my := origin(shaft, head)
	return Arrow{
		SourceID: e.SourceID,
		TargetID: e.TargetID,
		Trigger:  e.Trigger,
		X:        ox,
		Y:        oy,
		Width:    mx - ox,
		Height:   my - oy,
		Shaft:    pathData(shaft, ox, oy),
		Head:     pathData(head, ox, oy),
		Color:    color,
		Back:     e.Back,
	}, true
}

func newBadge(e layout.Edge, from, to layout.Point, color string) Badge {
	text := TriggerLabel(e.Trigger)
	w := float64(utf8.RuneCountInString(text))*BadgeFontSize*charWidthRatio + 2*BadgePadding
	cx := (from.X + to.X) / 2
	cy := (from.Y+to.Y)/2 - BadgeOffset
	return Badge{
		SourceID: e.SourceID,
		TargetID: e.TargetID,
		Text:     text,
		X:        cx - w/2,
		Y:        cy - BadgeHeight/2,
		Width:    w,
		Height:   BadgeHeight,
		Color:    color,
		Opacity:  BadgeOpacity,
	}
}

func translate(pts []layout.Point, dx, dy float64) []layout.Point {
	out := make([]layout.Point, len(pts))
	for i, p := range pts {
		out[i] = layout.Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// truncateLabel shortens a name to what fits across a card at LabelFontSize.
func truncateLabel(name string, width float64) string {
	maxChars := max(3, int(width/(LabelFontSize*charWidthRatio)))
	runes := []rune(name)
	if len(runes) <= maxChars {
		return name
	}
	return string(runes[:maxChars-2]) + ".."
}
