package sink

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/screenflow/pkg/diagram"
)

const (
	cardRadius     = 12.0
	cardStroke     = "#E5E7EB"
	cardFill       = "#FFFFFF"
	labelColor     = "#111827"
	background     = "#F9FAFB"
	thumbnailInset = 8.0
)

const diagramCSS = `
    .card-frame { fill: ` + cardFill + `; stroke: ` + cardStroke + `; stroke-width: 1.5; }
    .card-label { font-family: Inter, Helvetica, Arial, sans-serif; font-size: %.0fpx; font-weight: 600; fill: ` + labelColor + `; }
    .arrow path { fill: none; stroke-width: 2; stroke-linecap: round; stroke-linejoin: round; transition: stroke-width 0.2s ease; }
    .arrow:hover path { stroke-width: 3.5; }
    .badge text { font-family: Inter, Helvetica, Arial, sans-serif; font-size: %.0fpx; font-weight: 500; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background bool
}

// WithoutBackground leaves the canvas transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// RenderSVG draws the diagram. Cards come first so arrows and badges stay on
// top of them.
func RenderSVG(d diagram.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{background: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		d.Width, d.Height, d.Width, d.Height)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(d.Name))
	buf.WriteString("  <defs>\n    <style>")
	fmt.Fprintf(&buf, diagramCSS, diagram.LabelFontSize, diagram.BadgeFontSize)
	buf.WriteString("\n    </style>\n  </defs>\n")

	if r.background {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", background)
	}
	for _, c := range d.Cards {
		renderCard(&buf, c)
	}
	for _, a := range d.Arrows {
		renderArrow(&buf, a)
	}
	for _, b := range d.Badges {
		renderBadge(&buf, b)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCard(buf *bytes.Buffer, c diagram.Card) {
	fmt.Fprintf(buf, `  <g class="card" id="card-%s">`+"\n", escapeXML(c.ID))
	fmt.Fprintf(buf, `    <text class="card-label" x="%.1f" y="%.1f">%s</text>`+"\n",
		c.X, c.Y-diagram.LabelRow/2+diagram.LabelFontSize/3, escapeXML(c.Label))
	fmt.Fprintf(buf, `    <rect class="card-frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f"/>`+"\n",
		c.X, c.Y, c.Width, c.Height, cardRadius)
	if len(c.Thumbnail) > 0 {
		fmt.Fprintf(buf, `    <image x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid meet" href="data:image/png;base64,%s"/>`+"\n",
			c.X+thumbnailInset, c.Y+thumbnailInset, c.Width-2*thumbnailInset, c.Height-2*thumbnailInset,
			base64.StdEncoding.EncodeToString(c.Thumbnail))
	}
	buf.WriteString("  </g>\n")
}

func renderArrow(buf *bytes.Buffer, a diagram.Arrow) {
	fmt.Fprintf(buf, `  <g class="arrow" data-source="%s" data-target="%s" transform="translate(%.2f %.2f)">`+"\n",
		escapeXML(a.SourceID), escapeXML(a.TargetID), a.X, a.Y)
	fmt.Fprintf(buf, `    <path d="%s" stroke="%s"/>`+"\n", a.Shaft, a.Color)
	fmt.Fprintf(buf, `    <path d="%s" stroke="%s"/>`+"\n", a.Head, a.Color)
	buf.WriteString("  </g>\n")
}

func renderBadge(buf *bytes.Buffer, b diagram.Badge) {
	buf.WriteString(`  <g class="badge">` + "\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, b.Height/2, b.Color, b.Opacity)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		b.X+b.Width/2, b.Y+b.Height/2, b.Color, escapeXML(b.Text))
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
