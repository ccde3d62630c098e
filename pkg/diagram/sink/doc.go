// Package sink renders a composed [diagram.Diagram] to output formats.
//
//   - SVG: cards with embedded PNG thumbnails, arrows and badges
//   - JSON: the diagram description itself, for external tools and caching
//   - PNG and PDF: the SVG converted by rsvg-convert (see the render package)
//
// Basic usage:
//
//	svg := sink.RenderSVG(d)
//	png, err := sink.RenderPNG(ctx, d, sink.WithScale(2))
//
// Renderers never modify the diagram and are safe to call concurrently.
//
// [diagram.Diagram]: github.com/matzehuels/screenflow/pkg/diagram.Diagram
package sink
