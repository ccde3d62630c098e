// Package render converts SVG documents to raster and page formats.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg), which must be
// on PATH:
//
//	svg := sink.RenderSVG(d)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When the tool is missing both return an error wrapping [ErrConverterMissing]
// with installation hints.
package render
