package diagram

import "github.com/matzehuels/screenflow/pkg/layout"

// Palette holds the per-source edge colors, assigned in order of first
// appearance and wrapping after the last entry.
var Palette = []string{"#6366F1", "#EC4899", "#10B981", "#F59E0B", "#3B82F6"}

// NeutralColor is used for every edge when flow highlighting is off.
const NeutralColor = "#9CA3AF"

// ColorMap maps source screen IDs to edge colors.
type ColorMap map[string]string

// AssignColors gives each distinct source a palette color. Sources are
// numbered in the order their first edge appears, so the result depends
// only on the edge list.
func AssignColors(edges []layout.Edge) ColorMap {
	colors := make(ColorMap)
	for _, e := range edges {
		if _, ok := colors[e.SourceID]; ok {
			continue
		}
		colors[e.SourceID] = Palette[len(colors)%len(Palette)]
	}
	return colors
}

// Color returns the color for edges leaving sourceID, or [NeutralColor]
// when the source has none.
func (m ColorMap) Color(sourceID string) string {
	if c, ok := m[sourceID]; ok {
		return c
	}
	return NeutralColor
}
