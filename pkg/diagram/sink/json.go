package sink

import (
	"encoding/json"

	"github.com/matzehuels/screenflow/pkg/diagram"
)

// RenderJSON exports the diagram as pretty-printed JSON. Thumbnails are
// included as base64 unless [WithoutThumbnails] is given.
func RenderJSON(d diagram.Diagram, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{thumbnails: true}
	for _, opt := range opts {
		opt(&r)
	}
	if !r.thumbnails {
		cards := make([]diagram.Card, len(d.Cards))
		for i, c := range d.Cards {
			c.Thumbnail = nil
			cards[i] = c
		}
		d.Cards = cards
	}
	return json.MarshalIndent(d, "", "  ")
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	thumbnails bool
}

// WithoutThumbnails drops the embedded PNG data from every card.
func WithoutThumbnails() JSONOption { return func(r *jsonRenderer) { r.thumbnails = false } }
