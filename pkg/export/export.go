// Package export turns composed diagrams into files, enforcing tier gates
// before any renderer runs.
package export

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/diagram/sink"
	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/tier"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = tier.FormatPDF
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (use svg, png, pdf or json)", s)
}

// ParseFormats parses a list of names, dropping duplicates. An empty list
// yields svg.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return []Format{FormatSVG}, nil
	}
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Exporter renders one diagram into one format.
type Exporter interface {
	Export(ctx context.Context, d diagram.Diagram, f Format) ([]byte, error)
}

// ExporterFunc adapts a function to [Exporter].
type ExporterFunc func(ctx context.Context, d diagram.Diagram, f Format) ([]byte, error)

// Export calls fn.
func (fn ExporterFunc) Export(ctx context.Context, d diagram.Diagram, f Format) ([]byte, error) {
	return fn(ctx, d, f)
}

// Default renders with the sink package. Scale applies to PNG output and
// defaults to 2.
type Default struct {
	Scale float64
}

// Export implements [Exporter].
func (e Default) Export(ctx context.Context, d diagram.Diagram, f Format) ([]byte, error) {
	scale := e.Scale
	if scale <= 0 {
		scale = 2
	}
	switch f {
	case FormatSVG:
		return sink.RenderSVG(d), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, d, sink.WithScale(scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, d)
	case FormatJSON:
		return sink.RenderJSON(d)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Artifact is one exported file.
type Artifact struct {
	Format Format `json:"format"`
	Data   []byte `json:"data"`
}

// Run checks every format against the tier, then exports them in order.
// A gated format fails the whole request before anything is rendered; a
// renderer failure returns an ErrCodeExportFailed error and no artifacts.
func Run(ctx context.Context, e Exporter, d diagram.Diagram, t tier.Config, formats []Format) ([]Artifact, error) {
	for _, f := range formats {
		if err := t.CheckExport(string(f)); err != nil {
			return nil, err
		}
	}

	artifacts := make([]Artifact, 0, len(formats))
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "export of %s cancelled", f)
		}
		data, err := e.Export(ctx, d, f)
		if err != nil {
			if errors.GetCode(err) == errors.ErrCodeInvalidFormat {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "%s export of %q failed", f, d.Name)
		}
		artifacts = append(artifacts, Artifact{Format: f, Data: data})
	}
	return artifacts, nil
}
