package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/screenflow/pkg/cache"
	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/export"
	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/observability"
)

// Compose turns a layout into the diagram of the source page. Colors and
// badges follow the requested tier.
func (r *Runner) Compose(ctx context.Context, src Source, l layout.Result, thumbs map[string][]byte, opts Options) diagram.Diagram {
	t := opts.TierConfig()
	dopts := []diagram.Option{
		diagram.WithName(src.DiagramName()),
		diagram.WithThumbnails(thumbs),
	}
	if opts.RoutedEdges {
		dopts = append(dopts, diagram.WithRoutedEdges())
	}
	d := diagram.Compose(l, diagram.AssignColors(l.Edges), t, dopts...)
	observability.Pipeline().OnComposeComplete(ctx, t.Name, len(d.Arrows), len(d.Badges))
	return d
}

// ExportWithCacheInfo renders the requested formats and reports whether all
// of them came from the cache. Artifacts are cached per diagram, format and
// tier; a partial hit renders everything again.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, d diagram.Diagram, opts Options) ([]export.Artifact, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	t := opts.TierConfig()
	formats := opts.ExportFormats()

	diagramHash, err := cache.HashJSON(d)
	if err != nil {
		opts.Logger.Warn("diagram not hashable, skipping artifact cache", "error", err)
	}
	key := func(f export.Format) string {
		return r.Keyer.ArtifactKey(diagramHash, cache.ArtifactKeyOpts{
			Format: string(f),
			Tier:   t.Name,
			Scale:  r.scale(f),
		})
	}

	if diagramHash != "" && !opts.Refresh {
		cached := make([]export.Artifact, 0, len(formats))
		for _, f := range formats {
			data, hit, err := r.Cache.Get(ctx, key(f))
			if err != nil || !hit {
				break
			}
			cached = append(cached, export.Artifact{Format: f, Data: data})
		}
		if len(cached) == len(formats) {
			// Gating still applies to cached artifacts.
			for _, f := range formats {
				if err := t.CheckExport(string(f)); err != nil {
					return nil, false, err
				}
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			return cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	arts, err := export.Run(ctx, r.observedExporter(), d, t, formats)
	if err != nil {
		return nil, false, err
	}

	if diagramHash != "" {
		for _, a := range arts {
			if err := r.Cache.Set(ctx, key(a.Format), a.Data, cache.ArtifactTTL); err != nil {
				opts.Logger.Warn("artifact cache write failed", "format", a.Format, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(a.Data))
		}
	}
	return arts, false, nil
}

// observedExporter reports every export to the pipeline hooks.
func (r *Runner) observedExporter() export.Exporter {
	e := r.Exporter
	if e == nil {
		e = export.Default{}
	}
	return export.ExporterFunc(func(ctx context.Context, d diagram.Diagram, f export.Format) ([]byte, error) {
		start := time.Now()
		data, err := e.Export(ctx, d, f)
		observability.Pipeline().OnExportComplete(ctx, string(f), len(data), time.Since(start), err)
		return data, err
	})
}

// scale is the raster scale that affects f, or 0.
func (r *Runner) scale(f export.Format) float64 {
	if f != export.FormatPNG {
		return 0
	}
	if d, ok := r.Exporter.(export.Default); ok && d.Scale > 0 {
		return d.Scale
	}
	return 2
}
