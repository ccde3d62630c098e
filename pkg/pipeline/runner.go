package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/screenflow/pkg/cache"
	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/export"
	"github.com/matzehuels/screenflow/pkg/observability"
	"github.com/matzehuels/screenflow/pkg/store"
)

// Runner executes the pipeline with caching and the live diagram store.
//
// A Runner holds no per-request state. Multiple goroutines can use the same
// Runner with different options and sources.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Store    store.Store
	Exporter export.Exporter
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil store
// keeps live diagrams in memory and a nil logger uses the default logger.
func NewRunner(c cache.Cache, st store.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    cache.NewDefaultKeyer(),
		Store:    st,
		Exporter: export.Default{},
		Logger:   logger,
	}
}

// Generate runs every stage for one page. EMPTY_FLOW and TIER_LIMIT stop the
// request before thumbnails or layout; FEATURE_GATED stops it before any
// export; EXPORT_FAILED stops it before the live diagram is replaced.
func (r *Runner) Generate(ctx context.Context, src Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	res := &Result{}

	// Stage 1: Scan
	start := time.Now()
	g, err := r.Scan(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	res.Graph = g
	res.Stats.ScanTime = time.Since(start)
	res.Stats.Screens, res.Stats.Transitions = len(g.Nodes), len(g.Edges)
	logger.Info("scanned page",
		"page", src.Page.Name,
		"screens", len(g.Nodes),
		"transitions", len(g.Edges),
		"duration", res.Stats.ScanTime)

	// Gate exports before any expensive work.
	t := opts.TierConfig()
	for _, f := range opts.ExportFormats() {
		if err := t.CheckExport(string(f)); err != nil {
			observability.Pipeline().OnRejected(ctx, string(errors.GetCode(err)))
			src.notify(errors.UserMessage(err))
			return nil, err
		}
	}

	// Stage 2: Thumbnails
	start = time.Now()
	thumbs, failed := r.Thumbnails(ctx, src, g, opts)
	res.Stats.ThumbnailTime = time.Since(start)
	res.Stats.Thumbnails, res.Stats.ThumbnailsFailed = len(thumbs), failed
	if failed > 0 {
		logger.Warn("some thumbnails are missing", "failed", failed)
	}

	// Stage 3: Layout
	start = time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.Layout = l
	res.Stats.LayoutTime = time.Since(start)
	res.CacheInfo.LayoutHit = hit
	logger.Info("computed layout",
		"engine", l.Engine,
		"direction", l.Direction,
		"cached", hit,
		"duration", res.Stats.LayoutTime)

	// Stage 4: Compose
	res.Diagram = r.Compose(ctx, src, l, thumbs, opts)

	// Stage 5: Export
	start = time.Now()
	arts, hit, err := r.ExportWithCacheInfo(ctx, res.Diagram, opts)
	if err != nil {
		src.notify(errors.UserMessage(err))
		return nil, err
	}
	res.Artifacts = arts
	res.Stats.ExportTime = time.Since(start)
	res.CacheInfo.ExportHit = hit
	logger.Info("exported diagram",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.ExportTime)

	// Stage 6: Store
	rec := store.Record{Name: src.ContextName(), Tier: t.Name, Diagram: res.Diagram}
	rec, replaced, err := r.Store.Put(ctx, rec)
	if err != nil {
		return nil, errors.Internal(err)
	}
	res.Record, res.Replaced = rec, replaced
	logger.Debug("stored live diagram", "name", rec.Name, "id", rec.ID, "replaced", replaced)

	return res, nil
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
