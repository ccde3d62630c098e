package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/observability"
	"github.com/matzehuels/screenflow/pkg/scene"
)

// Thumbnails rasterizes one thumbnail per screen, at most
// opts.ThumbnailConcurrency at a time. The result is keyed by screen ID and
// only holds successful renders; failed is the number of screens left
// without one. A failure never fails the request.
func (r *Runner) Thumbnails(ctx context.Context, src Source, g flow.Graph, opts Options) (thumbs map[string][]byte, failed int) {
	r.applyLogger(&opts)
	thumbs = make(map[string][]byte, len(g.Nodes))
	if opts.NoThumbnails || src.Rasterizer == nil || src.Host == nil {
		return thumbs, 0
	}
	concurrency := opts.ThumbnailConcurrency
	if concurrency <= 0 {
		concurrency = DefaultThumbnailConcurrency
	}
	cfg := opts.Layout.WithDefaults()

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for _, n := range g.Nodes {
		eg.Go(func() error {
			data, err := thumbnail(egCtx, src, n, cfg.CardWidth, cfg.CardHeight)
			observability.Pipeline().OnThumbnail(egCtx, n.ID, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				opts.Logger.Warn("thumbnail unavailable", "screen", n.Name, "id", n.ID, "err", err)
				return nil
			}
			thumbs[n.ID] = data
			return nil
		})
	}
	_ = eg.Wait()
	return thumbs, failed
}

// thumbnail renders a screen scaled to fit a card. A panicking rasterizer
// counts as a failed thumbnail.
func thumbnail(ctx context.Context, src Source, n flow.ScreenNode, cardW, cardH float64) (data []byte, err error) {
	defer errors.Recover(&err)
	if n.Width <= 0 || n.Height <= 0 {
		return nil, fmt.Errorf("screen has no size")
	}
	e, ok := src.Host.ResolveByID(n.ID)
	if !ok {
		return nil, scene.ErrUnknownElement
	}
	return src.Rasterizer.Rasterize(ctx, e, ThumbnailScale(n, cardW, cardH))
}

// ThumbnailScale is the largest scale at which a screen fits a card.
func ThumbnailScale(n flow.ScreenNode, cardW, cardH float64) float64 {
	return min(cardW/float64(n.Width), cardH/float64(n.Height))
}
