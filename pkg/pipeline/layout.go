package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/screenflow/pkg/cache"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/observability"
)

// LayoutWithCacheInfo positions the graph with the requested engine and
// reports whether the result came from the cache. Cache failures never fail
// the request.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g flow.Graph, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Result{}, false, err
	}

	key := ""
	if graphHash, err := cache.HashJSON(g); err == nil {
		key = r.Keyer.LayoutKey(graphHash, layoutKeyOpts(opts))
	}

	if key != "" && !opts.Refresh {
		cached, hit, err := cache.GetJSON[layout.Result](ctx, r.Cache, key)
		if err != nil {
			opts.Logger.Warn("layout cache read failed", "error", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := Layout(ctx, g, opts)
	if err != nil {
		return layout.Result{}, false, err
	}

	if key != "" {
		data, err := json.Marshal(l)
		if err == nil {
			err = r.Cache.Set(ctx, key, data, cache.LayoutTTL)
		}
		if err != nil {
			opts.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout runs the requested engine without caching.
func Layout(ctx context.Context, g flow.Graph, opts Options) (layout.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Result{}, err
	}
	engine, err := layout.New(opts.Engine, opts.Layout)
	if err != nil {
		return layout.Result{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, engine.Name(), len(g.Nodes))
	start := time.Now()
	l, err := engine.Layout(ctx, g, opts.Dir())
	hooks.OnLayoutComplete(ctx, engine.Name(), time.Since(start), err)
	return l, err
}

func layoutKeyOpts(opts Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:  opts.Direction,
		Engine:     opts.Engine,
		CardWidth:  opts.Layout.CardWidth,
		CardHeight: opts.Layout.CardHeight,
		RankSep:    opts.Layout.RankSep,
		NodeSep:    opts.Layout.NodeSep,
		Passes:     opts.Layout.Passes,
	}
}
