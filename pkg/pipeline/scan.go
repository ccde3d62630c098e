package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/observability"
)

// Scan extracts the flow graph of the source page and applies the checks
// that must pass before any layout work: the graph must have screens and
// the tier must allow that many. Both failures are also sent to the
// source's notifier.
func (r *Runner) Scan(ctx context.Context, src Source, opts Options) (flow.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return flow.Graph{}, err
	}
	if src.Page == nil || src.Host == nil {
		return flow.Graph{}, errors.New(errors.ErrCodeInvalidInput, "source has no page to scan")
	}

	start := time.Now()
	g := flow.Extract(src.Page, src.Host)
	observability.Pipeline().OnScanComplete(ctx, len(g.Nodes), len(g.Edges), time.Since(start))

	if err := check(g, opts); err != nil {
		observability.Pipeline().OnRejected(ctx, string(errors.GetCode(err)))
		src.notify(errors.UserMessage(err))
		opts.Logger.Debug("scan rejected", "page", src.Page.Name, "code", errors.GetCode(err))
		return g, err
	}
	return g, nil
}

func check(g flow.Graph, opts Options) error {
	if g.IsEmpty() {
		return errors.New(errors.ErrCodeEmptyFlow,
			"no screens connected by prototype interactions were found on this page")
	}
	return opts.TierConfig().CheckScreens(len(g.Nodes))
}
