package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/screenflow/pkg/cache"
	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/export"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/scene"
	"github.com/matzehuels/screenflow/pkg/store"
)

var discard = log.NewWithOptions(io.Discard, log.Options{})

// chainDoc builds a page of n filled screens where screen i links to i+1.
func chainDoc(n int) *scene.Document {
	page := &scene.Page{ID: "0:1", Name: "Checkout"}
	for i := range n {
		e := &scene.Element{
			ID:     fmt.Sprintf("%d:1", i+1),
			Name:   fmt.Sprintf("Screen %d", i+1),
			Type:   scene.TypeFrame,
			Width:  375,
			Height: 812,
			Fill:   "#6366F1",
		}
		if i < n-1 {
			e.Children = []*scene.Element{{
				ID:   fmt.Sprintf("%d:2", i+1),
				Name: "Next",
				Type: scene.TypeInstance,
				Reactions: []scene.Reaction{{
					Trigger: &scene.Trigger{Type: "ON_CLICK"},
					Action:  &scene.Action{DestinationID: fmt.Sprintf("%d:1", i+2)},
				}},
			}}
		}
		page.Children = append(page.Children, e)
	}
	return &scene.Document{Name: "Shop", Pages: []*scene.Page{page}}
}

type testSource struct {
	Source
	messages []string
}

func newSource(t *testing.T, doc *scene.Document) *testSource {
	t.Helper()
	h, err := scene.NewHost(doc, scene.WithLogger(discard))
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	src, err := DocumentSource(h, "")
	if err != nil {
		t.Fatalf("DocumentSource: %v", err)
	}
	ts := &testSource{Source: src}
	ts.Notifier = scene.NotifierFunc(func(msg string) { ts.messages = append(ts.messages, msg) })
	return ts
}

func newRunner(c cache.Cache) *Runner {
	return NewRunner(c, store.NewMemoryStore(), discard)
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
		check    func(t *testing.T, o Options)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, o Options) {
				if o.Direction != "LR" || o.Engine != "layered" || o.Tier != "free" {
					t.Errorf("got direction=%q engine=%q tier=%q", o.Direction, o.Engine, o.Tier)
				}
				if len(o.Formats) != 1 || o.Formats[0] != "svg" {
					t.Errorf("Formats = %v, want [svg]", o.Formats)
				}
				if o.ThumbnailConcurrency != DefaultThumbnailConcurrency {
					t.Errorf("ThumbnailConcurrency = %d", o.ThumbnailConcurrency)
				}
				if o.Layout.CardWidth == 0 || o.Logger == nil {
					t.Error("layout defaults or logger not applied")
				}
			},
		},
		{
			name: "normalizes",
			opts: Options{Tier: "PRO", Direction: "vertical", Engine: " Graphviz ", Formats: []string{"PNG", "svg", "png"}},
			check: func(t *testing.T, o Options) {
				if o.Direction != "TB" || o.Engine != "graphviz" || o.Tier != "pro" {
					t.Errorf("got direction=%q engine=%q tier=%q", o.Direction, o.Engine, o.Tier)
				}
				if strings.Join(o.Formats, ",") != "png,svg" {
					t.Errorf("Formats = %v", o.Formats)
				}
			},
		},
		{
			name: "unknown tier is free",
			opts: Options{Tier: "enterprise"},
			check: func(t *testing.T, o Options) {
				if o.Tier != "free" {
					t.Errorf("Tier = %q", o.Tier)
				}
			},
		},
		{name: "bad direction", opts: Options{Direction: "diagonal"}, wantCode: errors.ErrCodeInvalidDirection},
		{name: "bad engine", opts: Options{Engine: "force"}, wantCode: errors.ErrCodeInvalidEngine},
		{name: "bad format", opts: Options{Formats: []string{"gif"}}, wantCode: errors.ErrCodeInvalidFormat},
		{name: "bad concurrency", opts: Options{ThumbnailConcurrency: 1000}, wantCode: errors.ErrCodeInvalidInput},
		{
			name:     "huge cards",
			opts:     Options{Layout: layout.Config{CardWidth: 1e12, CardHeight: 1e12}},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "huge separation",
			opts:     Options{Layout: layout.Config{RankSep: layout.MaxSeparation + 1}},
			wantCode: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			err := o.ValidateAndSetDefaults()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			tt.check(t, o)
		})
	}
}

func TestGenerate_EmptyFlow(t *testing.T) {
	doc := chainDoc(1)
	src := newSource(t, doc)

	_, err := newRunner(nil).Generate(context.Background(), src.Source, Options{})
	if !errors.Is(err, errors.ErrCodeEmptyFlow) {
		t.Fatalf("err = %v, want EMPTY_FLOW", err)
	}
	if len(src.messages) != 1 || !strings.Contains(src.messages[0], "no screens") {
		t.Errorf("messages = %v", src.messages)
	}
}

func TestGenerate_TierLimit(t *testing.T) {
	src := newSource(t, chainDoc(11))
	r := newRunner(nil)

	_, err := r.Generate(context.Background(), src.Source, Options{Tier: "free"})
	if !errors.Is(err, errors.ErrCodeTierLimit) {
		t.Fatalf("err = %v, want TIER_LIMIT", err)
	}
	if got := errors.UserMessage(err); got != "found 11 screens, the free tier allows up to 10" {
		t.Errorf("message = %q", got)
	}

	res, err := r.Generate(context.Background(), src.Source, Options{Tier: "pro", NoThumbnails: true})
	if err != nil {
		t.Fatalf("pro Generate: %v", err)
	}
	if len(res.Diagram.Cards) != 11 {
		t.Errorf("cards = %d, want 11", len(res.Diagram.Cards))
	}
}

type countingRasterizer struct{ calls int }

func (c *countingRasterizer) Rasterize(context.Context, *scene.Element, float64) ([]byte, error) {
	c.calls++
	return []byte("png"), nil
}

func TestGenerate_PDFGatedBeforeThumbnails(t *testing.T) {
	src := newSource(t, chainDoc(3))
	rast := &countingRasterizer{}
	src.Rasterizer = rast
	r := newRunner(nil)

	_, err := r.Generate(context.Background(), src.Source, Options{Formats: []string{"svg", "pdf"}})
	if !errors.Is(err, errors.ErrCodeFeatureGated) {
		t.Fatalf("err = %v, want FEATURE_GATED", err)
	}
	if rast.calls != 0 {
		t.Errorf("rasterized %d thumbnails before gating", rast.calls)
	}
	if len(src.messages) != 1 {
		t.Errorf("messages = %v", src.messages)
	}
	if recs, _ := r.Store.List(context.Background()); len(recs) != 0 {
		t.Errorf("stored %d records", len(recs))
	}
}

func TestGenerate_TierControlsStyling(t *testing.T) {
	for _, tc := range []struct {
		tier       string
		wantBadges int
	}{
		{"free", 0},
		{"pro", 2},
	} {
		t.Run(tc.tier, func(t *testing.T) {
			src := newSource(t, chainDoc(3))
			res, err := newRunner(nil).Generate(context.Background(), src.Source, Options{
				Tier:    tc.tier,
				Formats: []string{"svg", "json"},
			})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if res.Stats.Screens != 3 || res.Stats.Transitions != 2 {
				t.Errorf("stats = %+v", res.Stats)
			}
			if len(res.Diagram.Badges) != tc.wantBadges {
				t.Errorf("badges = %d, want %d", len(res.Diagram.Badges), tc.wantBadges)
			}
			for _, a := range res.Diagram.Arrows {
				if tc.tier == "free" && a.Color != diagram.NeutralColor {
					t.Errorf("free arrow color = %s", a.Color)
				}
			}
			svg, ok := res.Artifact(export.FormatSVG)
			if !ok || !strings.HasPrefix(string(svg), "<svg") {
				t.Errorf("svg artifact missing or malformed")
			}
			if _, ok := res.Artifact(export.FormatJSON); !ok {
				t.Error("json artifact missing")
			}
			if res.Diagram.Name != "Flow: Checkout" {
				t.Errorf("Name = %q", res.Diagram.Name)
			}
			if res.Stats.Thumbnails != 3 || res.Stats.ThumbnailsFailed != 0 {
				t.Errorf("thumbnails = %d/%d", res.Stats.Thumbnails, res.Stats.ThumbnailsFailed)
			}
		})
	}
}

func TestGenerate_ReplacesLiveDiagram(t *testing.T) {
	src := newSource(t, chainDoc(2))
	r := newRunner(nil)
	ctx := context.Background()

	first, err := r.Generate(ctx, src.Source, Options{})
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if first.Replaced {
		t.Error("first run reported a replacement")
	}
	second, err := r.Generate(ctx, src.Source, Options{Direction: "TB"})
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if !second.Replaced {
		t.Error("second run did not replace the live diagram")
	}
	if second.Record.Name != "Shop#0:1" || second.Record.ID == "" {
		t.Errorf("record = %+v", second.Record)
	}

	recs, err := r.Store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].Diagram.Direction != "TB" {
		t.Errorf("store holds %d records", len(recs))
	}
}

func TestGenerate_ThumbnailFailureDegrades(t *testing.T) {
	doc := chainDoc(3)
	doc.Pages[0].Children[1].Fill = ""
	src := newSource(t, doc)

	res, err := newRunner(nil).Generate(context.Background(), src.Source, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Stats.ThumbnailsFailed != 1 || res.Stats.Thumbnails != 2 {
		t.Errorf("thumbnails = %d ok, %d failed", res.Stats.Thumbnails, res.Stats.ThumbnailsFailed)
	}
	for _, c := range res.Diagram.Cards {
		if (c.ID == "2:1") != (c.Thumbnail == nil) {
			t.Errorf("card %s thumbnail = %d bytes", c.ID, len(c.Thumbnail))
		}
	}
}

type panickingRasterizer struct{}

func (panickingRasterizer) Rasterize(_ context.Context, e *scene.Element, _ float64) ([]byte, error) {
	if e.ID == "2:1" {
		panic("rasterizer crashed")
	}
	return []byte("png"), nil
}

func TestGenerate_ThumbnailPanicDegrades(t *testing.T) {
	src := newSource(t, chainDoc(3))
	src.Rasterizer = panickingRasterizer{}

	res, err := newRunner(nil).Generate(context.Background(), src.Source, Options{Tier: "pro"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Stats.ThumbnailsFailed != 1 || res.Stats.Thumbnails != 2 {
		t.Errorf("thumbnails = %d ok, %d failed", res.Stats.Thumbnails, res.Stats.ThumbnailsFailed)
	}
	if len(res.Artifacts) == 0 {
		t.Error("no artifacts produced")
	}
}

func TestGenerate_ExportFailureKeepsLiveDiagram(t *testing.T) {
	src := newSource(t, chainDoc(2))
	r := newRunner(nil)
	ctx := context.Background()

	if _, err := r.Generate(ctx, src.Source, Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	before, _ := r.Store.Get(ctx, src.ContextName())

	r.Exporter = export.ExporterFunc(func(context.Context, diagram.Diagram, export.Format) ([]byte, error) {
		return nil, fmt.Errorf("renderer crashed")
	})
	_, err := r.Generate(ctx, src.Source, Options{Direction: "TB"})
	if !errors.Is(err, errors.ErrCodeExportFailed) {
		t.Fatalf("err = %v, want EXPORT_FAILED", err)
	}
	after, _ := r.Store.Get(ctx, src.ContextName())
	if after.Diagram.Direction != before.Diagram.Direction {
		t.Error("failed export replaced the live diagram")
	}
}

func TestGenerate_CacheHits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := newRunner(c)
	defer r.Close()
	src := newSource(t, chainDoc(3))
	ctx := context.Background()
	opts := Options{Tier: "pro", Formats: []string{"svg"}}

	first, err := r.Generate(ctx, src.Source, opts)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.ExportHit {
		t.Errorf("cold run hit the cache: %+v", first.CacheInfo)
	}

	second, err := r.Generate(ctx, src.Source, opts)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.ExportHit {
		t.Errorf("warm run missed the cache: %+v", second.CacheInfo)
	}

	opts.Refresh = true
	third, err := r.Generate(ctx, src.Source, opts)
	if err != nil {
		t.Fatalf("refresh Generate: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.ExportHit {
		t.Errorf("refresh run read the cache: %+v", third.CacheInfo)
	}
}

func TestExportWithCacheInfo_CachedPDFStillGated(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := newRunner(c)
	r.Exporter = export.ExporterFunc(func(_ context.Context, _ diagram.Diagram, f export.Format) ([]byte, error) {
		return []byte(f), nil
	})
	ctx := context.Background()
	d := diagram.Diagram{Name: "Flow", Tier: "pro"}

	if _, _, err := r.ExportWithCacheInfo(ctx, d, Options{Tier: "pro", Formats: []string{"pdf"}}); err != nil {
		t.Fatalf("pro export: %v", err)
	}
	_, _, err = r.ExportWithCacheInfo(ctx, d, Options{Tier: "free", Formats: []string{"pdf"}})
	if !errors.Is(err, errors.ErrCodeFeatureGated) {
		t.Errorf("err = %v, want FEATURE_GATED", err)
	}
}

func TestScan_RequiresPage(t *testing.T) {
	_, err := newRunner(nil).Scan(context.Background(), Source{}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestDocumentSource_UnknownPage(t *testing.T) {
	h, err := scene.NewHost(chainDoc(2), scene.WithLogger(discard))
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	if _, err := DocumentSource(h, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestThumbnailScale(t *testing.T) {
	tests := []struct {
		w, h         int
		cardW, cardH float64
		want         float64
	}{
		{375, 812, 240, 180, 180.0 / 812},
		{1440, 900, 240, 180, 240.0 / 1440},
		{240, 180, 240, 180, 1},
	}
	for _, tt := range tests {
		got := ThumbnailScale(flow.ScreenNode{Width: tt.w, Height: tt.h}, tt.cardW, tt.cardH)
		if got != tt.want {
			t.Errorf("ThumbnailScale(%dx%d) = %g, want %g", tt.w, tt.h, got, tt.want)
		}
	}
}
