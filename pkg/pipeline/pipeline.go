// Package pipeline runs flow generation end to end for the CLI and the HTTP
// server.
//
// # Stages
//
//  1. Scan: extract the flow graph of a page, reject empty flows and flows
//     above the tier's screen ceiling
//  2. Thumbnails: rasterize every screen concurrently; failures degrade to a
//     card without thumbnail
//  3. Layout: position screens and route transitions (cached)
//  4. Compose: build the diagram with tier-gated colors and badges
//  5. Export: render the requested formats (gated, cached)
//  6. Store: replace the live diagram of the source context
//
// # Usage
//
//	host, _ := scene.Open("shop.yaml")
//	src, _ := pipeline.DocumentSource(host, "")
//	runner := pipeline.NewRunner(cache.NewNullCache(), store.NewMemoryStore(), logger)
//	res, err := runner.Generate(ctx, src, pipeline.Options{Tier: "pro", Formats: []string{"svg"}})
//
// Tier and direction are request parameters; the runner keeps no state
// between requests besides its cache and store.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/export"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/scene"
	"github.com/matzehuels/screenflow/pkg/store"
	"github.com/matzehuels/screenflow/pkg/tier"
)

// DefaultThumbnailConcurrency bounds parallel thumbnail rasterization.
const DefaultThumbnailConcurrency = 4

// Options configures one generation request. It is JSON-encodable for the
// HTTP API.
type Options struct {
	Tier      string        `json:"tier,omitempty"`
	Direction string        `json:"direction,omitempty"`
	Engine    string        `json:"engine,omitempty"`
	Formats   []string      `json:"formats,omitempty"`
	Layout    layout.Config `json:"layout"`

	// RoutedEdges draws arrows along the layout's bend points.
	RoutedEdges          bool `json:"routed_edges,omitempty"`
	NoThumbnails         bool `json:"no_thumbnails,omitempty"`
	ThumbnailConcurrency int  `json:"thumbnail_concurrency,omitempty" validate:"gte=0,lte=64"`
	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
	dir       layout.Direction
	formats   []export.Format
}

// ValidateAndSetDefaults normalizes every field and reports the first invalid
// one. Unknown tiers are not an error; they resolve to free. Calling it again
// is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ThumbnailConcurrency == 0 {
		o.ThumbnailConcurrency = DefaultThumbnailConcurrency
	}
	o.Layout = o.Layout.WithDefaults()
	if err := errors.ValidateStruct(o); err != nil {
		return err
	}

	dir, err := layout.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.dir, o.Direction = dir, dir.String()

	o.Engine = strings.ToLower(strings.TrimSpace(o.Engine))
	if o.Engine == "" {
		o.Engine = layout.EngineLayered
	}
	if _, err := layout.New(o.Engine, o.Layout); err != nil {
		return err
	}

	formats, err := export.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	o.formats = formats
	o.Formats = make([]string, len(formats))
	for i, f := range formats {
		o.Formats[i] = string(f)
	}

	o.Tier = o.TierConfig().Name
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// TierConfig resolves the requested tier.
func (o *Options) TierConfig() tier.Config { return tier.Resolve(o.Tier) }

// Dir returns the parsed direction. Valid after ValidateAndSetDefaults.
func (o *Options) Dir() layout.Direction { return o.dir }

// ExportFormats returns the parsed formats. Valid after ValidateAndSetDefaults.
func (o *Options) ExportFormats() []export.Format { return o.formats }

// Source is the host side of a request: the page to diagram and the
// collaborators that resolve, rasterize and notify. Rasterizer and Notifier
// may be nil.
type Source struct {
	Document   string
	Page       *scene.Page
	Host       scene.Host
	Rasterizer scene.Rasterizer
	Notifier   scene.Notifier
}

// DocumentSource selects a page of a loaded document ("" for the first).
func DocumentSource(h *scene.DocumentHost, pageRef string) (Source, error) {
	page, ok := h.Document().Page(pageRef)
	if !ok {
		return Source{}, errors.New(errors.ErrCodeNotFound, "page %q not found in %q", pageRef, h.Document().Name)
	}
	return Source{
		Document:   h.Document().Name,
		Page:       page,
		Host:       h,
		Rasterizer: h,
		Notifier:   h,
	}, nil
}

// ContextName identifies the live diagram slot of the source.
func (s Source) ContextName() string {
	if s.Page == nil {
		return s.Document
	}
	return s.Document + "#" + s.Page.ID
}

// DiagramName is the container name shown on the diagram.
func (s Source) DiagramName() string {
	if s.Page == nil {
		return diagram.DefaultName
	}
	name := s.Page.Name
	if name == "" {
		name = s.Page.ID
	}
	return diagram.DefaultName + ": " + name
}

func (s Source) notify(msg string) {
	if s.Notifier != nil {
		s.Notifier.Notify(msg)
	}
}

// Result holds every intermediate product of a generation.
type Result struct {
	Graph     flow.Graph        `json:"graph"`
	Layout    layout.Result     `json:"layout"`
	Diagram   diagram.Diagram   `json:"diagram"`
	Artifacts []export.Artifact `json:"artifacts,omitempty"`
	// Record is the stored live diagram; Replaced reports whether it took
	// the place of an earlier one.
	Record    store.Record `json:"record"`
	Replaced  bool         `json:"replaced"`
	Stats     Stats        `json:"stats"`
	CacheInfo CacheInfo    `json:"cache"`
}

// Artifact returns the exported bytes of format f.
func (r *Result) Artifact(f export.Format) ([]byte, bool) {
	for _, a := range r.Artifacts {
		if a.Format == f {
			return a.Data, true
		}
	}
	return nil, false
}

// Stats contains timing and size information.
type Stats struct {
	Screens          int           `json:"screens"`
	Transitions      int           `json:"transitions"`
	Thumbnails       int           `json:"thumbnails"`
	ThumbnailsFailed int           `json:"thumbnails_failed"`
	ScanTime         time.Duration `json:"scan_time"`
	ThumbnailTime    time.Duration `json:"thumbnail_time"`
	LayoutTime       time.Duration `json:"layout_time"`
	ExportTime       time.Duration `json:"export_time"`
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
	ExportHit bool `json:"export_hit"`
}
