package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface with Prometheus metrics.
type PrometheusHooks struct {
	ScreensScanned   prometheus.Histogram
	Rejections       *prometheus.CounterVec
	Thumbnails       *prometheus.CounterVec
	LayoutDuration   *prometheus.HistogramVec
	LayoutsTotal     *prometheus.CounterVec
	DiagramsComposed *prometheus.CounterVec
	ExportsTotal     *prometheus.CounterVec
	ExportBytes      *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	CacheBytes       *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// NewPrometheusHooks registers the screenflow metrics with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		ScreensScanned: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "screenflow_scan_screens",
			Help:    "Screens found per scanned page",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_rejections_total",
			Help: "Generations stopped with a user-facing error",
		}, []string{"code"}),
		Thumbnails: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_thumbnails_total",
			Help: "Thumbnail rasterizations by outcome",
		}, []string{"status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screenflow_layout_duration_seconds",
			Help:    "Layout computation time",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine"}),
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_layouts_total",
			Help: "Layouts computed by engine and outcome",
		}, []string{"engine", "status"}),
		DiagramsComposed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_diagrams_composed_total",
			Help: "Diagrams composed per tier",
		}, []string{"tier"}),
		ExportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_exports_total",
			Help: "Exports by format and outcome",
		}, []string{"format", "status"}),
		ExportBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screenflow_export_bytes",
			Help:    "Size of exported artifacts",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_cache_lookups_total",
			Help: "Cache lookups by key type and result",
		}, []string{"type", "result"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}, []string{"type"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screenflow_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screenflow_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *PrometheusHooks) OnScanComplete(_ context.Context, screens, _ int, _ time.Duration) {
	p.ScreensScanned.Observe(float64(screens))
}

func (p *PrometheusHooks) OnRejected(_ context.Context, code string) {
	p.Rejections.WithLabelValues(code).Inc()
}

func (p *PrometheusHooks) OnThumbnail(_ context.Context, _ string, err error) {
	p.Thumbnails.WithLabelValues(status(err)).Inc()
}

func (p *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	p.LayoutsTotal.WithLabelValues(engine, status(err)).Inc()
	if err == nil {
		p.LayoutDuration.WithLabelValues(engine).Observe(d.Seconds())
	}
}

func (p *PrometheusHooks) OnComposeComplete(_ context.Context, tier string, _, _ int) {
	p.DiagramsComposed.WithLabelValues(tier).Inc()
}

func (p *PrometheusHooks) OnExportComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	p.ExportsTotal.WithLabelValues(format, status(err)).Inc()
	if err == nil {
		p.ExportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ ServerHooks   = (*PrometheusHooks)(nil)
)
