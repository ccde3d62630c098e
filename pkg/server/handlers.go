package server

import (
	stderrors "errors"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/screenflow/pkg/buildinfo"
	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/export"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/graph"
	"github.com/matzehuels/screenflow/pkg/pipeline"
	"github.com/matzehuels/screenflow/pkg/scene"
	"github.com/matzehuels/screenflow/pkg/store"
	"github.com/matzehuels/screenflow/pkg/tier"
)

// DocumentRequest selects a page of an inline document.
type DocumentRequest struct {
	Document *scene.Document `json:"document" validate:"required"`
	// Page is a page ID or name; empty selects the first page.
	Page    string           `json:"page,omitempty" validate:"max=256"`
	Options pipeline.Options `json:"options" validate:"-"`
}

// LayoutRequest positions an extracted graph.
type LayoutRequest struct {
	Graph   *flow.Graph      `json:"graph" validate:"required"`
	Options pipeline.Options `json:"options" validate:"-"`
}

// DiagramResponse is the result of POST /v1/diagrams.
type DiagramResponse struct {
	Record    store.Record       `json:"record"`
	Replaced  bool               `json:"replaced"`
	Artifacts []export.Artifact  `json:"artifacts"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "screenflow", "version": buildinfo.Version})
}

func (s *Server) handleTiers(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, tier.All())
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	src, err := s.source(r, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	g, err := s.runner.Scan(r.Context(), src, s.options(r, req.Options))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := graph.ValidateGraph(*req.Graph); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := req.Options.TierConfig().CheckScreens(len(req.Graph.Nodes)); err != nil {
		s.respondError(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), *req.Graph, s.options(r, req.Options))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	s.respondJSON(w, http.StatusOK, l)
}

// handleGenerate runs the full pipeline. With ?artifact=svg the response is
// the raw artifact instead of JSON.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	raw := r.URL.Query().Get("artifact")
	var rawFormat export.Format
	if raw != "" {
		f, err := export.ParseFormat(raw)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		rawFormat = f
		req.Options.Formats = append(req.Options.Formats, string(f))
	}

	src, err := s.source(r, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), src, s.options(r, req.Options))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.LayoutHit && res.CacheInfo.ExportHit))
	if rawFormat != "" {
		data, _ := res.Artifact(rawFormat)
		w.Header().Set("Content-Type", rawFormat.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	status := http.StatusCreated
	if res.Replaced {
		status = http.StatusOK
	}
	s.respondJSON(w, status, DiagramResponse{
		Record:    res.Record,
		Replaced:  res.Replaced,
		Artifacts: res.Artifacts,
		Stats:     res.Stats,
		Cache:     res.CacheInfo,
	})
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	recs, err := s.runner.Store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid diagram name"))
		return
	}
	rec, err := s.runner.Store.Get(r.Context(), name)
	if stderrors.Is(err, store.ErrNotFound) {
		s.respondError(w, r, errors.New(errors.ErrCodeNotFound, "no live diagram named %q", name))
		return
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

// source indexes the inline document and selects the requested page.
// Image paths in posted documents are never read from disk.
func (s *Server) source(r *http.Request, req DocumentRequest) (pipeline.Source, error) {
	host, err := scene.NewHost(req.Document, scene.WithoutImageFiles(), scene.WithLogger(s.requestLogger(r)))
	if err != nil {
		return pipeline.Source{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid document")
	}
	return pipeline.DocumentSource(host, req.Page)
}

// options attaches the request logger to opts.
func (s *Server) options(r *http.Request, opts pipeline.Options) pipeline.Options {
	opts.Logger = s.requestLogger(r)
	return opts
}

func (s *Server) requestLogger(r *http.Request) *log.Logger {
	return s.logger.With("request_id", RequestID(r.Context()))
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
