package scene

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrUnknownElement is returned when an ID does not resolve to an element.
	ErrUnknownElement = errors.New("unknown element")

	// ErrNoThumbnail is returned by [DocumentHost.Rasterize] when an element
	// has neither an image nor a fill to render.
	ErrNoThumbnail = errors.New("element has nothing to rasterize")

	// ErrDuplicateElement is returned by [NewHost] when two elements share an ID.
	ErrDuplicateElement = errors.New("duplicate element ID")
)

// Host answers structural queries about the scene tree.
type Host interface {
	// ResolveByID looks up an element anywhere in the document.
	ResolveByID(id string) (*Element, bool)
	// EnclosingTopLevelContainer returns the screen containing e: the
	// ancestor (or e itself) whose parent is the page, provided it is a
	// frame-like container.
	EnclosingTopLevelContainer(e *Element) (*Element, bool)
}

// Rasterizer renders PNG thumbnails. Failures are per element.
type Rasterizer interface {
	Rasterize(ctx context.Context, e *Element, scale float64) ([]byte, error)
}

// Notifier shows a short message to the user. It must not block.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

// DefaultThumbnailCacheSize is the number of rasterized thumbnails kept by a
// [DocumentHost].
const DefaultThumbnailCacheSize = 256

// DocumentHost implements [Host], [Rasterizer] and [Notifier] over an
// in-memory [Document]. It is safe for concurrent reads once constructed.
type DocumentHost struct {
	doc     *Document
	index   map[string]*Element
	baseDir string
	// noFiles disables reading element images from disk.
	noFiles bool
	thumbs  *lru.Cache[string, []byte]
	logger  *log.Logger
}

// HostOption configures a [DocumentHost].
type HostOption func(*DocumentHost)

// WithBaseDir sets the directory element images are resolved against.
func WithBaseDir(dir string) HostOption {
	return func(h *DocumentHost) { h.baseDir = dir }
}

// WithoutImageFiles makes the host ignore element image paths, so only
// fills are rasterized. Hosts built for documents received from untrusted
// callers must use it.
func WithoutImageFiles() HostOption {
	return func(h *DocumentHost) { h.noFiles = true }
}

// WithLogger routes notifications to logger.
func WithLogger(logger *log.Logger) HostOption {
	return func(h *DocumentHost) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHost indexes doc, links parent pointers and returns a host for it.
func NewHost(doc *Document, opts ...HostOption) (*DocumentHost, error) {
	thumbs, err := lru.New[string, []byte](DefaultThumbnailCacheSize)
	if err != nil {
		return nil, fmt.Errorf("thumbnail cache: %w", err)
	}
	h := &DocumentHost{
		doc:    doc,
		index:  make(map[string]*Element),
		thumbs: thumbs,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, p := range doc.Pages {
		if err := h.link(p); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *DocumentHost) link(p *Page) error {
	var visit func(e, parent *Element) error
	visit = func(e, parent *Element) error {
		if e.ID == "" {
			return fmt.Errorf("page %q: element %q has no id", p.Name, e.Name)
		}
		if _, dup := h.index[e.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateElement, e.ID)
		}
		e.parent, e.page = parent, p
		h.index[e.ID] = e
		for _, c := range e.Children {
			if err := visit(c, e); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range p.Children {
		if err := visit(c, nil); err != nil {
			return err
		}
	}
	return nil
}

// Document returns the underlying document.
func (h *DocumentHost) Document() *Document { return h.doc }

// ResolveByID implements [Host].
func (h *DocumentHost) ResolveByID(id string) (*Element, bool) {
	e, ok := h.index[id]
	return e, ok
}

// EnclosingTopLevelContainer implements [Host] with an iterative walk up
// the parent pointers.
func (h *DocumentHost) EnclosingTopLevelContainer(e *Element) (*Element, bool) {
	return EnclosingTopLevelContainer(e)
}

// EnclosingTopLevelContainer walks from e to its top-level ancestor and
// returns it if it is a frame-like container.
func EnclosingTopLevelContainer(e *Element) (*Element, bool) {
	if e == nil {
		return nil, false
	}
	for e.parent != nil {
		e = e.parent
	}
	if !e.Type.IsContainer() {
		return nil, false
	}
	return e, true
}

// Notify implements [Notifier] by logging the message.
func (h *DocumentHost) Notify(msg string) {
	h.logger.Warn(msg)
}

func (h *DocumentHost) imagePath(e *Element) string {
	if filepath.IsAbs(e.Image) || h.baseDir == "" {
		return e.Image
	}
	return filepath.Join(h.baseDir, e.Image)
}
