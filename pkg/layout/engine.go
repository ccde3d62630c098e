package layout

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
)

// Engine names accepted by [New].
const (
	EngineLayered  = "layered"
	EngineGraphviz = "graphviz"
)

// Engines lists the available engine names, default first.
var Engines = []string{EngineLayered, EngineGraphviz}

// Engine computes a layout. Implementations must be deterministic for a
// fixed graph, direction and configuration.
type Engine interface {
	Name() string
	Layout(ctx context.Context, g flow.Graph, dir Direction) (Result, error)
}

// New returns the engine registered under name ("" selects layered) with
// cfg, after filling defaults and validating it.
func New(name string, cfg Config) (Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(name) {
	case "", EngineLayered:
		return Layered{Config: cfg}, nil
	case EngineGraphviz:
		return Graphviz{Config: cfg}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine %q (available: %s)",
		name, strings.Join(Engines, ", "))
}

// ValidEngine reports whether name selects an engine.
func ValidEngine(name string) bool {
	return name == "" || slices.Contains(Engines, strings.ToLower(name))
}
