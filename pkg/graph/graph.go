package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
)

// MarshalGraph encodes a flow graph as indented JSON.
func MarshalGraph(g flow.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a flow graph as indented JSON to w.
func WriteGraph(g flow.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(g)); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// WriteGraphFile writes a flow graph to path with 0644 permissions.
func WriteGraphFile(g flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadGraph decodes and validates a flow graph.
func ReadGraph(r io.Reader) (flow.Graph, error) {
	var g flow.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed graph")
	}
	g = normalize(g)
	if err := ValidateGraph(g); err != nil {
		return flow.Graph{}, err
	}
	return g, nil
}

// UnmarshalGraph is [ReadGraph] over a byte slice.
func UnmarshalGraph(data []byte) (flow.Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// ReadGraphFile reads and validates the flow graph stored at path.
func ReadGraphFile(path string) (flow.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return flow.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ValidateGraph checks the structural invariants of an extracted graph.
func ValidateGraph(g flow.Graph) error {
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node %d has no id", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", n.ID)
		}
		if n.Width < 0 || n.Height < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has a negative size", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range g.Edges {
		if !seen[e.SourceID] || !seen[e.TargetID] {
			return errors.New(errors.ErrCodeInvalidInput,
				"edge %s -> %s references an unknown node", e.SourceID, e.TargetID)
		}
		if e.SourceID == e.TargetID {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s -> %s is a self loop", e.SourceID, e.TargetID)
		}
	}
	for _, id := range g.StartingPointIDs {
		if !seen[id] {
			return errors.New(errors.ErrCodeInvalidInput, "starting point %q is not a node", id)
		}
	}
	return nil
}

// normalize replaces nil slices with empty ones and fills edge defaults.
func normalize(g flow.Graph) flow.Graph {
	if g.Nodes == nil {
		g.Nodes = []flow.ScreenNode{}
	}
	if g.StartingPointIDs == nil {
		g.StartingPointIDs = []string{}
	}
	edges := make([]flow.Transition, len(g.Edges))
	for i, e := range g.Edges {
		if e.Trigger == "" {
			e.Trigger = flow.DefaultTrigger
		}
		if e.Action == "" {
			e.Action = flow.DefaultAction
		}
		edges[i] = e
	}
	g.Edges = edges
	return g
}
