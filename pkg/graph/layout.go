package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/layout"
)

// MarshalLayout encodes a layout as indented JSON.
func MarshalLayout(l layout.Result) ([]byte, error) {
	if l.Nodes == nil {
		l.Nodes = []layout.Node{}
	}
	if l.Edges == nil {
		l.Edges = []layout.Edge{}
	}
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes a layout and checks that it can be composed.
func UnmarshalLayout(data []byte) (layout.Result, error) {
	var l layout.Result
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed layout")
	}

	dir, err := layout.ParseDirection(string(l.Direction))
	if err != nil {
		return layout.Result{}, err
	}
	l.Direction = dir

	nodes := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" || nodes[n.ID] {
			return layout.Result{}, errors.New(errors.ErrCodeInvalidInput, "layout node %q is missing or duplicated", n.ID)
		}
		if n.Width <= 0 || n.Height <= 0 {
			return layout.Result{}, errors.New(errors.ErrCodeInvalidInput, "layout node %q has no card size", n.ID)
		}
		nodes[n.ID] = true
	}
	for _, e := range l.Edges {
		if !nodes[e.SourceID] || !nodes[e.TargetID] {
			return layout.Result{}, errors.New(errors.ErrCodeInvalidInput,
				"layout edge %s -> %s references an unpositioned node", e.SourceID, e.TargetID)
		}
	}
	if l.Nodes == nil {
		l.Nodes = []layout.Node{}
	}
	if l.Edges == nil {
		l.Edges = []layout.Edge{}
	}
	return l, nil
}

// WriteLayoutFile writes a layout to path.
func WriteLayoutFile(l layout.Result, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a layout from path.
func ReadLayoutFile(path string) (layout.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
