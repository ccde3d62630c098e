package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
)

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   string
	}{
		{
			name:      "valid",
			input:     `{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source_id": "a", "target_id": "b"}]}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:  "empty",
			input: `{}`,
		},
		{
			name:    "malformed",
			input:   `{invalid json}`,
			wantErr: "malformed graph",
		},
		{
			name:    "duplicate node",
			input:   `{"nodes": [{"id": "a"}, {"id": "a"}]}`,
			wantErr: "duplicate node",
		},
		{
			name:    "missing id",
			input:   `{"nodes": [{"name": "Home"}]}`,
			wantErr: "has no id",
		},
		{
			name:    "negative size",
			input:   `{"nodes": [{"id": "a", "width": -1}]}`,
			wantErr: "negative size",
		},
		{
			name:    "unknown target",
			input:   `{"nodes": [{"id": "a"}], "edges": [{"source_id": "a", "target_id": "b"}]}`,
			wantErr: "unknown node",
		},
		{
			name:    "self loop",
			input:   `{"nodes": [{"id": "a"}], "edges": [{"source_id": "a", "target_id": "a"}]}`,
			wantErr: "self loop",
		},
		{
			name:    "unknown starting point",
			input:   `{"nodes": [{"id": "a"}], "starting_point_ids": ["z"]}`,
			wantErr: "starting point",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want INVALID_INPUT containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Edges) != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
			}
			if g.Nodes == nil || g.Edges == nil || g.StartingPointIDs == nil {
				t.Error("nil slices after read")
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	g := flow.Graph{
		Nodes: []flow.ScreenNode{{ID: "a", Name: "A", Width: 10, Height: 20}, {ID: "b", Name: "B"}},
		Edges: []flow.Transition{
			{SourceID: "a", TargetID: "b", Trigger: "ON_HOVER", Action: "OVERLAY"},
			{SourceID: "b", TargetID: "a", Trigger: "ON_CLICK", Action: "NAVIGATE"},
		},
		StartingPointIDs: []string{"a"},
	}
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if got.Edges[0] != g.Edges[0] || got.Nodes[0] != g.Nodes[0] || got.StartingPointIDs[0] != "a" {
		t.Errorf("round trip changed the graph: %+v", got)
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUnmarshalLayout(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantDir layout.Direction
		wantErr bool
	}{
		{
			name:    "empty direction defaults",
			input:   `{"nodes": [], "edges": []}`,
			wantDir: layout.LeftToRight,
		},
		{
			name: "valid",
			input: `{"direction": "TB", "engine": "layered",
				"nodes": [{"id": "a", "render_width": 240, "render_height": 180},
				          {"id": "b", "y": 340, "render_width": 240, "render_height": 180}],
				"edges": [{"source_id": "a", "target_id": "b"}]}`,
			wantDir: layout.TopToBottom,
		},
		{name: "malformed", input: `[`, wantErr: true},
		{name: "bad direction", input: `{"direction": "RL"}`, wantErr: true},
		{name: "no card size", input: `{"nodes": [{"id": "a"}]}`, wantErr: true},
		{
			name:    "unpositioned edge",
			input:   `{"nodes": [{"id": "a", "render_width": 1, "render_height": 1}], "edges": [{"source_id": "a", "target_id": "b"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalLayout: %v", err)
			}
			if l.Direction != tt.wantDir {
				t.Errorf("Direction = %q, want %q", l.Direction, tt.wantDir)
			}
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l, err := layout.Layered{Config: layout.DefaultConfig()}.Layout(t.Context(), flow.Graph{
		Nodes: []flow.ScreenNode{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Edges: []flow.Transition{{SourceID: "a", TargetID: "b", Trigger: "ON_CLICK", Action: "NAVIGATE"}},
	}, layout.LeftToRight)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 || got.Engine != "layered" {
		t.Errorf("round trip changed the layout: %+v", got)
	}
	b, _ := got.Node("b")
	a, _ := got.Node("a")
	if b.X <= a.X {
		t.Errorf("b.X = %g not right of a.X = %g", b.X, a.X)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
