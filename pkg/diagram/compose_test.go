package diagram

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/tier"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func card(id string, x, y float64) layout.Node {
	return layout.Node{
		ScreenNode: flow.ScreenNode{ID: id, Name: id, Width: 375, Height: 812},
		X:          x,
		Y:          y,
		Width:      240,
		Height:     180,
	}
}

func edge(from, to, trigger string, pts ...layout.Point) layout.Edge {
	return layout.Edge{
		Transition: flow.Transition{SourceID: from, TargetID: to, Trigger: trigger, Action: flow.DefaultAction},
		Points:     pts,
	}
}

func chain() layout.Result {
	return layout.Result{
		Direction: layout.LeftToRight,
		Nodes:     []layout.Node{card("A", 0, 0), card("B", 400, 0)},
		Edges:     []layout.Edge{edge("A", "B", "ON_CLICK", layout.Point{X: 240, Y: 90}, layout.Point{X: 400, Y: 90})},
	}
}

func TestCompose_Container(t *testing.T) {
	l := chain()
	d := Compose(l, AssignColors(l.Edges), tier.Resolve(tier.Free), WithName("Flow: Checkout"))

	if d.Name != "Flow: Checkout" || d.Tier != tier.Free || d.Direction != layout.LeftToRight {
		t.Errorf("header = %q %q %q", d.Name, d.Tier, d.Direction)
	}
	if d.Width != 720 || d.Height != 288 {
		t.Errorf("size = %vx%v, want 720x288", d.Width, d.Height)
	}
	if len(d.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(d.Cards))
	}
	if c := d.Cards[0]; c.X != Padding || c.Y != Padding+LabelRow {
		t.Errorf("first card at (%v,%v), want (%v,%v)", c.X, c.Y, Padding, Padding+LabelRow)
	}
	if c := d.Cards[1]; c.X != 440 || c.Width != 240 || c.Height != 180 {
		t.Errorf("second card = %+v", c)
	}
}

func TestCompose_ArrowGeometry(t *testing.T) {
	l := chain()
	d := Compose(l, AssignColors(l.Edges), tier.Resolve(tier.Pro))

	if len(d.Arrows) != 1 {
		t.Fatalf("arrows = %d, want 1", len(d.Arrows))
	}
	a := d.Arrows[0]
	half := HeadLength * math.Tan(math.Pi/6)
	if !approx(a.X, 288) || !approx(a.Y, 158-half) {
		t.Errorf("origin = (%v,%v), want (288,%v)", a.X, a.Y, 158-half)
	}
	if !approx(a.Width, 144) || !approx(a.Height, 2*half) {
		t.Errorf("box = %vx%v", a.Width, a.Height)
	}
	if want := "M 0 6.93 L 144 6.93"; a.Shaft != want {
		t.Errorf("shaft = %q, want %q", a.Shaft, want)
	}
	if want := "M 132 13.86 L 144 6.93 L 132 0"; a.Head != want {
		t.Errorf("head = %q, want %q", a.Head, want)
	}
	if a.Color != Palette[0] {
		t.Errorf("color = %s, want %s", a.Color, Palette[0])
	}
}

func TestCompose_TopToBottomAnchors(t *testing.T) {
	l := layout.Result{
		Direction: layout.TopToBottom,
		Nodes:     []layout.Node{card("A", 0, 0), card("B", 0, 340)},
		Edges:     []layout.Edge{edge("A", "B", "")},
	}
	d := Compose(l, AssignColors(l.Edges), tier.Resolve(tier.Free))
	if len(d.Arrows) != 1 {
		t.Fatalf("arrows = %d, want 1", len(d.Arrows))
	}
	a := d.Arrows[0]
	// Bottom-center of A is (160, 248), top-center of B is (160, 408).
	half := HeadLength * math.Tan(math.Pi/6)
	if !approx(a.X, 160-half) || !approx(a.Y, 256) || !approx(a.Height, 144) {
		t.Errorf("arrow = %+v", a)
	}
}

func TestCompose_TierGating(t *testing.T) {
	l := chain()
	l.Nodes = append(l.Nodes, card("C", 800, 0))
	l.Edges = append(l.Edges, edge("B", "C", "AFTER_TIMEOUT"))
	colors := AssignColors(l.Edges)

	tests := []struct {
		tier       string
		wantColors []string
		wantBadges int
	}{
		{tier.Free, []string{NeutralColor, NeutralColor}, 0},
		{tier.Pro, []string{Palette[0], Palette[1]}, 2},
		{"enterprise", []string{NeutralColor, NeutralColor}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			d := Compose(l, colors, tier.Resolve(tt.tier))
			if len(d.Arrows) != len(tt.wantColors) {
				t.Fatalf("arrows = %d", len(d.Arrows))
			}
			for i, a := range d.Arrows {
				if a.Color != tt.wantColors[i] {
					t.Errorf("arrow %d color = %s, want %s", i, a.Color, tt.wantColors[i])
				}
			}
			if len(d.Badges) != tt.wantBadges {
				t.Errorf("badges = %d, want %d", len(d.Badges), tt.wantBadges)
			}
		})
	}
}

func TestCompose_Badge(t *testing.T) {
	l := chain()
	d := Compose(l, AssignColors(l.Edges), tier.Resolve(tier.Pro))
	if len(d.Badges) != 1 {
		t.Fatalf("badges = %d, want 1", len(d.Badges))
	}
	b := d.Badges[0]
	if b.Text != "On tap" || b.Color != Palette[0] || b.Opacity != BadgeOpacity {
		t.Errorf("badge = %+v", b)
	}
	// Anchors (280,158) and (440,158): centered at x=360, lifted by BadgeOffset.
	if !approx(b.X+b.Width/2, 360) || !approx(b.Y+b.Height/2, 158-BadgeOffset) {
		t.Errorf("badge center = (%v,%v)", b.X+b.Width/2, b.Y+b.Height/2)
	}
	if b.Height != BadgeHeight || b.Width <= 2*BadgePadding {
		t.Errorf("badge size = %vx%v", b.Width, b.Height)
	}
}

func TestCompose_SkipsEdges(t *testing.T) {
	l := layout.Result{
		Direction: layout.LeftToRight,
		Nodes:     []layout.Node{card("A", 0, 0), card("B", 240, 0)},
		Edges: []layout.Edge{
			edge("A", "B", ""),       // exit of A equals entry of B
			edge("A", "missing", ""), // no card
			edge("ghost", "A", ""),
		},
	}
	d := Compose(l, AssignColors(l.Edges), tier.Resolve(tier.Pro))
	if len(d.Arrows) != 0 || len(d.Badges) != 0 {
		t.Errorf("arrows = %d, badges = %d, want none", len(d.Arrows), len(d.Badges))
	}
	if len(d.Cards) != 2 {
		t.Errorf("cards = %d, want 2", len(d.Cards))
	}
}

func TestCompose_Empty(t *testing.T) {
	d := Compose(layout.Result{Direction: layout.LeftToRight}, nil, tier.Resolve(tier.Free))
	if d.Name != DefaultName || d.Width != 2*Padding || d.Height != 2*Padding {
		t.Errorf("empty diagram = %+v", d)
	}
	if d.Cards == nil || d.Arrows == nil || d.Badges == nil {
		t.Error("slices must not be nil")
	}
}

func TestCompose_RoutedEdges(t *testing.T) {
	l := layout.Result{
		Direction: layout.LeftToRight,
		Nodes:     []layout.Node{card("A", 0, 0), card("B", 400, 0)},
		Edges: []layout.Edge{{
			Transition: flow.Transition{SourceID: "B", TargetID: "A"},
			Points: []layout.Point{
				{X: 640, Y: 90}, {X: 640, Y: 220}, {X: 240, Y: 220}, {X: 240, Y: 90},
			},
			Back: true,
		}},
	}

	straight := Compose(l, nil, tier.Resolve(tier.Free))
	routed := Compose(l, nil, tier.Resolve(tier.Free), WithRoutedEdges())

	if straight.Height != 288 {
		t.Errorf("straight height = %v, want 288", straight.Height)
	}
	// The lane at y=220 sits 40 below the cards.
	if routed.Height != 328 {
		t.Errorf("routed height = %v, want 328", routed.Height)
	}
	a := routed.Arrows[0]
	if !a.Back {
		t.Error("back flag lost")
	}
	if want := "M 406.93 16 L 406.93 138 L 6.93 138 L 6.93 0"; a.Shaft != want {
		t.Errorf("shaft = %q, want %q", a.Shaft, want)
	}
}

func TestAssignColors_Wraps(t *testing.T) {
	var edges []layout.Edge
	for i := range 7 {
		edges = append(edges, edge(fmt.Sprintf("s%d", i), "sink", ""))
	}
	edges = append(edges, edge("s0", "other", ""))

	colors := AssignColors(edges)
	if len(colors) != 7 {
		t.Fatalf("colors = %d, want 7", len(colors))
	}
	for i := range 7 {
		want := Palette[i%len(Palette)]
		if got := colors.Color(fmt.Sprintf("s%d", i)); got != want {
			t.Errorf("s%d = %s, want %s", i, got, want)
		}
	}
	if colors.Color("s5") != colors.Color("s0") {
		t.Error("sixth source should wrap to the first color")
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		want  string
	}{
		{"Home", 240, "Home"},
		{"Order confirmation and receipt", 240, "Order confirmation and receipt"},
		{"Order confirmation and receipt", 100, "Order confi.."},
		{"Settings", 10, "S.."},
	}
	for _, tt := range tests {
		if got := truncateLabel(tt.name, tt.width); got != tt.want {
			t.Errorf("truncateLabel(%q, %v) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", math.Copysign(0, -1): "0", 6.92820323: "6.93", -2.5: "-2.5", 144: "144"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
