package sink

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
	"github.com/matzehuels/screenflow/pkg/tier"
)

var thumb = []byte("\x89PNG fake")

func testDiagram(tierName string) diagram.Diagram {
	l := layout.Result{
		Direction: layout.LeftToRight,
		Nodes: []layout.Node{
			{ScreenNode: flow.ScreenNode{ID: "1:2", Name: "Cart & Checkout"}, Width: 240, Height: 180},
			{ScreenNode: flow.ScreenNode{ID: "1:3", Name: "Done"}, X: 400, Width: 240, Height: 180},
		},
		Edges: []layout.Edge{{Transition: flow.Transition{SourceID: "1:2", TargetID: "1:3", Trigger: "ON_CLICK"}}},
	}
	return diagram.Compose(l, diagram.AssignColors(l.Edges), tier.Resolve(tierName),
		diagram.WithName("Flow: <Shop>"),
		diagram.WithThumbnails(map[string][]byte{"1:2": thumb}))
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testDiagram(tier.Pro)))

	for _, want := range []string{
		`viewBox="0 0 720.0 288.0"`,
		`<title>Flow: &lt;Shop&gt;</title>`,
		`id="card-1:2"`,
		`>Cart &amp; Checkout</text>`,
		`href="data:image/png;base64,` + base64.StdEncoding.EncodeToString(thumb) + `"`,
		`class="arrow" data-source="1:2" data-target="1:3"`,
		`stroke="#6366F1"`,
		`>On tap</text>`,
		`fill-opacity="0.18"`,
		`fill="#F9FAFB"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if n := strings.Count(svg, "<image "); n != 1 {
		t.Errorf("images = %d, want 1", n)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not terminated")
	}
}

func TestRenderSVG_FreeTier(t *testing.T) {
	svg := string(RenderSVG(testDiagram(tier.Free), WithoutBackground()))
	if strings.Contains(svg, `class="badge"`) {
		t.Error("free tier should not render badges")
	}
	if !strings.Contains(svg, `stroke="`+diagram.NeutralColor+`"`) {
		t.Error("free tier arrows should be neutral")
	}
	if strings.Contains(svg, `fill="#F9FAFB"`) {
		t.Error("background drawn despite WithoutBackground")
	}
}

func TestRenderJSON(t *testing.T) {
	d := testDiagram(tier.Pro)

	data, err := RenderJSON(d)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var got diagram.Diagram
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != d.Name || len(got.Cards) != 2 || len(got.Arrows) != 1 || len(got.Badges) != 1 {
		t.Errorf("decoded = %+v", got)
	}
	if string(got.Cards[0].Thumbnail) != string(thumb) {
		t.Error("thumbnail lost")
	}

	data, err = RenderJSON(d, WithoutThumbnails())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if strings.Contains(string(data), `"thumbnail"`) {
		t.Error("thumbnail present despite WithoutThumbnails")
	}
	if d.Cards[0].Thumbnail == nil {
		t.Error("RenderJSON modified its input")
	}
}
