package flow

import (
	"slices"

	"github.com/matzehuels/screenflow/pkg/scene"
)

// Extract builds the screen graph of page. Extraction never fails; an empty
// graph means the page has no flow to diagram.
func Extract(page *scene.Page, host scene.Host) Graph {
	x := extractor{host: host, seen: make(map[string]bool)}
	if page != nil {
		page.Walk(func(e *scene.Element) bool {
			x.visit(e)
			return true
		})
	}

	g := Graph{Nodes: x.nodes, Edges: x.edges}
	if g.Nodes == nil {
		g.Nodes = []ScreenNode{}
	}
	if g.Edges == nil {
		g.Edges = []Transition{}
	}
	g.StartingPointIDs = startingPoints(page, g)
	return g
}

type extractor struct {
	host  scene.Host
	seen  map[string]bool
	nodes []ScreenNode
	edges []Transition
}

func (x *extractor) visit(e *scene.Element) {
	if len(e.Reactions) == 0 {
		return
	}
	for _, r := range e.Reactions {
		trigger := r.TriggerType()
		if trigger == "" {
			trigger = DefaultTrigger
		}
		for _, a := range r.Records() {
			x.record(e, trigger, a)
		}
	}
}

func (x *extractor) record(e *scene.Element, trigger string, a scene.Action) {
	if a.DestinationID == "" {
		return
	}
	from, ok := x.host.EnclosingTopLevelContainer(e)
	if !ok {
		return
	}
	dest, ok := x.host.ResolveByID(a.DestinationID)
	if !ok {
		return
	}
	to, ok := x.host.EnclosingTopLevelContainer(dest)
	if !ok || from.ID == to.ID {
		return
	}

	x.register(from)
	x.register(to)

	action := a.Navigation
	if action == "" {
		action = DefaultAction
	}
	x.edges = append(x.edges, Transition{
		SourceID: from.ID,
		TargetID: to.ID,
		Trigger:  trigger,
		Action:   action,
	})
}

func (x *extractor) register(e *scene.Element) {
	if x.seen[e.ID] {
		return
	}
	x.seen[e.ID] = true
	x.nodes = append(x.nodes, ScreenNode{
		ID:     e.ID,
		Name:   e.Name,
		Width:  round(e.Width),
		Height: round(e.Height),
	})
}

// startingPoints keeps the page's declared entry markers that resolved to
// screens. Without any, it falls back to the screens nobody navigates to.
func startingPoints(page *scene.Page, g Graph) []string {
	ids := []string{}
	if page != nil {
		for _, sp := range page.FlowStartingPoints {
			if _, ok := g.Node(sp.NodeID); ok && !slices.Contains(ids, sp.NodeID) {
				ids = append(ids, sp.NodeID)
			}
		}
	}
	if len(ids) > 0 {
		return ids
	}

	incoming := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		incoming[e.TargetID]++
	}
	for _, n := range g.Nodes {
		if incoming[n.ID] == 0 {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
