package dag_test

import (
	"fmt"

	"github.com/matzehuels/screenflow/pkg/dag"
)

func ExampleDAG_basic() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "welcome", Row: 0})
	_ = g.AddNode(dag.Node{ID: "login", Row: 1})
	_ = g.AddNode(dag.Node{ID: "home", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "welcome", To: "login"})
	_ = g.AddEdge(dag.Edge{From: "login", To: "home"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowIDs())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: [0 1 2]
}

func ExampleDAG_traversal() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "home", Row: 0})
	_ = g.AddNode(dag.Node{ID: "profile", Row: 1})
	_ = g.AddNode(dag.Node{ID: "settings", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "home", To: "profile"})
	_ = g.AddEdge(dag.Edge{From: "home", To: "settings"})

	fmt.Println("Children of home:", g.Children("home"))
	fmt.Println("Parents of profile:", g.Parents("profile"))
	fmt.Println("Out-degree of home:", g.OutDegree("home"))
	// Output:
	// Children of home: [profile settings]
	// Parents of profile: [home]
	// Out-degree of home: 2
}

func ExampleDAG_Sources() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "onboarding", Row: 0})
	_ = g.AddNode(dag.Node{ID: "deeplink", Row: 0})
	_ = g.AddNode(dag.Node{ID: "home", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "onboarding", To: "home"})
	_ = g.AddEdge(dag.Edge{From: "deeplink", To: "home"})

	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	// Output:
	// Sources: [onboarding deeplink]
}

func ExampleNode_virtual() {
	screen := dag.Node{ID: "cart", Kind: dag.NodeKindRegular}
	bend := dag.Node{ID: "cart_v_1", Kind: dag.NodeKindVirtual, MasterID: "cart"}

	fmt.Println("screen virtual:", screen.IsVirtual())
	fmt.Println("bend virtual:", bend.IsVirtual())
	fmt.Println("bend master:", bend.MasterID)
	// Output:
	// screen virtual: false
	// bend virtual: true
	// bend master: cart
}

func ExampleCountLayerCrossings() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	lower := []string{"x", "y"}
	fmt.Println("Crossings:", dag.CountLayerCrossings(g, []string{"a", "b"}, lower))
	fmt.Println("After reorder:", dag.CountLayerCrossings(g, []string{"b", "a"}, lower))
	// Output:
	// Crossings: 1
	// After reorder: 0
}
