package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/graph"
)

func ExampleWriteGraph() {
	g := flow.Graph{
		Nodes: []flow.ScreenNode{
			{ID: "1:1", Name: "Cart", Width: 375, Height: 812},
			{ID: "2:1", Name: "Payment", Width: 375, Height: 812},
		},
		Edges: []flow.Transition{
			{SourceID: "1:1", TargetID: "2:1", Trigger: "ON_CLICK", Action: "NAVIGATE"},
		},
		StartingPointIDs: []string{"1:1"},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "1:1",
	//       "name": "Cart",
	//       "width": 375,
	//       "height": 812
	//     },
	//     {
	//       "id": "2:1",
	//       "name": "Payment",
	//       "width": 375,
	//       "height": 812
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source_id": "1:1",
	//       "target_id": "2:1",
	//       "trigger": "ON_CLICK",
	//       "action": "NAVIGATE"
	//     }
	//   ],
	//   "starting_point_ids": [
	//     "1:1"
	//   ]
	// }
}

func ExampleReadGraph() {
	input := `{
		"nodes": [{"id": "home", "name": "Home"}, {"id": "detail", "name": "Detail"}],
		"edges": [{"source_id": "home", "target_id": "detail"}]
	}`

	g, err := graph.ReadGraph(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("screens:", len(g.Nodes))
	fmt.Println("trigger:", g.Edges[0].Trigger)
	fmt.Println("action:", g.Edges[0].Action)
	// Output:
	// screens: 2
	// trigger: ON_CLICK
	// action: NAVIGATE
}

func ExampleValidateGraph() {
	g := flow.Graph{
		Nodes: []flow.ScreenNode{{ID: "home"}},
		Edges: []flow.Transition{{SourceID: "home", TargetID: "gone"}},
	}
	fmt.Println(graph.ValidateGraph(g))
	// Output:
	// INVALID_INPUT: edge home -> gone references an unknown node
}
