package diagram_test

import (
	"fmt"

	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/layout"
)

func ExampleTriggerLabel() {
	for _, kind := range []string{"ON_CLICK", "AFTER_TIMEOUT", "ON_MEDIA_END"} {
		fmt.Println(diagram.TriggerLabel(kind))
	}
	// Output:
	// On tap
	// After delay
	// ON_MEDIA_END
}

func ExampleAssignColors() {
	edge := func(from, to string) layout.Edge {
		return layout.Edge{Transition: flow.Transition{SourceID: from, TargetID: to}}
	}
	colors := diagram.AssignColors([]layout.Edge{
		edge("login", "home"),
		edge("home", "cart"),
		edge("login", "signup"),
	})
	fmt.Println(colors.Color("login"))
	fmt.Println(colors.Color("home"))
	fmt.Println(colors.Color("cart"))
	// Output:
	// #6366F1
	// #EC4899
	// #9CA3AF
}
