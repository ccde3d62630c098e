// Package graph reads and writes the JSON wire format of flow graphs and
// layouts.
//
// The CLI passes these files between stages and the HTTP server accepts
// them as request bodies, so every stage can run on its own:
//
//	screenflow scan shop.yaml -o shop.graph.json
//	screenflow layout shop.graph.json -o shop.layout.json
//	screenflow inspect shop.graph.json
//
// # Graph Format
//
// A graph is the direct encoding of [flow.Graph]:
//
//	{
//	  "nodes": [{"id": "1:1", "name": "Cart", "width": 375, "height": 812}],
//	  "edges": [{"source_id": "1:1", "target_id": "2:1", "trigger": "ON_CLICK", "action": "NAVIGATE"}],
//	  "starting_point_ids": ["1:1"]
//	}
//
// Reading a graph validates it: node IDs must be unique and non-empty,
// edges must connect two different known nodes. Missing trigger and
// action fields get the extraction defaults.
//
// # Layout Format
//
// A layout is the encoding of [layout.Result]. Reading one checks the
// direction and that every edge refers to a positioned node.
//
// All failures are [errors.ErrCodeInvalidInput] errors.
package graph
