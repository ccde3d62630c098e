// Package layout positions the screens of a flow graph and routes its
// transitions.
//
// An [Engine] turns a [flow.Graph] and a [Direction] into a [Result]: every
// screen becomes a fixed-size card with a top-left position, every
// transition a polyline of route points. Two engines are available through
// [New]:
//
//   - "layered" ([Layered]): a native Sugiyama pipeline. Cycles are broken
//     from the flow's starting points, screens are ranked by longest path,
//     long edges are split into virtual nodes, ranks are ordered with
//     barycentric sweeps and placed on a grid. Back edges are routed around
//     the far side of the drawing.
//   - "graphviz" ([Graphviz]): builds DOT and lets Graphviz dot compute
//     positions and splines in-process.
//
// For a transition A→B that is not part of a cycle, B is always placed
// strictly after A along the primary axis (right of A for LR, below A for
// TB). Cards never overlap. An empty graph yields an empty result.
//
// Card size and separations come from [Config]; they are constants of a
// layout request, not computed from screen dimensions.
package layout
