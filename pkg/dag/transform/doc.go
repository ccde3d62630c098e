// Package transform prepares a screen graph for layered drawing.
//
// A flow graph arrives with cycles, back-navigation and edges that jump over
// several ranks. The layered layout engine runs the transformations in this
// order:
//
//  1. [BreakCycles] removes back edges found by a depth-first search from the
//     flow's starting points, making the graph acyclic.
//  2. [AssignLayers] ranks nodes by longest path from the sources.
//  3. [Subdivide] splits edges spanning several ranks into chains of virtual
//     nodes so that crossing reduction only sees consecutive-rank edges.
//
// All three operate in place on a [dag.DAG] and are deterministic for a fixed
// insertion order.
package transform
