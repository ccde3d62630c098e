// Package diagram turns a positioned flow into renderable primitives.
//
// # Colors and labels
//
// [AssignColors] numbers the distinct source screens of a layout's edges in
// order of first appearance and gives each a [Palette] color. The mapping is
// always computed; whether it is used is up to the tier. [TriggerLabel]
// translates trigger kinds such as ON_CLICK into badge text.
//
// # Composition
//
// [Compose] builds a [Diagram] from a layout.Result: a container sized to the
// bounding box of all cards plus [Padding], one [Card] per screen, one
// [Arrow] per transition and, when the tier enables interaction labels, one
// [Badge] per transition.
//
// Arrows run from the exit anchor of the source card to the entry anchor of
// the target card (right to left for LR, bottom to top for TB), shortened by
// [ArrowGap] at both ends. The head is two segments of [HeadLength] at
// ±[HeadAngle] degrees. Path data is relative to the arrow's own origin, so
// moving an arrow only changes its X and Y.
//
// Rendering the diagram to SVG or JSON is done by the sink subpackage.
package diagram
