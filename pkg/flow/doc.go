// Package flow extracts the screen graph of a page.
//
// [Extract] walks every element of a page, follows each reaction that points
// at another element, and records a [Transition] between the screens
// enclosing the two elements. Screens are the top-level frames and
// components of the page; a reaction inside a loose group or between two
// elements of the same screen produces nothing.
//
// The resulting [Graph] lists screens in discovery order, keeps parallel
// transitions, never contains self loops, and names the flow's entry
// screens in StartingPointIDs.
package flow
