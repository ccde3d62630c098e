// Package scene models the design document that screen flows are extracted
// from, and the host capabilities the rest of the pipeline relies on.
//
// A [Document] holds pages; each [Page] holds a tree of [Element] values.
// Top-level elements of type FRAME, COMPONENT or COMPONENT_SET are screens.
// Elements carry [Reaction] records describing what happens when the user
// interacts with them, most importantly which element they navigate to.
//
// The pipeline never walks documents directly. It goes through small
// interfaces:
//
//   - [Host] resolves elements by ID and finds the screen enclosing an element.
//   - [Rasterizer] produces PNG thumbnails of screens.
//   - [Notifier] shows fire-and-forget messages to the user.
//
// [DocumentHost] implements all three on top of an in-memory document loaded
// with [Load] or [Read] from JSON or YAML.
package scene
