// Package window implements the window hierarchy: named rectangular windows
// arranged in a tree rooted at ".", with stacking order, mapping, focus, and
// the geometry manager contract.
//
// # Paths
//
// Every window has a path built from its ancestors' names:
//
//	.            root, covers the screen
//	.main        child of the root
//	.main.ok     child of .main
//
// # Geometry Management
//
// A window is laid out by at most one GeometryManager. Widgets state the
// size they would like with GeometryRequest; the manager decides the actual
// rectangle and applies it with MoveResize, Map, and Unmap.
//
//	w.ManageGeometry(packer)      // claim; the previous manager loses w
//	w.GeometryRequest(20, 3)      // ask; the manager is told
//	w.MoveResize(0, 0, 20, 3)     // manager applies the layout
//
// Structural changes emit events through the tree's EventSink: Map, Unmap,
// Configure, Expose, FocusIn, FocusOut, and Destroy.
package window
