// Package surface abstracts the render target that effects materialize onto.
// The engine never owns layout or navigation; it only appends nodes, mutates
// classes/styles on them, and removes them again. A browser DOM element, a
// scene-graph node, or the in-memory tree used by tests can all sit behind
// these interfaces.
package surface

import "errors"

// ErrDetached is returned by Node operations after the node has been removed
// from its parent. Scheduled cleanups treat it as non-fatal.
var ErrDetached = errors.New("surface: node detached")

// Node is a single element on the render surface.
type Node interface {
	// AppendChild creates and attaches a new empty child node.
	AppendChild() (Node, error)

	// AddClass / RemoveClass toggle a style class on the node.
	AddClass(name string) error
	RemoveClass(name string) error

	// SetStyle sets an inline style property.
	SetStyle(key, value string) error

	// SetText replaces the node's text content.
	SetText(text string) error

	// Remove detaches the node (and its subtree) from its parent.
	Remove() error
}

// StyleSink receives compiled style rules keyed by rule name. On a browser
// target this is the shared document stylesheet; in tests it is a map.
type StyleSink interface {
	PutRule(name, css string) error
	DeleteRule(name string) error
}

// Surface is the root handle a session renders into.
type Surface interface {
	Node

	// Bounds reports the surface extent used to quantize click coordinates
	// and to center spawned effects.
	Bounds() (width, height float64)

	// Styles exposes the surface's style sink.
	Styles() StyleSink
}
