// Package scene provides read-only access to authored graph containers.
//
// The resolver consumes only the Graph and Node interfaces; the layered HCL
// document implementation in this package is one possible backing store.
// Attribute storage, layer stacking, and connection storage all live behind
// this boundary.
package scene

import "github.com/zclconf/go-cty/cty"

// Graph is one authored graph container: an ordered set of active,
// type-carrying node prims.
type Graph interface {
	// Path identifies the graph container, for diagnostics and GraphState.
	Path() string
	// Nodes returns the active child nodes in authored order.
	Nodes() []Node
	// Node looks a node up by its path within the graph.
	Node(path string) (Node, bool)
}

// Node is read-only access to one node prim.
type Node interface {
	// Path is the node's path within its graph, e.g. "osc".
	Path() string
	// TypeName returns the authored type identifier. ok is false when the
	// field was never authored; an authored-but-empty identifier returns
	// ("", true).
	TypeName() (name string, ok bool)
	// TypeVersion returns the authored type version, if present.
	TypeVersion() (version int, ok bool)
	// Authored reports whether any layer authored the named field.
	Authored(field string) bool
	// Strength returns the index of the strongest layer that authored the
	// field, or -1. Higher is stronger.
	Strength(field string) int
	// Value returns the authored literal value of the field, from the
	// strongest layer that authored one.
	Value(field string) (cty.Value, bool)
	// Connections returns the field's forwarding references in authored
	// order, oldest first. Each entry is a property path such as
	// "osc.outputs:value".
	Connections(field string) []string
	// Targets returns a relationship field's target paths. ok is false
	// when the field was never authored as a relationship.
	Targets(field string) (targets []string, ok bool)
}
