// Package topology defines the resolved form of an authored graph: the
// ordered, type-checked structure the per-frame evaluator walks, and the
// content-hash keyed cache topologies are published into.
package topology

import (
	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/gtype"
)

// SlotIndex is a stable handle into a topology's slot arena. Slots are
// created exactly once, the first time their canonical property path is
// visited, and never move afterwards.
type SlotIndex uint32

// Topology stores what components a graph contains and how their
// properties share value slots. It is immutable once resolution finishes.
type Topology struct {
	// ComponentSpecs holds one spec reference per retained node, in
	// resolved (topological) order. Specs are borrowed from the registry.
	ComponentSpecs []*compspec.ComponentSpec
	// PropertyIndices maps [node][propertyOrdinal] to the property's slot.
	// Each inner slice has exactly as many entries as the node's selected
	// spec has properties.
	PropertyIndices [][]SlotIndex
	// PropertyTypes gives the resolved concrete type of every slot.
	PropertyTypes []gtype.PropertyType
	// PathToSlot maps every canonical property path, and every legacy
	// alias of it, to its slot.
	PathToSlot map[string]SlotIndex
	// ContentHash is the structural+type fingerprint used as a cache key.
	// Note: the hash depends on the resolved node order; two graphs with
	// the same hash always have the same topology, but identical
	// topologies authored under different paths may hash differently.
	ContentHash uint64
}

// NodeCount returns the number of retained nodes.
func (t *Topology) NodeCount() int {
	return len(t.ComponentSpecs)
}

// SlotCount returns the number of allocated value slots.
func (t *Topology) SlotCount() int {
	return len(t.PropertyTypes)
}

// GraphState is the result handed to the evaluator: a topology (possibly a
// shared cache entry) plus one literal value per non-aliased slot.
type GraphState struct {
	Topology *Topology
	// Values holds the initial literal for each slot, in slot order.
	Values []gtype.Value
	// SourcePath identifies the authored graph, for diagnostics only.
	SourcePath string
}
