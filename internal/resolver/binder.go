package resolver

import (
	"context"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/gtype"
	"github.com/vk/topograph/internal/scene"
	"github.com/vk/topograph/internal/topology"
)

// slotArena owns the growing value table and the path-to-slot map while a
// topology is being built. Connected properties alias the producer's slot;
// only unconnected properties create a slot and append a value.
type slotArena struct {
	topo   *topology.Topology
	values []gtype.Value
}

// create appends a slot holding v, then registers every name the property
// can be referenced by so later nodes can connect to it.
func (a *slotArena) create(nodePath string, prop *compspec.PropertySpec, t gtype.PropertyType, v gtype.Value) topology.SlotIndex {
	idx := topology.SlotIndex(len(a.values))
	a.values = append(a.values, v)
	a.topo.PropertyTypes = append(a.topo.PropertyTypes, t)
	a.register(nodePath, prop, idx)
	return idx
}

// alias points every name of the property at an existing slot without
// creating storage.
func (a *slotArena) alias(nodePath string, prop *compspec.PropertySpec, idx topology.SlotIndex) {
	a.register(nodePath, prop, idx)
}

func (a *slotArena) register(nodePath string, prop *compspec.PropertySpec, idx topology.SlotIndex) {
	a.topo.PathToSlot[nodePath+"."+prop.StorageName] = idx
	for _, oldName := range prop.LegacyNames {
		a.topo.PathToSlot[nodePath+"."+oldName] = idx
	}
}

// bindNode binds every property of the selected spec to a value slot, in
// declaration order, and returns exactly one slot index per property.
// Connected properties share the producer's slot; everything else gets a
// fresh slot seeded from the authored literal or the spec default.
func (r *Resolver) bindNode(ctx context.Context, g scene.Graph, dn *dagNode, spec *compspec.ComponentSpec, resolved map[string]gtype.PropertyType, byPath map[string]*dagNode, arena *slotArena) []topology.SlotIndex {
	logger := ctxlog.FromContext(ctx)
	indices := make([]topology.SlotIndex, 0, len(spec.Properties))

	for i := range spec.Properties {
		prop := &spec.Properties[i]
		field := resolveFieldName(dn.node, prop)

		if prop.DeclaredType == gtype.Prim {
			indices = append(indices, r.bindPrim(ctx, dn, prop, field, arena))
			continue
		}

		eff := prop.Type
		if prop.DeclaredType.IsFlexible() {
			if t, ok := resolved[prop.Name]; ok {
				eff = t
			} else {
				eff = gtype.Float
			}
		}

		if slot, ok := bindConnection(ctx, dn, prop, field, eff, byPath, arena); ok {
			indices = append(indices, slot)
			continue
		}

		var val gtype.Value
		if cv, authored := dn.node.Value(field); authored && !cv.IsNull() {
			parsed, err := gtype.FromCty(cv, eff, prop.EnumValues)
			if err != nil {
				logger.Error("Property value could not be interpreted; using the default.", "node", dn.path, "property", prop.Name, "error", err)
				parsed = gtype.Convert(prop.Default, eff)
			}
			val = parsed
		} else {
			val = gtype.Convert(prop.Default, eff)
		}
		indices = append(indices, arena.create(dn.path, prop, eff, val))
	}

	return indices
}

// bindConnection resolves an attribute property's last valid connection to
// an existing slot. Validity uses the same loaded-candidate predicate as
// the edge builder, so binder, sorter, and type resolver agree on which
// connection is live. ok is false when the property should bind
// unconnected: no valid connection, the chosen source has no slot, or the
// slot's type does not match.
func bindConnection(ctx context.Context, dn *dagNode, prop *compspec.PropertySpec, field string, eff gtype.PropertyType, byPath map[string]*dagNode, arena *slotArena) (topology.SlotIndex, bool) {
	conn, ok := lastValidConnection(dn.node.Connections(field), byPath)
	if !ok {
		return 0, false
	}
	logger := ctxlog.FromContext(ctx)

	slot, ok := arena.topo.PathToSlot[conn]
	if !ok {
		logger.Error("Connection source has no resolved slot; the property binds unconnected.", "node", dn.path, "property", prop.Name, "source", conn)
		return 0, false
	}
	if arena.topo.PropertyTypes[slot] != eff {
		logger.Error("Connection type mismatch; the property binds unconnected.",
			"node", dn.path, "property", prop.Name, "source", conn,
			"expected", eff, "actual", arena.topo.PropertyTypes[slot])
		return 0, false
	}
	arena.alias(dn.path, prop, slot)
	return slot, true
}

// bindPrim binds a reference property. A two-target relationship is a
// connection whose last target names the producing property; a one-target
// relationship resolves the prim through the replacement-index table; no
// targets binds the invalid sentinel.
func (r *Resolver) bindPrim(ctx context.Context, dn *dagNode, prop *compspec.PropertySpec, field string, arena *slotArena) topology.SlotIndex {
	logger := ctxlog.FromContext(ctx)
	if _, authored := dn.node.Value(field); authored {
		logger.Error("Reference property was authored as an attribute value; it must be a relationship.", "node", dn.path, "property", prop.Name)
	}

	targets, ok := dn.node.Targets(field)
	if ok && len(targets) >= 2 {
		src := targets[len(targets)-1]
		if slot, found := arena.topo.PathToSlot[src]; found {
			if arena.topo.PropertyTypes[slot] == gtype.Prim {
				arena.alias(dn.path, prop, slot)
				return slot
			}
			logger.Error("Reference connection targets a non-reference property; the property binds unconnected.", "node", dn.path, "property", prop.Name, "source", src)
		} else {
			logger.Error("Reference connection source is not loaded; the property binds unconnected.", "node", dn.path, "property", prop.Name, "source", src)
		}
	}

	val := gtype.PrimValue(gtype.InvalidPrimIndex)
	if ok && len(targets) == 1 {
		if offset, found := r.primOffsets[targets[0]]; found {
			val = gtype.PrimValue(offset)
		} else {
			logger.Error("Reference target has no replacement index; binding the invalid sentinel.", "node", dn.path, "property", prop.Name, "target", targets[0])
		}
	}
	return arena.create(dn.path, prop, gtype.Prim, val)
}
