package resolver

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/gtype"
	"github.com/vk/topograph/internal/scene"
	"github.com/vk/topograph/internal/topology"
)

// resolveFlexibleTypes determines a concrete type for every flexible
// property of a node. Resolution order, first match wins:
//
//  1. A live connection to an already-resolved slot adopts that slot's
//     type (producers are guaranteed resolved first by the sort order).
//  2. The authored literal's shape.
//  3. A graph-wide search: an input adopts its producer output's declared
//     concrete type; an output adopts the declared concrete type of the
//     first input wired to it, scanning nodes in authored order so the
//     outcome is stable when differently-typed inputs compete.
//
// Anything still unresolved falls back to a scalar float with a
// diagnostic; unresolvable flexible types are best-effort, not errors.
func (r *Resolver) resolveFlexibleTypes(ctx context.Context, dn *dagNode, topo *topology.Topology, nodes []*dagNode, byPath map[string]*dagNode) map[string]gtype.PropertyType {
	logger := ctxlog.FromContext(ctx)
	var resolved map[string]gtype.PropertyType

	for i := range dn.spec.Properties {
		prop := &dn.spec.Properties[i]
		if !prop.DeclaredType.IsFlexible() {
			continue
		}
		if resolved == nil {
			resolved = make(map[string]gtype.PropertyType)
		}

		field := resolveFieldName(dn.node, prop)
		conns := dn.node.Connections(field)

		// 1. Connection propagation from resolved slots.
		if t, ok := typeFromResolvedSlot(conns, byPath, topo); ok {
			resolved[prop.Name] = t
			continue
		}

		// 2. Authored literal shape.
		if t, ambiguous, ok := typeFromLiteral(dn.node, field); ok {
			if ambiguous {
				// Bare integer tokens prefer connection evidence over the
				// numeric default.
				if ct, found := r.typeFromGraphSearch(dn, prop, conns, nodes, byPath); found {
					resolved[prop.Name] = ct
					continue
				}
			}
			resolved[prop.Name] = t
			continue
		}

		// 3. Graph-wide connection search.
		if t, ok := r.typeFromGraphSearch(dn, prop, conns, nodes, byPath); ok {
			resolved[prop.Name] = t
			continue
		}

		logger.Warn("Flexible property could not be resolved; defaulting to float.", "node", dn.path, "property", prop.Name)
		resolved[prop.Name] = gtype.Float
	}
	return resolved
}

// typeFromResolvedSlot adopts the type of the slot behind the last valid
// connection, if that slot already exists. Validity uses the same
// loaded-candidate predicate as the edge builder.
func typeFromResolvedSlot(conns []string, byPath map[string]*dagNode, topo *topology.Topology) (gtype.PropertyType, bool) {
	conn, ok := lastValidConnection(conns, byPath)
	if !ok {
		return gtype.Invalid, false
	}
	if slot, ok := topo.PathToSlot[conn]; ok {
		return topo.PropertyTypes[slot], true
	}
	return gtype.Invalid, false
}

// typeFromLiteral infers a type from the authored value's shape. ok is
// false when nothing useful was authored.
func typeFromLiteral(n scene.Node, field string) (t gtype.PropertyType, ambiguous, ok bool) {
	v, authored := n.Value(field)
	if !authored || v.IsNull() || !v.IsKnown() {
		return gtype.Invalid, false, false
	}

	switch {
	case v.Type() == cty.String:
		t, ambiguous = gtype.InferTypeFromLiteral(v.AsString())
		return t, ambiguous, true
	case v.Type() == cty.Bool:
		return gtype.Bool, false, true
	case v.Type() == cty.Number:
		return gtype.Float, false, true
	case v.Type().IsTupleType() || v.Type().IsListType():
		switch v.LengthInt() {
		case 2:
			return gtype.Float2, false, true
		case 3:
			return gtype.Float3, false, true
		case 4:
			return gtype.Float4, false, true
		}
	}
	return gtype.Invalid, false, false
}

// typeFromGraphSearch looks across the graph for concrete type evidence:
// the producing output for an input, or any consuming input for an output.
// The output scan walks the candidate node slice, never a map, so repeated
// resolutions of the same graph pick the same consumer.
func (r *Resolver) typeFromGraphSearch(dn *dagNode, prop *compspec.PropertySpec, conns []string, nodes []*dagNode, byPath map[string]*dagNode) (gtype.PropertyType, bool) {
	if prop.IO == compspec.IOInput {
		for i := len(conns) - 1; i >= 0; i-- {
			producer, ok := byPath[nodePathOf(conns[i])]
			if !ok {
				continue
			}
			producerProp := findSpecProperty(producer.spec, fieldOf(conns[i]))
			if producerProp == nil {
				continue
			}
			if producerProp.Type.IsConcrete() {
				return producerProp.Type, true
			}
			return gtype.Invalid, false
		}
		return gtype.Invalid, false
	}

	// Output: find an input elsewhere wired to this property, under any of
	// its names. First match in authored node order wins.
	aliases := map[string]struct{}{dn.path + "." + prop.StorageName: {}}
	for _, oldName := range prop.LegacyNames {
		aliases[dn.path+"."+oldName] = struct{}{}
	}
	for _, other := range nodes {
		if other == dn {
			continue
		}
		for i := range other.spec.Properties {
			otherProp := &other.spec.Properties[i]
			if otherProp.IO != compspec.IOInput {
				continue
			}
			otherField := resolveFieldName(other.node, otherProp)
			for _, conn := range other.node.Connections(otherField) {
				if _, hit := aliases[conn]; !hit {
					continue
				}
				if otherProp.Type.IsConcrete() {
					return otherProp.Type, true
				}
			}
		}
	}
	return gtype.Invalid, false
}

// findSpecProperty matches a storage field name against a spec's
// properties, current names first, then legacy names.
func findSpecProperty(spec *compspec.ComponentSpec, field string) *compspec.PropertySpec {
	for i := range spec.Properties {
		if spec.Properties[i].StorageName == field {
			return &spec.Properties[i]
		}
	}
	for i := range spec.Properties {
		for _, oldName := range spec.Properties[i].LegacyNames {
			if oldName == field {
				return &spec.Properties[i]
			}
		}
	}
	return nil
}
