package resolver

import (
	"context"
	"strings"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/gtype"
	"github.com/vk/topograph/internal/scene"
)

// dagNode is per-call sort scratch: one candidate node, its spec, and its
// place in the dependency graph. Discarded once the sorted order is built.
type dagNode struct {
	path string
	node scene.Node
	spec *compspec.ComponentSpec
	// depCount is the number of unresolved producers feeding this node.
	depCount int
	// dependents holds the indices of nodes consuming this node's outputs.
	dependents map[int]struct{}
}

// collectNodes gathers the graph's candidate nodes, rejecting any with a
// missing, empty, or unknown type identifier or a failing version check.
// Rejected nodes never appear in the output topology.
func (r *Resolver) collectNodes(ctx context.Context, g scene.Graph) ([]*dagNode, map[string]*dagNode) {
	logger := ctxlog.FromContext(ctx)
	var nodes []*dagNode
	byPath := make(map[string]*dagNode)

	for _, n := range g.Nodes() {
		typeName, ok := n.TypeName()
		if !ok {
			logger.Error("Node has no type identifier.", "graph", g.Path(), "node", n.Path())
			continue
		}
		if typeName == "" {
			logger.Error("Node has an empty type identifier.", "graph", g.Path(), "node", n.Path())
			continue
		}
		spec := r.registry.Spec(compspec.TypeID(typeName))
		if spec == nil {
			logger.Error("Node has an unknown type identifier.", "graph", g.Path(), "node", n.Path(), "type", typeName)
			continue
		}
		if !versionCheck(ctx, n, spec) {
			continue
		}

		dn := &dagNode{
			path:       n.Path(),
			node:       n,
			spec:       spec,
			dependents: make(map[int]struct{}),
		}
		byPath[dn.path] = dn
		nodes = append(nodes, dn)
	}
	return nodes, byPath
}

// versionCheck compares a node's authored type version with the spec's
// compiled version. Newer than compiled rejects; older loads with a
// compatibility warning; missing rejects.
func versionCheck(ctx context.Context, n scene.Node, spec *compspec.ComponentSpec) bool {
	logger := ctxlog.FromContext(ctx)
	version, ok := n.TypeVersion()
	if !ok {
		logger.Error("Node is missing a type version.", "node", n.Path(), "type", spec.Name)
		return false
	}
	if version > spec.Version {
		logger.Error("Node was authored with a newer version than this runtime supports.", "node", n.Path(), "type", spec.Name, "authored", version, "compiled", spec.Version)
		return false
	}
	if version < spec.Version {
		logger.Warn("Node was authored with an older schema version and should be updated.", "node", n.Path(), "type", spec.Name, "authored", version, "compiled", spec.Version)
	}
	return true
}

// buildEdges scans every property of every candidate node for
// cross-references and records producer→consumer edges. Duplicate edges
// between the same pair of nodes are counted once.
func buildEdges(ctx context.Context, g scene.Graph, nodes []*dagNode, byPath map[string]*dagNode) {
	logger := ctxlog.FromContext(ctx)
	indexOf := make(map[string]int, len(nodes))
	for i, dn := range nodes {
		indexOf[dn.path] = i
	}

	for consumerIdx, dn := range nodes {
		for i := range dn.spec.Properties {
			prop := &dn.spec.Properties[i]
			field := resolveFieldName(dn.node, prop)

			var producerPath string
			if prop.DeclaredType == gtype.Prim {
				targets, ok := dn.node.Targets(field)
				if !ok || len(targets) < 2 {
					continue
				}
				if len(targets) > 2 {
					logger.Error("Relationship has more than two targets; only the last is used.", "node", dn.path, "property", prop.Name, "targets", len(targets))
				}
				// A two-target relationship encodes a connection: the last
				// target is the producing property.
				producerPath = nodePathOf(targets[len(targets)-1])
			} else {
				conn, ok := lastValidConnection(dn.node.Connections(field), byPath)
				if !ok {
					continue
				}
				producerPath = nodePathOf(conn)
			}

			producerIdx, ok := indexOf[producerPath]
			if !ok {
				logger.Error("Node has a connection to a node that does not exist or failed to load.", "node", dn.path, "property", prop.Name, "target", producerPath)
				continue
			}
			if producerIdx == consumerIdx {
				continue
			}
			producer := nodes[producerIdx]
			if _, exists := producer.dependents[consumerIdx]; !exists {
				producer.dependents[consumerIdx] = struct{}{}
				dn.depCount++
			}
		}
	}
}

// lastValidConnection scans a property's forwarding references newest to
// oldest and returns the first whose referenced node is a known candidate.
func lastValidConnection(conns []string, byPath map[string]*dagNode) (string, bool) {
	for i := len(conns) - 1; i >= 0; i-- {
		if _, ok := byPath[nodePathOf(conns[i])]; ok {
			return conns[i], true
		}
	}
	return "", false
}

// resolveFieldName picks the storage field to read for a property,
// honoring legacy names: the authored name on the strongest layer wins,
// and a never-authored current name defers to any authored legacy name.
func resolveFieldName(n scene.Node, prop *compspec.PropertySpec) string {
	if len(prop.LegacyNames) == 0 {
		return prop.StorageName
	}
	best := prop.StorageName
	bestStrength := -1
	if n.Authored(prop.StorageName) {
		bestStrength = n.Strength(prop.StorageName)
	}
	for _, oldName := range prop.LegacyNames {
		if !n.Authored(oldName) {
			continue
		}
		if s := n.Strength(oldName); s > bestStrength {
			best = oldName
			bestStrength = s
		}
	}
	return best
}

// nodePathOf extracts the node portion of a property path such as
// "osc.outputs:value".
func nodePathOf(propertyPath string) string {
	if i := strings.IndexByte(propertyPath, '.'); i >= 0 {
		return propertyPath[:i]
	}
	return propertyPath
}

// fieldOf extracts the field portion of a property path.
func fieldOf(propertyPath string) string {
	if i := strings.IndexByte(propertyPath, '.'); i >= 0 {
		return propertyPath[i+1:]
	}
	return ""
}
