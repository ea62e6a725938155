package resolver

import (
	"context"
	"sort"

	"github.com/vk/topograph/internal/ctxlog"
)

// sortNodes orders the candidate nodes so every producer precedes its
// consumers. Each ready batch (all nodes with no unresolved dependencies)
// is sorted by (componentType, path) ascending before being appended, so
// the emitted order is deterministic for a given authored graph while
// still interleaving batches by true dependency order.
//
// If a dependency cycle exists, the implicated nodes are reported by path
// and excluded; resolution continues with the nodes that could be ordered.
// This is deliberately not fatal: authored content must never crash the
// host process.
func sortNodes(ctx context.Context, graphPath string, nodes []*dagNode) []int {
	logger := ctxlog.FromContext(ctx)

	var ready []int
	for i, dn := range nodes {
		if dn.depCount == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, len(nodes))
	visited := 0
	for len(ready) > 0 {
		sort.Slice(ready, func(a, b int) bool {
			na, nb := nodes[ready[a]], nodes[ready[b]]
			if na.spec.ComponentType != nb.spec.ComponentType {
				return na.spec.ComponentType < nb.spec.ComponentType
			}
			return na.path < nb.path
		})
		order = append(order, ready...)
		ready = ready[:0:0]

		// Unlock anything fed only by the nodes placed so far.
		for ; visited < len(order); visited++ {
			for dependent := range nodes[order[visited]].dependents {
				nodes[dependent].depCount--
				if nodes[dependent].depCount == 0 {
					ready = append(ready, dependent)
				}
			}
		}
	}

	if len(order) != len(nodes) {
		placed := make(map[int]struct{}, len(order))
		for _, idx := range order {
			placed[idx] = struct{}{}
		}
		var unplaced []string
		for i := range nodes {
			if _, ok := placed[i]; !ok {
				unplaced = append(unplaced, nodes[i].path)
			}
		}
		sort.Strings(unplaced)
		logger.Error("Graph has a dependency cycle; the implicated nodes will not be loaded.", "graph", graphPath, "nodes", unplaced)
	}

	return order
}
