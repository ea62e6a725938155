// Package resolver turns an authored graph container into a compact,
// type-resolved, topologically ordered execution plan.
//
// Resolution is synchronous and single-threaded per call: collect nodes,
// build dependency edges, sort, then per node in sorted order resolve
// flexible types, select a variant, bind properties into value slots, and
// fold the topology hash. Independent graphs may be resolved concurrently;
// the only shared state is the frozen spec registry and the optional
// topology cache.
package resolver

import (
	"context"
	"errors"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/scene"
	"github.com/vk/topograph/internal/topology"
)

// Resolver resolves authored graphs against a frozen component registry.
type Resolver struct {
	registry *compspec.Registry
	cache    *topology.Cache
	// primOffsets maps prim paths to replacement-table indices for
	// reference-typed properties. Targets not present here bind to the
	// invalid sentinel.
	primOffsets map[string]uint32
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache publishes finished topologies into a shared cache; Resolve
// then returns the canonical entry for the content hash.
func WithCache(c *topology.Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithPrimOffsets supplies the prim path to replacement-index table used
// to resolve reference-typed property targets.
func WithPrimOffsets(offsets map[string]uint32) Option {
	return func(r *Resolver) { r.primOffsets = offsets }
}

// New creates a Resolver. The registry must be frozen before the first
// Resolve call.
func New(registry *compspec.Registry, opts ...Option) *Resolver {
	r := &Resolver{registry: registry}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve builds the GraphState for one authored graph. Malformed nodes
// and cyclic subgraphs are excluded with diagnostics; the returned state
// is always usable, possibly smaller than the authored graph. An error is
// returned only for caller mistakes.
func (r *Resolver) Resolve(ctx context.Context, g scene.Graph) (*topology.GraphState, error) {
	if r.registry == nil {
		return nil, errors.New("resolver has no component registry")
	}
	if g == nil {
		return nil, errors.New("cannot resolve a nil graph")
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolve: starting.", "graph", g.Path())

	nodes, byPath := r.collectNodes(ctx, g)
	logger.Debug("Resolve: node collection complete.", "graph", g.Path(), "candidates", len(nodes))

	buildEdges(ctx, g, nodes, byPath)
	order := sortNodes(ctx, g.Path(), nodes)
	logger.Debug("Resolve: topological sort complete.", "graph", g.Path(), "placed", len(order))

	topo := &topology.Topology{
		PathToSlot: make(map[string]topology.SlotIndex),
	}
	arena := &slotArena{topo: topo}

	for _, idx := range order {
		dn := nodes[idx]
		resolved := r.resolveFlexibleTypes(ctx, dn, topo, nodes, byPath)
		spec := r.selectVariant(ctx, dn, resolved)
		indices := r.bindNode(ctx, g, dn, spec, resolved, byPath, arena)

		topo.ComponentSpecs = append(topo.ComponentSpecs, spec)
		topo.PropertyIndices = append(topo.PropertyIndices, indices)
		topo.ContentHash = foldNode(topo.ContentHash, spec.ComponentType, indices, topo.PropertyTypes)
	}

	final := topo
	if r.cache != nil {
		final = r.cache.Store(topo)
	}
	logger.Debug("Resolve: finished.", "graph", g.Path(), "nodes", final.NodeCount(), "slots", final.SlotCount(), "content_hash", final.ContentHash)

	return &topology.GraphState{
		Topology:   final,
		Values:     arena.values,
		SourcePath: g.Path(),
	}, nil
}
