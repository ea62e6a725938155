package resolver

import (
	"context"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/gtype"
)

// selectVariant swaps a node's base spec for the registered variant whose
// resolved-type table matches every resolved flexible property exactly.
// Variants are tried in registration order; no match keeps the base spec
// with a diagnostic, since binding against the flexible declaration still
// yields usable slots.
func (r *Resolver) selectVariant(ctx context.Context, dn *dagNode, resolved map[string]gtype.PropertyType) *compspec.ComponentSpec {
	if len(resolved) == 0 {
		return dn.spec
	}

	variants := r.registry.Variants(dn.spec.ComponentType)
	for _, variant := range variants {
		if variantMatches(variant, resolved) {
			return variant
		}
	}

	if len(variants) > 0 {
		logger := ctxlog.FromContext(ctx)
		logger.Warn("No variant matches the resolved property types; using the base component.", "node", dn.path, "type", dn.spec.Name)
	}
	return dn.spec
}

func variantMatches(variant *compspec.ComponentSpec, resolved map[string]gtype.PropertyType) bool {
	if len(variant.ResolvedTypes) != len(resolved) {
		return false
	}
	for name, t := range resolved {
		if variant.ResolvedTypes[name] != t {
			return false
		}
	}
	return true
}
