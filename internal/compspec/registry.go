package compspec

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/topograph/internal/ctxlog"
)

// Registry holds all registered component specs and their variants for one
// application instance. It is populated during startup, frozen, and then
// read without synchronization overhead by concurrent resolutions.
type Registry struct {
	mu     sync.RWMutex
	frozen bool

	specs    map[ComponentType]*ComponentSpec
	variants map[ComponentType][]*ComponentSpec
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		specs:    make(map[ComponentType]*ComponentSpec),
		variants: make(map[ComponentType][]*ComponentSpec),
	}
}

// Register adds a base component spec. Legacy component names alias to the
// same spec so old content keeps loading after a type rename.
func (r *Registry) Register(ctx context.Context, spec *ComponentSpec) error {
	logger := ctxlog.FromContext(ctx)
	if spec == nil || !spec.Valid() {
		return fmt.Errorf("cannot register invalid component spec")
	}
	if spec.IsVariant() {
		return fmt.Errorf("component spec %s is a variant; use RegisterVariant", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("registry is frozen; cannot register %s", spec.Name)
	}
	if existing, ok := r.specs[spec.ComponentType]; ok {
		return fmt.Errorf("component spec for type %s already registered (conflicts with %s)", spec.Name, existing.Name)
	}
	r.specs[spec.ComponentType] = spec

	for _, oldName := range spec.LegacyNames {
		oldType := TypeID(oldName)
		if existing, ok := r.specs[oldType]; ok {
			return fmt.Errorf("legacy type name %s of %s already registered (conflicts with %s)", oldName, spec.Name, existing.Name)
		}
		r.specs[oldType] = spec
	}

	logger.Debug("Registered component spec.", "component", spec.Name, "version", spec.Version, "properties", len(spec.Properties))
	return nil
}

// RegisterVariant adds a pre-resolved specialization for an already
// registered component type. Variant order is preserved; selection picks
// the first match.
func (r *Registry) RegisterVariant(ctx context.Context, variant *ComponentSpec) error {
	logger := ctxlog.FromContext(ctx)
	if variant == nil || !variant.Valid() || !variant.IsVariant() {
		return fmt.Errorf("cannot register invalid component variant")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("registry is frozen; cannot register variant of %s", variant.Name)
	}
	if _, ok := r.specs[variant.ComponentType]; !ok {
		return fmt.Errorf("variant of %s registered before its base spec", variant.Name)
	}
	r.variants[variant.ComponentType] = append(r.variants[variant.ComponentType], variant)
	logger.Debug("Registered component variant.", "component", variant.Name, "resolved_types", len(variant.ResolvedTypes))
	return nil
}

// Freeze marks the registry read-only. All resolver calls must happen after
// Freeze.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Spec returns the base spec for a component type, or nil.
func (r *Registry) Spec(t ComponentType) *ComponentSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.specs[t]
}

// Variants returns the registered variants for a component type, in
// registration order. The returned slice must not be mutated.
func (r *Registry) Variants(t ComponentType) []*ComponentSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.variants[t]
}

// Len returns the number of registered base specs, counting legacy aliases
// once.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[*ComponentSpec]struct{}, len(r.specs))
	for _, s := range r.specs {
		seen[s] = struct{}{}
	}
	return len(seen)
}
