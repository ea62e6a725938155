// Package compspec defines component specifications and the write-once
// registry the resolver reads them from. Specs are immutable after
// registration and shared by all concurrent resolutions.
package compspec

import (
	"github.com/cespare/xxhash/v2"

	"github.com/vk/topograph/internal/gtype"
)

// ComponentType is the stable 64-bit hash of a component type name.
type ComponentType = uint64

// InvalidComponentType is the zero component type; no spec may use it.
const InvalidComponentType ComponentType = 0

// TypeID hashes a component type name into its ComponentType.
func TypeID(name string) ComponentType {
	return xxhash.Sum64String(name)
}

// IOType marks a property as a consumer or a producer.
type IOType uint8

const (
	IOInput IOType = iota
	IOOutput
)

func (io IOType) String() string {
	if io == IOOutput {
		return "output"
	}
	return "input"
}

// PropertySpec describes one property of a component type.
type PropertySpec struct {
	// Name is the property's logical name, e.g. "inputs:a".
	Name string
	// StorageName is the current on-disk field name. Usually equal to Name.
	StorageName string
	// LegacyNames lists old storage names, newest first. Authored content
	// using any of these still binds to the same slot.
	LegacyNames []string
	IO          IOType
	// DeclaredType is the type as authored in the manifest, possibly a
	// flexible marker.
	DeclaredType gtype.PropertyType
	// Type is the type this spec instance uses. Equal to DeclaredType
	// except on pre-resolved variants.
	Type    gtype.PropertyType
	Default gtype.Value
	// EnumValues maps authored tokens to typed constants.
	EnumValues map[string]gtype.Value
}

// ComponentSpec describes one component type, or one pre-compiled variant
// of it. Registry-owned and immutable after registration.
type ComponentSpec struct {
	ComponentType ComponentType
	// Name is the full type name, e.g. "remix.logic.Multiply".
	Name    string
	Version int
	// LegacyNames lists old component type names that alias to this spec.
	LegacyNames []string
	// Properties in declaration order. Binding emits exactly one slot per
	// entry, in this order.
	Properties []PropertySpec
	// ResolvedTypes is non-nil only on variants: the concrete type each
	// flexible property was compiled for.
	ResolvedTypes map[string]gtype.PropertyType
}

// IsVariant reports whether this spec is a pre-resolved specialization.
func (s *ComponentSpec) IsVariant() bool {
	return s.ResolvedTypes != nil
}

// Property returns the named property spec, or nil.
func (s *ComponentSpec) Property(name string) *PropertySpec {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return &s.Properties[i]
		}
	}
	return nil
}

// Valid reports whether the spec is well-formed enough to register.
func (s *ComponentSpec) Valid() bool {
	if s.ComponentType == InvalidComponentType || s.Name == "" {
		return false
	}
	for i := range s.Properties {
		p := &s.Properties[i]
		if p.Name == "" || p.StorageName == "" || p.DeclaredType == gtype.Invalid {
			return false
		}
	}
	return true
}
