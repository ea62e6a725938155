// Package gtype defines the closed type system shared by component specs,
// authored graph documents, and resolved topologies. Property types form a
// small closed enum so that variant selection and value conversion can be
// written as exhaustive switches.
package gtype

import "fmt"

// PropertyType identifies the concrete (or flexible) type of a property.
type PropertyType uint8

const (
	Invalid PropertyType = iota
	Bool
	Float
	Float2
	Float3
	Float4
	Int32
	Uint32
	Uint64
	// Hash is a 64-bit identifier, usually authored as a 0x-prefixed hex string.
	Hash
	String
	// Prim is a reference to another prim, resolved to a replacement-table index.
	Prim
	// Enum is an integer constant selected by token from a spec's enum table.
	Enum

	// Flexible markers. These never appear in a resolved topology; the
	// resolver concretizes them before any slot is created.
	Any
	NumberOrVector
)

// IsFlexible reports whether the type is a polymorphic marker that must be
// concretized during resolution.
func (t PropertyType) IsFlexible() bool {
	return t == Any || t == NumberOrVector
}

// IsConcrete reports whether the type may appear in a resolved topology.
func (t PropertyType) IsConcrete() bool {
	return t != Invalid && !t.IsFlexible()
}

func (t PropertyType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Float:
		return "float"
	case Float2:
		return "float2"
	case Float3:
		return "float3"
	case Float4:
		return "float4"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Hash:
		return "hash"
	case String:
		return "string"
	case Prim:
		return "prim"
	case Enum:
		return "enum"
	case Any:
		return "any"
	case NumberOrVector:
		return "numberOrVector"
	}
	return fmt.Sprintf("invalid(%d)", uint8(t))
}

// TypeFromKeyword maps a manifest type keyword to its PropertyType. The
// keyword set mirrors String above.
func TypeFromKeyword(keyword string) (PropertyType, error) {
	switch keyword {
	case "bool":
		return Bool, nil
	case "float":
		return Float, nil
	case "float2":
		return Float2, nil
	case "float3":
		return Float3, nil
	case "float4":
		return Float4, nil
	case "int32":
		return Int32, nil
	case "uint32":
		return Uint32, nil
	case "uint64":
		return Uint64, nil
	case "hash":
		return Hash, nil
	case "string":
		return String, nil
	case "prim":
		return Prim, nil
	case "enum":
		return Enum, nil
	case "any":
		return Any, nil
	case "numberOrVector":
		return NumberOrVector, nil
	}
	return Invalid, fmt.Errorf("unknown property type keyword %q", keyword)
}

// VectorLen returns the component count for vector types, or 0.
func (t PropertyType) VectorLen() int {
	switch t {
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	}
	return 0
}
