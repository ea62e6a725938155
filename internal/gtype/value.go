package gtype

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// InvalidPrimIndex is the sentinel stored for a Prim property whose target
// could not be resolved.
const InvalidPrimIndex uint32 = math.MaxUint32

// Value is a closed tagged union over the property types that can appear in
// a resolved graph state. All fields are comparable, so Values can be used
// as map keys and compared with ==.
type Value struct {
	Kind PropertyType
	B    bool
	// F holds the scalar float in F[0]; Float2/3/4 use the leading components.
	F [4]float32
	I int32
	U uint64
	S string
}

func BoolValue(v bool) Value       { return Value{Kind: Bool, B: v} }
func FloatValue(v float32) Value   { return Value{Kind: Float, F: [4]float32{v}} }
func Int32Value(v int32) Value     { return Value{Kind: Int32, I: v} }
func Uint32Value(v uint32) Value   { return Value{Kind: Uint32, U: uint64(v)} }
func Uint64Value(v uint64) Value   { return Value{Kind: Uint64, U: v} }
func HashValue(v uint64) Value     { return Value{Kind: Hash, U: v} }
func StringValue(v string) Value   { return Value{Kind: String, S: v} }
func PrimValue(index uint32) Value { return Value{Kind: Prim, U: uint64(index)} }
func EnumValue(v int32) Value      { return Value{Kind: Enum, I: v} }
func Float2Value(x, y float32) Value {
	return Value{Kind: Float2, F: [4]float32{x, y}}
}
func Float3Value(x, y, z float32) Value {
	return Value{Kind: Float3, F: [4]float32{x, y, z}}
}
func Float4Value(x, y, z, w float32) Value {
	return Value{Kind: Float4, F: [4]float32{x, y, z, w}}
}

// ZeroValue returns the default value for a concrete property type.
func ZeroValue(t PropertyType) Value {
	switch t {
	case Prim:
		return PrimValue(InvalidPrimIndex)
	case Any, NumberOrVector:
		// Flexible defaults collapse to a scalar float until resolution
		// proves otherwise.
		return FloatValue(0)
	default:
		return Value{Kind: t}
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) String() string {
	switch v.Kind {
	case Bool:
		return fmt.Sprintf("bool(%t)", v.B)
	case Float:
		return fmt.Sprintf("float(%g)", v.F[0])
	case Float2:
		return fmt.Sprintf("float2(%g, %g)", v.F[0], v.F[1])
	case Float3:
		return fmt.Sprintf("float3(%g, %g, %g)", v.F[0], v.F[1], v.F[2])
	case Float4:
		return fmt.Sprintf("float4(%g, %g, %g, %g)", v.F[0], v.F[1], v.F[2], v.F[3])
	case Int32:
		return fmt.Sprintf("int32(%d)", v.I)
	case Uint32:
		return fmt.Sprintf("uint32(%d)", v.U)
	case Uint64:
		return fmt.Sprintf("uint64(%d)", v.U)
	case Hash:
		return fmt.Sprintf("hash(0x%x)", v.U)
	case String:
		return fmt.Sprintf("string(%q)", v.S)
	case Prim:
		if uint32(v.U) == InvalidPrimIndex {
			return "prim(invalid)"
		}
		return fmt.Sprintf("prim(%d)", v.U)
	case Enum:
		return fmt.Sprintf("enum(%d)", v.I)
	}
	return "invalid"
}

// FromCty converts an authored cty value into a Value of the wanted concrete
// type. String-held values fall through to the token parser, with enum
// tokens looked up in the spec's enum table first.
func FromCty(v cty.Value, want PropertyType, enums map[string]Value) (Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return ZeroValue(want), nil
	}

	if v.Type() == cty.String {
		token := v.AsString()
		if len(enums) > 0 {
			if ev, ok := enums[token]; ok {
				return ev, nil
			}
		}
		return ValueFromString(token, want)
	}

	switch want {
	case Bool:
		if v.Type() == cty.Bool {
			return BoolValue(v.True()), nil
		}
	case Float:
		if v.Type() == cty.Number {
			f, _ := v.AsBigFloat().Float32()
			return FloatValue(f), nil
		}
	case Float2, Float3, Float4:
		if vec, ok := ctyTupleToVector(v, want.VectorLen()); ok {
			return Value{Kind: want, F: vec}, nil
		}
	case Int32, Enum:
		if v.Type() == cty.Number {
			i, _ := v.AsBigFloat().Int64()
			return Value{Kind: want, I: int32(i)}, nil
		}
	case Uint32:
		if v.Type() == cty.Number {
			u, _ := v.AsBigFloat().Uint64()
			return Uint32Value(uint32(u)), nil
		}
	case Uint64, Hash:
		if v.Type() == cty.Number {
			u, _ := v.AsBigFloat().Uint64()
			return Value{Kind: want, U: u}, nil
		}
	case Prim:
		return Value{}, fmt.Errorf("prim properties must be authored as relationships, not values")
	}
	return Value{}, fmt.Errorf("cannot convert authored value of type %s to %s", v.Type().FriendlyName(), want)
}

// ctyTupleToVector extracts n leading float components from a tuple or list
// of numbers.
func ctyTupleToVector(v cty.Value, n int) ([4]float32, bool) {
	var out [4]float32
	t := v.Type()
	if !t.IsTupleType() && !t.IsListType() {
		return out, false
	}
	if v.LengthInt() != n {
		return out, false
	}
	i := 0
	for it := v.ElementIterator(); it.Next(); i++ {
		_, ev := it.Element()
		if ev.Type() != cty.Number {
			return out, false
		}
		f, _ := ev.AsBigFloat().Float32()
		out[i] = f
	}
	return out, true
}

// Convert coerces a value to another concrete type, used when a flexible
// property's default must follow the resolved type. Scalars splat into
// vectors; strings re-parse; anything else degrades to the target's zero.
func Convert(v Value, to PropertyType) Value {
	if v.Kind == to {
		return v
	}
	switch {
	case v.Kind == String:
		if out, err := ValueFromString(v.S, to); err == nil {
			return out
		}
	case v.Kind == Float && to.VectorLen() > 0:
		var f [4]float32
		for i := 0; i < to.VectorLen(); i++ {
			f[i] = v.F[0]
		}
		return Value{Kind: to, F: f}
	case v.Kind == Float && to == Int32:
		return Int32Value(int32(v.F[0]))
	case v.Kind == Int32 && to == Float:
		return FloatValue(float32(v.I))
	case v.Kind == Int32 && to == Bool:
		return BoolValue(v.I != 0)
	case (v.Kind == Uint32 || v.Kind == Uint64) && (to == Uint32 || to == Uint64 || to == Hash):
		return Value{Kind: to, U: v.U}
	}
	return ZeroValue(to)
}
