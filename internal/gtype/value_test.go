package gtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestZeroValue(t *testing.T) {
	assert.Equal(t, BoolValue(false), ZeroValue(Bool))
	assert.Equal(t, FloatValue(0), ZeroValue(Float))
	assert.Equal(t, StringValue(""), ZeroValue(String))
	assert.Equal(t, PrimValue(InvalidPrimIndex), ZeroValue(Prim))

	// Flexible types default to a scalar float until resolution says otherwise.
	assert.Equal(t, FloatValue(0), ZeroValue(Any))
	assert.Equal(t, FloatValue(0), ZeroValue(NumberOrVector))
}

func TestFromCty(t *testing.T) {
	testCases := []struct {
		name    string
		input   cty.Value
		want    Value
		typ     PropertyType
		enums   map[string]Value
		wantErr bool
	}{
		{name: "null yields zero", input: cty.NullVal(cty.Number), typ: Float, want: FloatValue(0)},
		{name: "native bool", input: cty.True, typ: Bool, want: BoolValue(true)},
		{name: "native number to float", input: cty.NumberFloatVal(2.5), typ: Float, want: FloatValue(2.5)},
		{name: "native number to int32", input: cty.NumberIntVal(-9), typ: Int32, want: Int32Value(-9)},
		{name: "native number to uint64", input: cty.NumberUIntVal(1 << 40), typ: Uint64, want: Uint64Value(1 << 40)},
		{name: "tuple to float3", input: cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2), cty.NumberIntVal(3)}), typ: Float3, want: Float3Value(1, 2, 3)},
		{name: "tuple arity mismatch", input: cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}), typ: Float3, wantErr: true},
		{name: "string falls through to token parser", input: cty.StringVal("0x20"), typ: Hash, want: HashValue(0x20)},
		{name: "enum token lookup", input: cty.StringVal("Linear"), typ: Enum, enums: map[string]Value{"Linear": EnumValue(2)}, want: EnumValue(2)},
		{name: "enum token miss falls to parser", input: cty.StringVal("5"), typ: Enum, enums: map[string]Value{"Linear": EnumValue(2)}, want: EnumValue(5)},
		{name: "prim rejects values", input: cty.NumberIntVal(1), typ: Prim, wantErr: true},
		{name: "bool from number rejected", input: cty.NumberIntVal(1), typ: Bool, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromCty(tc.input, tc.typ, tc.enums)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConvert(t *testing.T) {
	t.Run("same kind passes through", func(t *testing.T) {
		v := Float3Value(1, 2, 3)
		assert.Equal(t, v, Convert(v, Float3))
	})

	t.Run("scalar splats into vectors", func(t *testing.T) {
		assert.Equal(t, Float2Value(7, 7), Convert(FloatValue(7), Float2))
		assert.Equal(t, Float4Value(7, 7, 7, 7), Convert(FloatValue(7), Float4))
	})

	t.Run("strings re-parse", func(t *testing.T) {
		assert.Equal(t, FloatValue(1.5), Convert(StringValue("1.5"), Float))
		assert.Equal(t, HashValue(0xAB), Convert(StringValue("0xAB"), Hash))
	})

	t.Run("numeric coercions", func(t *testing.T) {
		assert.Equal(t, Int32Value(3), Convert(FloatValue(3.9), Int32))
		assert.Equal(t, FloatValue(4), Convert(Int32Value(4), Float))
		assert.Equal(t, BoolValue(true), Convert(Int32Value(1), Bool))
		assert.Equal(t, HashValue(10), Convert(Uint64Value(10), Hash))
	})

	t.Run("impossible conversions degrade to zero", func(t *testing.T) {
		assert.Equal(t, ZeroValue(Float3), Convert(BoolValue(true), Float3))
		assert.Equal(t, ZeroValue(Float), Convert(StringValue("not a number"), Float))
	})
}
