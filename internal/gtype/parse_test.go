package gtype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueFromString(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		typ     PropertyType
		want    Value
		wantErr bool
	}{
		{name: "bool true", input: "true", typ: Bool, want: BoolValue(true)},
		{name: "bool one", input: "1", typ: Bool, want: BoolValue(true)},
		{name: "bool anything else is false", input: "yes", typ: Bool, want: BoolValue(false)},
		{name: "float", input: "1.5", typ: Float, want: FloatValue(1.5)},
		{name: "float with whitespace", input: "  2.25 ", typ: Float, want: FloatValue(2.25)},
		{name: "float garbage", input: "abc", typ: Float, wantErr: true},
		{name: "float2 parens", input: "(1, 2)", typ: Float2, want: Float2Value(1, 2)},
		{name: "float3 spaces", input: "1 2 3", typ: Float3, want: Float3Value(1, 2, 3)},
		{name: "float4 brackets", input: "[0.5, 1, 1.5, 2]", typ: Float4, want: Float4Value(0.5, 1, 1.5, 2)},
		{name: "float3 wrong arity", input: "(1, 2)", typ: Float3, wantErr: true},
		{name: "int32 decimal", input: "-42", typ: Int32, want: Int32Value(-42)},
		{name: "int32 hex", input: "0x10", typ: Int32, want: Int32Value(16)},
		{name: "uint32", input: "7", typ: Uint32, want: Uint32Value(7)},
		{name: "uint32 negative rejected", input: "-1", typ: Uint32, wantErr: true},
		{name: "uint64", input: "18446744073709551615", typ: Uint64, want: Uint64Value(^uint64(0))},
		{name: "hash hex", input: "0xDEADBEEF", typ: Hash, want: HashValue(0xDEADBEEF)},
		{name: "string passthrough", input: "hello world", typ: String, want: StringValue("hello world")},
		{name: "enum numeric", input: "3", typ: Enum, want: EnumValue(3)},
		{name: "prim index", input: "12", typ: Prim, want: PrimValue(12)},
		{name: "flexible type rejected", input: "1", typ: Any, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValueFromString(tc.input, tc.typ)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValueFromStringRejectsOversizedLiterals(t *testing.T) {
	_, err := ValueFromString(strings.Repeat("a", maxLiteralLen+1), String)
	assert.ErrorContains(t, err, "literal too long")
}

func TestInferTypeFromLiteral(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		want          PropertyType
		wantAmbiguous bool
	}{
		{name: "empty is string", input: "", want: String},
		{name: "vector2", input: "(1, 2)", want: Float2},
		{name: "vector3", input: "[1, 2, 3]", want: Float3},
		{name: "vector4", input: "(1, 2, 3, 4)", want: Float4},
		{name: "delimited non-numbers fall back to string", input: "(a, b)", want: String},
		{name: "hash", input: "0x1A2B", want: Hash},
		{name: "long hash", input: "0xffffffffffffffff", want: Hash},
		{name: "too many hash digits", input: "0x" + strings.Repeat("f", 17), want: String},
		{name: "decimal float", input: "3.14", want: Float},
		{name: "exponent float", input: "1e3", want: Float},
		{name: "bool lower", input: "true", want: Bool},
		{name: "bool mixed case", input: "False", want: Bool},
		{name: "bare zero is ambiguous float", input: "0", want: Float, wantAmbiguous: true},
		{name: "bare one is ambiguous float", input: "1", want: Float, wantAmbiguous: true},
		{name: "bare integer is ambiguous float", input: "42", want: Float, wantAmbiguous: true},
		{name: "free text is string", input: "albedo_texture", want: String},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ambiguous := InferTypeFromLiteral(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantAmbiguous, ambiguous)
		})
	}
}
