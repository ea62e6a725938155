package gtype

import (
	"fmt"
	"strconv"
	"strings"
)

// maxLiteralLen bounds authored literal parsing.
const maxLiteralLen = 1024

// ValueFromString parses an authored token string into a value of the given
// concrete type.
func ValueFromString(s string, t PropertyType) (Value, error) {
	if len(s) > maxLiteralLen {
		return Value{}, fmt.Errorf("literal too long (%d > %d)", len(s), maxLiteralLen)
	}
	switch t {
	case Bool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1":
			return BoolValue(true), nil
		default:
			return BoolValue(false), nil
		}
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float literal %q: %w", s, err)
		}
		return FloatValue(float32(f)), nil
	case Float2, Float3, Float4:
		vec, err := parseVector(s, t.VectorLen())
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: t, F: vec}, nil
	case Int32, Enum:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer literal %q: %w", s, err)
		}
		return Value{Kind: t, I: int32(i)}, nil
	case Uint32:
		u, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid unsigned literal %q: %w", s, err)
		}
		return Uint32Value(uint32(u)), nil
	case Uint64, Hash, Prim:
		u, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid unsigned literal %q: %w", s, err)
		}
		switch t {
		case Prim:
			return PrimValue(uint32(u)), nil
		default:
			return Value{Kind: t, U: u}, nil
		}
	case String:
		return StringValue(s), nil
	}
	return Value{}, fmt.Errorf("cannot parse literal %q as %s", s, t)
}

// parseVector reads n comma or space separated floats, optionally wrapped in
// parentheses or brackets.
func parseVector(s string, n int) ([4]float32, error) {
	var out [4]float32
	fields := splitVectorFields(s)
	if len(fields) != n {
		return out, fmt.Errorf("vector literal %q has %d components, want %d", s, len(fields), n)
	}
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return out, fmt.Errorf("vector literal %q component %d: %w", s, i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func splitVectorFields(s string) []string {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, ")")
	trimmed = strings.TrimSuffix(trimmed, "]")
	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return parts
}

// InferTypeFromLiteral applies shape heuristics to a token string authored
// on a flexible property. ambiguous is true for bare integer tokens (such
// as "0" or "1") that could belong to several types; callers should
// re-check connection evidence before accepting the numeric default.
func InferTypeFromLiteral(s string) (t PropertyType, ambiguous bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return String, false
	}

	// Delimited comma lists of 2-4 numbers read as vectors.
	if (strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		fields := splitVectorFields(trimmed)
		if n := len(fields); n >= 2 && n <= 4 {
			if allFloats(fields) {
				switch n {
				case 2:
					return Float2, false
				case 3:
					return Float3, false
				default:
					return Float4, false
				}
			}
		}
		return String, false
	}

	if isHexHash(trimmed) {
		return Hash, false
	}

	if looksLikeFloat(trimmed) {
		return Float, false
	}

	if strings.EqualFold(trimmed, "true") || strings.EqualFold(trimmed, "false") {
		return Bool, false
	}

	// Bare integers parse as floats but are near-ambiguous; report that so
	// the caller can prefer connection evidence.
	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Float, true
	}

	return String, false
}

func allFloats(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 32); err != nil {
			return false
		}
	}
	return len(fields) > 0
}

// isHexHash matches 0x-prefixed strings of 1-16 hex digits.
func isHexHash(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	digits := s[2:]
	if len(digits) < 1 || len(digits) > 16 {
		return false
	}
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// looksLikeFloat reports whether the token carries float syntax: a decimal
// point, an exponent, or any other form strconv accepts that is not a bare
// integer.
func looksLikeFloat(s string) bool {
	if strings.ContainsAny(s, ".eE") {
		_, err := strconv.ParseFloat(s, 32)
		return err == nil
	}
	return false
}
