// Package portid defines the closed set of port types node graphs are built
// from, and the coercion rules the evaluator applies when a resolved value's
// dynamic type doesn't match the port it is being fed into.
package portid

import "strconv"

// Type is a tag from the closed set of port types a node input/output can
// declare. Two ports may only be connected when their Type values match
// exactly.
type Type string

const (
	Number            Type = "number"
	String            Type = "string"
	Boolean           Type = "boolean"
	Color             Type = "color"
	Vector3           Type = "vector3"
	ByteArray         Type = "byteArray"
	FrequencyAnalysis Type = "frequencyAnalysis"
	MathOp            Type = "mathOp"
)

// Vec3 is the concrete value carried by a Vector3 port.
type Vec3 struct {
	X, Y, Z float64
}

// RGBA is the concrete value carried by a Color port, components in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// Zero returns the type-specific zero value for t, used by the evaluator
// when a port has no edge, no override, and no declared default.
func Zero(t Type) any {
	switch t {
	case Number:
		return float64(0)
	case String:
		return ""
	case Boolean:
		return false
	case Color:
		return RGBA{}
	case Vector3:
		return Vec3{}
	case ByteArray:
		return []byte{}
	case FrequencyAnalysis:
		return []byte{}
	case MathOp:
		return "add"
	default:
		return nil
	}
}

// Coerce applies the evaluator's type-coercion rule (spec §4.3 step 3):
// when the target port type is Number and the resolved value is a string,
// parse it as a float (NaN/unparseable → 0); when the target type is String,
// stringify via fmt-free conversion. All other combinations pass through
// unchanged — the evaluator does not coerce between incompatible kinds, it
// only smooths the number/string literal-override boundary.
func Coerce(t Type, v any) any {
	switch t {
	case Number:
		switch x := v.(type) {
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return float64(0)
			}
			return f
		case float64:
			return x
		case int:
			return float64(x)
		case nil:
			return float64(0)
		default:
			return v
		}
	case String:
		switch x := v.(type) {
		case string:
			return x
		case float64:
			return strconv.FormatFloat(x, 'g', -1, 64)
		case nil:
			return ""
		default:
			return v
		}
	default:
		return v
	}
}

// AsFloat extracts a float64 from a resolved value, defaulting to 0 for any
// type that isn't already numeric. Node compute functions use this after
// Coerce has already run for Number-typed inputs, but it is exported so
// kinds that accept loosely-typed literals (e.g. Math operands supplied as
// inputValues before an edge ever coerced them) can be defensive.
func AsFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsBytes extracts a byte slice from a resolved value, defaulting to an
// empty slice for anything else.
func AsBytes(v any) []byte {
	if b, ok := v.([]byte); ok {
		return b
	}
	return []byte{}
}

// AsString extracts a string from a resolved value via its string coercion.
func AsString(v any) string {
	s, _ := Coerce(String, v).(string)
	return s
}

// AsBool extracts a boolean, defaulting to false for non-bool values.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}
