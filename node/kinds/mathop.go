package kinds

import (
	"math"

	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// MathLabel is the Math node's kind label.
const MathLabel = "Math"

// newMathKind implements the Math node (spec §4.2 table): op in
// {add,sub,mul,div,min,max,pow} plus the sin/cos extension the sine-over-time
// testable scenario (spec §8, scenario 1) requires to turn a phase value
// into a waveform. Division by zero returns 0; an undefined op passes a
// through unchanged.
func newMathKind() node.Kind {
	return node.Kind{
		Label: MathLabel,
		Inputs: []node.Port{
			{ID: "a", Type: portid.Number, Default: float64(0)},
			{ID: "b", Type: portid.Number, Default: float64(0)},
			{ID: "op", Type: portid.MathOp, Default: "add"},
		},
		Outputs: []node.Port{{ID: "result", Type: portid.Number}},
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			a := portid.AsFloat(inputs["a"])
			b := portid.AsFloat(inputs["b"])
			op := portid.AsString(inputs["op"])

			var result float64
			switch op {
			case "add":
				result = a + b
			case "sub":
				result = a - b
			case "mul":
				result = a * b
			case "div":
				if b == 0 {
					result = 0
				} else {
					result = a / b
				}
			case "min":
				result = math.Min(a, b)
			case "max":
				result = math.Max(a, b)
			case "pow":
				result = math.Pow(a, b)
			case "sin":
				result = math.Sin(a)
			case "cos":
				result = math.Cos(a)
			default:
				result = a
			}
			return node.Outputs{"result": result}
		},
	}
}

// NormalizeLabel is the linear Normalize node's kind label.
const NormalizeLabel = "Normalize"

// newNormalizeKind implements the linear Normalize node (spec §4.2 table):
// an affine map [inMin,inMax] -> [outMin,outMax], clamped to
// [min(outMin,outMax), max(outMin,outMax)]. A degenerate input range
// (inMax == inMin) returns outMin, since the affine map is undefined there.
func newNormalizeKind() node.Kind {
	return node.Kind{
		Label: NormalizeLabel,
		Inputs: []node.Port{
			{ID: "value", Type: portid.Number, Default: float64(0)},
			{ID: "inMin", Type: portid.Number, Default: float64(0)},
			{ID: "inMax", Type: portid.Number, Default: float64(1)},
			{ID: "outMin", Type: portid.Number, Default: float64(0)},
			{ID: "outMax", Type: portid.Number, Default: float64(1)},
		},
		Outputs: []node.Port{{ID: "result", Type: portid.Number}},
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			value := portid.AsFloat(inputs["value"])
			inMin := portid.AsFloat(inputs["inMin"])
			inMax := portid.AsFloat(inputs["inMax"])
			outMin := portid.AsFloat(inputs["outMin"])
			outMax := portid.AsFloat(inputs["outMax"])

			if inMax == inMin {
				return node.Outputs{"result": outMin}
			}

			t := (value - inMin) / (inMax - inMin)
			result := outMin + t*(outMax-outMin)

			lo, hi := outMin, outMax
			if lo > hi {
				lo, hi = hi, lo
			}
			if result < lo {
				result = lo
			} else if result > hi {
				result = hi
			}
			return node.Outputs{"result": result}
		},
	}
}
