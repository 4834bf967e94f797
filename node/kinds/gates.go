package kinds

import (
	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// HysteresisGateLabel is the Hysteresis Gate node's kind label.
const HysteresisGateLabel = "HysteresisGate"

// hysteresisScratch remembers the gate's last output, the mechanism by
// which it "retains previous output in [low, high]" (spec §4.2 table).
// Structurally this is the same retained-state idiom as the teacher's
// noisegate.Gate.open flag (client/internal/noisegate/noisegate.go).
type hysteresisScratch struct {
	open   bool
	primed bool
}

// newHysteresisGateKind implements the Hysteresis Gate node (spec §4.2
// table, edge case resolved in §9): outputs 1 when input crosses above
// high, 0 when it drops below low, retains previous output in between. If
// low > high they are swapped first (spec §9 resolves this explicitly).
func newHysteresisGateKind() node.Kind {
	return node.Kind{
		Label: HysteresisGateLabel,
		Inputs: []node.Port{
			{ID: "value", Type: portid.Number, Default: float64(0)},
			{ID: "low", Type: portid.Number, Default: float64(0.3)},
			{ID: "high", Type: portid.Number, Default: float64(0.5)},
		},
		Outputs:    []node.Port{{ID: "gate", Type: portid.Number}},
		IsStateful: true,
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			value := portid.AsFloat(inputs["value"])
			low := portid.AsFloat(inputs["low"])
			high := portid.AsFloat(inputs["high"])
			if low > high {
				low, high = high, low
			}

			raw := inst.Scratch(func() any { return &hysteresisScratch{} })
			st := raw.(*hysteresisScratch)

			switch {
			case value > high:
				st.open = true
			case value < low:
				st.open = false
			default:
				// within [low, high]: retain previous state; default to
				// closed the first time the gate is ever evaluated.
			}
			st.primed = true

			if st.open {
				return node.Outputs{"gate": float64(1)}
			}
			return node.Outputs{"gate": float64(0)}
		},
	}
}

// RefractoryGateLabel is the Refractory Gate node's kind label.
const RefractoryGateLabel = "RefractoryGate"

// refractoryScratch extends the hysteresis gate's retained-state idiom with
// the last-open timestamp, mirroring the teacher's VAD hangover counter
// (client/internal/vad/vad.go) but measured as an absolute time rather than
// a frame countdown, since nodes see frame.Time rather than a fixed frame
// cadence.
type refractoryScratch struct {
	open         bool
	lastOpenTime float64
	everOpened   bool
}

// newRefractoryGateKind implements the Refractory Gate node (spec §4.2
// table): like Hysteresis Gate but additionally refuses to re-open until
// minIntervalMs has elapsed since the last open.
func newRefractoryGateKind() node.Kind {
	return node.Kind{
		Label: RefractoryGateLabel,
		Inputs: []node.Port{
			{ID: "value", Type: portid.Number, Default: float64(0)},
			{ID: "low", Type: portid.Number, Default: float64(0.3)},
			{ID: "high", Type: portid.Number, Default: float64(0.5)},
			{ID: "minIntervalMs", Type: portid.Number, Default: float64(0)},
			{ID: "time", Type: portid.Number},
		},
		Outputs:    []node.Port{{ID: "gate", Type: portid.Number}},
		IsStateful: true,
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			value := portid.AsFloat(inputs["value"])
			low := portid.AsFloat(inputs["low"])
			high := portid.AsFloat(inputs["high"])
			if low > high {
				low, high = high, low
			}
			minIntervalMs := portid.AsFloat(inputs["minIntervalMs"])
			now := portid.AsFloat(inputs["time"])

			raw := inst.Scratch(func() any { return &refractoryScratch{} })
			st := raw.(*refractoryScratch)

			minIntervalSec := minIntervalMs / 1000

			switch {
			case value > high:
				canOpen := !st.everOpened || (now-st.lastOpenTime) >= minIntervalSec
				if canOpen {
					if !st.open {
						st.lastOpenTime = now
						st.everOpened = true
					}
					st.open = true
				}
			case value < low:
				st.open = false
			default:
				// hold previous state
			}

			if st.open {
				return node.Outputs{"gate": float64(1)}
			}
			return node.Outputs{"gate": float64(0)}
		},
	}
}
