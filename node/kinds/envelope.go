package kinds

import (
	"math"

	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// EnvelopeFollowerLabel is the Envelope Follower node's kind label.
const EnvelopeFollowerLabel = "EnvelopeFollower"

// envelopeScratch is the node instance's persistent state: the previous
// output level and the frame time it was computed at, matching spec §4.2's
// "state = {prevEnv, prevTime}". The shape follows the teacher's AGC
// processor (client/internal/agc/agc.go), which carries a single smoothed
// gain value across calls the same way.
type envelopeScratch struct {
	prevEnv  float64
	prevTime float64
	primed   bool
}

// newEnvelopeFollowerKind implements the Envelope Follower node (spec §4.2
// table): a first-order IIR with independent attack/release time constants
// in ms. alpha = 1 - exp(-dt/tau), tau chosen per direction (rising vs.
// falling), matching the attack/release asymmetry the teacher's AGC.Process
// applies to its own gain smoothing.
func newEnvelopeFollowerKind() node.Kind {
	return node.Kind{
		Label: EnvelopeFollowerLabel,
		Inputs: []node.Port{
			{ID: "value", Type: portid.Number, Default: float64(0)},
			{ID: "attackMs", Type: portid.Number, Default: float64(10)},
			{ID: "releaseMs", Type: portid.Number, Default: float64(100)},
			{ID: "time", Type: portid.Number}, // resolved to frame.Time when unconnected; see evaluator
		},
		Outputs:    []node.Port{{ID: "envelope", Type: portid.Number}},
		IsStateful: true,
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			value := portid.AsFloat(inputs["value"])
			attackMs := portid.AsFloat(inputs["attackMs"])
			releaseMs := portid.AsFloat(inputs["releaseMs"])
			now := portid.AsFloat(inputs["time"])

			raw := inst.Scratch(func() any { return &envelopeScratch{} })
			st := raw.(*envelopeScratch)

			if !st.primed {
				st.prevEnv = value
				st.prevTime = now
				st.primed = true
				return node.Outputs{"envelope": st.prevEnv}
			}

			dt := now - st.prevTime
			if dt < 0 {
				dt = 0
			}
			st.prevTime = now

			rising := value > st.prevEnv
			tauMs := releaseMs
			if rising {
				tauMs = attackMs
			}
			if tauMs <= 0 {
				st.prevEnv = value
				return node.Outputs{"envelope": st.prevEnv}
			}

			tau := tauMs / 1000
			alpha := 1 - math.Exp(-dt/tau)
			st.prevEnv = st.prevEnv + alpha*(value-st.prevEnv)

			return node.Outputs{"envelope": st.prevEnv}
		},
	}
}
