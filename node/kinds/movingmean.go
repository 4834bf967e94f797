package kinds

import (
	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// MovingMeanLabel is the Moving Mean node's kind label.
const MovingMeanLabel = "MovingMean"

// movingMeanSample is one (time, value) entry in the rolling window.
type movingMeanSample struct {
	t float64
	v float64
}

// movingMeanScratch holds the circular buffer of recent samples. The
// teacher's jitter buffer (client/internal/jitter/jitter.go) uses a
// fixed-size ring keyed by sequence number; here the key is wall/frame time
// instead, since samples arrive once per tick rather than once per network
// packet, and old entries are pruned by age rather than by ring wraparound.
type movingMeanScratch struct {
	samples []movingMeanSample
}

// newMovingMeanKind implements the Moving Mean node (spec §4.2 table):
// windowed mean over the last windowMs of input samples.
func newMovingMeanKind() node.Kind {
	return node.Kind{
		Label: MovingMeanLabel,
		Inputs: []node.Port{
			{ID: "value", Type: portid.Number, Default: float64(0)},
			{ID: "windowMs", Type: portid.Number, Default: float64(500)},
			{ID: "time", Type: portid.Number},
		},
		Outputs:    []node.Port{{ID: "mean", Type: portid.Number}},
		IsStateful: true,
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			value := portid.AsFloat(inputs["value"])
			windowMs := portid.AsFloat(inputs["windowMs"])
			now := portid.AsFloat(inputs["time"])

			raw := inst.Scratch(func() any { return &movingMeanScratch{} })
			st := raw.(*movingMeanScratch)

			st.samples = append(st.samples, movingMeanSample{t: now, v: value})

			windowSec := windowMs / 1000
			cutoff := now - windowSec
			i := 0
			for i < len(st.samples) && st.samples[i].t < cutoff {
				i++
			}
			if i > 0 {
				st.samples = st.samples[i:]
			}

			if len(st.samples) == 0 {
				return node.Outputs{"mean": float64(0)}
			}
			var sum float64
			for _, s := range st.samples {
				sum += s.v
			}
			return node.Outputs{"mean": sum / float64(len(st.samples))}
		},
	}
}
