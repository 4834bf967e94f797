package kinds

import (
	"sort"

	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// AdaptiveNormalizeLabel is the Adaptive Normalize (Quantile) node's kind label.
const AdaptiveNormalizeLabel = "AdaptiveNormalize"

// adaptiveNormalizeScratch holds the rolling window of raw samples used to
// estimate the low/high quantiles. Kept as a plain time-stamped slice like
// Moving Mean rather than a fixed-bucket histogram: at audio-reactive frame
// rates (tens to hundreds of samples per window) a sort-on-read is cheap
// and gives an exact quantile rather than a bucketed approximation.
type adaptiveNormalizeScratch struct {
	samples []movingMeanSample
}

// newAdaptiveNormalizeKind implements the Adaptive Normalize node (spec
// §4.2 table): maintains a rolling window of samples over windowMs, outputs
// (value - q_low) / (q_high - q_low) clamped to [0,1].
func newAdaptiveNormalizeKind() node.Kind {
	return node.Kind{
		Label: AdaptiveNormalizeLabel,
		Inputs: []node.Port{
			{ID: "value", Type: portid.Number, Default: float64(0)},
			{ID: "windowMs", Type: portid.Number, Default: float64(4000)},
			{ID: "lowQuantile", Type: portid.Number, Default: float64(0.01)},
			{ID: "highQuantile", Type: portid.Number, Default: float64(0.99)},
			{ID: "time", Type: portid.Number},
		},
		Outputs:    []node.Port{{ID: "normalized", Type: portid.Number}},
		IsStateful: true,
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			value := portid.AsFloat(inputs["value"])
			windowMs := portid.AsFloat(inputs["windowMs"])
			lowQ := portid.AsFloat(inputs["lowQuantile"])
			highQ := portid.AsFloat(inputs["highQuantile"])
			now := portid.AsFloat(inputs["time"])

			raw := inst.Scratch(func() any { return &adaptiveNormalizeScratch{} })
			st := raw.(*adaptiveNormalizeScratch)

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
				return node.Outputs{"normalized": float64(0)}
			}

			sorted := make([]float64, len(st.samples))
			for i, s := range st.samples {
				sorted[i] = s.v
			}
			sort.Float64s(sorted)

			qLow := quantile(sorted, lowQ)
			qHigh := quantile(sorted, highQ)

			if qHigh == qLow {
				return node.Outputs{"normalized": float64(0)}
			}

			result := (value - qLow) / (qHigh - qLow)
			if result < 0 {
				result = 0
			} else if result > 1 {
				result = 1
			}
			return node.Outputs{"normalized": result}
		},
	}
}

// quantile returns the linear-interpolated q-th quantile (q in [0,1]) of a
// sorted ascending slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
