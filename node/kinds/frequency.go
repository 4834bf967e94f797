package kinds

import (
	"math"

	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// FrequencyBandLabel is the Frequency Band node's kind label.
const FrequencyBandLabel = "FrequencyBand"

// newFrequencyBandKind implements the Frequency Band node (spec §4.2 table):
// given frequencyBins, sampleRate, fftSize, startHz, endHz, returns the
// subslice covering [floor(startHz/binWidth), ceil(endHz/binWidth)], empty
// if start > end.
func newFrequencyBandKind() node.Kind {
	return node.Kind{
		Label: FrequencyBandLabel,
		Inputs: []node.Port{
			{ID: "frequencyData", Type: portid.ByteArray},
			{ID: "sampleRate", Type: portid.Number, Default: float64(audioframe.DefaultSampleRate)},
			{ID: "fftSize", Type: portid.Number, Default: float64(audioframe.DefaultFFTSize)},
			{ID: "startHz", Type: portid.Number, Default: float64(0)},
			{ID: "endHz", Type: portid.Number, Default: float64(0)},
		},
		Outputs: []node.Port{{ID: "band", Type: portid.ByteArray}},
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			bins := portid.AsBytes(inputs["frequencyData"])
			sampleRate := portid.AsFloat(inputs["sampleRate"])
			fftSize := portid.AsFloat(inputs["fftSize"])
			startHz := portid.AsFloat(inputs["startHz"])
			endHz := portid.AsFloat(inputs["endHz"])

			if fftSize <= 0 {
				return node.Outputs{"band": []byte{}}
			}
			binWidth := (sampleRate / 2) / (fftSize / 2)
			if binWidth <= 0 {
				return node.Outputs{"band": []byte{}}
			}

			start := int(math.Floor(startHz / binWidth))
			end := int(math.Ceil(endHz / binWidth))
			if start > end {
				return node.Outputs{"band": []byte{}}
			}
			if start < 0 {
				start = 0
			}
			if end >= len(bins) {
				end = len(bins) - 1
			}
			if start >= len(bins) || start > end {
				return node.Outputs{"band": []byte{}}
			}
			return node.Outputs{"band": bins[start : end+1]}
		},
	}
}

// AverageVolumeLabel is the Average Volume node's kind label.
const AverageVolumeLabel = "AverageVolume"

// newAverageVolumeKind implements the Average Volume node (spec §4.2 table):
// the arithmetic mean of a byte array, 0 if empty.
func newAverageVolumeKind() node.Kind {
	return node.Kind{
		Label:   AverageVolumeLabel,
		Inputs:  []node.Port{{ID: "samples", Type: portid.ByteArray}},
		Outputs: []node.Port{{ID: "average", Type: portid.Number}},
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			samples := portid.AsBytes(inputs["samples"])
			if len(samples) == 0 {
				return node.Outputs{"average": float64(0)}
			}
			var sum int
			for _, s := range samples {
				sum += int(s)
			}
			return node.Outputs{"average": float64(sum) / float64(len(samples))}
		},
	}
}
