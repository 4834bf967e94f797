package kinds

import (
	"auroraengine/audioframe"
	"auroraengine/node"
	"auroraengine/portid"
)

// InputLabel and OutputLabel are the two mandatory kind labels every
// NetworkGraph must contain exactly one of (spec §3 NetworkGraph invariant).
const (
	InputLabel  = "Input"
	OutputLabel = "Output"
)

// FrequencyAnalysis is the composite value the Input node exposes on its
// "frequencyAnalysis" output port: everything a node needs to interpret
// frequencyBins without also wiring sampleRate/fftSize ports individually.
type FrequencyAnalysis struct {
	Bins       []byte
	SampleRate int
	FFTSize    int
}

// newInputKind returns the mandatory Input kind: no inputs, one output port
// per AudioFrame field plus the frequencyAnalysis composite (spec §4.2).
func newInputKind() node.Kind {
	return node.Kind{
		Label:   InputLabel,
		Inputs:  nil,
		Outputs: []node.Port{
			{ID: "audioSignal", Type: portid.ByteArray},
			{ID: "frequencyData", Type: portid.ByteArray},
			{ID: "time", Type: portid.Number},
			{ID: "sampleRate", Type: portid.Number},
			{ID: "fftSize", Type: portid.Number},
			{ID: "frequencyAnalysis", Type: portid.FrequencyAnalysis},
		},
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			return node.Outputs{
				"audioSignal":       frame.TimeDomainSamples,
				"frequencyData":     frame.FrequencyBins,
				"time":              frame.Time,
				"sampleRate":        float64(frame.SampleRate),
				"fftSize":           float64(frame.FFTSize),
				"frequencyAnalysis": FrequencyAnalysis{Bins: frame.FrequencyBins, SampleRate: frame.SampleRate, FFTSize: frame.FFTSize},
			}
		},
	}
}

// newOutputKind returns the mandatory Output kind: one "value" input passed
// through verbatim as the graph result. Since a registry entry is shared
// across every graph, the actual output type a given graph expects is
// carried on the graph/network side (see graph.NetworkGraph.OutputType);
// the Output kind here declares its "value" port as Number, and the
// evaluator and edge validator substitute the graph's recorded type for
// that port. This mirrors the teacher's ControlMsg pattern
// (server/protocol.go) of one wire shape carrying many logical payloads.
func newOutputKind() node.Kind {
	return node.Kind{
		Label:  OutputLabel,
		Inputs: []node.Port{{ID: "value", Type: portid.Number}},
		Outputs: []node.Port{
			{ID: "value", Type: portid.Number},
		},
		Compute: func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
			return node.Outputs{"value": inputs["value"]}
		},
	}
}
