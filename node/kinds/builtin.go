// Package kinds holds the concrete NodeKind implementations the registry is
// seeded with: the two mandatory kinds (Input, Output) and the
// representative stateful/pure kinds spec §4.2 enumerates.
package kinds

import "auroraengine/node"

// RegisterBuiltins adds every built-in kind to r. Call once at startup
// before any NetworkGraph is evaluated.
func RegisterBuiltins(r *node.Registry) {
	r.Register(newInputKind())
	r.Register(newOutputKind())
	r.Register(newFrequencyBandKind())
	r.Register(newAverageVolumeKind())
	r.Register(newEnvelopeFollowerKind())
	r.Register(newMovingMeanKind())
	r.Register(newAdaptiveNormalizeKind())
	r.Register(newHysteresisGateKind())
	r.Register(newRefractoryGateKind())
	r.Register(newMathKind())
	r.Register(newNormalizeKind())
}

// NewRegistry returns a fresh registry pre-seeded with every built-in kind.
func NewRegistry() *node.Registry {
	r := node.NewRegistry()
	RegisterBuiltins(r)
	return r
}
