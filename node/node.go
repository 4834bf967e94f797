// Package node defines the catalogue of node kinds a network graph is built
// from: each NodeKind declares its port schema and a compute function;
// instances (GraphNode, in package graph) carry the per-instance scratch
// state stateful kinds need.
//
// The shape follows the teacher's small-processor packages
// (client/internal/agc, .../vad, .../noisegate): a struct with a few tunable
// constants, a constructor, and one hot-path method — except here the
// "struct" is the node's Scratch, reset by the graph rather than by a
// package-level New().
package node

import (
	"auroraengine/audioframe"
	"auroraengine/portid"
)

// Port describes one input or output slot on a NodeKind.
type Port struct {
	ID      string
	Type    portid.Type
	Default any // zero value if nil; see portid.Zero for type-specific zeros
}

// Inputs is the resolved input map passed to a compute function: one entry
// per declared input port, already edge/default/coerced per evaluator rules.
type Inputs map[string]any

// Outputs is the map of computed output values, one entry per declared
// output port.
type Outputs map[string]any

// Instance is the mutation surface a stateful node's compute function is
// given. Scratch is the ONLY permitted mutation during compute (spec §4.2);
// everything else compute receives is read-only.
type Instance interface {
	// Scratch returns the node instance's persistent state, lazily
	// initialized via the supplied init function on first access.
	Scratch(init func() any) any
	// SetScratch replaces the scratch value outright.
	SetScratch(v any)
}

// ComputeFunc is the function signature every NodeKind implements. It must
// be deterministic given (inputs, frame, the current scratch) and must not
// read any time source except frame.Time.
type ComputeFunc func(inputs Inputs, frame audioframe.Frame, inst Instance) Outputs

// Kind is the registry entry for one class of node.
type Kind struct {
	Label      string
	Inputs     []Port
	Outputs    []Port
	Compute    ComputeFunc
	IsStateful bool
}

// InputPort looks up a declared input port by id.
func (k Kind) InputPort(id string) (Port, bool) {
	for _, p := range k.Inputs {
		if p.ID == id {
			return p, true
		}
	}
	return Port{}, false
}

// OutputPort looks up a declared output port by id.
func (k Kind) OutputPort(id string) (Port, bool) {
	for _, p := range k.Outputs {
		if p.ID == id {
			return p, true
		}
	}
	return Port{}, false
}
