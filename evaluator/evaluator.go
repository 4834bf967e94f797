// Package evaluator implements the Network Evaluator (spec §4.3): a
// demand-driven, memoized traversal of a NetworkGraph that produces the
// value at its unique Output node for a given AudioFrame.
package evaluator

import (
	"auroraengine/audioframe"
	"auroraengine/errs"
	"auroraengine/graph"
	"auroraengine/node"
	"auroraengine/node/kinds"
	"auroraengine/portid"
)

// Evaluator holds the node registry compute is dispatched through. It is
// stateless across calls — all per-evaluation memoization lives in the
// Evaluate call's local cache, per spec §4.3 step 1 ("Start fresh per call
// with an empty cache").
type Evaluator struct {
	registry *node.Registry
	warn     errs.Sink
}

// New returns an Evaluator dispatching through registry. A nil sink drops
// warnings.
func New(registry *node.Registry, warn errs.Sink) *Evaluator {
	return &Evaluator{registry: registry, warn: warn}
}

// Evaluate runs the full algorithm of spec §4.3 and returns the value
// produced by the unique Output node, or (nil, false) if the graph is
// malformed (no Output node, or a cycle was encountered).
func (e *Evaluator) Evaluate(g *graph.NetworkGraph, frame audioframe.Frame) (any, bool) {
	outputNode, ok := g.FindByKind(kinds.OutputLabel)
	if !ok {
		errs.Emit(e.warn, errs.MissingOutputNode, "network "+g.Name+" has no Output node")
		return nil, false
	}

	seen := make(map[string]node.Outputs)
	inProgress := make(map[string]bool)

	outputs, ok := e.computeNode(g, outputNode.NodeID, frame, seen, inProgress)
	if !ok || inProgress[cycleKey] {
		return nil, false
	}
	v, has := outputs["value"]
	if !has {
		return nil, false
	}
	return v, true
}

// cycleKey is set in inProgress when computeNode detects a cycle, so that
// Evaluate fails the whole call even though resolveInput falls back to a
// default for the edge that closed the cycle.
const cycleKey = "\x00cycle"

// computeNode returns nodeID's computed outputs, memoized in seen. Returns
// ok=false if a cycle is detected (inProgress already contains nodeID) or
// the node's kind is unknown.
func (e *Evaluator) computeNode(g *graph.NetworkGraph, nodeID string, frame audioframe.Frame, seen map[string]node.Outputs, inProgress map[string]bool) (node.Outputs, bool) {
	if out, ok := seen[nodeID]; ok {
		return out, true
	}
	if inProgress[nodeID] {
		errs.Emit(e.warn, errs.GraphCycle, "cycle detected at node "+nodeID)
		inProgress[cycleKey] = true
		return nil, false
	}

	gn, ok := g.Node(nodeID)
	if !ok {
		return nil, false
	}

	kind, ok := e.registry.Lookup(gn.KindLabel)
	if !ok {
		errs.Emit(e.warn, errs.UnknownNodeKind, "node "+nodeID+" references unknown kind "+gn.KindLabel)
		return nil, false
	}

	if kind.Label == kinds.InputLabel {
		out := kind.Compute(nil, frame, gn)
		seen[nodeID] = out
		return out, true
	}

	inProgress[nodeID] = true
	inputs := make(node.Inputs, len(kind.Inputs))
	for _, port := range kind.Inputs {
		// The registered Output kind declares a fixed Number "value" port,
		// but each graph's actual output type varies (spec §4.8 desiredOutputType);
		// substitute the graph's recorded OutputType for that one port so
		// coercion and zero-fallback use the right type.
		if kind.Label == kinds.OutputLabel && port.ID == "value" {
			port.Type = g.OutputType
		}
		inputs[port.ID] = e.resolveInput(g, gn, port, frame, seen, inProgress)
	}
	delete(inProgress, nodeID)

	out := kind.Compute(inputs, frame, gn)
	seen[nodeID] = out
	return out, true
}

// resolveInput implements spec §4.3 step 3's per-port fallback chain:
// connected edge -> gn.InputValues override -> port's declared default ->
// type-specific zero, with two additions spelled out in spec §9's Open
// Questions resolution: a port literally named "time" falls back to
// frame.Time (not zero) when nothing else supplies it, and the final
// Number/String coercion (spec §4.3 step 3, second half) is always applied.
func (e *Evaluator) resolveInput(g *graph.NetworkGraph, gn *graph.GraphNode, port node.Port, frame audioframe.Frame, seen map[string]node.Outputs, inProgress map[string]bool) any {
	if edge, ok := g.EdgeTo(gn.NodeID, port.ID); ok {
		srcOutputs, ok := e.computeNode(g, edge.SourceNodeID, frame, seen, inProgress)
		if ok {
			if v, has := srcOutputs[edge.SourcePortID]; has && v != nil {
				return portid.Coerce(port.Type, v)
			}
		}
		// recursion produced undefined or the edge is dangling: fall through
	}

	if v, ok := gn.InputValues[port.ID]; ok {
		return portid.Coerce(port.Type, v)
	}

	if port.Default != nil {
		return portid.Coerce(port.Type, port.Default)
	}

	if port.ID == "time" {
		return frame.Time
	}

	return portid.Zero(port.Type)
}
