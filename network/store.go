// Package network implements the Network Store (spec §4.5): it owns one
// NetworkGraph per ParameterId, validates candidate edges, and applies
// preset instantiation atomically.
//
// The storage shape — a mutex-guarded map with small, synchronous
// mutator methods — follows the teacher's server/store/store.go (an
// in-memory/SQLite-backed store with one method per operation) and
// server/room.go (mutex-guarded map of live client state), generalized
// from "server room state" to "per-parameter dataflow graphs".
package network

import (
	"fmt"
	"sync"

	"auroraengine/errs"
	"auroraengine/graph"
	"auroraengine/node"
	"auroraengine/node/kinds"
	"auroraengine/portid"
)

// Store holds one NetworkGraph per ParameterId. All mutation is
// synchronous; the mutex exists only to guard against a GUI/devkit
// goroutine reading state concurrently with the render tick (spec §5:
// "Concurrency: single-threaded; all mutations are synchronous").
type Store struct {
	mu       sync.Mutex
	registry *node.Registry
	warn     errs.Sink
	graphs   map[string]*graph.NetworkGraph
}

// NewStore returns an empty Store dispatching node lookups through registry.
func NewStore(registry *node.Registry, warn errs.Sink) *Store {
	return &Store{
		registry: registry,
		warn:     warn,
		graphs:   make(map[string]*graph.NetworkGraph),
	}
}

// Graph returns the NetworkGraph for id, or false if none exists.
func (s *Store) Graph(id string) (*graph.NetworkGraph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[id]
	return g, ok
}

// Enabled reports whether id has a graph and it is enabled.
func (s *Store) Enabled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graphs[id]
	return ok && g.Enabled
}

// Enable creates a minimal Input->Output graph for id if one doesn't yet
// exist, and marks it enabled (spec §4.5: "enable(id, portType) creates a
// minimal Input -> Output graph if absent"). Idempotent: enabling an
// already-enabled network is a no-op (spec §4.3 state machine).
func (s *Store) Enable(id string, portType portid.Type) *graph.NetworkGraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.graphs[id]
	if !ok {
		g = minimalGraph(id, portType)
		s.graphs[id] = g
	}
	g.Enabled = true
	return g
}

// Disable marks id's graph disabled without discarding it (spec §4.3 state
// machine: "graph retained, evaluator returns undefined"). No-op if no
// graph exists yet.
func (s *Store) Disable(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.graphs[id]; ok {
		g.Enabled = false
	}
}

// Replace atomically swaps id's graph for g.
func (s *Store) Replace(id string, g *graph.NetworkGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[id] = g
}

// Remove deletes id's graph entirely (e.g. on parameter removal).
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, id)
}

// RemoveByLayerPrefix deletes every graph whose ParameterId begins with
// layerID (spec §3 Layer lifecycle, §8 property 8 "Cascade deletion").
// Returns the ids removed.
func (s *Store) RemoveByLayerPrefix(layerID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := layerID + ":"
	var removed []string
	for id := range s.graphs {
		if hasPrefix(id, prefix) {
			delete(s.graphs, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// IDs returns every ParameterId currently holding a graph.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		out = append(out, id)
	}
	return out
}

// minimalGraph returns the canonical fresh Input->Output graph enable()
// creates: one Input node, one Output node, one edge between them wired to
// whatever single output port the declared portType can be read from
// directly off Input.
func minimalGraph(parameterID string, portType portid.Type) *graph.NetworkGraph {
	g := graph.New(parameterID, portType)

	inputID := parameterID + "-input-node"
	outputID := parameterID + "-output-node"

	g.AddNode(&graph.GraphNode{NodeID: inputID, KindLabel: kinds.InputLabel})
	g.AddNode(&graph.GraphNode{NodeID: outputID, KindLabel: kinds.OutputLabel})

	sourcePort := inputSourcePortFor(portType)
	g.AddEdge(graph.Edge{
		SourceNodeID: inputID,
		SourcePortID: sourcePort,
		TargetNodeID: outputID,
		TargetPortID: "value",
	})
	g.Enabled = true
	return g
}

// inputSourcePortFor picks the Input node's output port that most directly
// carries a value of the given type, used when wiring the minimal preset.
func inputSourcePortFor(t portid.Type) string {
	switch t {
	case portid.ByteArray:
		return "audioSignal"
	case portid.FrequencyAnalysis:
		return "frequencyAnalysis"
	default:
		return "time"
	}
}

// Validation is the outcome of IsValidConnection: Valid is false iff
// applying the candidate edge would have violated acyclicity or type
// compatibility, or it names a missing network, node, port or kind, or it
// is a self-loop (spec §8 property 9).
type Validation struct {
	Valid  bool
	Reason error
}

// IsValidConnection implements spec §4.5's edge validator: reject on type
// mismatch, self-loop, missing node, or introduced cycle.
func (s *Store) IsValidConnection(id string, candidate graph.Edge) Validation {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.graphs[id]
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: no network %s", errs.InvalidInput, id)}
	}

	srcNode, ok := g.Node(candidate.SourceNodeID)
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: source node %s not found", errs.InvalidInput, candidate.SourceNodeID)}
	}
	tgtNode, ok := g.Node(candidate.TargetNodeID)
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: target node %s not found", errs.InvalidInput, candidate.TargetNodeID)}
	}

	if candidate.SourceNodeID == candidate.TargetNodeID {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: self-loop on node %s", errs.InvalidInput, candidate.SourceNodeID)}
	}

	srcKind, ok := s.registry.Lookup(srcNode.KindLabel)
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: %s", errs.UnknownNodeKind, srcNode.KindLabel)}
	}
	tgtKind, ok := s.registry.Lookup(tgtNode.KindLabel)
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: %s", errs.UnknownNodeKind, tgtNode.KindLabel)}
	}

	srcPort, ok := srcKind.OutputPort(candidate.SourcePortID)
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: source port %s.%s not found", errs.InvalidInput, srcNode.KindLabel, candidate.SourcePortID)}
	}
	tgtPort, ok := tgtKind.InputPort(candidate.TargetPortID)
	if !ok {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: target port %s.%s not found", errs.InvalidInput, tgtNode.KindLabel, candidate.TargetPortID)}
	}

	expectedTgtType := tgtPort.Type
	if tgtKind.Label == kinds.OutputLabel && candidate.TargetPortID == "value" {
		expectedTgtType = g.OutputType
	}
	if srcPort.Type != expectedTgtType {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: %s != %s", errs.TypeMismatch, srcPort.Type, expectedTgtType)}
	}

	if g.WouldCreateCycle(candidate.SourceNodeID, candidate.TargetNodeID) {
		return Validation{Valid: false, Reason: fmt.Errorf("%w: edge would create a cycle", errs.GraphCycle)}
	}

	return Validation{Valid: true}
}

// Connect validates candidate and, if valid, adds it to id's graph,
// replacing any existing edge to the same target port.
func (s *Store) Connect(id string, candidate graph.Edge) Validation {
	v := s.IsValidConnection(id, candidate)
	if !v.Valid {
		errs.Emit(s.warn, v.Reason, fmt.Sprintf("network %s: connection rejected", id))
		return v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[id].AddEdge(candidate)
	return v
}
