// Package graph holds the data shape of a node network: GraphNode
// instances, Edges between them, and the NetworkGraph that owns both. The
// arena+index storage shape follows spec §9 ("Cyclic graphs & ownership":
// flat collection keyed by nodeId, edges as tuples, never cross-references
// by pointer) — GraphNode never points at another GraphNode directly.
package graph

import (
	"fmt"

	"auroraengine/node"
	"auroraengine/portid"

	"github.com/google/uuid"
)

// GraphNode is one instance of a NodeKind within a graph (spec §3).
type GraphNode struct {
	NodeID      string
	KindLabel   string
	InputValues map[string]any // literal default/override per input port id
	Position    [2]float64     // view-only, ignored by the evaluator

	scratch any
}

// Scratch implements node.Instance.
func (g *GraphNode) Scratch(init func() any) any {
	if g.scratch == nil {
		g.scratch = init()
	}
	return g.scratch
}

// SetScratch implements node.Instance.
func (g *GraphNode) SetScratch(v any) {
	g.scratch = v
}

// ResetScratch clears the node's persistent state, e.g. on explicit graph
// reset or node removal (spec §3 GraphNode lifecycle).
func (g *GraphNode) ResetScratch() {
	g.scratch = nil
}

// Edge connects one source node's output port to one target node's input
// port. At most one edge may terminate at a given (targetNodeId,
// targetPortId) — NetworkGraph.AddEdge enforces this by replacing any prior
// edge to the same target (spec §3).
type Edge struct {
	SourceNodeID string
	SourcePortID string
	TargetNodeID string
	TargetPortID string
}

func (e Edge) targetKey() string {
	return e.TargetNodeID + "\x00" + e.TargetPortID
}

// NetworkGraph is one animated parameter's dataflow graph (spec §3).
// OutputType records the PortType the graph's Output node must produce —
// it is NOT part of the Output NodeKind's static schema (which is shared by
// every graph in the process), so it lives here instead; see
// node/kinds/io.go for the rationale.
type NetworkGraph struct {
	Name       string
	Enabled    bool
	OutputType portid.Type

	nodes map[string]*GraphNode
	edges map[string]Edge // keyed by targetKey(); at most one per target port
}

// New returns an empty NetworkGraph with no nodes or edges.
func New(name string, outputType portid.Type) *NetworkGraph {
	return &NetworkGraph{
		Name:       name,
		OutputType: outputType,
		nodes:      make(map[string]*GraphNode),
		edges:      make(map[string]Edge),
	}
}

// AddNode inserts or replaces a node by NodeID.
func (g *NetworkGraph) AddNode(n *GraphNode) {
	g.nodes[n.NodeID] = n
}

// RemoveNode deletes a node and every edge touching it (as source or
// target), and clears its scratch.
func (g *NetworkGraph) RemoveNode(nodeID string) {
	if n, ok := g.nodes[nodeID]; ok {
		n.ResetScratch()
	}
	delete(g.nodes, nodeID)
	for key, e := range g.edges {
		if e.SourceNodeID == nodeID || e.TargetNodeID == nodeID {
			delete(g.edges, key)
		}
	}
}

// Node returns the node with the given id, or false.
func (g *NetworkGraph) Node(nodeID string) (*GraphNode, bool) {
	n, ok := g.nodes[nodeID]
	return n, ok
}

// Nodes returns every node in the graph, in no particular order.
func (g *NetworkGraph) Nodes() []*GraphNode {
	out := make([]*GraphNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// AddEdge inserts e, replacing any existing edge to the same target port
// (spec §3: "a new edge to the same target replaces the old one").
func (g *NetworkGraph) AddEdge(e Edge) {
	g.edges[e.targetKey()] = e
}

// RemoveEdgeTo removes whatever edge (if any) terminates at
// (targetNodeID, targetPortID).
func (g *NetworkGraph) RemoveEdgeTo(targetNodeID, targetPortID string) {
	delete(g.edges, targetNodeID+"\x00"+targetPortID)
}

// EdgeTo returns the edge (if any) terminating at (targetNodeID, targetPortID).
func (g *NetworkGraph) EdgeTo(targetNodeID, targetPortID string) (Edge, bool) {
	e, ok := g.edges[targetNodeID+"\x00"+targetPortID]
	return e, ok
}

// Edges returns every edge in the graph, in no particular order.
func (g *NetworkGraph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	return out
}

// FindByKind returns the first node whose KindLabel matches label, used to
// locate the graph's unique Input/Output nodes (spec §3 invariant i).
func (g *NetworkGraph) FindByKind(label string) (*GraphNode, bool) {
	for _, n := range g.nodes {
		if n.KindLabel == label {
			return n, true
		}
	}
	return nil, false
}

// Reset clears every node's scratch state without altering structure,
// e.g. in response to an explicit user "reset graph" action (spec §4.3:
// "Graph-level reset is an explicit operation on the store").
func (g *NetworkGraph) Reset() {
	for _, n := range g.nodes {
		n.ResetScratch()
	}
}

// NewNodeID returns a fresh, globally-unique node id.
func NewNodeID() string {
	return uuid.New().String()
}

// String is used by diagnostics/log lines.
func (e Edge) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", e.SourceNodeID, e.SourcePortID, e.TargetNodeID, e.TargetPortID)
}
