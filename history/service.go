package history

import (
	"reflect"
	"sync"
	"time"

	"auroraengine/errs"
	"auroraengine/graph"
	"auroraengine/layer"
	"auroraengine/param"
	"auroraengine/portid"
)

// debounceDelay is the coalescing window for parameter-value layer edits
// (spec §4.7: "debounce continuous edits, e.g. slider drags, by 300ms").
const debounceDelay = 300 * time.Millisecond

// Context names which undo/redo stack a bare "undo" command routes to
// (spec §4.7 context arbitration).
type Context string

const (
	ContextLayers  Context = "layers"
	ContextNetwork Context = "network"
)

// LayerRecord is one layer's undo-relevant state: composition membership,
// visibility/compositing settings, and the current static value of every
// parameter in its config tree. Scratch/runtime state never enters history
// (spec §4.7: "history captures configuration, not derived runtime state").
type LayerRecord struct {
	LayerID       string
	ComponentKind string
	Settings      layer.Settings
	StaticValues  map[param.ID]any
}

// LayerSnapshot is the ordered composition list at one point in time.
type LayerSnapshot struct {
	Records []LayerRecord
}

// CaptureLayers builds a LayerSnapshot from the runtime's current layer
// list, in composition order.
func CaptureLayers(rt *layer.Runtime) LayerSnapshot {
	snap := LayerSnapshot{Records: make([]LayerRecord, len(rt.Layers))}
	for i, l := range rt.Layers {
		rec := LayerRecord{
			LayerID:       l.LayerID,
			ComponentKind: l.ComponentKind,
			Settings:      l.Settings,
			StaticValues:  make(map[param.ID]any),
		}
		if l.Config != nil {
			l.Config.Walk(func(_ []string, p *param.Parameter) {
				rec.StaticValues[p.IDValue] = p.StaticValue
			})
		}
		snap.Records[i] = rec
	}
	return snap
}

// ApplyLayers rewrites rt's layer list (order, settings, kind) and every
// parameter's StaticValue to match snap. Layers present in rt but absent
// from snap are dropped; layers in snap whose LayerID is unknown to rt are
// skipped (the runtime, not history, owns layer construction).
func ApplyLayers(rt *layer.Runtime, snap LayerSnapshot) {
	byID := make(map[string]*layer.Layer, len(rt.Layers))
	for _, l := range rt.Layers {
		byID[l.LayerID] = l
	}

	restored := make([]*layer.Layer, 0, len(snap.Records))
	for _, rec := range snap.Records {
		l, ok := byID[rec.LayerID]
		if !ok {
			continue
		}
		l.ComponentKind = rec.ComponentKind
		l.Settings = rec.Settings
		if l.Config != nil {
			l.Config.Walk(func(_ []string, p *param.Parameter) {
				if v, ok := rec.StaticValues[p.IDValue]; ok {
					p.StaticValue = v
				}
			})
		}
		restored = append(restored, l)
	}
	rt.Layers = restored
}

func layerSnapshotsEqual(a, b LayerSnapshot) bool {
	if len(a.Records) != len(b.Records) {
		return false
	}
	for i := range a.Records {
		ra, rb := a.Records[i], b.Records[i]
		if ra.LayerID != rb.LayerID || ra.ComponentKind != rb.ComponentKind || !reflect.DeepEqual(ra.Settings, rb.Settings) {
			return false
		}
		if len(ra.StaticValues) != len(rb.StaticValues) {
			return false
		}
		for id, v := range ra.StaticValues {
			if !reflect.DeepEqual(rb.StaticValues[id], v) {
				return false
			}
		}
	}
	return true
}

// NodeRecord is one node's structural state within a network snapshot.
type NodeRecord struct {
	NodeID      string
	KindLabel   string
	InputValues map[string]any
	Position    [2]float64
}

// NetworkSnapshot is one parameter network's full structural state: every
// node and edge, plus the graph-level flags the evaluator and validator
// consult (spec §4.7: network history is keyed per-network, independent of
// the layer history stack).
type NetworkSnapshot struct {
	Enabled    bool
	OutputType portid.Type
	Nodes      []NodeRecord
	Edges      []graph.Edge
}

// CaptureNetwork builds a NetworkSnapshot from g's current contents.
func CaptureNetwork(g *graph.NetworkGraph, enabled bool) NetworkSnapshot {
	nodes := g.Nodes()
	snap := NetworkSnapshot{
		Enabled:    enabled,
		OutputType: g.OutputType,
		Nodes:      make([]NodeRecord, len(nodes)),
		Edges:      g.Edges(),
	}
	for i, n := range nodes {
		values := make(map[string]any, len(n.InputValues))
		for k, v := range n.InputValues {
			values[k] = v
		}
		snap.Nodes[i] = NodeRecord{
			NodeID:      n.NodeID,
			KindLabel:   n.KindLabel,
			InputValues: values,
			Position:    n.Position,
		}
	}
	return snap
}

// ApplyNetwork rewrites g in place to match snap: existing nodes not in
// snap are removed (clearing their scratch), snap nodes are
// inserted/updated, and the edge set is replaced wholesale.
func ApplyNetwork(g *graph.NetworkGraph, snap NetworkSnapshot) {
	g.OutputType = snap.OutputType

	want := make(map[string]bool, len(snap.Nodes))
	for _, rec := range snap.Nodes {
		want[rec.NodeID] = true
	}
	for _, n := range g.Nodes() {
		if !want[n.NodeID] {
			g.RemoveNode(n.NodeID)
		}
	}
	for _, rec := range snap.Nodes {
		g.AddNode(&graph.GraphNode{
			NodeID:      rec.NodeID,
			KindLabel:   rec.KindLabel,
			InputValues: rec.InputValues,
			Position:    rec.Position,
		})
	}
	for _, e := range g.Edges() {
		g.RemoveEdgeTo(e.TargetNodeID, e.TargetPortID)
	}
	for _, e := range snap.Edges {
		g.AddEdge(e)
	}
}

func networkSnapshotsEqual(a, b NetworkSnapshot) bool {
	if a.Enabled != b.Enabled || a.OutputType != b.OutputType {
		return false
	}
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		return false
	}
	edgesA := make(map[string]graph.Edge, len(a.Edges))
	for _, e := range a.Edges {
		edgesA[e.String()] = e
	}
	for _, e := range b.Edges {
		if _, ok := edgesA[e.String()]; !ok {
			return false
		}
	}
	nodesA := make(map[string]NodeRecord, len(a.Nodes))
	for _, n := range a.Nodes {
		nodesA[n.NodeID] = n
	}
	for _, n := range b.Nodes {
		other, ok := nodesA[n.NodeID]
		if !ok || other.KindLabel != n.KindLabel || other.Position != n.Position {
			return false
		}
		if len(other.InputValues) != len(n.InputValues) {
			return false
		}
		for k, v := range other.InputValues {
			if !reflect.DeepEqual(n.InputValues[k], v) {
				return false
			}
		}
	}
	return true
}

// Routing is the UI-reported context the Service uses to pick which stack
// a bare undo/redo command targets (spec §4.7).
type Routing struct {
	ActiveContext     Context
	OpenNetworkID     string
	NodeEditorFocused bool
}

// UndoResult reports which stack moved and the snapshot to apply, or
// Applied=false if there was nothing to undo/redo.
type UndoResult struct {
	Applied   bool
	Context   Context
	NetworkID string
	Layers    LayerSnapshot
	Network   NetworkSnapshot
}

// Service owns the layer history stack and one per-network stack apiece,
// and arbitrates which one a bare undo/redo command applies to (spec
// §4.7). All methods are safe for concurrent use; in practice the engine
// drives Service from a single tick goroutine plus the debounce timer's
// own goroutine.
type Service struct {
	mu sync.Mutex

	warn errs.Sink

	layerStack    *Stack[LayerSnapshot]
	networkStacks map[string]*Stack[NetworkSnapshot]

	routing Routing

	isBypassing bool

	debounceTimer *time.Timer
	pendingLayer  *LayerSnapshot
}

// NewService returns an empty Service with no history yet.
func NewService(warn errs.Sink) *Service {
	return &Service{
		warn:          warn,
		layerStack:    NewStack[LayerSnapshot](),
		networkStacks: make(map[string]*Stack[NetworkSnapshot]),
	}
}

// SetRouting updates the context the Service consults to route a bare
// undo/redo command (spec §4.7: "the host reports which editor surface is
// focused; undo always applies to that surface").
func (s *Service) SetRouting(r Routing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routing = r
}

// BeginBypass suppresses all pushes until EndBypass is called (spec §4.7:
// "while a node is being dragged, suspend history pushes; on release, push
// once with the final position"). Structural pushes made by other parts of
// the engine during a bypass window are silently dropped, matching the
// host's own debounced-slider behavior.
func (s *Service) BeginBypass() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isBypassing = true
}

// EndBypass resumes normal push behavior.
func (s *Service) EndBypass() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isBypassing = false
}

// PushLayer records snap as the new layer-history present. Continuous
// parameter edits (skipDebounce=false) coalesce within debounceDelay;
// structural edits (add/remove/reorder layer, skipDebounce=true) flush any
// pending debounce and push immediately.
func (s *Service) PushLayer(snap LayerSnapshot, skipDebounce bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isBypassing {
		return
	}
	if skipDebounce {
		s.flushPendingLayerLocked()
		s.layerStack.Push(snap, layerSnapshotsEqual)
		return
	}

	local := snap
	s.pendingLayer = &local
	s.cancelDebounceLocked()
	s.debounceTimer = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.flushPendingLayerLocked()
	})
}

// PushNetwork records snap as the new present for networkID's history
// stack. Network edits are never debounced (spec §4.7 pushNetwork).
func (s *Service) PushNetwork(networkID string, snap NetworkSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isBypassing {
		return
	}
	stack := s.networkStackLocked(networkID)
	stack.Push(snap, networkSnapshotsEqual)
}

// Undo flushes any pending debounced layer push, then applies Undo to
// whichever stack the current routing targets.
func (s *Service) Undo() UndoResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushPendingLayerLocked()

	if s.routing.ActiveContext == ContextNetwork && s.routing.NodeEditorFocused && s.routing.OpenNetworkID != "" {
		stack, ok := s.networkStacks[s.routing.OpenNetworkID]
		if !ok || !stack.CanUndo() {
			return UndoResult{}
		}
		return UndoResult{Applied: true, Context: ContextNetwork, NetworkID: s.routing.OpenNetworkID, Network: stack.Undo()}
	}

	if !s.layerStack.CanUndo() {
		return UndoResult{}
	}
	return UndoResult{Applied: true, Context: ContextLayers, Layers: s.layerStack.Undo()}
}

// Redo is the symmetric counterpart of Undo.
func (s *Service) Redo() UndoResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushPendingLayerLocked()

	if s.routing.ActiveContext == ContextNetwork && s.routing.NodeEditorFocused && s.routing.OpenNetworkID != "" {
		stack, ok := s.networkStacks[s.routing.OpenNetworkID]
		if !ok || !stack.CanRedo() {
			return UndoResult{}
		}
		return UndoResult{Applied: true, Context: ContextNetwork, NetworkID: s.routing.OpenNetworkID, Network: stack.Redo()}
	}

	if !s.layerStack.CanRedo() {
		return UndoResult{}
	}
	return UndoResult{Applied: true, Context: ContextLayers, Layers: s.layerStack.Redo()}
}

// Flush forces any pending debounced layer push through immediately,
// without waiting for the timer. Callers invoke this before anything that
// reads history state from outside Undo/Redo, e.g. serializing a project.
func (s *Service) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushPendingLayerLocked()
}

func (s *Service) flushPendingLayerLocked() {
	s.cancelDebounceLocked()
	if s.pendingLayer == nil {
		return
	}
	snap := *s.pendingLayer
	s.pendingLayer = nil
	s.layerStack.Push(snap, layerSnapshotsEqual)
}

func (s *Service) cancelDebounceLocked() {
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

func (s *Service) networkStackLocked(networkID string) *Stack[NetworkSnapshot] {
	stack, ok := s.networkStacks[networkID]
	if !ok {
		stack = NewStack[NetworkSnapshot]()
		s.networkStacks[networkID] = stack
	}
	return stack
}

// ForgetNetwork drops networkID's history stack entirely, e.g. when its
// parameter is cascade-deleted along with its layer (spec §8 property 8).
func (s *Service) ForgetNetwork(networkID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.networkStacks, networkID)
}

// CanUndoLayers and CanUndoNetwork report whether an undo step is available
// for UI affordances (e.g. disabling an undo menu item) without performing
// the undo.
func (s *Service) CanUndoLayers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layerStack.CanUndo() || s.pendingLayer != nil
}

func (s *Service) CanUndoNetwork(networkID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack, ok := s.networkStacks[networkID]
	return ok && stack.CanUndo()
}
