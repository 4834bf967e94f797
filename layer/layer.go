// Package layer implements the Layer Runtime (spec §4.6): an ordered list
// of visual layers, each owning a parameter configuration, optional
// per-layer scratch state, and a draw procedure; composition order follows
// list order (later = on top).
package layer

import (
	"auroraengine/audioframe"
	"auroraengine/param"
)

// BlendMode is an opaque string handed to the external compositor (spec
// §4.6: "Blend composition is delegated to the external compositor").
type BlendMode string

// Settings holds the per-layer visibility/compositing knobs (spec §3).
type Settings struct {
	Visible   bool
	Opacity   float64 // [0,1]
	BlendMode BlendMode
	Background any
	Freeze    bool // honored by the runtime per spec §4.1/§4.6
}

// DrawPayload is what a draw function receives each tick it runs (spec
// §4.6 step 4/5).
type DrawPayload struct {
	Frame        audioframe.Frame
	Values       map[string]any
	DT           float64
	Scratch      any
	TargetCanvas any
}

// DrawFunc is a 2D or 3D draw procedure a component kind registers.
type DrawFunc func(p DrawPayload)

// InitFunc lazily initializes a component's 3D resources exactly once
// (spec §4.6 step 4: "call its initializer exactly once on first use").
type InitFunc func(scratch any) any

// ComponentKind is the Component Registry contract (spec §6): a process-wide
// mapping from component kind name to its template/factories/draw
// functions. The core only calls these as opaque collaborators.
type ComponentKind struct {
	Name           string
	ConfigTemplate *param.LayerConfig
	DefaultNetworks map[string]NetworkPreset // parameterId suffix -> preset name
	ScratchFactory func() any
	DrawFn         DrawFunc // 2D
	Draw3DFn       DrawFunc // 3D, mutually exclusive with DrawFn in practice
	Init3DFn       InitFunc
}

// NetworkPreset names a preset template a component wants auto-instantiated
// for one of its parameters when the layer is first created.
type NetworkPreset struct {
	PresetName string
}

// ComponentRegistry is the process-wide component catalogue (spec §6).
type ComponentRegistry struct {
	kinds map[string]ComponentKind
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{kinds: make(map[string]ComponentKind)}
}

// Register adds or replaces a ComponentKind.
func (r *ComponentRegistry) Register(k ComponentKind) {
	r.kinds[k.Name] = k
}

// Lookup returns the ComponentKind for name, or false if unregistered (the
// UnknownComponentKind condition of spec §7).
func (r *ComponentRegistry) Lookup(name string) (ComponentKind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Layer is one entry in the ordered composition list (spec §3).
type Layer struct {
	LayerID         string
	ComponentKind   string
	Config          *param.LayerConfig
	Settings        Settings
	Expanded        bool
	Debug           bool
	Broken          bool // set when ComponentKind is unknown at rehydration (spec §6)

	scratch       any
	init3DDone    bool
	lastFrameTime float64
	hasLastFrame  bool
	frozenFrame   audioframe.Frame // last retained frame, for freeze semantics
	hasFrozen     bool
}

// Scratch returns the layer's persistent draw-time state, lazily
// initialized from factory on first access.
func (l *Layer) Scratch(factory func() any) any {
	if l.scratch == nil && factory != nil {
		l.scratch = factory()
	}
	return l.scratch
}
