package layer

import (
	"fmt"
	"log"

	"auroraengine/audioframe"
	"auroraengine/errs"
	"auroraengine/param"
)

// maxDT is the clamp spec §4.6 step 2 applies to the per-layer delta time.
const maxDT = 0.25

// MirrorTarget receives a copy of a layer's rendered output (spec §4.6 step
// 7: "mirror the layer's output onto any registered mirror targets"). The
// core does not interpret canvas contents (spec §6 "Render targets"), so
// this is an opaque collaborator the host implements.
type MirrorTarget interface {
	Mirror(source any)
}

// Runtime drives the ordered layer list through one tick (spec §4.6).
type Runtime struct {
	components *ComponentRegistry
	params     *param.Store
	warn       errs.Sink

	Layers  []*Layer
	Mirrors map[string][]MirrorTarget // layerId -> targets
}

// NewRuntime returns a Runtime with no layers.
func NewRuntime(components *ComponentRegistry, params *param.Store, warn errs.Sink) *Runtime {
	return &Runtime{
		components: components,
		params:     params,
		warn:       warn,
		Mirrors:    make(map[string][]MirrorTarget),
	}
}

// AddLayer appends a layer to the top of the composition stack.
func (r *Runtime) AddLayer(l *Layer) {
	r.Layers = append(r.Layers, l)
}

// RemoveLayer deletes the layer with the given id, if present.
func (r *Runtime) RemoveLayer(layerID string) {
	for i, l := range r.Layers {
		if l.LayerID == layerID {
			r.Layers = append(r.Layers[:i], r.Layers[i+1:]...)
			delete(r.Mirrors, layerID)
			return
		}
	}
}

// Reorder moves the layer with id to newIndex, clamping to bounds.
func (r *Runtime) Reorder(layerID string, newIndex int) {
	idx := -1
	for i, l := range r.Layers {
		if l.LayerID == layerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	l := r.Layers[idx]
	r.Layers = append(r.Layers[:idx], r.Layers[idx+1:]...)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(r.Layers) {
		newIndex = len(r.Layers)
	}
	r.Layers = append(r.Layers[:newIndex], append([]*Layer{l}, r.Layers[newIndex:]...)...)
}

// Tick runs one render tick: for each visible layer in order, resolve its
// values and draw (spec §4.6). now is the host clock's current time in
// seconds, used to compute each layer's dt. paused reports whether the
// host clock is currently paused; freeze substitution (step 6) only
// applies on ticks where paused is true.
func (r *Runtime) Tick(frame audioframe.Frame, now float64, paused bool, targetCanvases map[string]any) {
	for _, l := range r.Layers {
		r.tickLayer(l, frame, now, paused, targetCanvases[l.LayerID])
	}
}

func (r *Runtime) tickLayer(l *Layer, frame audioframe.Frame, now float64, paused bool, canvas any) {
	if !l.Settings.Visible || l.Broken {
		return
	}

	dt := 0.0
	if l.hasLastFrame {
		dt = now - l.lastFrameTime
		if dt < 0 {
			dt = 0
		} else if dt > maxDT {
			dt = maxDT
		}
	}
	l.lastFrameTime = now
	l.hasLastFrame = true

	effectiveFrame := frame
	if paused && l.Settings.Freeze {
		if l.hasFrozen {
			effectiveFrame = l.frozenFrame
		} else {
			l.frozenFrame = frame
			l.hasFrozen = true
		}
	} else {
		l.frozenFrame = frame
		l.hasFrozen = true
	}

	kind, ok := r.components.Lookup(l.ComponentKind)
	if !ok {
		l.Broken = true
		errs.Emit(r.warn, errs.UnknownComponentKind, "layer "+l.LayerID+" references unknown component "+l.ComponentKind)
		return
	}

	values := l.Config.Snapshot(r.params, effectiveFrame)

	payload := DrawPayload{
		Frame:        effectiveFrame,
		Values:       values,
		DT:           dt,
		Scratch:      l.Scratch(kind.ScratchFactory),
		TargetCanvas: canvas,
	}

	r.drawSafely(l, kind, payload)
	r.mirror(l, canvas)
}

// drawSafely invokes the component's draw function, catching any panic so a
// single broken layer doesn't take down the whole tick (spec §7: "Draw
// functions may throw; the runtime catches and skips the remainder of that
// layer for that tick only").
func (r *Runtime) drawSafely(l *Layer, kind ComponentKind, payload DrawPayload) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[layer] %s draw panicked: %v", l.LayerID, rec)
		}
	}()

	if kind.Draw3DFn != nil {
		if !l.init3DDone && kind.Init3DFn != nil {
			payload.Scratch = kind.Init3DFn(payload.Scratch)
			l.scratch = payload.Scratch
			l.init3DDone = true
		}
		kind.Draw3DFn(payload)
		return
	}
	if kind.DrawFn != nil {
		kind.DrawFn(payload)
	}
}

func (r *Runtime) mirror(l *Layer, source any) {
	for _, m := range r.Mirrors[l.LayerID] {
		m.Mirror(source)
	}
}

// RegisterMirror attaches a mirror target to layerID.
func (r *Runtime) RegisterMirror(layerID string, target MirrorTarget) {
	r.Mirrors[layerID] = append(r.Mirrors[layerID], target)
}

// String is used by diagnostics/log lines.
func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%s, kind=%s, visible=%v)", l.LayerID, l.ComponentKind, l.Settings.Visible)
}
