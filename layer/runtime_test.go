package layer

import (
	"testing"

	"auroraengine/audioframe"
	"auroraengine/evaluator"
	"auroraengine/network"
	"auroraengine/node/kinds"
	"auroraengine/param"
)

func newTestRuntime() (*Runtime, *ComponentRegistry) {
	registry := kinds.NewRegistry()
	networks := network.NewStore(registry, nil)
	eval := evaluator.New(registry, nil)
	params := param.NewStore(networks, eval)
	components := NewComponentRegistry()
	return NewRuntime(components, params, nil), components
}

func newTestLayer(id, kind string, freeze bool) *Layer {
	return &Layer{
		LayerID:       id,
		ComponentKind: kind,
		Config:        &param.LayerConfig{},
		Settings:      Settings{Visible: true, Freeze: freeze},
	}
}

// TestTickFreezesOnlyWhilePaused is the direct regression test for spec
// §4.6 step 6: a frozen layer must keep using the live frame while playing
// and only substitute the retained frame on ticks where playback is paused.
func TestTickFreezesOnlyWhilePaused(t *testing.T) {
	r, components := newTestRuntime()
	var seenTimes []float64
	components.Register(ComponentKind{
		Name: "probe",
		DrawFn: func(p DrawPayload) {
			seenTimes = append(seenTimes, p.Frame.Time)
		},
	})
	l := newTestLayer("l1", "probe", true)
	r.AddLayer(l)

	frame := audioframe.Empty(44100, 2048)

	frame.Time = 1.0
	r.Tick(frame, 1.0, false, nil) // playing: live frame used, and retained as the freeze candidate

	frame.Time = 2.0
	r.Tick(frame, 2.0, true, nil) // paused: must substitute the retained (t=1.0) frame

	frame.Time = 3.0
	r.Tick(frame, 3.0, false, nil) // playing again: live frame used

	want := []float64{1.0, 1.0, 3.0}
	if len(seenTimes) != len(want) {
		t.Fatalf("got %d draws, want %d", len(seenTimes), len(want))
	}
	for i, w := range want {
		if seenTimes[i] != w {
			t.Fatalf("tick %d: got frame.Time=%v, want %v", i, seenTimes[i], w)
		}
	}
}

// TestTickDoesNotFreezeWhenFreezeDisabled verifies freeze is opt-in per
// layer: paused ticks still use the live frame when Settings.Freeze is false.
func TestTickDoesNotFreezeWhenFreezeDisabled(t *testing.T) {
	r, components := newTestRuntime()
	var seenTimes []float64
	components.Register(ComponentKind{
		Name:   "probe",
		DrawFn: func(p DrawPayload) { seenTimes = append(seenTimes, p.Frame.Time) },
	})
	l := newTestLayer("l1", "probe", false)
	r.AddLayer(l)

	frame := audioframe.Empty(44100, 2048)
	frame.Time = 1.0
	r.Tick(frame, 1.0, true, nil)
	frame.Time = 2.0
	r.Tick(frame, 2.0, true, nil)

	want := []float64{1.0, 2.0}
	for i, w := range want {
		if seenTimes[i] != w {
			t.Fatalf("tick %d: got %v, want %v (freeze disabled must never substitute)", i, seenTimes[i], w)
		}
	}
}

func TestTickSkipsInvisibleLayers(t *testing.T) {
	r, components := newTestRuntime()
	drawn := false
	components.Register(ComponentKind{Name: "probe", DrawFn: func(p DrawPayload) { drawn = true }})

	l := newTestLayer("l1", "probe", false)
	l.Settings.Visible = false
	r.AddLayer(l)

	r.Tick(audioframe.Empty(44100, 2048), 0, false, nil)
	if drawn {
		t.Fatal("expected an invisible layer not to be drawn")
	}
}

func TestTickMarksUnknownComponentBroken(t *testing.T) {
	r, _ := newTestRuntime()
	l := newTestLayer("l1", "does-not-exist", false)
	r.AddLayer(l)

	r.Tick(audioframe.Empty(44100, 2048), 0, false, nil)
	if !l.Broken {
		t.Fatal("expected the layer to be marked Broken for an unregistered component kind")
	}
}

func TestTickRecoversFromPanickingDraw(t *testing.T) {
	r, components := newTestRuntime()
	components.Register(ComponentKind{
		Name:   "panicky",
		DrawFn: func(p DrawPayload) { panic("boom") },
	})
	l := newTestLayer("l1", "panicky", false)
	r.AddLayer(l)

	r.Tick(audioframe.Empty(44100, 2048), 0, false, nil) // must not panic out of Tick
}

func TestReorderMovesLayer(t *testing.T) {
	r, _ := newTestRuntime()
	a := newTestLayer("a", "k", false)
	b := newTestLayer("b", "k", false)
	c := newTestLayer("c", "k", false)
	r.AddLayer(a)
	r.AddLayer(b)
	r.AddLayer(c)

	r.Reorder("c", 0)

	got := []string{r.Layers[0].LayerID, r.Layers[1].LayerID, r.Layers[2].LayerID}
	want := []string{"c", "a", "b"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("got order %v, want %v", got, want)
		}
	}
}

func TestRemoveLayerDropsMirrors(t *testing.T) {
	r, _ := newTestRuntime()
	l := newTestLayer("a", "k", false)
	r.AddLayer(l)
	r.Mirrors["a"] = append(r.Mirrors["a"], nil)

	r.RemoveLayer("a")

	if len(r.Layers) != 0 {
		t.Fatal("expected the layer to be removed")
	}
	if _, ok := r.Mirrors["a"]; ok {
		t.Fatal("expected mirrors for the removed layer to be dropped")
	}
}
