package param

import (
	"testing"

	"auroraengine/audioframe"
	"auroraengine/evaluator"
	"auroraengine/graph"
	"auroraengine/network"
	"auroraengine/node/kinds"
	"auroraengine/portid"
)

func newTestStore() *Store {
	registry := kinds.NewRegistry()
	networks := network.NewStore(registry, nil)
	eval := evaluator.New(registry, nil)
	return NewStore(networks, eval)
}

func TestReadFallsBackToStaticValueWhenNoNetwork(t *testing.T) {
	s := newTestStore()
	p := Parameter{IDValue: "layer1:opacity", StaticValue: 0.5}

	got := s.Read(p, audioframe.Empty(44100, 2048))
	if got != 0.5 {
		t.Fatalf("got %v, want the static value 0.5", got)
	}
	if _, ok := s.LiveValue(p.IDValue); ok {
		t.Fatal("a static read must not publish a live value")
	}
}

func TestReadFallsBackToStaticValueWhenNetworkDisabled(t *testing.T) {
	s := newTestStore()
	id := ID("layer1:opacity")
	g := s.networks.Enable(string(id), portid.Number)
	g.Enabled = false

	p := Parameter{IDValue: id, StaticValue: 0.75}
	got := s.Read(p, audioframe.Empty(44100, 2048))
	if got != 0.75 {
		t.Fatalf("got %v, want the static value 0.75 for a disabled network", got)
	}
}

func TestReadUsesEnabledNetworkAndPublishesLiveValue(t *testing.T) {
	s := newTestStore()
	id := ID("layer1:opacity")
	s.networks.Enable(string(id), portid.Number)

	p := Parameter{IDValue: id, StaticValue: 0.0}
	frame := audioframe.Empty(44100, 2048)
	frame.Time = 3.5

	got := s.Read(p, frame)
	if got != 3.5 {
		t.Fatalf("got %v, want the evaluated network output (frame.Time passthrough) of 3.5", got)
	}

	live, ok := s.LiveValue(id)
	if !ok || live != 3.5 {
		t.Fatalf("expected live value 3.5 to be published, got %v (ok=%v)", live, ok)
	}
}

func TestReadFallsBackWhenEvaluationFails(t *testing.T) {
	s := newTestStore()
	id := ID("layer1:opacity")

	// A graph with no Output node: Evaluate will report not-ok.
	g := graph.New(string(id), portid.Number)
	g.AddNode(&graph.GraphNode{NodeID: "in", KindLabel: kinds.InputLabel})
	g.Enabled = true
	s.networks.Replace(string(id), g)

	p := Parameter{IDValue: id, StaticValue: 9.0}
	got := s.Read(p, audioframe.Empty(44100, 2048))
	if got != 9.0 {
		t.Fatalf("got %v, want the static fallback 9.0 when evaluation fails", got)
	}
}

func TestLiveValuesSnapshotIsACopy(t *testing.T) {
	s := newTestStore()
	id := ID("layer1:opacity")
	s.networks.Enable(string(id), portid.Number)
	p := Parameter{IDValue: id}
	s.Read(p, audioframe.Empty(44100, 2048))

	snap := s.LiveValues()
	snap[id] = "tampered"

	if live, _ := s.LiveValue(id); live == "tampered" {
		t.Fatal("expected LiveValues to return an independent copy, not a live reference")
	}
}
