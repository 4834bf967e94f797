package evaluator

import (
	"math"
	"testing"

	"auroraengine/audioframe"
	"auroraengine/graph"
	"auroraengine/node"
	"auroraengine/node/kinds"
	"auroraengine/portid"
)

func newEval() (*Evaluator, *node.Registry) {
	registry := kinds.NewRegistry()
	return New(registry, nil), registry
}

// sineOverTimeGraph wires Input.time -> Math(op=sin) -> Output.value, the
// spec §8 scenario 1 shape: the graph's output should track math.Sin(t) to
// within floating-point tolerance at any frame time.
func sineOverTimeGraph() *graph.NetworkGraph {
	g := graph.New("param-sine", portid.Number)
	g.AddNode(&graph.GraphNode{NodeID: "in", KindLabel: kinds.InputLabel})
	g.AddNode(&graph.GraphNode{NodeID: "math", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "sin"}})
	g.AddNode(&graph.GraphNode{NodeID: "out", KindLabel: kinds.OutputLabel})
	g.AddEdge(graph.Edge{SourceNodeID: "in", SourcePortID: "time", TargetNodeID: "math", TargetPortID: "a"})
	g.AddEdge(graph.Edge{SourceNodeID: "math", SourcePortID: "result", TargetNodeID: "out", TargetPortID: "value"})
	return g
}

func TestEvaluateSineOverTime(t *testing.T) {
	eval, _ := newEval()
	g := sineOverTimeGraph()

	for _, tt := range []float64{0, 0.25, 1.5, 3.14159, 10.0} {
		frame := audioframe.Empty(44100, 2048)
		frame.Time = tt

		got, ok := eval.Evaluate(g, frame)
		if !ok {
			t.Fatalf("Evaluate at t=%v: not ok", tt)
		}
		want := math.Sin(tt)
		gotF, isFloat := got.(float64)
		if !isFloat {
			t.Fatalf("Evaluate at t=%v: got %T, want float64", tt, got)
		}
		if diff := math.Abs(gotF - want); diff > 1e-9 {
			t.Fatalf("Evaluate at t=%v: got %v, want %v (diff %v)", tt, gotF, want, diff)
		}
	}
}

func TestEvaluateMissingOutputNode(t *testing.T) {
	eval, _ := newEval()
	g := graph.New("param-no-output", portid.Number)
	g.AddNode(&graph.GraphNode{NodeID: "in", KindLabel: kinds.InputLabel})

	if _, ok := eval.Evaluate(g, audioframe.Empty(44100, 2048)); ok {
		t.Fatal("expected Evaluate to fail on a graph with no Output node")
	}
}

func TestEvaluateDetectsCycle(t *testing.T) {
	eval, _ := newEval()
	g := graph.New("param-cycle", portid.Number)
	g.AddNode(&graph.GraphNode{NodeID: "m1", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "add"}})
	g.AddNode(&graph.GraphNode{NodeID: "m2", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "add"}})
	g.AddNode(&graph.GraphNode{NodeID: "out", KindLabel: kinds.OutputLabel})
	// m1 <- m2 <- m1: a direct cycle between the two Math nodes.
	g.AddEdge(graph.Edge{SourceNodeID: "m2", SourcePortID: "result", TargetNodeID: "m1", TargetPortID: "a"})
	g.AddEdge(graph.Edge{SourceNodeID: "m1", SourcePortID: "result", TargetNodeID: "m2", TargetPortID: "a"})
	g.AddEdge(graph.Edge{SourceNodeID: "m1", SourcePortID: "result", TargetNodeID: "out", TargetPortID: "value"})

	if _, ok := eval.Evaluate(g, audioframe.Empty(44100, 2048)); ok {
		t.Fatal("expected Evaluate to fail on a cyclic graph")
	}
}

func TestEvaluateFallsBackToDefaultWhenUnconnected(t *testing.T) {
	eval, _ := newEval()
	g := graph.New("param-fallback", portid.Number)
	g.AddNode(&graph.GraphNode{NodeID: "math", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "add", "b": 2.0}})
	g.AddNode(&graph.GraphNode{NodeID: "out", KindLabel: kinds.OutputLabel})
	g.AddEdge(graph.Edge{SourceNodeID: "math", SourcePortID: "result", TargetNodeID: "out", TargetPortID: "value"})
	// "a" is never connected and has no InputValues override: falls back to
	// its declared Default of 0.

	got, ok := eval.Evaluate(g, audioframe.Empty(44100, 2048))
	if !ok {
		t.Fatal("Evaluate: not ok")
	}
	if got.(float64) != 2.0 {
		t.Fatalf("got %v, want 2 (0 + 2 via declared defaults)", got)
	}
}

// TestEvaluateMemoizesSharedNode wraps a registry's Math kind so its Compute
// function can be counted, to verify a node shared by two downstream consumers is only
// evaluated once per Evaluate call (spec §8 property: memoization).
func TestEvaluateMemoizesSharedNode(t *testing.T) {
	registry := node.NewRegistry()
	kinds.RegisterBuiltins(registry)

	calls := 0
	countingMath, _ := registry.Lookup(kinds.MathLabel)
	innerCompute := countingMath.Compute
	countingMath.Compute = func(inputs node.Inputs, frame audioframe.Frame, inst node.Instance) node.Outputs {
		calls++
		return innerCompute(inputs, frame, inst)
	}
	registry.Register(countingMath)

	eval := New(registry, nil)

	g := graph.New("param-shared", portid.Number)
	g.AddNode(&graph.GraphNode{NodeID: "shared", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "add", "a": 1.0, "b": 1.0}})
	g.AddNode(&graph.GraphNode{NodeID: "m1", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "add", "b": 0.0}})
	g.AddNode(&graph.GraphNode{NodeID: "m2", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "mul", "b": 1.0}})
	g.AddNode(&graph.GraphNode{NodeID: "sum", KindLabel: kinds.MathLabel, InputValues: map[string]any{"op": "add"}})
	g.AddNode(&graph.GraphNode{NodeID: "out", KindLabel: kinds.OutputLabel})

	g.AddEdge(graph.Edge{SourceNodeID: "shared", SourcePortID: "result", TargetNodeID: "m1", TargetPortID: "a"})
	g.AddEdge(graph.Edge{SourceNodeID: "shared", SourcePortID: "result", TargetNodeID: "m2", TargetPortID: "a"})
	g.AddEdge(graph.Edge{SourceNodeID: "m1", SourcePortID: "result", TargetNodeID: "sum", TargetPortID: "a"})
	g.AddEdge(graph.Edge{SourceNodeID: "m2", SourcePortID: "result", TargetNodeID: "sum", TargetPortID: "b"})
	g.AddEdge(graph.Edge{SourceNodeID: "sum", SourcePortID: "result", TargetNodeID: "out", TargetPortID: "value"})

	if _, ok := eval.Evaluate(g, audioframe.Empty(44100, 2048)); !ok {
		t.Fatal("Evaluate: not ok")
	}

	if calls != 4 {
		t.Fatalf("got %d Math computations, want 4 (shared, m1, m2, sum each once)", calls)
	}
}
