package preset

import (
	"testing"

	"auroraengine/node/kinds"
	"auroraengine/portid"
)

func TestInstantiateAutoLayoutRanksByDependency(t *testing.T) {
	p := simplePreset(portid.Number, true)

	g, err := Instantiate(p, "param-1", portid.Number)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	in, _ := g.FindByKind(kinds.InputLabel)
	out, _ := g.FindByKind(kinds.OutputLabel)

	mathNode := func() [2]float64 {
		for _, n := range g.Nodes() {
			if n.KindLabel == kinds.MathLabel {
				return n.Position
			}
		}
		t.Fatal("missing math node")
		return [2]float64{}
	}()

	if in.Position[0] != 0 {
		t.Fatalf("expected Input at rank 0, got x=%v", in.Position[0])
	}
	if mathNode[0] <= in.Position[0] {
		t.Fatalf("expected math node ranked after Input, got x=%v vs input x=%v", mathNode[0], in.Position[0])
	}
	if out.Position[0] <= mathNode[0] {
		t.Fatalf("expected Output ranked after math node, got x=%v vs math x=%v", out.Position[0], mathNode[0])
	}
}
