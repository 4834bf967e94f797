package param

import "testing"

func TestCloneWithStableIDsIsDeterministic(t *testing.T) {
	template := &LayerConfig{
		Root: Group{
			Label: "root",
			Params: []*Parameter{
				{Label: "opacity"},
			},
			Children: []*Group{
				{
					Label: "transform",
					Params: []*Parameter{
						{Label: "scale"},
						{Label: "rotation"},
					},
				},
			},
		},
	}

	a := CloneWithStableIDs(template, "layer1")
	b := CloneWithStableIDs(template, "layer1")

	var idsA, idsB []ID
	a.Walk(func(path []string, p *Parameter) { idsA = append(idsA, p.IDValue) })
	b.Walk(func(path []string, p *Parameter) { idsB = append(idsB, p.IDValue) })

	if len(idsA) != len(idsB) {
		t.Fatalf("got %d vs %d parameters", len(idsA), len(idsB))
	}
	for i := range idsA {
		if idsA[i] != idsB[i] {
			t.Fatalf("clone %d: got %q vs %q, want identical ids from the same template+layerId", i, idsA[i], idsB[i])
		}
	}

	want := []ID{"layer1:opacity", "layer1:transform:scale", "layer1:transform:rotation"}
	for i, w := range want {
		if idsA[i] != w {
			t.Fatalf("param %d: got %q, want %q", i, idsA[i], w)
		}
	}
}

func TestCloneWithStableIDsDifferentLayerIDsDiverge(t *testing.T) {
	template := &LayerConfig{Root: Group{Label: "root", Params: []*Parameter{{Label: "opacity"}}}}

	a := CloneWithStableIDs(template, "layer1")
	b := CloneWithStableIDs(template, "layer2")

	if a.Root.Params[0].IDValue == b.Root.Params[0].IDValue {
		t.Fatal("expected different layerIds to produce different parameter ids")
	}
}
