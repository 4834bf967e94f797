package persist

import (
	"fmt"

	"auroraengine/errs"
	"auroraengine/graph"
	"auroraengine/layer"
	"auroraengine/network"
	"auroraengine/node"
	"auroraengine/param"
	"auroraengine/portid"
)

// Capture builds a Project snapshot from the engine's current live state
// (spec §6): every layer's composition settings and static parameter
// values, plus every enabled-or-not network graph the NetworkStore holds.
func Capture(rt *layer.Runtime, networks *network.Store) Project {
	p := Default()

	p.Layers = make([]LayerRecord, len(rt.Layers))
	for i, l := range rt.Layers {
		rec := LayerRecord{
			LayerID:       l.LayerID,
			ComponentKind: l.ComponentKind,
			Settings:      l.Settings,
			ConfigValues:  make(map[string]any),
			Networks:      make(map[string]string),
		}
		if l.Config != nil {
			l.Config.Walk(func(_ []string, prm *param.Parameter) {
				rec.ConfigValues[string(prm.IDValue)] = prm.StaticValue
			})
		}
		p.Layers[i] = rec
	}

	for _, id := range networks.IDs() {
		g, ok := networks.Graph(id)
		if !ok {
			continue
		}
		p.Networks[id] = captureNetwork(g)
	}

	return p
}

func captureNetwork(g *graph.NetworkGraph) NetworkRecord {
	nodes := g.Nodes()
	rec := NetworkRecord{
		Enabled:    g.Enabled,
		OutputType: string(g.OutputType),
		Nodes:      make([]NodeRecord, len(nodes)),
		Edges:      make([]EdgeRecord, 0, len(nodes)),
	}
	for i, n := range nodes {
		rec.Nodes[i] = NodeRecord{
			NodeID:      n.NodeID,
			KindLabel:   n.KindLabel,
			InputValues: n.InputValues,
			Position:    n.Position,
		}
	}
	for _, e := range g.Edges() {
		rec.Edges = append(rec.Edges, EdgeRecord{
			SourceNodeID: e.SourceNodeID,
			SourcePortID: e.SourcePortID,
			TargetNodeID: e.TargetNodeID,
			TargetPortID: e.TargetPortID,
		})
	}
	return rec
}

// Rehydrate rebuilds the engine's live state from a loaded Project (spec
// §6 loading rules):
//   - a layer whose ComponentKind isn't registered becomes a Broken
//     placeholder layer (skipped by the draw loop, not dropped from the
//     composition list, so the user doesn't lose their place);
//   - a network referencing an unknown node kind is rehydrated verbatim
//     but left disabled, with a warning — never silently dropped.
func Rehydrate(p Project, components *layer.ComponentRegistry, registry *node.Registry, networks *network.Store, params *param.Store, warn errs.Sink) *layer.Runtime {
	rt := layer.NewRuntime(components, params, warn)

	for _, rec := range p.Layers {
		l := &layer.Layer{
			LayerID:       rec.LayerID,
			ComponentKind: rec.ComponentKind,
			Settings:      rec.Settings,
		}
		kind, ok := components.Lookup(rec.ComponentKind)
		if !ok {
			l.Broken = true
			errs.Emit(warn, errs.UnknownComponentKind, fmt.Sprintf("layer %s: unknown component kind %q, marked broken", rec.LayerID, rec.ComponentKind))
		} else if kind.ConfigTemplate != nil {
			l.Config = param.CloneWithStableIDs(kind.ConfigTemplate, rec.LayerID)
			l.Config.Walk(func(_ []string, prm *param.Parameter) {
				if v, ok := rec.ConfigValues[string(prm.IDValue)]; ok {
					prm.StaticValue = v
				}
			})
		}
		rt.AddLayer(l)
	}

	for id, nrec := range p.Networks {
		g := rehydrateNetwork(id, nrec, registry, warn)
		networks.Replace(id, g)
	}

	return rt
}

func rehydrateNetwork(id string, rec NetworkRecord, registry *node.Registry, warn errs.Sink) *graph.NetworkGraph {
	g := graph.New(id, portid.Type(rec.OutputType))
	g.Enabled = rec.Enabled

	allKnown := true
	for _, n := range rec.Nodes {
		if _, ok := registry.Lookup(n.KindLabel); !ok {
			allKnown = false
			errs.Emit(warn, errs.UnknownNodeKind, fmt.Sprintf("network %s: unknown node kind %q", id, n.KindLabel))
		}
		g.AddNode(&graph.GraphNode{
			NodeID:      n.NodeID,
			KindLabel:   n.KindLabel,
			InputValues: n.InputValues,
			Position:    n.Position,
		})
	}
	for _, e := range rec.Edges {
		g.AddEdge(graph.Edge{
			SourceNodeID: e.SourceNodeID,
			SourcePortID: e.SourcePortID,
			TargetNodeID: e.TargetNodeID,
			TargetPortID: e.TargetPortID,
		})
	}

	if !allKnown {
		g.Enabled = false
	}
	return g
}
