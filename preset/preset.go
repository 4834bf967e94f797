// Package preset implements preset instantiation (spec §4.8): turning a
// template graph description — authored once, shared by every parameter
// that uses it — into a fresh NetworkGraph with globally-unique node ids
// wired to a specific parameter.
package preset

import (
	"fmt"

	"auroraengine/errs"
	"auroraengine/graph"
	"auroraengine/node/kinds"
	"auroraengine/portid"
)

// InputPlaceholder and OutputPlaceholder are the placeholder node names a
// Preset uses in place of real node ids; Instantiate rewrites them to the
// graph's actual Input/Output node ids (spec §4.8: "templates refer to the
// mandatory nodes by the placeholders INPUT and OUTPUT").
const (
	InputPlaceholder  = "INPUT"
	OutputPlaceholder = "OUTPUT"
)

// NodeTemplate is one node within a Preset, identified within the template
// by Name (a placeholder for Input/Output, or an arbitrary label the
// template's own edges reference).
type NodeTemplate struct {
	Name        string
	KindLabel   string
	InputValues map[string]any
	Position    [2]float64
}

// EdgeTemplate is one edge within a Preset, referencing NodeTemplate.Name
// values rather than real node ids.
type EdgeTemplate struct {
	SourceName   string
	SourcePortID string
	TargetName   string
	TargetPortID string
}

// Preset is a reusable graph shape a component registers for one of its
// animatable parameters (spec §6 Preset Library).
type Preset struct {
	Name       string
	OutputType portid.Type
	Nodes      []NodeTemplate // must include exactly one InputPlaceholder and one OutputPlaceholder entry
	Edges      []EdgeTemplate
	AutoLayout bool
}

// Instantiate builds a fresh NetworkGraph for parameterID from p, rejecting
// the preset if its declared OutputType doesn't match desiredOutputType
// (spec §4.8 step 1: "reject with PresetOutputMismatch if the preset's
// output type doesn't match the parameter's port type"). Every node gets a
// fresh globally-unique id; placeholders are rewritten to the real
// Input/Output node ids the evaluator expects.
func Instantiate(p Preset, parameterID string, desiredOutputType portid.Type) (*graph.NetworkGraph, error) {
	if p.OutputType != desiredOutputType {
		return nil, fmt.Errorf("%w: preset %q produces %s, parameter wants %s", errs.PresetOutputMismatch, p.Name, p.OutputType, desiredOutputType)
	}

	g := graph.New(parameterID, desiredOutputType)

	ids := make(map[string]string, len(p.Nodes))
	for _, nt := range p.Nodes {
		id := graph.NewNodeID()
		ids[nt.Name] = id

		values := make(map[string]any, len(nt.InputValues))
		for k, v := range nt.InputValues {
			values[k] = v
		}
		g.AddNode(&graph.GraphNode{
			NodeID:      id,
			KindLabel:   nt.KindLabel,
			InputValues: values,
			Position:    nt.Position,
		})
	}

	for _, et := range p.Edges {
		srcID, ok := ids[et.SourceName]
		if !ok {
			return nil, fmt.Errorf("preset %q: edge references unknown node %q", p.Name, et.SourceName)
		}
		dstID, ok := ids[et.TargetName]
		if !ok {
			return nil, fmt.Errorf("preset %q: edge references unknown node %q", p.Name, et.TargetName)
		}
		g.AddEdge(graph.Edge{
			SourceNodeID: srcID,
			SourcePortID: et.SourcePortID,
			TargetNodeID: dstID,
			TargetPortID: et.TargetPortID,
		})
	}

	if _, ok := g.FindByKind(kinds.InputLabel); !ok {
		return nil, fmt.Errorf("preset %q: missing an %s placeholder node", p.Name, InputPlaceholder)
	}
	if _, ok := g.FindByKind(kinds.OutputLabel); !ok {
		return nil, fmt.Errorf("preset %q: missing an %s placeholder node", p.Name, OutputPlaceholder)
	}

	if p.AutoLayout {
		autoLayout(g)
	}

	return g, nil
}

// Library is a process-wide catalogue of named presets components can
// reference (spec §6 Preset Library).
type Library struct {
	presets map[string]Preset
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	return &Library{presets: make(map[string]Preset)}
}

// Register adds or replaces a Preset by name.
func (l *Library) Register(p Preset) {
	l.presets[p.Name] = p
}

// Lookup returns the Preset registered under name, or false.
func (l *Library) Lookup(name string) (Preset, bool) {
	p, ok := l.presets[name]
	return p, ok
}

// Names returns every registered preset name.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.presets))
	for name := range l.presets {
		out = append(out, name)
	}
	return out
}
