// Package persist implements the Persistence Adapter (spec §4, §6): the
// project snapshot shape and the interface any storage backend implements
// to serialize/rehydrate it. The core only ever talks to the Adapter
// interface; JSONFileAdapter is the shipped backend. The sqlitecache
// package is a separate autosave cache and does not implement Adapter.
package persist

import (
	"auroraengine/layer"
)

// SchemaVersion is the current on-disk project format version (spec §6:
// "reject a file with no version field; warn but proceed on a mismatched
// minor version").
const SchemaVersion = "1.0"

// LayerRecord is one persisted layer: enough to rehydrate a layer.Layer
// and its parameter static values, independent of any history state.
type LayerRecord struct {
	LayerID       string            `json:"layerId"`
	ComponentKind string            `json:"componentKind"`
	Settings      layer.Settings    `json:"settings"`
	ConfigValues  map[string]any    `json:"configValues"` // ParameterId -> static value
	Networks      map[string]string `json:"networks"`     // ParameterId -> preset name used to seed it, if any
}

// NetworkRecord is one persisted parameter network, verbatim structure
// (spec §6: "rehydrate networks verbatim; a network referencing an unknown
// node kind is disabled with a warning, never silently dropped").
type NetworkRecord struct {
	Enabled    bool         `json:"enabled"`
	OutputType string       `json:"outputType"`
	Nodes      []NodeRecord `json:"nodes"`
	Edges      []EdgeRecord `json:"edges"`
}

// NodeRecord is one persisted graph node.
type NodeRecord struct {
	NodeID      string         `json:"nodeId"`
	KindLabel   string         `json:"kindLabel"`
	InputValues map[string]any `json:"inputValues"`
	Position    [2]float64     `json:"position"`
}

// EdgeRecord is one persisted graph edge.
type EdgeRecord struct {
	SourceNodeID string `json:"sourceNodeId"`
	SourcePortID string `json:"sourcePortId"`
	TargetNodeID string `json:"targetNodeId"`
	TargetPortID string `json:"targetPortId"`
}

// EditorPreferences are host-UI settings that ride along with a project
// but have no bearing on evaluation (spec §6).
type EditorPreferences struct {
	SelectedLayerID string         `json:"selectedLayerId"`
	Zoom            float64        `json:"zoom"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// Project is the full on-disk shape of one saved project (spec §6).
type Project struct {
	Version           string                   `json:"version"`
	Layers            []LayerRecord            `json:"layers"`            // composition order
	Networks          map[string]NetworkRecord `json:"networks"`          // ParameterId -> network
	EditorPreferences EditorPreferences        `json:"editorPreferences"`
}

// Adapter serializes and rehydrates a Project against some storage medium
// (spec §4 "Persistence Adapter"). The core never assumes a particular
// backend; see jsonfile.go for the one shipped adapter.
type Adapter interface {
	Save(p Project) error
	Load() (Project, error)
}
