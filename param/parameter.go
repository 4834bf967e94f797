// Package param implements the Parameter/Config Model (spec §4.4): typed
// leaf parameters grouped hierarchically, whose read() dispatches to either
// a static value or a network's evaluated output, plus the live-values
// observer side effect (spec §6, §9 "Observer pattern for live values").
package param

import (
	"sync"

	"auroraengine/audioframe"
	"auroraengine/evaluator"
	"auroraengine/network"
	"auroraengine/portid"
)

// ID is a ParameterId: "<layerId>:<dotted-group-path>:<leaf>" (spec §3).
type ID string

// Parameter is a typed leaf (spec §3).
type Parameter struct {
	IDValue     ID
	PortType    portid.Type
	Label       string
	Description string
	StaticValue any
	Animatable  bool

	// Numeric constraints; zero values mean "unconstrained" for non-numeric
	// parameters.
	Min, Max, Step float64
}

// Store owns the Network Store and Evaluator a Parameter.Read dispatches
// through, plus the process-wide live-values map. One Store is shared by
// every LayerConfig in the project, following spec §9's description of the
// live-values map as a single process-wide observer, not a per-layer one.
type Store struct {
	networks *network.Store
	eval     *evaluator.Evaluator

	mu   sync.Mutex
	live map[ID]any
}

// NewStore returns a param Store wired to the given network store and
// evaluator.
func NewStore(networks *network.Store, eval *evaluator.Evaluator) *Store {
	return &Store{
		networks: networks,
		eval:     eval,
		live:     make(map[ID]any),
	}
}

// Read implements Parameter.read(frame) (spec §4.4):
//  1. if the network keyed by p.IDValue exists and is enabled, evaluate it;
//     fall back to StaticValue if that's undefined.
//  2. otherwise return StaticValue.
//
// As a side effect, an animated read publishes (id, value) into the
// live-values map (write-only from the core, bounded: one entry per id).
func (s *Store) Read(p Parameter, frame audioframe.Frame) any {
	g, ok := s.networks.Graph(string(p.IDValue))
	if ok && g.Enabled {
		if v, ok := s.eval.Evaluate(g, frame); ok {
			s.publish(p.IDValue, v)
			return v
		}
	}
	return p.StaticValue
}

func (s *Store) publish(id ID, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[id] = v
}

// LiveValue returns the last published animated value for id, for GUI
// observers (spec §6 "Live-values observer").
func (s *Store) LiveValue(id ID) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.live[id]
	return v, ok
}

// LiveValues returns a snapshot copy of the entire live-values map.
func (s *Store) LiveValues() map[ID]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[ID]any, len(s.live))
	for k, v := range s.live {
		out[k] = v
	}
	return out
}
