package param

import (
	"auroraengine/audioframe"
)

// Group is a named container whose members are Parameters or nested Groups,
// forming a tree rooted at a LayerConfig (spec §3).
type Group struct {
	Label    string
	Params   []*Parameter
	Children []*Group
}

// LayerConfig is the root of one layer's parameter tree (spec §3).
type LayerConfig struct {
	Root Group
}

// Snapshot performs a single pre-order walk of the group tree, producing a
// plain tree of resolved values in the same shape as the config (spec
// §4.4). Each parameter is evaluated at most once per call.
func (c *LayerConfig) Snapshot(store *Store, frame audioframe.Frame) map[string]any {
	return snapshotGroup(&c.Root, store, frame)
}

func snapshotGroup(g *Group, store *Store, frame audioframe.Frame) map[string]any {
	out := make(map[string]any, len(g.Params)+len(g.Children))
	for _, p := range g.Params {
		out[p.Label] = store.Read(*p, frame)
	}
	for _, child := range g.Children {
		out[child.Label] = snapshotGroup(child, store, frame)
	}
	return out
}

// Walk calls fn for every Parameter in the tree, depth-first, pre-order,
// with path set to the dotted group path (excluding the leaf's own label).
// Used by config cloning (stable-id assignment) and persistence
// (serializing configValues).
func (c *LayerConfig) Walk(fn func(path []string, p *Parameter)) {
	walkGroup(&c.Root, nil, fn)
}

func walkGroup(g *Group, path []string, fn func(path []string, p *Parameter)) {
	for _, p := range g.Params {
		fn(path, p)
	}
	for _, child := range g.Children {
		childPath := append(append([]string{}, path...), child.Label)
		walkGroup(child, childPath, fn)
	}
}
