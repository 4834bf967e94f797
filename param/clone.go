package param

import "strings"

// CloneWithStableIDs deep-copies template (a component's default
// LayerConfig) and assigns each leaf parameter a deterministic ParameterId
// of the form "<layerId>:<dotted-group-path>:<leafName>" (spec §9: "Stable
// parameter identifiers... derive leaf id as
// <layerId>:<dotted-group-path>:<leafName> at clone time; do not depend on
// object identity"). The path lists the labels of the nested groups below
// the root (the root's own label is not part of it); a leaf directly in the
// root group gets "<layerId>:<leafName>". Calling this twice for the same layerId against the
// same template produces byte-identical ids, which is what keeps a
// NetworkGraph attached to a parameter across reloads/clones.
func CloneWithStableIDs(template *LayerConfig, layerID string) *LayerConfig {
	return &LayerConfig{Root: cloneGroup(&template.Root, layerID, nil)}
}

func cloneGroup(g *Group, layerID string, path []string) Group {
	out := Group{Label: g.Label}
	out.Params = make([]*Parameter, len(g.Params))
	for i, p := range g.Params {
		clone := *p
		clone.IDValue = ID(leafID(layerID, path, p.Label))
		out.Params[i] = &clone
	}
	out.Children = make([]*Group, len(g.Children))
	for i, child := range g.Children {
		childPath := append(append([]string{}, path...), child.Label)
		cg := cloneGroup(child, layerID, childPath)
		out.Children[i] = &cg
	}
	return out
}

func leafID(layerID string, path []string, leafName string) string {
	var b strings.Builder
	b.WriteString(layerID)
	b.WriteByte(':')
	if len(path) > 0 {
		b.WriteString(strings.Join(path, "."))
		b.WriteByte(':')
	}
	b.WriteString(leafName)
	return b.String()
}
