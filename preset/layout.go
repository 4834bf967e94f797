package preset

import "auroraengine/graph"

// autoLayout assigns each node a Position based on its topological rank
// (distance from the Input node along edges) and its index within that
// rank, so a freshly instantiated preset doesn't land every node on top of
// each other in the editor (spec §4.8 step 4: "when the preset requests
// auto-placement, lay the nodes out left-to-right by dependency rank").
func autoLayout(g *graph.NetworkGraph) {
	const rankWidth = 220.0
	const rowHeight = 110.0

	rank := make(map[string]int)
	nodes := g.Nodes()
	byID := make(map[string]*graph.GraphNode, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID] = n
	}

	incoming := make(map[string][]string, len(nodes))
	for _, e := range g.Edges() {
		incoming[e.TargetNodeID] = append(incoming[e.TargetNodeID], e.SourceNodeID)
	}

	var rankOf func(id string, visiting map[string]bool) int
	rankOf = func(id string, visiting map[string]bool) int {
		if r, ok := rank[id]; ok {
			return r
		}
		if visiting[id] {
			return 0 // cycle guard; shouldn't occur in a well-formed preset
		}
		visiting[id] = true
		best := 0
		for _, src := range incoming[id] {
			if r := rankOf(src, visiting) + 1; r > best {
				best = r
			}
		}
		rank[id] = best
		return best
	}

	rowAtRank := make(map[int]int)
	for _, n := range nodes {
		r := rankOf(n.NodeID, map[string]bool{})
		row := rowAtRank[r]
		rowAtRank[r] = row + 1
		n.Position = [2]float64{float64(r) * rankWidth, float64(row) * rowHeight}
	}
}
