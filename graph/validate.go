package graph

// WouldCreateCycle reports whether adding candidate (as a directed edge
// sourceNodeID -> targetNodeID) would introduce a cycle in g's current edge
// set. It runs a DFS from targetNodeID looking for a path back to
// sourceNodeID, matching spec §4.5 ("Cycle check uses DFS on the current
// edge set plus the candidate").
func (g *NetworkGraph) WouldCreateCycle(sourceNodeID, targetNodeID string) bool {
	if sourceNodeID == targetNodeID {
		return true // self-loop is trivially cyclic
	}

	adjacency := make(map[string][]string)
	for _, e := range g.edges {
		adjacency[e.SourceNodeID] = append(adjacency[e.SourceNodeID], e.TargetNodeID)
	}
	// The candidate edge itself.
	adjacency[sourceNodeID] = append(adjacency[sourceNodeID], targetNodeID)

	visited := make(map[string]bool)
	var dfs func(n string) bool
	dfs = func(n string) bool {
		if n == sourceNodeID {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, next := range adjacency[n] {
			if dfs(next) {
				return true
			}
		}
		return false
	}

	for _, next := range adjacency[targetNodeID] {
		if dfs(next) {
			return true
		}
	}
	return false
}

// IsAcyclic reports whether g's current edge set is acyclic, used as a
// structural sanity check (spec §8 property 2: "Acyclicity preservation").
func (g *NetworkGraph) IsAcyclic() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	adjacency := make(map[string][]string)
	for _, e := range g.edges {
		adjacency[e.SourceNodeID] = append(adjacency[e.SourceNodeID], e.TargetNodeID)
	}

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = gray
		for _, next := range adjacency[n] {
			switch color[next] {
			case gray:
				return false
			case white:
				if !visit(next) {
					return false
				}
			}
		}
		color[n] = black
		return true
	}

	for id := range g.nodes {
		if color[id] == white {
			if !visit(id) {
				return false
			}
		}
	}
	return true
}
