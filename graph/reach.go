package graph

// Reachability returns the reflexive-transitive closure of g: r[u][v] is
// true when v can be reached from u along directed edges (always for u == v).
//
// One breadth-first search per node over an adjacency list built once:
// O(V·(V+E)) time, O(V²) memory. Callers validate g first.
func (g Graph[T]) Reachability() [][]bool {
	n := len(g.Nodes)
	adj := make([][]int, n)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	r := make([][]bool, n)
	queue := make([]int, 0, n)
	for s := 0; s < n; s++ {
		seen := make([]bool, n)
		seen[s] = true
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range adj[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		r[s] = seen
	}

	return r
}
