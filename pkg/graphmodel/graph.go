// Package graphmodel holds the witness data model: colored directed
// graphs, triads, and the coloration set that constrains them.
package graphmodel

import "fmt"

// Color is the tagged variant on a directed edge.
type Color uint8

const (
	Red Color = iota
	Green
	Yellow
	Blank
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Yellow:
		return "Yellow"
	case Blank:
		return "Blank"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// Graph is a dense n×n adjacency of Colors with a cached flat edge list of
// length n². Edge index for (i,j) is i*n + j. After a SetEdge write the
// adjacency and the cache agree again only once RebuildCache runs;
// OverwriteEdge updates both at once.
type Graph struct {
	N         int
	adjacency [][]Color
	edgeCache []Color
}

// NewGraph allocates an n-vertex graph with every edge Red.
func NewGraph(n int) *Graph {
	adjacency := make([][]Color, n)
	for i := range adjacency {
		adjacency[i] = make([]Color, n)
	}
	g := &Graph{N: n, adjacency: adjacency, edgeCache: make([]Color, n*n)}
	g.RebuildCache()
	return g
}

// SetEdge sets the color of (from, to) without touching the cache; callers
// must call RebuildCache before reading the cache again.
func (g *Graph) SetEdge(from, to int, c Color) {
	g.adjacency[from][to] = c
}

// OverwriteEdge sets the color of (from, to) and refreshes only that
// entry's cache slot, a cheaper alternative to a full RebuildCache when a
// single edge changes.
func (g *Graph) OverwriteEdge(from, to int, c Color) {
	g.adjacency[from][to] = c
	g.edgeCache[from*g.N+to] = c
}

// RebuildCache reconstructs the flat edge cache from the adjacency matrix.
func (g *Graph) RebuildCache() {
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			g.edgeCache[i*g.N+j] = g.adjacency[i][j]
		}
	}
}

// GetEdge returns the color of (from, to) from the cache.
func (g *Graph) GetEdge(from, to int) Color {
	return g.edgeCache[from*g.N+to]
}

// EdgeCache returns the flat row-major cache as a read-only view.
func (g *Graph) EdgeCache() []Color {
	return g.edgeCache
}

// BlankCount returns the number of Blank-colored edges in the cache.
func (g *Graph) BlankCount() int {
	count := 0
	for _, c := range g.edgeCache {
		if c == Blank {
			count++
		}
	}
	return count
}

// ApplyPermutation returns a new graph G' with G'[i][j] = G[π(i)][π(j)].
func (g *Graph) ApplyPermutation(perm []int) *Graph {
	out := NewGraph(g.N)
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			out.SetEdge(i, j, g.GetEdge(perm[i], perm[j]))
		}
	}
	out.RebuildCache()
	return out
}

// GetSpot extracts the triad over the three given (distinct) vertices.
func (g *Graph) GetSpot(a, b, c int) Spot {
	nodes := [3]int{a, b, c}
	var colors [9]Color
	k := 0
	for _, u := range nodes {
		for _, v := range nodes {
			colors[k] = g.GetEdge(u, v)
			k++
		}
	}
	return Spot{Nodes: nodes, Colors: colors}
}
