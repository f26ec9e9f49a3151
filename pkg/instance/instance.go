// Package instance generates hard witness instances for the protocol: a
// random colored graph plus its coloration set, the "graph generator"
// collaborator named in the external interfaces.
package instance

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"github.com/archer-lili/zkp-coloring/pkg/graphmodel"
)

// EdgeProbability is the chance a directed edge gets a visible color
// (split evenly across Red/Green/Yellow) rather than Blank.
const EdgeProbability = 0.5

// Params describes a generated instance's shape.
type Params struct {
	N int
}

// Generate builds a random n-vertex graph: each directed edge is Blank
// with probability 1-EdgeProbability, otherwise uniformly Red, Green, or
// Yellow. It returns the graph, the coloration set extracted from it (so
// every triad of the witness graph is, by construction, admissible), and
// the parameters used.
func Generate(n int) (*graphmodel.Graph, *graphmodel.ColorationSet, Params) {
	var seedBuf [8]byte
	_, _ = rand.Read(seedBuf[:])
	r := mrand.New(mrand.NewSource(int64(binary.BigEndian.Uint64(seedBuf[:]))))

	g := graphmodel.NewGraph(n)
	visible := []graphmodel.Color{graphmodel.Red, graphmodel.Green, graphmodel.Yellow}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if r.Float64() < EdgeProbability {
				g.SetEdge(i, j, visible[r.Intn(len(visible))])
			} else {
				g.SetEdge(i, j, graphmodel.Blank)
			}
		}
	}
	g.RebuildCache()

	cs := graphmodel.FromGraph(g)
	return g, cs, Params{N: n}
}
