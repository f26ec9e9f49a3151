package merkle

import (
	"encoding/binary"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
)

// EdgeLeafBytes serializes one directed edge as the 9-byte leaf layout the
// wire format requires: from_u32_be ‖ to_u32_be ‖ color_u8.
func EdgeLeafBytes(from, to uint32, color byte) []byte {
	buf := make([]byte, 9)
	binary.BigEndian.PutUint32(buf[0:4], from)
	binary.BigEndian.PutUint32(buf[4:8], to)
	buf[8] = color
	return buf
}

// GraphMerkle is a ChunkedMerkle whose leaves are the serialized edges of a
// graph in row-major order, with a lookup from (from, to) to leaf index.
type GraphMerkle struct {
	tree *ChunkedMerkle
	n    int
}

// BuildGraphMerkle commits the n×n edge matrix, colors[i*n+j] being the
// color of the directed edge (i, j).
func BuildGraphMerkle(o hashoracle.Oracle, n int, colors []byte, chunkSize int) *GraphMerkle {
	leaves := make([][]byte, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			idx := i*n + j
			leaves[idx] = EdgeLeafBytes(uint32(i), uint32(j), colors[idx])
		}
	}
	return &GraphMerkle{tree: BuildChunked(o, leaves, chunkSize), n: n}
}

// Root returns the graph commitment's root.
func (g *GraphMerkle) Root() [32]byte { return g.tree.Root() }

// OpenEdge opens the edge (from, to).
func (g *GraphMerkle) OpenEdge(from, to int) (ChunkedOpening, bool) {
	idx := from*g.n + to
	return g.tree.Open(idx)
}

// VerifyEdgeOpening checks an edge opening against a graph root.
func VerifyEdgeOpening(o hashoracle.Oracle, from, to uint32, color byte, opening ChunkedOpening, root [32]byte) bool {
	return VerifyOpening(o, EdgeLeafBytes(from, to, color), opening, root)
}
