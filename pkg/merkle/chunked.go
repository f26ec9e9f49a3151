package merkle

import (
	"fmt"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"golang.org/x/sync/errgroup"
)

// ChunkedOpening authenticates a single leaf against a ChunkedMerkle root:
// recompute the chunk root from ChunkProof, check that hash(chunkRoot)
// equals the top tree's leaf, then check TopProof against the overall
// root.
type ChunkedOpening struct {
	ChunkIndex int
	Offset     int
	ChunkProof Proof
	TopProof   Proof
	ChunkRoot  [32]byte
}

// ChunkedMerkle is the two-level authenticated vector from §4.2: leaves are
// grouped into fixed-size chunks, each chunk is a binary Merkle tree, and
// the chunk roots are themselves leaves of a top tree (hashed once more
// before combining, so the top tree's leaf at position k is
// hash(chunk_root_k)).
type ChunkedMerkle struct {
	oracle     hashoracle.Oracle
	chunkSize  int
	leafCount  int
	chunkTrees []*Tree
	top        *Tree

	cache      map[int]ChunkedOpening
	cacheOrder []int
	cacheCap   int
}

const defaultCacheCap = 2048

// BuildChunked hashes leaves into chunk trees and commits the chunk roots with a
// top tree. An empty leaf set is treated as a single empty leaf, per §8's
// boundary case.
func BuildChunked(o hashoracle.Oracle, leaves [][]byte, chunkSize int) *ChunkedMerkle {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	if len(leaves) == 0 {
		leaves = [][]byte{{}}
	}

	numChunks := (len(leaves) + chunkSize - 1) / chunkSize
	chunkTrees := make([]*Tree, numChunks)
	topLeaves := make([][32]byte, numChunks)

	// Chunks are independent, so they build concurrently; this must never
	// change any emitted byte relative to building them in order.
	var g errgroup.Group
	for c := 0; c < numChunks; c++ {
		c := c
		g.Go(func() error {
			start := c * chunkSize
			end := start + chunkSize
			if end > len(leaves) {
				end = len(leaves)
			}
			hashed := make([][32]byte, end-start)
			for i, leaf := range leaves[start:end] {
				hashed[i] = o.Hash(leaf)
			}
			tree := Build(o, hashed)
			chunkTrees[c] = tree
			root := tree.Root()
			topLeaves[c] = o.Hash(root[:])
			return nil
		})
	}
	_ = g.Wait() // the chunk workers never return an error

	return &ChunkedMerkle{
		oracle:     o,
		chunkSize:  chunkSize,
		leafCount:  len(leaves),
		chunkTrees: chunkTrees,
		top:        Build(o, topLeaves),
		cache:      make(map[int]ChunkedOpening),
		cacheCap:   defaultCacheCap,
	}
}

// Root returns the overall root (the top tree's root).
func (cm *ChunkedMerkle) Root() [32]byte {
	return cm.top.Root()
}

// LeafCount returns the number of committed leaves; an empty input counts
// as the single empty leaf that stands in for it.
func (cm *ChunkedMerkle) LeafCount() int {
	return cm.leafCount
}

// Open returns the opening for leaf i, or false if i is out of range.
func (cm *ChunkedMerkle) Open(i int) (ChunkedOpening, bool) {
	if i < 0 || i >= cm.leafCount {
		return ChunkedOpening{}, false
	}
	if op, ok := cm.cache[i]; ok {
		return op, true
	}

	chunkIndex := i / cm.chunkSize
	offset := i % cm.chunkSize
	chunkTree := cm.chunkTrees[chunkIndex]

	chunkProof, err := chunkTree.Proof(offset)
	if err != nil {
		return ChunkedOpening{}, false
	}
	topProof, err := cm.top.Proof(chunkIndex)
	if err != nil {
		return ChunkedOpening{}, false
	}

	opening := ChunkedOpening{
		ChunkIndex: chunkIndex,
		Offset:     offset,
		ChunkProof: chunkProof,
		TopProof:   topProof,
		ChunkRoot:  chunkTree.Root(),
	}

	cm.rememberOpening(i, opening)
	return opening, true
}

// rememberOpening is a pure optimization: a FIFO-evicted cache of recent
// openings. Correctness never depends on a hit.
func (cm *ChunkedMerkle) rememberOpening(i int, opening ChunkedOpening) {
	if cm.cacheCap <= 0 {
		return
	}
	if _, exists := cm.cache[i]; exists {
		return
	}
	if len(cm.cacheOrder) >= cm.cacheCap {
		oldest := cm.cacheOrder[0]
		cm.cacheOrder = cm.cacheOrder[1:]
		delete(cm.cache, oldest)
	}
	cm.cache[i] = opening
	cm.cacheOrder = append(cm.cacheOrder, i)
}

// VerifyOpening checks an opening of leafBytes against root.
func VerifyOpening(o hashoracle.Oracle, leafBytes []byte, opening ChunkedOpening, root [32]byte) bool {
	leafHash := o.Hash(leafBytes)
	if !VerifyProof(o, leafHash, opening.ChunkProof, opening.ChunkRoot) {
		return false
	}
	topLeaf := o.Hash(opening.ChunkRoot[:])
	return VerifyProof(o, topLeaf, opening.TopProof, root)
}

func (cm *ChunkedMerkle) String() string {
	return fmt.Sprintf("ChunkedMerkle{leaves:%d chunks:%d chunkSize:%d root:%x}",
		cm.leafCount, len(cm.chunkTrees), cm.chunkSize, cm.Root())
}
