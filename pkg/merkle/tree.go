// Package merkle implements the commitment layer: a plain binary Merkle
// tree over pre-hashed leaves, and the two-level ChunkedMerkle/GraphMerkle
// accumulators built on top of it.
package merkle

import (
	"fmt"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
)

// Proof is an authentication path from a leaf to a tree's root.
// Directions[i] is true if the sibling at level i sits on the right. A
// level with no entry in Siblings/Directions means the node was promoted
// to the next level unchanged (it had no sibling at that level).
type Proof struct {
	Siblings   [][32]byte
	Directions []bool
}

// Tree is a binary Merkle tree over already-hashed leaf values. Internal
// combination is concatenation left‖right with no prefix byte. Leaves are
// never padded: a level is built by combining adjacent pairs, and an odd
// node left over at the end of a level is promoted to the next level
// unchanged. A single-leaf tree's root is that leaf's hash directly.
type Tree struct {
	oracle hashoracle.Oracle
	levels [][][32]byte // levels[0] = leaves ... levels[last] = {root}
}

// combine hashes two node values together to produce their parent.
func combine(o hashoracle.Oracle, left, right [32]byte) [32]byte {
	return o.Hash(left[:], right[:])
}

// Build constructs a tree from pre-hashed leaf values. An empty slice is
// treated as a single empty leaf, i.e. leaves = { hash() }, so the root of
// an empty input is hash() itself, per the one-leaf-tree rule above.
func Build(o hashoracle.Oracle, leaves [][32]byte) *Tree {
	if len(leaves) == 0 {
		leaves = [][32]byte{o.Hash()}
	}

	levels := [][][32]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][32]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, combine(o, current[i], current[i+1]))
			} else {
				next = append(next, current[i])
			}
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{oracle: o, levels: levels}
}

// Root returns the tree's root hash.
func (t *Tree) Root() [32]byte {
	last := t.levels[len(t.levels)-1]
	return last[0]
}

// LeafCount returns the number of leaves committed (no padding is applied).
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// Height returns the number of levels, including the leaf level.
func (t *Tree) Height() int {
	return len(t.levels)
}

// Proof returns the authentication path for the leaf at index i.
func (t *Tree) Proof(i int) (Proof, error) {
	if i < 0 || i >= len(t.levels[0]) {
		return Proof{}, fmt.Errorf("merkle: leaf index %d out of range [0,%d)", i, len(t.levels[0]))
	}

	var proof Proof
	idx := i
	for lvl := 0; lvl < len(t.levels)-1; lvl++ {
		level := t.levels[lvl]
		siblingIdx := idx ^ 1
		if siblingIdx >= len(level) {
			// idx is an odd node with no pair at this level; it is
			// promoted unchanged, so no proof step is recorded here.
			idx /= 2
			continue
		}
		if idx%2 == 0 {
			proof.Siblings = append(proof.Siblings, level[siblingIdx])
			proof.Directions = append(proof.Directions, true)
		} else {
			proof.Siblings = append(proof.Siblings, level[siblingIdx])
			proof.Directions = append(proof.Directions, false)
		}
		idx /= 2
	}
	return proof, nil
}

// VerifyProof recomputes the root from a leaf hash and a proof, and
// compares it against the expected root.
func VerifyProof(o hashoracle.Oracle, leaf [32]byte, proof Proof, root [32]byte) bool {
	if len(proof.Siblings) != len(proof.Directions) {
		return false
	}
	current := leaf
	for i, sibling := range proof.Siblings {
		if proof.Directions[i] {
			current = combine(o, current, sibling)
		} else {
			current = combine(o, sibling, current)
		}
	}
	return current == root
}
