package merkle

import (
	"testing"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
)

func TestEmptyTreeIsOneLeaf(t *testing.T) {
	o := hashoracle.Blake3{}
	tree := Build(o, nil)
	if tree.LeafCount() != 1 {
		t.Fatalf("empty input should build a single-leaf tree, got %d leaves", tree.LeafCount())
	}
	want := o.Hash()
	if tree.Root() != want {
		t.Fatalf("empty tree root must equal hash() directly, with no combining")
	}
}

func TestBinaryTreeProofRoundTrip(t *testing.T) {
	o := hashoracle.Blake3{}
	leaves := make([][32]byte, 13)
	for i := range leaves {
		leaves[i] = o.Hash([]byte{byte(i)})
	}
	tree := Build(o, leaves)
	for i := range leaves {
		t.Run("", func(t *testing.T) {
			proof, err := tree.Proof(i)
			if err != nil {
				t.Fatalf("proof(%d): %v", i, err)
			}
			if !VerifyProof(o, tree.levels[0][i], proof, tree.Root()) {
				t.Fatalf("proof(%d) failed to verify", i)
			}
		})
	}
}

func TestBinaryTreeProofRejectsCorruption(t *testing.T) {
	o := hashoracle.Blake3{}
	leaves := make([][32]byte, 5)
	for i := range leaves {
		leaves[i] = o.Hash([]byte{byte(i)})
	}
	tree := Build(o, leaves)
	proof, err := tree.Proof(2)
	if err != nil {
		t.Fatal(err)
	}
	proof.Siblings[0][0] ^= 0xFF
	if VerifyProof(o, tree.levels[0][2], proof, tree.Root()) {
		t.Fatalf("corrupted proof must not verify")
	}
}

func TestChunkedMerkleOpenVerify(t *testing.T) {
	o := hashoracle.Blake3{}
	leaves := make([][]byte, 37)
	for i := range leaves {
		leaves[i] = []byte{byte(i), byte(i * 3)}
	}
	cm := BuildChunked(o, leaves, 8)
	for i := range leaves {
		opening, ok := cm.Open(i)
		if !ok {
			t.Fatalf("open(%d) failed", i)
		}
		if !VerifyOpening(o, leaves[i], opening, cm.Root()) {
			t.Fatalf("verify(%d) failed", i)
		}
	}
	if _, ok := cm.Open(len(leaves)); ok {
		t.Fatalf("open past leaf count should fail")
	}
}

func TestChunkedMerkleRejectsTamperedLeaf(t *testing.T) {
	o := hashoracle.Blake3{}
	leaves := make([][]byte, 20)
	for i := range leaves {
		leaves[i] = []byte{byte(i)}
	}
	cm := BuildChunked(o, leaves, 4)
	opening, _ := cm.Open(5)
	if VerifyOpening(o, []byte{99}, opening, cm.Root()) {
		t.Fatalf("tampered leaf content must fail verification")
	}
}

func TestChunkedMerkleEmptyInput(t *testing.T) {
	o := hashoracle.Blake3{}
	cm := BuildChunked(o, nil, 8)
	if cm.LeafCount() != 1 {
		t.Fatalf("empty chunked input should be treated as a single leaf, got %d", cm.LeafCount())
	}
	opening, ok := cm.Open(0)
	if !ok || !VerifyOpening(o, []byte{}, opening, cm.Root()) {
		t.Fatalf("single empty leaf must open and verify")
	}
}

func TestGraphMerkleEdgeOpenings(t *testing.T) {
	o := hashoracle.Blake3{}
	n := 6
	colors := make([]byte, n*n)
	for i := range colors {
		colors[i] = byte(i % 4)
	}
	gm := BuildGraphMerkle(o, n, colors, 8)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			opening, ok := gm.OpenEdge(i, j)
			if !ok {
				t.Fatalf("open edge (%d,%d) failed", i, j)
			}
			color := colors[i*n+j]
			if !VerifyEdgeOpening(o, uint32(i), uint32(j), color, opening, gm.Root()) {
				t.Fatalf("edge (%d,%d) failed to verify", i, j)
			}
			if VerifyEdgeOpening(o, uint32(i), uint32(j), color^0x01, opening, gm.Root()) {
				t.Fatalf("edge (%d,%d) verified with wrong color", i, j)
			}
		}
	}
}
