package hashoracle

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

// GnarkPoseidon hashes over the BN254 scalar field using Poseidon2, the same
// permutation the commitment layer's Merkle combine used before this
// package introduced dynamic hash dispatch. Each input part is reduced to
// a canonical field element before absorption, so two parts that agree
// modulo the scalar field hash identically; this is acceptable here because
// every caller feeds fixed-width, field-sized byte strings.
type GnarkPoseidon struct{}

func (GnarkPoseidon) Hash(parts ...[]byte) [32]byte {
	h := poseidon2.NewMerkleDamgardHasher()
	for _, p := range parts {
		var e fr.Element
		e.SetBytes(p)
		b := e.Bytes()
		h.Write(b[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (g GnarkPoseidon) HashWithSalt(salt []byte, parts ...[]byte) [32]byte {
	all := make([][]byte, 0, len(parts)+1)
	all = append(all, salt)
	all = append(all, parts...)
	return g.Hash(all...)
}
