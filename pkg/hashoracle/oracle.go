// Package hashoracle provides the domain-separated hash abstraction used
// throughout the protocol: Merkle node combination, challenge seed
// derivation, and FRI-style layer/query derivation all go through an
// Oracle so the concrete hash function can be swapped without touching any
// caller.
package hashoracle

import "encoding/binary"

// Oracle is a fixed-output 32-byte hash with a salted variant. Inputs are
// absorbed in order; callers pass them as the separate fields of the wire
// format's byte layouts (e.g. left32‖right32 for a Merkle combine). The
// byte-stream backends (Blake3, SHA3) hash the plain concatenation of the
// parts; GnarkPoseidon absorbs each part as its own field element.
type Oracle interface {
	Hash(parts ...[]byte) [32]byte
	HashWithSalt(salt []byte, parts ...[]byte) [32]byte
}

// Chain iterates hash(current ‖ counter_be_u64) for rounds steps, deriving a
// sequence of deterministic sub-seeds from a starting seed.
func Chain(o Oracle, seed [32]byte, rounds int) [32]byte {
	cur := seed
	var ctr [8]byte
	for k := 0; k < rounds; k++ {
		binary.BigEndian.PutUint64(ctr[:], uint64(k))
		cur = o.Hash(cur[:], ctr[:])
	}
	return cur
}
