// Package blankpoly wraps the blank-vector bit vector with precomputed
// prefix sums, the domain object the trace prover arithmetizes.
package blankpoly

import (
	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"github.com/bits-and-blooms/bitset"
)

// BlankPolynomial is a length-L binary vector with a running-sum index.
type BlankPolynomial struct {
	bits    *bitset.BitSet
	length  int
	prefix  []uint64 // prefix[i] = sum of bits[0..=i]
}

// New builds a BlankPolynomial from an explicit {0,1} byte vector.
func New(values []byte) *BlankPolynomial {
	bp := &BlankPolynomial{
		bits:   bitset.New(uint(len(values))),
		length: len(values),
		prefix: make([]uint64, len(values)),
	}
	var running uint64
	for i, v := range values {
		if v != 0 {
			bp.bits.Set(uint(i))
			running++
		}
		bp.prefix[i] = running
	}
	return bp
}

// Len returns the vector's length L.
func (bp *BlankPolynomial) Len() int { return bp.length }

// Evaluate returns the bit at position i as 0 or 1.
func (bp *BlankPolynomial) Evaluate(i int) uint8 {
	if bp.bits.Test(uint(i)) {
		return 1
	}
	return 0
}

// Sum returns the total number of set bits, Σ v.
func (bp *BlankPolynomial) Sum() uint64 {
	if bp.length == 0 {
		return 0
	}
	return bp.prefix[bp.length-1]
}

// RunningSum returns the sum of entries [0..=i].
func (bp *BlankPolynomial) RunningSum(i int) uint64 {
	return bp.prefix[i]
}

// Commit hashes the raw bit bytes into a 32-byte digest. This is only a
// short self-check; the authenticated structure is the ChunkedMerkle built
// over the per-bit leaves in the protocol layer.
func (bp *BlankPolynomial) Commit(o hashoracle.Oracle) [32]byte {
	raw := make([]byte, bp.length)
	for i := range raw {
		raw[i] = bp.Evaluate(i)
	}
	return o.Hash(raw)
}
