package protocol

import (
	"encoding/binary"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
)

// drawRNG is a deterministic counter-hash stream: state <- hash(state ‖
// counter_be_u64). It backs both the verifier's persistent mode-coin
// stream and the per-round challenge-seed-derived sampler, so that every
// draw a host needs to reproduce is a pure function of an initial 32-byte
// seed and the oracle in use.
type drawRNG struct {
	oracle  hashoracle.Oracle
	state   [32]byte
	counter uint64
}

func newDrawRNG(o hashoracle.Oracle, seed [32]byte) *drawRNG {
	return &drawRNG{oracle: o, state: seed}
}

func (r *drawRNG) next() [32]byte {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], r.counter)
	r.counter++
	r.state = r.oracle.Hash(r.state[:], ctr[:])
	return r.state
}

// uint64n returns a value uniformly distributed in [0, n) for n > 0.
func (r *drawRNG) uint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	digest := r.next()
	return binary.BigEndian.Uint64(digest[0:8]) % n
}

// float64 returns a value in [0, 1).
func (r *drawRNG) float64() float64 {
	digest := r.next()
	v := binary.BigEndian.Uint64(digest[0:8])
	return float64(v>>11) / float64(uint64(1)<<53)
}
