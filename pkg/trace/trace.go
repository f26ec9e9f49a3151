// Package trace implements the blank-count argument: a lightweight
// STARK-like construction over an arithmetized execution trace proving
// that a committed binary vector is in fact binary and sums to a declared
// total.
package trace

import (
	"encoding/binary"
	"fmt"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"github.com/archer-lili/zkp-coloring/pkg/merkle"
	"golang.org/x/sync/errgroup"
)

// Row is one trace row: (index, value, running sum).
type Row struct {
	Index      uint64
	Value      uint8
	RunningSum uint64
}

// Bytes serializes a row to the 17-byte wire layout:
// index_be_u64 ‖ value_u8 ‖ running_sum_be_u64.
func (r Row) Bytes() []byte {
	buf := make([]byte, 17)
	binary.BigEndian.PutUint64(buf[0:8], r.Index)
	buf[8] = r.Value
	binary.BigEndian.PutUint64(buf[9:17], r.RunningSum)
	return buf
}

// BitSource is the minimal view of a blank vector the trace prover needs.
type BitSource interface {
	Len() int
	Evaluate(i int) uint8
	RunningSum(i int) uint64
}

// Params configures the argument's soundness/cost trade-off.
type Params struct {
	SecurityLevel int // informational only
	NumQueries    int
	ChunkSize     int
}

// DefaultParams returns the reference parameters from the design notes.
func DefaultParams() Params {
	return Params{SecurityLevel: 128, NumQueries: 32, ChunkSize: 1024}
}

// QueryOpening is one sampled position's openings: the row at p, and (if
// p > 0) the row at p-1 needed to check the running-sum recurrence.
type QueryOpening struct {
	Position  uint64
	Row       Row
	RowProof  merkle.ChunkedOpening
	HasPrev   bool
	PrevRow   Row
	PrevProof merkle.ChunkedOpening
}

// BlankCountProof is the full succinct blank-count proof: the trace
// commitment, its FRI-style layer roots, the sampled query openings, and
// the boundary opening of the final row.
type BlankCountProof struct {
	TraceRoot  [32]byte
	LayerRoots [][32]byte
	Queries    []QueryOpening
	FinalRow   Row
	FinalProof merkle.ChunkedOpening
	TotalSum   uint64
}

func nextPowerOfTwo(n int) uint64 {
	if n <= 1 {
		return 1
	}
	p := uint64(1)
	for p < uint64(n) {
		p <<= 1
	}
	return p
}

// deriveLayerRoots repeatedly hashes current_root ‖ domain_size_be_u64,
// halving the domain each step, until the domain reaches 1. This is an
// abbreviated FRI-style derivation that Verify recomputes from the trace
// root and compares — not a low-degree test. Query positions are not drawn
// from these roots; sampleQueries starts from traceRoot itself.
func deriveLayerRoots(o hashoracle.Oracle, traceRoot [32]byte, domain uint64) [][32]byte {
	var layers [][32]byte
	current := traceRoot
	d := domain
	for d > 1 {
		var sizeBuf [8]byte
		binary.BigEndian.PutUint64(sizeBuf[:], d)
		current = o.Hash(current[:], sizeBuf[:])
		layers = append(layers, current)
		d /= 2
	}
	return layers
}

// sampleQueries deterministically draws up to q distinct positions in
// [0, L) by iterating seed <- hash(seed ‖ counter_be_u64) starting from
// traceRoot, rejecting duplicates, and sorting ascending.
func sampleQueries(o hashoracle.Oracle, traceRoot [32]byte, l uint64, q int) []uint64 {
	if l == 0 {
		return nil
	}
	seen := make(map[uint64]bool)
	positions := make([]uint64, 0, q)
	seed := traceRoot
	var counter uint64
	for uint64(len(positions)) < l && len(positions) < q {
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], counter)
		seed = o.Hash(seed[:], ctr[:])
		counter++
		pos := binary.BigEndian.Uint64(seed[0:8]) % l
		if seen[pos] {
			continue
		}
		seen[pos] = true
		positions = append(positions, pos)
	}
	sortUint64(positions)
	return positions
}

func sortUint64(s []uint64) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 && s[j] > key {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}

// Prove materializes the trace, commits it, and produces a BlankCountProof
// that the committed binary vector sums to totalSum.
func Prove(o hashoracle.Oracle, v BitSource, totalSum uint64, params Params) (*BlankCountProof, error) {
	l := v.Len()
	if l == 0 {
		return nil, fmt.Errorf("trace: cannot prove an empty vector")
	}

	rows := make([]Row, l)
	leaves := make([][]byte, l)
	for i := 0; i < l; i++ {
		row := Row{Index: uint64(i), Value: v.Evaluate(i), RunningSum: v.RunningSum(i)}
		rows[i] = row
		leaves[i] = row.Bytes()
	}

	traceTree := merkle.BuildChunked(o, leaves, params.ChunkSize)
	traceRoot := traceTree.Root()

	domain := nextPowerOfTwo(l)
	layerRoots := deriveLayerRoots(o, traceRoot, domain)

	queryPositions := sampleQueries(o, traceRoot, uint64(l), params.NumQueries)
	queries := make([]QueryOpening, len(queryPositions))
	var g errgroup.Group
	for idx, p := range queryPositions {
		idx, p := idx, p
		g.Go(func() error {
			rowProof, ok := traceTree.Open(int(p))
			if !ok {
				return fmt.Errorf("trace: missing proof for in-range row %d", p)
			}
			q := QueryOpening{Position: p, Row: rows[p], RowProof: rowProof}
			if p > 0 {
				prevProof, ok := traceTree.Open(int(p - 1))
				if !ok {
					return fmt.Errorf("trace: missing proof for in-range row %d", p-1)
				}
				q.HasPrev = true
				q.PrevRow = rows[p-1]
				q.PrevProof = prevProof
			}
			queries[idx] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	finalProof, ok := traceTree.Open(l - 1)
	if !ok {
		return nil, fmt.Errorf("trace: missing proof for final row %d", l-1)
	}

	return &BlankCountProof{
		TraceRoot:  traceRoot,
		LayerRoots: layerRoots,
		Queries:    queries,
		FinalRow:   rows[l-1],
		FinalProof: finalProof,
		TotalSum:   totalSum,
	}, nil
}

// Verify checks a BlankCountProof against an externally declared total.
func Verify(o hashoracle.Oracle, proof *BlankCountProof, expectedSum uint64, params Params) bool {
	if proof == nil {
		return false
	}
	if proof.TotalSum != expectedSum {
		return false
	}

	l := proof.FinalRow.Index + 1
	domain := nextPowerOfTwo(int(l))
	wantLayers := deriveLayerRoots(o, proof.TraceRoot, domain)
	if len(wantLayers) != len(proof.LayerRoots) {
		return false
	}
	for i := range wantLayers {
		if wantLayers[i] != proof.LayerRoots[i] {
			return false
		}
	}

	for _, q := range proof.Queries {
		if q.Row.Value > 1 {
			return false
		}
		if !merkle.VerifyOpening(o, q.Row.Bytes(), q.RowProof, proof.TraceRoot) {
			return false
		}
		if q.Position == 0 {
			if q.Row.RunningSum != uint64(q.Row.Value) {
				return false
			}
			continue
		}
		if !q.HasPrev {
			return false
		}
		if q.PrevRow.Index != q.Position-1 {
			return false
		}
		if !merkle.VerifyOpening(o, q.PrevRow.Bytes(), q.PrevProof, proof.TraceRoot) {
			return false
		}
		if q.Row.RunningSum != q.PrevRow.RunningSum+uint64(q.Row.Value) {
			return false
		}
	}

	if proof.FinalRow.Index != l-1 {
		return false
	}
	if !merkle.VerifyOpening(o, proof.FinalRow.Bytes(), proof.FinalProof, proof.TraceRoot) {
		return false
	}
	if proof.FinalRow.RunningSum != proof.TotalSum {
		return false
	}

	return true
}
