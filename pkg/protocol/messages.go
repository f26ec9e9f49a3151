package protocol

import (
	"github.com/archer-lili/zkp-coloring/pkg/graphmodel"
	"github.com/archer-lili/zkp-coloring/pkg/merkle"
	"github.com/archer-lili/zkp-coloring/pkg/trace"
)

// Commitments are the three published Merkle roots plus the declared
// blank count.
type Commitments struct {
	GraphRoot       [32]byte
	PermutationRoot [32]byte
	BlankRoot       [32]byte
	BlankCount      uint32
}

// Mode selects which kind of challenge a round issues.
type Mode uint8

const (
	ModeSpot Mode = iota
	ModeBlank
)

func (m Mode) String() string {
	if m == ModeSpot {
		return "spot"
	}
	return "blank"
}

// tag returns the ASCII tag mixed into the challenge seed for this mode.
func (m Mode) tag() []byte {
	if m == ModeSpot {
		return []byte("spot")
	}
	return []byte("blank")
}

// SpotChallenge asks the prover to open every edge of each listed triad.
type SpotChallenge struct {
	Spots [][3]int
}

// BlankChallenge asks the prover to open the listed edge indices plus the
// blank-count proof.
type BlankChallenge struct {
	EdgeIndices []int
}

// Challenge is the per-round message the verifier issues.
type Challenge struct {
	Round uint32
	Mode  Mode
	Spot  SpotChallenge
	Blank BlankChallenge
}

// EdgeOpening authenticates one directed edge's color against graph_root.
type EdgeOpening struct {
	From  uint32
	To    uint32
	Color graphmodel.Color
	Proof merkle.ChunkedOpening
}

// TriadOpening is the response to one triad in a spot challenge: the
// declared nodes (checked against the challenge) and the 9 ordered-pair
// edge openings, serialized row-major over Nodes including self-loops.
type TriadOpening struct {
	Nodes [3]int
	Edges [9]EdgeOpening
}

// SpotResponse answers a SpotChallenge, one TriadOpening per requested
// triad, order preserved.
type SpotResponse struct {
	Triads []TriadOpening
}

// BlankEdgeOpening authenticates one edge's color and blank bit.
type BlankEdgeOpening struct {
	EdgeIndex  uint32
	From       uint32
	To         uint32
	Color      graphmodel.Color
	IsBlank    bool
	ColorProof merkle.ChunkedOpening
	BlankProof merkle.ChunkedOpening
}

// BlankResponse answers a BlankChallenge with one opening per requested
// index plus the shared blank-count proof.
type BlankResponse struct {
	Edges      []BlankEdgeOpening
	CountProof *trace.BlankCountProof
}
