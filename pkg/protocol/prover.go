package protocol

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"github.com/archer-lili/zkp-coloring/pkg/blankpoly"
	"github.com/archer-lili/zkp-coloring/pkg/graphmodel"
	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"github.com/archer-lili/zkp-coloring/pkg/merkle"
	"github.com/archer-lili/zkp-coloring/pkg/trace"
	"github.com/rs/zerolog"
)

type proverPhase int

const (
	phaseFresh proverPhase = iota
	phaseCommitted
)

// ProverEngine owns the witness graph, the random permutation, the
// permuted graph, and the three commitment trees until the session ends.
// It is a fresh -> committed state machine: Commit transitions once, then
// RespondToSpot/RespondToBlank are callable repeatedly as pure functions
// of the committed state.
type ProverEngine struct {
	oracle     hashoracle.Oracle
	graph      *graphmodel.Graph
	coloration *graphmodel.ColorationSet
	params     trace.Params
	chunkSize  int

	phase proverPhase

	perm          []int
	permutedGraph *graphmodel.Graph
	graphMerkle   *merkle.GraphMerkle
	permTree      *merkle.Tree
	blankMerkle   *merkle.ChunkedMerkle
	countProof    *trace.BlankCountProof
	commitments   Commitments

	log     zerolog.Logger
	metrics *Metrics
}

// NewProverEngine constructs a fresh prover over graph/coloration. chunkSize
// governs both the graph and blank-vector ChunkedMerkle commitments, and
// params governs the blank-count trace argument.
func NewProverEngine(oracle hashoracle.Oracle, graph *graphmodel.Graph, coloration *graphmodel.ColorationSet, chunkSize int, params trace.Params, log zerolog.Logger) (*ProverEngine, error) {
	if graph.N == 0 {
		return nil, ErrEmptyGraph
	}
	return &ProverEngine{
		oracle:     oracle,
		graph:      graph,
		coloration: coloration,
		params:     params,
		chunkSize:  chunkSize,
		log:        log,
	}, nil
}

// WithMetrics attaches an optional metrics recorder.
func (p *ProverEngine) WithMetrics(m *Metrics) *ProverEngine {
	p.metrics = m
	return p
}

func randomPermutation(n int) []int {
	var seed int64
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	seed = int64(binary.BigEndian.Uint64(buf[:]))
	r := mrand.New(mrand.NewSource(seed))

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

func permutationLeafBytes(entry int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(entry))
	return buf
}

// Commit draws a random permutation, builds the permuted graph and its
// three commitments, runs the blank-count argument, and returns the
// published Commitments.
func (p *ProverEngine) Commit() (Commitments, error) {
	n := p.graph.N

	p.perm = randomPermutation(n)
	p.permutedGraph = p.graph.ApplyPermutation(p.perm)

	p.graphMerkle = merkle.BuildGraphMerkle(p.oracle, n, colorsToBytes(p.permutedGraph.EdgeCache()), p.chunkSize)

	permHashes := make([][32]byte, n)
	for i, entry := range p.perm {
		permHashes[i] = p.oracle.Hash(permutationLeafBytes(entry))
	}
	p.permTree = merkle.Build(p.oracle, permHashes)

	l := n * n
	blankValues := make([]byte, l)
	blankLeaves := make([][]byte, l)
	for k, c := range p.permutedGraph.EdgeCache() {
		v := byte(0)
		if c == graphmodel.Blank {
			v = 1
		}
		blankValues[k] = v
		blankLeaves[k] = []byte{v}
	}
	p.blankMerkle = merkle.BuildChunked(p.oracle, blankLeaves, p.chunkSize)

	blankPoly := blankpoly.New(blankValues)
	proof, err := trace.Prove(p.oracle, blankPoly, uint64(p.coloration.BlankLimit), p.params)
	if err != nil {
		return Commitments{}, err
	}
	p.countProof = proof

	p.commitments = Commitments{
		GraphRoot:       p.graphMerkle.Root(),
		PermutationRoot: p.permTree.Root(),
		BlankRoot:       p.blankMerkle.Root(),
		BlankCount:      uint32(p.coloration.BlankLimit),
	}
	p.phase = phaseCommitted

	p.log.Debug().
		Hex("graph_root", p.commitments.GraphRoot[:]).
		Hex("permutation_root", p.commitments.PermutationRoot[:]).
		Hex("blank_root", p.commitments.BlankRoot[:]).
		Uint32("blank_count", p.commitments.BlankCount).
		Msg("prover committed")

	return p.commitments, nil
}

func colorsToBytes(colors []graphmodel.Color) []byte {
	out := make([]byte, len(colors))
	for i, c := range colors {
		out[i] = byte(c)
	}
	return out
}

// RespondToSpot opens all 9 ordered-pair edges of each requested triad, in
// order.
func (p *ProverEngine) RespondToSpot(ch SpotChallenge) (SpotResponse, error) {
	if p.phase != phaseCommitted {
		return SpotResponse{}, ErrNotCommitted
	}

	resp := SpotResponse{Triads: make([]TriadOpening, len(ch.Spots))}
	for idx, nodes := range ch.Spots {
		opening := TriadOpening{Nodes: nodes}
		k := 0
		for _, u := range nodes {
			for _, v := range nodes {
				color := p.permutedGraph.GetEdge(u, v)
				proof, ok := p.graphMerkle.OpenEdge(u, v)
				if !ok {
					return SpotResponse{}, ErrInvalidEdgeIndex
				}
				opening.Edges[k] = EdgeOpening{From: uint32(u), To: uint32(v), Color: color, Proof: proof}
				k++
			}
		}
		resp.Triads[idx] = opening
	}

	p.metrics.round(ModeSpot)
	p.log.Debug().Int("triads", len(ch.Spots)).Msg("prover responded to spot challenge")
	return resp, nil
}

// RespondToBlank opens the requested blank-vector indices plus the stored
// blank-count proof.
func (p *ProverEngine) RespondToBlank(ch BlankChallenge) (BlankResponse, error) {
	if p.phase != phaseCommitted {
		return BlankResponse{}, ErrNotCommitted
	}

	n := p.graph.N
	resp := BlankResponse{Edges: make([]BlankEdgeOpening, len(ch.EdgeIndices)), CountProof: p.countProof}
	for idx, k := range ch.EdgeIndices {
		if k < 0 || k >= n*n {
			return BlankResponse{}, ErrInvalidEdgeIndex
		}
		i, j := k/n, k%n
		color := p.permutedGraph.GetEdge(i, j)
		isBlank := color == graphmodel.Blank

		colorProof, ok := p.graphMerkle.OpenEdge(i, j)
		if !ok {
			return BlankResponse{}, ErrInvalidEdgeIndex
		}
		blankProof, ok := p.blankMerkle.Open(k)
		if !ok {
			return BlankResponse{}, ErrInvalidEdgeIndex
		}

		resp.Edges[idx] = BlankEdgeOpening{
			EdgeIndex:  uint32(k),
			From:       uint32(i),
			To:         uint32(j),
			Color:      color,
			IsBlank:    isBlank,
			ColorProof: colorProof,
			BlankProof: blankProof,
		}
	}

	p.metrics.round(ModeBlank)
	p.log.Debug().Int("edges", len(ch.EdgeIndices)).Msg("prover responded to blank challenge")
	return resp, nil
}
