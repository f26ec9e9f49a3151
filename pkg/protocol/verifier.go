package protocol

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/archer-lili/zkp-coloring/pkg/graphmodel"
	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"github.com/archer-lili/zkp-coloring/pkg/merkle"
	"github.com/archer-lili/zkp-coloring/pkg/trace"
	"github.com/rs/zerolog"
)

// VerifierEngine holds the coloration set and, once received, the
// published commitments; it derives challenges deterministically from the
// commitments and verifies openings and the blank-count proof. It never
// sees π, G', or the blank vector directly, only authenticated openings.
type VerifierEngine struct {
	oracle     hashoracle.Oracle
	coloration *graphmodel.ColorationSet
	cfg        Config
	params     trace.Params

	commitments *Commitments
	modeRNG     *drawRNG

	log       zerolog.Logger
	metrics   *Metrics
	debugSpot bool
}

// NewVerifierEngine constructs a verifier with a seedable mode-coin stream
// (seed) for test determinism.
func NewVerifierEngine(oracle hashoracle.Oracle, coloration *graphmodel.ColorationSet, cfg Config, params trace.Params, seed [32]byte, log zerolog.Logger) *VerifierEngine {
	return &VerifierEngine{
		oracle:     oracle,
		coloration: coloration,
		cfg:        cfg,
		params:     params,
		modeRNG:    newDrawRNG(oracle, seed),
		log:        log,
		debugSpot:  os.Getenv("ZKP_DEBUG_SPOT") != "",
	}
}

// WithMetrics attaches an optional metrics recorder.
func (v *VerifierEngine) WithMetrics(m *Metrics) *VerifierEngine {
	v.metrics = m
	return v
}

// ReceiveCommitments records the prover's published commitments; it must
// precede GenerateChallenge.
func (v *VerifierEngine) ReceiveCommitments(c Commitments) {
	cc := c
	v.commitments = &cc
}

func (v *VerifierEngine) challengeSeed(round uint32, mode Mode) [32]byte {
	var roundBuf [4]byte
	binary.BigEndian.PutUint32(roundBuf[:], round)
	return v.oracle.Hash(
		v.commitments.GraphRoot[:],
		v.commitments.PermutationRoot[:],
		v.commitments.BlankRoot[:],
		roundBuf[:],
		mode.tag(),
	)
}

// GenerateChallenge flips a biased coin (spot with probability
// cfg.SpotProbability) and derives the challenge deterministically from
// (commitments, round, mode tag).
func (v *VerifierEngine) GenerateChallenge(round uint32) (Challenge, error) {
	if v.commitments == nil {
		return Challenge{}, ErrNoCommitments
	}

	mode := ModeBlank
	if v.modeRNG.float64() < v.cfg.SpotProbability {
		mode = ModeSpot
	}

	seed := v.challengeSeed(round, mode)
	sampler := newDrawRNG(v.oracle, seed)
	n := v.coloration.GraphSize

	ch := Challenge{Round: round, Mode: mode}
	switch mode {
	case ModeSpot:
		ch.Spot.Spots = make([][3]int, v.cfg.SpotsPerRound)
		for i := range ch.Spot.Spots {
			ch.Spot.Spots[i] = sampleTriad(sampler, n)
		}
	case ModeBlank:
		ch.Blank.EdgeIndices = make([]int, v.cfg.BlanksPerRound)
		l := uint64(n) * uint64(n)
		for i := range ch.Blank.EdgeIndices {
			ch.Blank.EdgeIndices[i] = int(sampler.uint64n(l))
		}
	}

	v.log.Debug().Uint32("round", round).Str("mode", mode.String()).Msg("verifier generated challenge")
	return ch, nil
}

// sampleTriad draws 3 distinct vertices in [0, n) by rejection sampling,
// in the insertion order that becomes part of the challenge.
func sampleTriad(r *drawRNG, n int) [3]int {
	var nodes [3]int
	count := 0
	for count < 3 {
		candidate := int(r.uint64n(uint64(n)))
		dup := false
		for i := 0; i < count; i++ {
			if nodes[i] == candidate {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		nodes[count] = candidate
		count++
	}
	return nodes
}

// VerifySpotResponse verifies every opened triad's edges and pattern
// membership.
func (v *VerifierEngine) VerifySpotResponse(ch SpotChallenge, resp SpotResponse) bool {
	if v.commitments == nil {
		return false
	}
	if len(resp.Triads) != len(ch.Spots) {
		v.debugf("spot: response triad count %d != challenge count %d", len(resp.Triads), len(ch.Spots))
		v.metrics.rejection(ModeSpot, "arity")
		return false
	}

	for idx, want := range ch.Spots {
		got := resp.Triads[idx]
		if got.Nodes != want {
			v.debugf("spot[%d]: declared nodes %v != challenge nodes %v", idx, got.Nodes, want)
			v.metrics.rejection(ModeSpot, "nodes")
			return false
		}

		edgeColors := make(map[[2]int]graphmodel.Color, 9)
		for _, e := range got.Edges {
			if !merkle.VerifyEdgeOpening(v.oracle, e.From, e.To, byte(e.Color), e.Proof, v.commitments.GraphRoot) {
				v.debugf("spot[%d]: edge (%d,%d) failed to authenticate", idx, e.From, e.To)
				v.metrics.rejection(ModeSpot, "auth")
				return false
			}
			edgeColors[[2]int{int(e.From), int(e.To)}] = e.Color
		}

		var colors [9]graphmodel.Color
		k := 0
		ok := true
		for _, u := range want {
			for _, w := range want {
				c, present := edgeColors[[2]int{u, w}]
				if !present {
					ok = false
				}
				colors[k] = c
				k++
			}
		}
		if !ok {
			v.debugf("spot[%d]: missing expected edge opening", idx)
			v.metrics.rejection(ModeSpot, "missing_edge")
			return false
		}

		spot := graphmodel.Spot{Nodes: want, Colors: colors}
		if !v.coloration.Contains(spot.CanonicalKey()) {
			v.debugf("spot[%d]: canonical pattern not in coloration set", idx)
			v.metrics.rejection(ModeSpot, "pattern")
			return false
		}
	}

	v.metrics.round(ModeSpot)
	return true
}

// VerifyBlankResponse verifies every opened edge's color and blank bit,
// and the attached blank-count proof.
func (v *VerifierEngine) VerifyBlankResponse(ch BlankChallenge, resp BlankResponse) bool {
	if v.commitments == nil {
		return false
	}

	n := v.coloration.GraphSize
	byIndex := make(map[int]BlankEdgeOpening, len(resp.Edges))
	for _, e := range resp.Edges {
		byIndex[int(e.EdgeIndex)] = e
	}

	for _, want := range ch.EdgeIndices {
		e, ok := byIndex[want]
		if !ok {
			v.debugf("blank: missing opening for index %d", want)
			v.metrics.rejection(ModeBlank, "missing_edge")
			return false
		}
		if int(e.EdgeIndex) >= n*n {
			v.debugf("blank: index %d out of range", e.EdgeIndex)
			v.metrics.rejection(ModeBlank, "range")
			return false
		}
		if !merkle.VerifyEdgeOpening(v.oracle, e.From, e.To, byte(e.Color), e.ColorProof, v.commitments.GraphRoot) {
			v.debugf("blank: color proof failed for index %d", e.EdgeIndex)
			v.metrics.rejection(ModeBlank, "color_auth")
			return false
		}
		isBlankByte := byte(0)
		if e.IsBlank {
			isBlankByte = 1
		}
		if !merkle.VerifyOpening(v.oracle, []byte{isBlankByte}, e.BlankProof, v.commitments.BlankRoot) {
			v.debugf("blank: blank-bit proof failed for index %d", e.EdgeIndex)
			v.metrics.rejection(ModeBlank, "blank_auth")
			return false
		}
		if (e.Color == graphmodel.Blank) != e.IsBlank {
			v.debugf("blank: declared is_blank disagrees with color for index %d", e.EdgeIndex)
			v.metrics.rejection(ModeBlank, "consistency")
			return false
		}
	}

	if !trace.Verify(v.oracle, resp.CountProof, uint64(v.commitments.BlankCount), v.params) {
		v.debugf("blank: blank-count proof failed to verify")
		v.metrics.rejection(ModeBlank, "count_proof")
		return false
	}

	v.metrics.round(ModeBlank)
	return true
}

// debugf writes verbose rejection diagnostics to stderr, and as a debug
// event on the engine's logger, when ZKP_DEBUG_SPOT is set. Observational
// only; must never affect acceptance.
func (v *VerifierEngine) debugf(format string, args ...interface{}) {
	if !v.debugSpot {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	v.log.Debug().Msgf(format, args...)
}
