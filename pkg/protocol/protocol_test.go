package protocol

import (
	"testing"

	"github.com/archer-lili/zkp-coloring/pkg/graphmodel"
	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"github.com/archer-lili/zkp-coloring/pkg/instance"
	"github.com/archer-lili/zkp-coloring/pkg/trace"
	"github.com/rs/zerolog"
)

func silentLogger() zerolog.Logger {
	return zerolog.Nop()
}

func runSession(t *testing.T, n int, cfg Config) (*ProverEngine, *VerifierEngine, Commitments) {
	t.Helper()
	g, cs, _ := instance.Generate(n)
	oracle := hashoracle.Blake3{}
	params := trace.Params{SecurityLevel: 128, NumQueries: 32, ChunkSize: 1024}

	prover, err := NewProverEngine(oracle, g, cs, params.ChunkSize, params, silentLogger())
	if err != nil {
		t.Fatalf("NewProverEngine: %v", err)
	}
	commitments, err := prover.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var seed [32]byte
	verifier := NewVerifierEngine(oracle, cs, cfg, params, seed, silentLogger())
	verifier.ReceiveCommitments(commitments)

	return prover, verifier, commitments
}

// E1: honest session must accept every round.
func TestE1HonestSessionAccepted(t *testing.T) {
	cfg := Config{Rounds: 8, SpotsPerRound: 4, BlanksPerRound: 2, SpotProbability: 0.7}
	prover, verifier, _ := runSession(t, 10, cfg)

	for round := uint32(0); round < uint32(cfg.Rounds); round++ {
		ch, err := verifier.GenerateChallenge(round)
		if err != nil {
			t.Fatalf("round %d: GenerateChallenge: %v", round, err)
		}
		switch ch.Mode {
		case ModeSpot:
			resp, err := prover.RespondToSpot(ch.Spot)
			if err != nil {
				t.Fatalf("round %d: RespondToSpot: %v", round, err)
			}
			if !verifier.VerifySpotResponse(ch.Spot, resp) {
				t.Fatalf("round %d: honest spot response rejected", round)
			}
		case ModeBlank:
			resp, err := prover.RespondToBlank(ch.Blank)
			if err != nil {
				t.Fatalf("round %d: RespondToBlank: %v", round, err)
			}
			if !verifier.VerifyBlankResponse(ch.Blank, resp) {
				t.Fatalf("round %d: honest blank response rejected", round)
			}
		}
	}
}

// E2: flipping a committed color before responding must reject the first
// spot round touching that edge.
func TestE2TamperedColorRejectsSpot(t *testing.T) {
	cfg := Config{Rounds: 1, SpotsPerRound: 1, BlanksPerRound: 0, SpotProbability: 1.0}
	prover, verifier, _ := runSession(t, 10, cfg)

	ch, err := verifier.GenerateChallenge(0)
	if err != nil {
		t.Fatalf("GenerateChallenge: %v", err)
	}
	if ch.Mode != ModeSpot {
		t.Fatalf("expected a spot challenge with spot_probability 1.0")
	}

	// Flip a committed color on the permuted graph directly, simulating a
	// dishonest opening: touch an edge inside one of the challenged
	// triads so at least one opening's leaf hash disagrees with graph_root.
	node := ch.Spot.Spots[0][0]
	other := ch.Spot.Spots[0][1]
	original := prover.permutedGraph.GetEdge(node, other)
	flipped := graphmodel.Red
	if original == graphmodel.Red {
		flipped = graphmodel.Green
	}
	prover.permutedGraph.OverwriteEdge(node, other, flipped)

	resp, err := prover.RespondToSpot(ch.Spot)
	if err != nil {
		t.Fatalf("RespondToSpot: %v", err)
	}
	if verifier.VerifySpotResponse(ch.Spot, resp) {
		t.Fatalf("spot response with a tampered committed color must be rejected")
	}
}

// E3: replacing blank_count with blank_limit+1 must reject every blank
// round while leaving spot rounds unaffected.
func TestE3TamperedBlankCountRejectsBlankOnly(t *testing.T) {
	cfg := Config{Rounds: 1, SpotsPerRound: 2, BlanksPerRound: 2, SpotProbability: 1.0}
	prover, verifier, commitments := runSession(t, 10, cfg)

	tampered := commitments
	tampered.BlankCount = commitments.BlankCount + 1
	verifier.ReceiveCommitments(tampered)

	spotCh, err := verifier.GenerateChallenge(0)
	if err != nil {
		t.Fatalf("GenerateChallenge: %v", err)
	}
	spotResp, err := prover.RespondToSpot(spotCh.Spot)
	if err != nil {
		t.Fatalf("RespondToSpot: %v", err)
	}
	if !verifier.VerifySpotResponse(spotCh.Spot, spotResp) {
		t.Fatalf("spot round must still accept after tampering with blank_count")
	}

	blankCh := BlankChallenge{EdgeIndices: []int{0, 1}}
	blankResp, err := prover.RespondToBlank(blankCh)
	if err != nil {
		t.Fatalf("RespondToBlank: %v", err)
	}
	if verifier.VerifyBlankResponse(blankCh, blankResp) {
		t.Fatalf("blank round must reject once blank_count is tampered with")
	}
}

// E5: tampering with the trace proof's final running sum must reject.
func TestE5TraceTamperingRejects(t *testing.T) {
	cfg := Config{Rounds: 1, SpotsPerRound: 0, BlanksPerRound: 2, SpotProbability: 0.0}
	prover, verifier, _ := runSession(t, 10, cfg)

	blankCh := BlankChallenge{EdgeIndices: []int{0, 1}}
	resp, err := prover.RespondToBlank(blankCh)
	if err != nil {
		t.Fatalf("RespondToBlank: %v", err)
	}
	resp.CountProof.FinalRow.RunningSum = resp.CountProof.TotalSum - 1
	if verifier.VerifyBlankResponse(blankCh, resp) {
		t.Fatalf("tampered final running sum must be rejected")
	}
}

// E6: challenge seed determinism across two verifier instances sharing the
// same commitments.
func TestE6ChallengeSeedDeterminism(t *testing.T) {
	oracle := hashoracle.Blake3{}
	g, cs, _ := instance.Generate(8)
	params := trace.Params{SecurityLevel: 128, NumQueries: 16, ChunkSize: 64}
	prover, err := NewProverEngine(oracle, g, cs, params.ChunkSize, params, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	commitments, err := prover.Commit()
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	var seed [32]byte
	v1 := NewVerifierEngine(oracle, cs, cfg, params, seed, silentLogger())
	v2 := NewVerifierEngine(oracle, cs, cfg, params, seed, silentLogger())
	v1.ReceiveCommitments(commitments)
	v2.ReceiveCommitments(commitments)

	for round := uint32(0); round < uint32(cfg.Rounds); round++ {
		s1 := v1.challengeSeed(round, ModeSpot)
		s2 := v2.challengeSeed(round, ModeSpot)
		if s1 != s2 {
			t.Fatalf("round %d: challenge seeds diverge across hosts", round)
		}
	}
}

// E4: forced spot/blank alternation must all accept.
func TestE4ForcedAlternationAccepted(t *testing.T) {
	g, cs, _ := instance.Generate(24)
	oracle := hashoracle.Blake3{}
	params := trace.Params{SecurityLevel: 128, NumQueries: 32, ChunkSize: 1024}
	prover, err := NewProverEngine(oracle, g, cs, params.ChunkSize, params, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	commitments, err := prover.Commit()
	if err != nil {
		t.Fatal(err)
	}

	cfg := Config{Rounds: 6, SpotsPerRound: 3, BlanksPerRound: 2, SpotProbability: 0.5}
	var seed [32]byte
	verifier := NewVerifierEngine(oracle, cs, cfg, params, seed, silentLogger())
	verifier.ReceiveCommitments(commitments)

	for round := uint32(0); round < 6; round++ {
		forcedSpot := round%2 == 0
		mode := ModeBlank
		if forcedSpot {
			mode = ModeSpot
		}
		seedBytes := verifier.challengeSeed(round, mode)
		sampler := newDrawRNG(oracle, seedBytes)

		if forcedSpot {
			spots := make([][3]int, cfg.SpotsPerRound)
			for i := range spots {
				spots[i] = sampleTriad(sampler, cs.GraphSize)
			}
			ch := SpotChallenge{Spots: spots}
			resp, err := prover.RespondToSpot(ch)
			if err != nil {
				t.Fatalf("round %d: %v", round, err)
			}
			if !verifier.VerifySpotResponse(ch, resp) {
				t.Fatalf("round %d: forced spot round rejected", round)
			}
		} else {
			l := uint64(cs.GraphSize) * uint64(cs.GraphSize)
			indices := make([]int, cfg.BlanksPerRound)
			for i := range indices {
				indices[i] = int(sampler.uint64n(l))
			}
			ch := BlankChallenge{EdgeIndices: indices}
			resp, err := prover.RespondToBlank(ch)
			if err != nil {
				t.Fatalf("round %d: %v", round, err)
			}
			if !verifier.VerifyBlankResponse(ch, resp) {
				t.Fatalf("round %d: forced blank round rejected", round)
			}
		}
	}
}
