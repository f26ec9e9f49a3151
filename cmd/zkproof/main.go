// Command zkproof drives one end-to-end prover/verifier session over a
// generated hard instance and writes the resulting transcript to disk.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
	"github.com/archer-lili/zkp-coloring/pkg/instance"
	"github.com/archer-lili/zkp-coloring/pkg/protocol"
	"github.com/archer-lili/zkp-coloring/pkg/trace"
	"github.com/archer-lili/zkp-coloring/pkg/transcript"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != "run" {
		printUsage()
		os.Exit(1)
	}

	n := 10
	out := "transcript.bin"
	if len(os.Args) >= 3 {
		v, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid n: %v", err)
		}
		n = v
	}
	if len(os.Args) >= 4 {
		out = os.Args[3]
	}

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	g, cs, _ := instance.Generate(n)
	oracle := hashoracle.Blake3{}
	params := trace.DefaultParams()

	prover, err := protocol.NewProverEngine(oracle, g, cs, params.ChunkSize, params, logger)
	if err != nil {
		log.Fatalf("new prover: %v", err)
	}
	commitments, err := prover.Commit()
	if err != nil {
		log.Fatalf("commit: %v", err)
	}

	cfg := protocol.DefaultConfig()
	var seed [32]byte
	verifier := protocol.NewVerifierEngine(oracle, cs, cfg, params, seed, logger)
	verifier.ReceiveCommitments(commitments)

	session := &transcript.Transcript{Commitments: commitments}

	for round := uint32(0); round < uint32(cfg.Rounds); round++ {
		ch, err := verifier.GenerateChallenge(round)
		if err != nil {
			log.Fatalf("round %d: generate challenge: %v", round, err)
		}

		rec := transcript.Round{Challenge: ch}
		accepted := false
		switch ch.Mode {
		case protocol.ModeSpot:
			resp, err := prover.RespondToSpot(ch.Spot)
			if err != nil {
				log.Fatalf("round %d: respond to spot: %v", round, err)
			}
			accepted = verifier.VerifySpotResponse(ch.Spot, resp)
			rec.SpotResp = &resp
		case protocol.ModeBlank:
			resp, err := prover.RespondToBlank(ch.Blank)
			if err != nil {
				log.Fatalf("round %d: respond to blank: %v", round, err)
			}
			accepted = verifier.VerifyBlankResponse(ch.Blank, resp)
			rec.BlankResp = &resp
		}

		session.Rounds = append(session.Rounds, rec)
		fmt.Printf("round %d (%s): accepted=%v\n", round, ch.Mode, accepted)
		if !accepted {
			log.Fatalf("round %d rejected", round)
		}
	}

	data, err := transcript.Save(session)
	if err != nil {
		log.Fatalf("save transcript: %v", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}
	fmt.Printf("wrote transcript to %s (%d bytes)\n", out, len(data))
}

func printUsage() {
	fmt.Println(`usage: zkproof run [n] [out]

  run   generate an n-vertex hard instance, execute a full prover/verifier
        session, and write the resulting transcript to out (default
        transcript.bin)`)
}
