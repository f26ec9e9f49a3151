// Package transcript persists a proof session's commitments and
// challenge/response history as an opaque byte string, the "transcript
// store" collaborator named in the external interfaces.
package transcript

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/archer-lili/zkp-coloring/pkg/protocol"
)

// Round bundles one round's challenge with its response. Exactly one of
// SpotResp/BlankResp is populated, matching the challenge's Mode.
type Round struct {
	Challenge    protocol.Challenge
	SpotResp     *protocol.SpotResponse
	BlankResp    *protocol.BlankResponse
}

// Transcript is the full proof session: one Commitments prefix shared by
// every round.
type Transcript struct {
	Commitments protocol.Commitments
	Rounds      []Round
}

// Save serializes t to bytes.
func Save(t *Transcript) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t); err != nil {
		return nil, fmt.Errorf("transcript: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Load deserializes a Transcript from bytes written by Save.
func Load(data []byte) (*Transcript, error) {
	var t Transcript
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	return &t, nil
}
