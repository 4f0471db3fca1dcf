package indexcache

import (
	"crypto/rand"
	"fmt"

	"github.com/veraison/go-cose"
)

// Sign produces a COSE_Sign1 message over checkpoint's canonical CBOR
// encoding, grounded on massifs/rootsigner.go's RootSigner.Sign1: build
// the payload with the shared codec, wrap it in a cose.Sign1Message, and
// sign in place.
//
// Unlike the teacher's root signer, this package does not attach CWT
// claims headers (issuer/subject/confirmation key) — those identify a
// DataTrails tenant, a concept this cache has no use for — so the
// protected header carries only the signing algorithm.
func Sign(codec Codec, signer cose.Signer, checkpoint Checkpoint, external []byte) ([]byte, error) {
	payload, err := codec.Marshal(checkpoint)
	if err != nil {
		return nil, fmt.Errorf("marshaling checkpoint: %w", err)
	}

	msg := &cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: signer.Algorithm(),
			},
		},
		Payload: payload,
	}

	if err := msg.Sign(rand.Reader, external, signer); err != nil {
		return nil, fmt.Errorf("signing checkpoint: %w", err)
	}

	return msg.MarshalCBOR()
}

// Verify checks a COSE_Sign1-wrapped checkpoint against verifier and, on
// success, decodes the checkpoint payload.
func Verify(codec Codec, verifier cose.Verifier, signed []byte, external []byte) (Checkpoint, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(signed); err != nil {
		return Checkpoint{}, fmt.Errorf("decoding signed checkpoint: %w", err)
	}

	if err := msg.Verify(external, verifier); err != nil {
		return Checkpoint{}, fmt.Errorf("verifying checkpoint signature: %w", err)
	}

	var checkpoint Checkpoint
	if err := codec.Unmarshal(msg.Payload, &checkpoint); err != nil {
		return Checkpoint{}, fmt.Errorf("decoding checkpoint payload: %w", err)
	}

	return checkpoint, nil
}
