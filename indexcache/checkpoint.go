// Package indexcache persists the result of a FindOffsets/FindFData pass
// as a signed checkpoint, so a caller that has already indexed a logical
// file once can skip repeating the scan. This is additive to the framing
// engine: nothing in package dlis depends on it.
package indexcache

// Checkpoint is the serializable snapshot of one logical file's index
// (spec §3's stream_offsets and FData map), stamped and ready to sign.
//
// Field tags use keyasint CBOR encoding, matching the teacher's
// MMRState (massifs/rootsigner.go) — compact on the wire and stable
// across Go field renames.
type Checkpoint struct {
	FormatVersion uint32 `cbor:"1,keyasint"`

	// SULOffset is the logical offset of the Storage Unit Label this
	// checkpoint was indexed against, so a verifier can confirm it is
	// being applied to the file it was produced from.
	SULOffset int64 `cbor:"2,keyasint"`

	Explicits []int64             `cbor:"3,keyasint"`
	Implicits []int64             `cbor:"4,keyasint"`
	Broken    []int64             `cbor:"5,keyasint"`
	FData     map[string][]int64 `cbor:"6,keyasint"`

	// IDTimestamp/CommitmentEpoch stamp when this checkpoint was
	// produced, in the same epoch+millis encoding as idstamp.go.
	IDTimestamp     uint64 `cbor:"7,keyasint"`
	CommitmentEpoch uint8  `cbor:"8,keyasint"`
}

// FormatVersion1 is the only checkpoint wire format currently produced.
const FormatVersion1 = 1

// FromIndex builds a Checkpoint from one FindOffsets/FindFData result.
func FromIndex(sulOffset int64, explicits, implicits, broken []int64, fdata map[string][]int64) Checkpoint {
	return Checkpoint{
		FormatVersion: FormatVersion1,
		SULOffset:     sulOffset,
		Explicits:     explicits,
		Implicits:     implicits,
		Broken:        broken,
		FData:         fdata,
	}
}
