package dlis

// Logical Record Segment Header layout (spec §3/§6.4):
//
//	| length  | attributes | type |
//	| 0     1 |     2      |  3   |
//	bytes: 2  |     1      |  1   |
//
// length is big-endian and inclusive of this 4-byte header.
const lrshSize = 4

// Segment attribute bits (spec §3). Bit positions match
// original_source/lib/src/dlis/io.cpp's DLIS_SEGATTR_* constants.
const (
	attrExplicit      byte = 1 << 7 // EXFMTLR: this record is an EFLR
	attrPredecessor   byte = 1 << 6
	attrSuccessor     byte = 1 << 5
	attrEncrypted     byte = 1 << 4
	attrEncryptPacket byte = 1 << 3
	attrChecksum      byte = 1 << 2
	attrTrailingLen   byte = 1 << 1
	attrPadding       byte = 1 << 0
)

// decodeLRSH decodes a 4-byte Logical Record Segment Header. length is
// returned inclusive of the header, matching the wire value (callers
// subtract lrshSize themselves, as spec §4.4 step 3 does).
func decodeLRSH(buf [lrshSize]byte) (length int, attrs byte, recordType int) {
	length = int(buf[0])<<8 | int(buf[1])
	attrs = buf[2]
	recordType = int(buf[3])
	return
}

// trimOutcome distinguishes the two non-error outcomes of decodeTrim
// (spec §4.4 step 7).
type trimOutcome int

const (
	trimOK trimOutcome = iota
	trimBadSize
)

// decodeTrim computes how many trailing bytes of a just-read segment
// body are padding/checksum/trailing-length and should therefore be
// dropped from the reassembled record. body is the exact bytes just read
// for this segment (its declared length, before any trimming).
//
// The last byte of a padded segment carries the pad count (inclusive of
// itself); checksum and trailing-length trailers are each a fixed 2
// bytes. This never validates the checksum value or the trailing length
// against the segment's own declared length — both are explicit
// Non-goals (spec §1, §9) — it only computes how many bytes to drop.
//
// trim may legitimately exceed len(body) when the pad-count byte is
// itself bogus (truncated segment, or padding claimed over encrypted
// junk); the caller distinguishes a salvageable one-header-worth
// overshoot from genuine corruption (spec §4.4 step 7).
func decodeTrim(attrs byte, body []byte) (trim int, outcome trimOutcome) {
	if attrs&attrPadding != 0 {
		if len(body) == 0 {
			return len(body) + lrshSize, trimBadSize
		}
		trim += int(body[len(body)-1])
	}
	if attrs&attrChecksum != 0 {
		trim += 2
	}
	if attrs&attrTrailingLen != 0 {
		trim += 2
	}
	if trim > len(body) {
		return trim, trimBadSize
	}
	return trim, trimOK
}
