package dlis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// obnameBytes encodes an OBNAME the way decodeObname expects: a 1-byte
// UVARI origin, a 1-byte copy number, then a length-prefixed ident.
func obnameBytes(origin byte, copyNum byte, ident string) []byte {
	out := []byte{origin & 0x3F, copyNum, byte(len(ident))}
	return append(out, ident...)
}

// TestFindFData_Grouping covers S6: two type-0 records with the same
// OBNAME share a fingerprint under "FRAME"; a type-1 record with the
// same OBNAME falls under a distinct "NO-FORMAT" fingerprint.
func TestFindFData_Grouping(t *testing.T) {
	rec1 := lrs(0, recordTypeFrame, obnameBytes(1, 0, "A"))
	rec2 := lrs(0, recordTypeFrame, obnameBytes(1, 0, "A"))
	rec3 := lrs(0, recordTypeNoFormat, obnameBytes(1, 0, "A"))
	data := append(append(rec1, rec2...), rec3...)

	s := newMemStream(data)
	eh := &spyErrorHandler{}

	tell1 := int64(0)
	tell2 := int64(len(rec1))
	tell3 := int64(len(rec1) + len(rec2))

	result := FindFData(s, []int64{tell1, tell2, tell3}, eh)

	frameKey := Obname{Origin: 1, Copy: 0, Ident: "A"}.Fingerprint("FRAME")
	noFormatKey := Obname{Origin: 1, Copy: 0, Ident: "A"}.Fingerprint("NO-FORMAT")

	assert.ElementsMatch(t, []int64{tell1, tell2}, result[frameKey])
	assert.Equal(t, []int64{tell3}, result[noFormatKey])
	assert.NotEqual(t, frameKey, noFormatKey)
}

// TestFindFData_SkipsEncrypted covers spec §4.6 step 3.
func TestFindFData_SkipsEncrypted(t *testing.T) {
	rec := lrs(attrEncrypted, recordTypeFrame, obnameBytes(1, 0, "A"))
	s := newMemStream(rec)
	eh := &spyErrorHandler{}

	result := FindFData(s, []int64{0}, eh)
	assert.Empty(t, result)
}

// TestFindFData_CorruptedRecordSkipped covers spec §4.6 step 2: a
// corrupted record is logged and skipped, not propagated.
func TestFindFData_CorruptedRecordSkipped(t *testing.T) {
	var hdr [lrshSize]byte
	hdr[0], hdr[1] = 0, 200 // declares a body far larger than available
	hdr[2] = 0
	hdr[3] = recordTypeFrame
	data := append(hdr[:], make([]byte, 4)...)

	s := newMemStream(data)
	eh := &spyErrorHandler{}

	result := FindFData(s, []int64{0}, eh)
	assert.Empty(t, result)

	var crit int
	for _, inc := range eh.incidents {
		if inc.severity == CRITICAL {
			crit++
		}
	}
	assert.Equal(t, 1, crit)
}
