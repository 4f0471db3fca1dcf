package dlis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLRSH(t *testing.T) {
	buf := [lrshSize]byte{0x00, 0x14, attrExplicit | attrChecksum, 3}
	length, attrs, recordType := decodeLRSH(buf)
	assert.Equal(t, 20, length)
	assert.Equal(t, attrExplicit|attrChecksum, attrs)
	assert.Equal(t, 3, recordType)
}

func TestDecodeTrim_Checksum(t *testing.T) {
	body := []byte("payload!!") // last 2 bytes stand in for a checksum
	trim, outcome := decodeTrim(attrChecksum, body)
	assert.Equal(t, trimOK, outcome)
	assert.Equal(t, 2, trim)
}

func TestDecodeTrim_PaddingZeroBody(t *testing.T) {
	// PADDING set but the body is empty: there is no pad-count byte to
	// read, so this is a one-header-worth-off BAD_SIZE (spec §4.4 step
	// 7's salvageable case).
	trim, outcome := decodeTrim(attrPadding, nil)
	assert.Equal(t, trimBadSize, outcome)
	assert.Equal(t, lrshSize, trim)
}

func TestDecodeTrim_BogusPadCount(t *testing.T) {
	// The pad-count byte claims more bytes than the body actually has.
	body := []byte{0x01, 0xFF}
	trim, outcome := decodeTrim(attrPadding, body)
	assert.Equal(t, trimBadSize, outcome)
	assert.Equal(t, 0xFF, trim)
}

// TestExtract_BadSizeSkipsWholeSegment exercises the salvageable
// BAD_SIZE path end to end: trim-bodyLen == lrshSize logs MINOR and
// drops the entire segment rather than failing the whole extract.
func TestExtract_BadSizeSkipsWholeSegment(t *testing.T) {
	// bodyLen = 4 (lrshSize). A padding byte claiming 8 bytes of trim on
	// a 4-byte body makes trim(8) - bodyLen(4) == lrshSize(4).
	body := []byte{0, 0, 0, 8}
	data := lrs(attrExplicit|attrPadding, 0, body)
	s := newMemStream(data)
	eh := &spyErrorHandler{}

	rec, err := Extract(s, 0, 1<<20, eh)
	assert.NoError(t, err)
	assert.Empty(t, rec.Data)
	require.Len(t, eh.incidents, 1)
	assert.Equal(t, MINOR, eh.incidents[0].severity)
}
