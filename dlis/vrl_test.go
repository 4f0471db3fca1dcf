package dlis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vrlMarker(bodyLen int) []byte {
	length := vrlPatternLen + bodyLen
	return []byte{0xFF, 0x01, byte(length >> 8), byte(length)}
}

func TestFindVRL_AtOrigin(t *testing.T) {
	s := newMemStream(vrlMarker(10))
	eh := &spyErrorHandler{}

	require.NoError(t, FindVRL(s, eh))
	assert.Equal(t, int64(0), s.Ltell())
	assert.Empty(t, eh.incidents)
}

func TestFindVRL_PastGarbage(t *testing.T) {
	data := append([]byte{0x00, 0x00, 0x00}, vrlMarker(10)...)
	s := newMemStream(data)
	eh := &spyErrorHandler{}

	require.NoError(t, FindVRL(s, eh))
	assert.Equal(t, int64(3), s.Ltell())
	require.Len(t, eh.incidents, 1)
	assert.Equal(t, MINOR, eh.incidents[0].severity)
}

func TestFindVRL_PartialMarkerAtBufferEnd(t *testing.T) {
	// 0xFF 0x01 are the last bytes of the stream, with no room for the
	// length field: the fast-path read reports Corrupt, the fallback read
	// sees the same bytes, and the Corrupt result is what FindVRL returns.
	data := make([]byte, vrlDefaultMinRead-1)
	data[len(data)-2] = 0xFF
	data[len(data)-1] = 0x01
	s := newMemStream(data)
	eh := &spyErrorHandler{}

	err := FindVRL(s, eh)
	assert.True(t, errors.Is(err, ErrCorrupt))
}
