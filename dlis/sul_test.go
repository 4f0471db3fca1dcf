package dlis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSUL builds an 80-byte Storage Unit Label with arbitrary but
// pattern-matching field contents.
func validSUL() []byte {
	b := make([]byte, sulSize)
	copy(b[0:sulSeqNumberLen], []byte("0001"))
	copy(b[sulVersionOffset:sulVersionOffset+sulVersionLen], sulVersionToken[:])
	copy(b[sulStructureOffset:sulStructureOffset+sulStructureLen], []byte("RECORD"))
	copy(b[sulMaxRecordOffset:sulMaxRecordOffset+sulMaxRecordLen], []byte("16384"))
	copy(b[sulSetIdentOffset:sulSetIdentOffset+sulSetIdentLen], []byte("Default Storage Set                                        "))
	return b
}

func TestFindSUL_AtOrigin(t *testing.T) {
	s := newMemStream(validSUL())
	eh := &spyErrorHandler{}

	err := FindSUL(s, eh, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Ltell())
	assert.Empty(t, eh.incidents)
}

func TestFindSUL_NotExpectedFails(t *testing.T) {
	garbage := append(make([]byte, 500), validSUL()...)
	s := newMemStream(garbage)
	eh := &spyErrorHandler{}

	err := FindSUL(s, eh, false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

// TestFindSUL_LateSUL exercises scenario S3 and testable property 5:
// garbage before a valid SUL is tolerated when expected=true, as long as
// the SUL's version field lies within the MAX_READ fallback window, and
// the stream ends up positioned exactly at the SUL.
func TestFindSUL_LateSUL(t *testing.T) {
	garbage := make([]byte, 500)
	data := append(garbage, validSUL()...)
	s := newMemStream(data)
	eh := &spyErrorHandler{}

	err := FindSUL(s, eh, true)
	require.NoError(t, err)
	assert.Equal(t, int64(500), s.Ltell())
	require.Len(t, eh.incidents, 1)
	assert.Equal(t, MINOR, eh.incidents[0].severity)
}

func TestFindSUL_LateSUL_BeyondMaxReadFails(t *testing.T) {
	garbage := make([]byte, sulDefaultMaxRead+10)
	data := append(garbage, validSUL()...)
	s := newMemStream(data)
	eh := &spyErrorHandler{}

	err := FindSUL(s, eh, true)
	assert.True(t, errors.Is(err, ErrNotFound))
}
