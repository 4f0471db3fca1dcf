package dlis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeUVARI_Widths(t *testing.T) {
	// 1-byte encoding: top two bits 00, 6 value bits.
	v, n, ok := decodeUVARI([]byte{0b00_101010})
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(0b101010), v)

	// 2-byte encoding: top two bits 01.
	v, n, ok = decodeUVARI([]byte{0b01_000001, 0x02})
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(0x102), v)

	// 4-byte encoding: top bit 1.
	v, n, ok = decodeUVARI([]byte{0b10_000000, 0x00, 0x01, 0x00})
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, int32(0x100), v)
}

func TestDecodeUVARI_ShortBuffer(t *testing.T) {
	_, _, ok := decodeUVARI([]byte{0b01_000001}) // declares 2 bytes, only has 1
	assert.False(t, ok)

	_, _, ok = decodeUVARI(nil)
	assert.False(t, ok)
}

func TestDecodeObname_OverrunIsNotOK(t *testing.T) {
	// idlen says 5 but only 2 bytes of ident follow.
	buf := []byte{1, 0, 5, 'h', 'i'}
	_, _, ok := decodeObname(buf)
	assert.False(t, ok)
}

func TestObname_FingerprintDistinguishesNamespace(t *testing.T) {
	o := Obname{Origin: 2, Copy: 1, Ident: "CH1"}
	assert.NotEqual(t, o.Fingerprint("FRAME"), o.Fingerprint("NO-FORMAT"))
	assert.Equal(t, o.Fingerprint("FRAME"), o.Fingerprint("FRAME"))
}
