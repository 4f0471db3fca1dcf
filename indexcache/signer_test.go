package indexcache

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veraison/go-cose"
)

func testECKey(t *testing.T) ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return *key
}

func TestSignVerify_RoundTrip(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	key := testECKey(t)
	signer, err := cose.NewSigner(cose.AlgorithmES256, &key)
	require.NoError(t, err)
	verifier, err := cose.NewVerifier(cose.AlgorithmES256, key.Public())
	require.NoError(t, err)

	cp := FromIndex(80, []int64{100, 200}, nil, nil, map[string][]int64{"FRAME:0:0:CH1": {100}})

	signed, err := Sign(codec, signer, cp, nil)
	require.NoError(t, err)

	got, err := Verify(codec, verifier, signed, nil)
	require.NoError(t, err)
	assert.Equal(t, cp, got)
}

func TestVerify_RejectsWrongKey(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	signingKey := testECKey(t)
	signer, err := cose.NewSigner(cose.AlgorithmES256, &signingKey)
	require.NoError(t, err)

	otherKey := testECKey(t)
	verifier, err := cose.NewVerifier(cose.AlgorithmES256, otherKey.Public())
	require.NoError(t, err)

	cp := FromIndex(80, []int64{100}, nil, nil, nil)
	signed, err := Sign(codec, signer, cp, nil)
	require.NoError(t, err)

	_, err = Verify(codec, verifier, signed, nil)
	assert.Error(t, err)
}
