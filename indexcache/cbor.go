package indexcache

import (
	"github.com/fxamacker/cbor/v2"
)

// Codec bundles the matched encode/decode modes a Checkpoint is
// marshaled through. Grounded on massifs/cborcodec.go's NewCBORCodec,
// which is itself a thin call into fxamacker/cbor/v2's EncOptions/
// DecOptions machinery — this package calls that library directly
// rather than through the teacher's internal
// go-datatrails-common/cbor wrapper, since that wrapper's source isn't
// available in the retrieval pack to ground its option set on.
type Codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCodec builds a Codec using canonical (sorted-map-key) encoding, so
// two checkpoints built from identical data serialize identically —
// the property a COSE_Sign1 signature over the payload depends on.
func NewCodec() (Codec, error) {
	encOpts := cbor.CanonicalEncOptions()
	enc, err := encOpts.EncMode()
	if err != nil {
		return Codec{}, err
	}

	decOpts := cbor.DecOptions{}
	dec, err := decOpts.DecMode()
	if err != nil {
		return Codec{}, err
	}

	return Codec{enc: enc, dec: dec}, nil
}

// Marshal encodes v (normally a Checkpoint) to canonical CBOR.
func (c Codec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

// Unmarshal decodes CBOR bytes into v.
func (c Codec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
