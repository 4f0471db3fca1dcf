package indexcache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/datatrails/go-datatrails-common/azblob"
)

// blobReaderWriter is the narrow slice of the teacher's massifStore
// (massifs/massifcommitter.go) and logBlobReader (massifs/blobreader.go)
// this package needs: write a named blob, and read one back. Grounded
// the same way stream.OpenBlob's blobReader is.
type blobReaderWriter interface {
	Reader(ctx context.Context, identity string, opts ...azblob.Option) (*azblob.ReaderResponse, error)
	Put(ctx context.Context, identity string, body io.ReadSeekCloser, opts ...azblob.Option) (*azblob.WriteResponse, error)
}

// Store persists and loads signed checkpoints through blob storage,
// keyed by an identity string the caller derives from the file being
// indexed (e.g. a content hash or path). Grounded on
// massifs/objectstore.go's ObjectReader/ObjectWriter split, collapsed
// into one narrow type since this cache has exactly one object kind.
type Store struct {
	blobs blobReaderWriter
}

// NewStore wraps blobs as a checkpoint Store.
func NewStore(blobs blobReaderWriter) *Store {
	return &Store{blobs: blobs}
}

// Put uploads signed checkpoint bytes (as produced by Sign) under
// identity, overwriting whatever was stored there before — a
// checkpoint is a cache entry, not an append-only log, so none of the
// teacher's etag-guarded create-vs-update dance (massifcommitter.go)
// applies here.
func (s *Store) Put(ctx context.Context, identity string, signed []byte) error {
	_, err := s.blobs.Put(ctx, identity, azblob.NewBytesReaderCloser(signed))
	if err != nil {
		return fmt.Errorf("indexcache: writing checkpoint %s: %w", identity, err)
	}
	return nil
}

// Get downloads the signed checkpoint bytes stored under identity. The
// caller is responsible for calling Verify before trusting the result.
func (s *Store) Get(ctx context.Context, identity string) ([]byte, error) {
	rr, err := s.blobs.Reader(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("indexcache: reading checkpoint %s: %w", identity, err)
	}
	defer rr.Reader.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rr.Reader); err != nil {
		return nil, fmt.Errorf("indexcache: downloading checkpoint %s: %w", identity, err)
	}
	return buf.Bytes(), nil
}
