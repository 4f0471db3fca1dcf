package stream

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/datatrails/go-datatrails-common/azblob"
)

// blobReader is the narrow slice of azblob.Reader this package needs:
// fetch the whole object's bytes by identity. Grounded on the teacher's
// logBlobReader interface (massifs/blobreader.go), which this mirrors
// almost exactly, and on massifs/logblobcontext.go's BlobRead helper
// call shape.
type blobReader interface {
	Reader(ctx context.Context, identity string, opts ...azblob.Option) (*azblob.ReaderResponse, error)
}

// OpenBlob opens a DLIS file stored as an Azure blob. Blob storage has no
// random-access primitive cheaper than a full read for files in DLIS's
// size range, so this downloads the blob once into a temp file under dir
// and then delegates everything else to the raw file adapter — the same
// tradeoff the teacher's own MassifReader accepts when an object is not
// already native-cached (massifreader.go's GetMassifData).
func OpenBlob(ctx context.Context, reader blobReader, identity, dir string, offset int64) (Stream, error) {
	rr, err := reader.Reader(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: reading blob %s: %v", ErrIO, identity, err)
	}
	defer rr.Reader.Close()

	tmp, err := os.CreateTemp(dir, "dlis-blob-*")
	if err != nil {
		return nil, fmt.Errorf("%w: staging blob %s: %v", ErrIO, identity, err)
	}
	path := tmp.Name()

	if _, err := io.Copy(tmp, rr.Reader); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: staging blob %s: %v", ErrIO, identity, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: staging blob %s: %v", ErrIO, identity, err)
	}

	return OpenFile(path, offset)
}
