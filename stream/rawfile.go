package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// fileStream is the raw, os.File-backed Stream implementation. It is
// opened at a fixed physical byte offset, which becomes the logical
// origin (ltell == 0) for everything layered above it.
//
// Grounded on dlisio::open (original_source/lib/src/dlis/io.cpp) and on
// the teacher's Opener interface (logdircache.go), which is likewise a
// thin os/io wrapper with no third-party dependency — this is the leaf
// adapter of the stack, and the teacher's own leaf adapter is plain
// stdlib too.
type fileStream struct {
	f      *os.File
	origin int64 // physical offset that corresponds to ltell == 0
	ltell  int64
	eof    bool
}

// OpenFile opens path and positions the returned Stream so that ltell 0
// corresponds to physical byte offset. Opening past the end of the file
// fails with ErrEndOfFile; any other failure is wrapped in ErrIO.
func OpenFile(path string, offset int64) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}
	if offset > info.Size() {
		f.Close()
		return nil, fmt.Errorf("%w: offset %d past end of %s (size %d)", ErrEndOfFile, offset, path, info.Size())
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: seek %s: %v", ErrIO, path, err)
	}

	return &fileStream{f: f, origin: offset}, nil
}

func (s *fileStream) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	s.ltell += int64(n)
	if errors.Is(err, io.EOF) {
		s.eof = true
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return n, nil
}

func (s *fileStream) Seek(ltell int64) error {
	if _, err := s.f.Seek(s.origin+ltell, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %v", ErrIO, err)
	}
	s.ltell = ltell
	s.eof = false
	return nil
}

func (s *fileStream) Ltell() int64 { return s.ltell }
func (s *fileStream) Ptell() int64 { return s.origin + s.ltell }
func (s *fileStream) EOF() bool    { return s.eof }

// Close releases the underlying file descriptor. Not part of the Stream
// contract (which has no lifecycle operations of its own) but available
// to callers that know they are holding a *fileStream-backed Stream, or
// more commonly via the io.Closer assertion on the returned Stream.
func (s *fileStream) Close() error { return s.f.Close() }
