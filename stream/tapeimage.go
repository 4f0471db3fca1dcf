package stream

import (
	"encoding/binary"
	"fmt"
)

// tiChunkHeaderSize is the size of one tape-image chunk header: a 4-byte
// little-endian type, followed by two 4-byte little-endian chunk sizes
// (previous and this chunk, each inclusive of its own 12-byte header).
const tiChunkHeaderSize = 12

// tiTypeEOF marks a chunk as the physical end-of-file marker: it has no
// body and terminates the stream.
const tiTypeEOF = 1

type tiChunk struct {
	logicalStart int64
	underBody    int64
	bodyLen      int64
}

// tapeImageStream strips IBM-tape-image chunk framing from an underlying
// Stream. Some DLIS physical carriers wrap the RP66 envelope (or, in
// principle, a bare LRS stream) in chunks of this form before it ever
// reaches the RP66 layer; this adapter is applied below stream.OpenRP66
// in that case.
//
// Grounded on dlisio::open_tapeimage (original_source/lib/src/dlis/io.cpp)
// as the interface to implement; the concrete 12-byte
// type/prev/next-size chunk header comes from lfp/tapeimage.h, which is
// not present in the retrieval pack, so it is reconstructed here as a
// standard little-endian tape-image chunk header with an explicit EOF
// chunk type, consistent with spec §9's note that "lfp returns
// UNEXPECTED_EOF for cfile when truncation happens inside of declared
// data" — i.e. chunk boundaries, not raw EOF, are this layer's signal.
type tapeImageStream struct {
	under  Stream
	chunks []tiChunk
	ltell  int64
	eof    bool
}

// OpenTapeImage wraps under with tape-image chunk stripping. under must
// be positioned at its own logical origin.
func OpenTapeImage(under Stream) (Stream, error) {
	s := &tapeImageStream{under: under}
	if err := s.under.Seek(0); err != nil {
		return nil, err
	}
	if _, err := s.openNextChunk(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *tapeImageStream) openNextChunk(logicalStart int64) (int64, error) {
	var hdr [tiChunkHeaderSize]byte
	n, err := readFull(s.under, hdr[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		s.eof = true
		return 0, nil
	}
	if n < tiChunkHeaderSize {
		return 0, fmt.Errorf("%w: truncated tape image chunk header", ErrIO)
	}

	chunkType := binary.LittleEndian.Uint32(hdr[0:4])
	next := binary.LittleEndian.Uint32(hdr[8:12])

	if chunkType == tiTypeEOF {
		s.eof = true
		return 0, nil
	}
	if int64(next) < tiChunkHeaderSize {
		return 0, fmt.Errorf("%w: tape image chunk size %d shorter than its own header", ErrIO, next)
	}

	body := int64(next) - tiChunkHeaderSize
	s.chunks = append(s.chunks, tiChunk{
		logicalStart: logicalStart,
		underBody:    s.under.Ltell(),
		bodyLen:      body,
	})
	return body, nil
}

func (s *tapeImageStream) locate(ltell int64) (tiChunk, int64, bool) {
	for _, c := range s.chunks {
		if ltell >= c.logicalStart && ltell < c.logicalStart+c.bodyLen {
			return c, ltell - c.logicalStart, true
		}
	}
	return tiChunk{}, 0, false
}

func (s *tapeImageStream) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	chunk, off, ok := s.locate(s.ltell)
	if !ok {
		body, err := s.openNextChunk(s.ltell)
		if err != nil {
			return 0, err
		}
		if body == 0 && s.eof {
			return 0, nil
		}
		chunk, off, ok = s.locate(s.ltell)
		if !ok {
			return 0, fmt.Errorf("%w: failed to open tape image chunk at ltell %d", ErrIO, s.ltell)
		}
	}

	remaining := chunk.bodyLen - off
	toRead := int64(len(buf))
	if toRead > remaining {
		toRead = remaining
	}
	n, err := s.under.Read(buf[:toRead])
	s.ltell += int64(n)
	if err != nil || n == 0 || n == len(buf) {
		return n, err
	}
	// Continue into the next chunk, so a short count is only returned at
	// the end of the stream. Seek first so the layer below skips the next
	// chunk's header if that chunk is already known.
	if err := s.Seek(s.ltell); err != nil {
		return n, err
	}
	more, err := s.Read(buf[n:])
	return n + more, err
}

func (s *tapeImageStream) Seek(ltell int64) error {
	if c, off, ok := s.locate(ltell); ok {
		if err := s.under.Seek(c.underBody + off); err != nil {
			return err
		}
		s.ltell = ltell
		s.eof = false
		return nil
	}

	var cursor int64
	if n := len(s.chunks); n > 0 {
		last := s.chunks[n-1]
		cursor = last.logicalStart + last.bodyLen
		if err := s.under.Seek(last.underBody + last.bodyLen); err != nil {
			return err
		}
	} else {
		if err := s.under.Seek(0); err != nil {
			return err
		}
	}

	for cursor < ltell {
		body, err := s.openNextChunk(cursor)
		if err != nil {
			return err
		}
		if body == 0 && s.eof {
			return fmt.Errorf("%w: seek past end of stream", ErrEndOfFile)
		}
		last := s.chunks[len(s.chunks)-1]
		if cursor+body > ltell {
			if err := s.under.Seek(last.underBody + (ltell - cursor)); err != nil {
				return err
			}
			break
		}
		cursor += body
		if err := s.under.Seek(last.underBody + body); err != nil {
			return err
		}
	}
	s.ltell = ltell
	s.eof = false
	return nil
}

func (s *tapeImageStream) Ltell() int64 { return s.ltell }
func (s *tapeImageStream) Ptell() int64 { return s.under.Ptell() }
func (s *tapeImageStream) EOF() bool    { return s.eof }
