package stream

import (
	"fmt"
)

// vrBoundary records where one Visible Record's body sits in both the
// de-enveloped logical space this layer exposes and the underlying
// stream's own logical space.
type vrBoundary struct {
	logicalStart   int64 // ltell (this layer) of the first body byte
	underlyingBody int64 // ltell (layer below) of the first body byte
	bodyLen        int64
}

// rp66Stream strips the RP66 Visible Record envelope (spec §6.4: a
// 4-byte marker `0xFF 0x01 len_hi len_lo` introducing each record, with
// len inclusive of the marker) from an underlying Stream, presenting a
// contiguous logical byte sequence to the layer above.
//
// Grounded on the VRL marker grammar already specified for the
// anchor-finder (spec §4.3/§6.4) and on dlisio::open_rp66
// (original_source/lib/src/dlis/io.cpp), whose concrete wire handling
// comes from lfp/rp66.h — not present in the retrieval pack, so the body
// here is reconstructed directly from the marker grammar the spec
// already commits to.
type rp66Stream struct {
	under      Stream
	boundaries []vrBoundary
	ltell      int64
	eof        bool
}

// OpenRP66 wraps under with RP66 Visible Record envelope stripping. under
// must be positioned at its own logical origin; the first Visible Record
// header is consumed immediately so logical offset 0 on the returned
// Stream is the first byte of SUL/LRS payload.
func OpenRP66(under Stream) (Stream, error) {
	s := &rp66Stream{under: under}
	if err := s.under.Seek(0); err != nil {
		return nil, err
	}
	if _, err := s.openNextVR(0); err != nil {
		return nil, err
	}
	return s, nil
}

// openNextVR reads and strips the Visible Record header expected to
// start at the underlying stream's current position, recording a new
// boundary entry starting at logical offset logicalStart. Returns the
// body length of the newly opened record.
func (s *rp66Stream) openNextVR(logicalStart int64) (int64, error) {
	var hdr [4]byte
	n, err := readFull(s.under, hdr[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		s.eof = true
		return 0, nil
	}
	if n < 4 {
		return 0, fmt.Errorf("%w: truncated visible record header", ErrIO)
	}
	if hdr[0] != 0xFF || hdr[1] != 0x01 {
		return 0, fmt.Errorf("%w: visible record marker not found at physical tell %d", ErrIO, s.under.Ptell())
	}
	length := int64(hdr[2])<<8 | int64(hdr[3])
	if length < 4 {
		return 0, fmt.Errorf("%w: visible record length %d shorter than its own header", ErrIO, length)
	}
	body := length - 4
	s.boundaries = append(s.boundaries, vrBoundary{
		logicalStart:   logicalStart,
		underlyingBody: s.under.Ltell(),
		bodyLen:        body,
	})
	return body, nil
}

// readFull reads len(buf) bytes from s unless EOF is reached first,
// mirroring the short-read-at-EOF semantics of the Stream contract.
func readFull(s Stream, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := s.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func (s *rp66Stream) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	boundary, offsetInVR, ok := s.locate(s.ltell)
	if !ok {
		// We have never reached this logical offset before; since Read
		// only ever advances forward from Seek, this means the current
		// VR is exhausted and a new one starts right here.
		body, err := s.openNextVR(s.ltell)
		if err != nil {
			return 0, err
		}
		if body == 0 && s.eof {
			return 0, nil
		}
		boundary, offsetInVR, ok = s.locate(s.ltell)
		if !ok {
			return 0, fmt.Errorf("%w: failed to open visible record at ltell %d", ErrIO, s.ltell)
		}
	}

	remaining := boundary.bodyLen - offsetInVR
	toRead := int64(len(buf))
	if toRead > remaining {
		toRead = remaining
	}
	n, err := s.under.Read(buf[:toRead])
	s.ltell += int64(n)
	if err != nil || n == 0 || n == len(buf) {
		return n, err
	}
	// Continue into the next Visible Record, so a short count is only
	// returned at the end of the stream. Seek first so the layer below
	// skips the next record's header if that record is already known.
	if err := s.Seek(s.ltell); err != nil {
		return n, err
	}
	more, err := s.Read(buf[n:])
	return n + more, err
}

// locate finds the boundary entry covering logical offset ltell, if any
// is already known.
func (s *rp66Stream) locate(ltell int64) (vrBoundary, int64, bool) {
	for _, b := range s.boundaries {
		if ltell >= b.logicalStart && ltell < b.logicalStart+b.bodyLen {
			return b, ltell - b.logicalStart, true
		}
	}
	return vrBoundary{}, 0, false
}

func (s *rp66Stream) Seek(ltell int64) error {
	if b, off, ok := s.locate(ltell); ok {
		if err := s.under.Seek(b.underlyingBody + off); err != nil {
			return err
		}
		s.ltell = ltell
		s.eof = false
		return nil
	}

	// Unknown territory: replay forward from the last known boundary
	// (or the origin) until we either reach ltell or run out of file.
	var cursor int64
	if n := len(s.boundaries); n > 0 {
		last := s.boundaries[n-1]
		cursor = last.logicalStart + last.bodyLen
		if err := s.under.Seek(last.underlyingBody + last.bodyLen); err != nil {
			return err
		}
	} else {
		if err := s.under.Seek(0); err != nil {
			return err
		}
	}

	for cursor < ltell {
		body, err := s.openNextVR(cursor)
		if err != nil {
			return err
		}
		if body == 0 && s.eof {
			return fmt.Errorf("%w: seek past end of stream", ErrEndOfFile)
		}
		if cursor+body > ltell {
			if err := s.under.Seek(s.boundaries[len(s.boundaries)-1].underlyingBody + (ltell - cursor)); err != nil {
				return err
			}
			break
		}
		cursor += body
		if err := s.under.Seek(s.boundaries[len(s.boundaries)-1].underlyingBody + body); err != nil {
			return err
		}
	}
	s.ltell = ltell
	s.eof = false
	return nil
}

func (s *rp66Stream) Ltell() int64 { return s.ltell }
func (s *rp66Stream) Ptell() int64 { return s.under.Ptell() }
func (s *rp66Stream) EOF() bool    { return s.eof }
