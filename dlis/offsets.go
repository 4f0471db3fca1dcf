package dlis

import (
	"fmt"

	"github.com/e-zl/dlisio/stream"
)

// recordTypeFileHeader is the EFLR type identifying a FILE-HEADER, which
// marks the start of a logical file (spec §4.5).
const recordTypeFileHeader = 0

// StreamOffsets is the result of one FindOffsets scan: the start offsets
// of every logical record in a logical file, partitioned by how it was
// classified (spec §3).
type StreamOffsets struct {
	Explicits []int64
	Implicits []int64
	Broken    []int64
}

// FindOffsets performs a single linear scan over one logical file,
// starting at s's current position, producing partitioned offset lists
// (spec §4.5). The scan stops at the next FILE-HEADER EFLR, at EOF, or at
// an unrecoverable error, leaving s positioned so a repeat call indexes
// the next logical file.
func FindOffsets(s stream.Stream, eh ErrorHandler) (StreamOffsets, error) {
	var out StreamOffsets

	lrOffset := s.Ltell()
	lrsOffset := lrOffset
	hasSuccessor := false

	for {
		if err := s.Seek(lrsOffset); err != nil {
			return out, err
		}

		var hdr [lrshSize]byte
		n, err := readHeaderAtEOF(s, hdr[:])
		if err != nil {
			eh.Log(CRITICAL, "dlis.FindOffsets", fmt.Sprintf("stream read failed: %v", err),
				"2.2.2.1 LRSH", "logical record is marked broken",
				DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
			out.Broken = append(out.Broken, lrOffset)
			return out, nil
		}

		if n < lrshSize {
			if n == 0 {
				if hasSuccessor {
					eh.Log(CRITICAL, "dlis.FindOffsets", "reached EOF, but last segment expects a successor",
						"4.4 LRSH SUCCESSOR chaining", "logical record is marked broken",
						DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
					out.Broken = append(out.Broken, lrOffset)
				}
				return out, nil
			}
			eh.Log(CRITICAL, "dlis.FindOffsets", "file truncated in Logical Record Segment Header",
				"2.2.2.1 LRSH", "logical record is marked broken",
				DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
			out.Broken = append(out.Broken, lrOffset)
			return out, nil
		}

		length, attrs, recordType := decodeLRSH(hdr)
		if length < lrshSize {
			eh.Log(CRITICAL, "dlis.FindOffsets", fmt.Sprintf("declared segment length %d shorter than its own header", length),
				"2.2.2.1 LRSH", "logical record is marked broken",
				DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
			out.Broken = append(out.Broken, lrOffset)
			return out, nil
		}

		explicit := attrs&attrExplicit != 0
		predecessor := attrs&attrPredecessor != 0
		successor := attrs&attrSuccessor != 0

		if !predecessor && explicit && recordType == recordTypeFileHeader && len(out.Explicits) > 0 {
			if hasSuccessor {
				eh.Log(CRITICAL, "dlis.FindOffsets", "next logical file's FILE-HEADER opened while previous record still expects a successor",
					"4.4 LRSH SUCCESSOR chaining", "logical record is marked broken",
					DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
				out.Broken = append(out.Broken, lrOffset)
			}
			return out, s.Seek(lrsOffset)
		}

		hasSuccessor = successor
		lrsOffset += int64(length)

		if serr := s.Seek(lrsOffset - 1); serr != nil {
			eh.Log(CRITICAL, "dlis.FindOffsets", "file truncated in Logical Record Segment",
				"2.2.2.1 LRSH / 2.2.2.4 LRST", "logical record is marked broken",
				DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
			out.Broken = append(out.Broken, lrOffset)
			return out, nil
		}
		var probe [1]byte
		pn, perr := s.Read(probe[:])
		if perr != nil || pn < 1 {
			eh.Log(CRITICAL, "dlis.FindOffsets", "file truncated in Logical Record Segment",
				"2.2.2.1 LRSH / 2.2.2.4 LRST", "logical record is marked broken",
				DebugInfo{Ptell: s.Ptell(), Ltell: lrOffset})
			out.Broken = append(out.Broken, lrOffset)
			return out, nil
		}

		if !successor {
			if explicit {
				out.Explicits = append(out.Explicits, lrOffset)
			} else {
				out.Implicits = append(out.Implicits, lrOffset)
			}
			lrOffset = lrsOffset
		}
	}
}

// readHeaderAtEOF reads exactly len(buf) bytes unless the stream reaches
// EOF first, in which case it returns the partial count with a nil
// error — the caller interprets 0/1-3/4 bytes differently (spec §4.5
// step 2). A zero-length Read with a nil error is the stream contract's
// signal for true EOF (spec §4.1).
func readHeaderAtEOF(s stream.Stream, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := s.Read(buf[total:])
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: reading LRSH: %v", ErrIoError, err)
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}
