package dlis

import (
	"fmt"
	"math"

	"github.com/e-zl/dlisio/stream"
)

// fmtEncMask selects the bits of a segment's attributes that describe
// the record as a whole (spec §3): whether it is explicitly formatted
// and whether it is encrypted. Every other attribute bit is purely
// per-segment framing information.
const fmtEncMask = attrExplicit | attrEncrypted

// Record is a reassembled Logical Record: the concatenated payloads of
// every constituent segment, with per-segment trailers trimmed (spec
// §3).
type Record struct {
	Data       []byte
	Type       int
	Attributes byte
	Consistent bool
}

// IsExplicit reports whether this record is an EFLR.
func (r *Record) IsExplicit() bool { return r.Attributes&attrExplicit != 0 }

// IsEncrypted reports whether this record is encrypted.
func (r *Record) IsEncrypted() bool { return r.Attributes&attrEncrypted != 0 }

// Extract reads one complete logical record starting at tell, bounded by
// maxBytes (spec §4.4).
func Extract(s stream.Stream, tell int64, maxBytes int64, eh ErrorHandler) (Record, error) {
	var rec Record
	err := ExtractInto(s, tell, maxBytes, &rec, eh)
	return rec, err
}

// ExtractAll reads one complete logical record starting at tell with an
// effectively unbounded budget (spec §4.4: "a variant without max_bytes
// uses an effectively unbounded budget").
func ExtractAll(s stream.Stream, tell int64, eh ErrorHandler) (Record, error) {
	return Extract(s, tell, math.MaxInt64, eh)
}

// ExtractInto is the scratch-buffer-reusing form of Extract: rec's Data
// slice is reused (truncated and re-grown) across repeated calls instead
// of being reallocated. This is the form findfdata's implicit-record
// loop actually calls, restoring the buffer-reuse idiom visible at the
// findfdata call site in original_source/lib/src/dlis/io.cpp.
func ExtractInto(s stream.Stream, tell int64, maxBytes int64, rec *Record, eh ErrorHandler) error {
	var attributes []byte
	var types []int

	rec.Data = rec.Data[:0]
	if err := s.Seek(tell); err != nil {
		return err
	}

	for {
		var hdr [lrshSize]byte
		n, err := readAvailable(s, hdr[:])
		if err != nil {
			return fmt.Errorf("%w: reading LRSH: %v", ErrIoError, err)
		}
		if n < lrshSize {
			return fmt.Errorf("%w: unable to read LRSH, file truncated", ErrTruncated)
		}

		length, attrs, recordType := decodeLRSH(hdr)
		bodyLen := length - lrshSize
		if bodyLen < 0 {
			return fmt.Errorf("%w: declared segment length %d shorter than its own header", ErrCorrupt, length)
		}

		attributes = append(attributes, attrs)
		types = append(types, recordType)

		prevSize := int64(len(rec.Data))
		remaining := maxBytes - prevSize

		// If none of PADDING/TRAILING-LENGTH/CHECKSUM is set and the
		// remaining budget is smaller than the full body, a partial
		// read is safe: there is no trailer to align against (spec
		// §4.4 step 5).
		toRead := int64(bodyLen)
		if attrs&(attrPadding|attrTrailingLen|attrChecksum) == 0 && remaining < toRead {
			toRead = remaining
			if toRead < 0 {
				toRead = 0
			}
		}

		body := make([]byte, toRead)
		nread, err := readAvailable(s, body)
		if err != nil {
			return fmt.Errorf("%w: reading LRS body: %v", ErrIoError, err)
		}
		if int64(nread) < toRead {
			return fmt.Errorf("%w: unable to read LRS, file truncated", ErrTruncated)
		}
		rec.Data = append(rec.Data, body...)

		trim, outcome := decodeTrim(attrs, body)
		switch outcome {
		case trimOK:
			rec.Data = rec.Data[:len(rec.Data)-trim]
		case trimBadSize:
			if trim-bodyLen == lrshSize {
				eh.Log(MINOR, "dlis.Extract (trimSegment)",
					"trim size (padbytes + checksum + trailing length) = logical record segment length",
					"2.2.2.1 LRSH / 2.2.2.4 LRST: this situation should be impossible",
					"segment is skipped", DebugInfo{Ptell: s.Ptell(), Ltell: s.Ltell()})
				rec.Data = rec.Data[:len(rec.Data)-len(body)]
			} else {
				return fmt.Errorf("%w: bad segment trim: trim size %d, segment size %d", ErrCorrupt, trim, bodyLen)
			}
		}

		// If the whole segment was trimmed away, it is unclear whether
		// the successor attribute should still drive continuation;
		// this is left unresolved exactly as the original does (spec
		// §9) — hasSuccessor is read from this segment's own attrs
		// regardless of whether its data survived.
		hasSuccessor := attrs&attrSuccessor != 0
		bytesLeft := maxBytes - int64(len(rec.Data))
		if hasSuccessor && bytesLeft > 0 {
			continue
		}

		rec.Attributes = attributes[0] & fmtEncMask
		rec.Type = types[0]
		rec.Consistent = chainConsistent(attributes) && typeConsistent(types) && attrConsistent(attributes)

		if bytesLeft < 0 {
			rec.Data = rec.Data[:maxBytes]
		}
		return nil
	}
}

// chainConsistent checks the predecessor/successor invariant of spec §3:
// the first segment must not claim a predecessor, the last must not
// claim a successor, and every interior segment must claim both.
func chainConsistent(attributes []byte) bool {
	if len(attributes) == 0 {
		return true
	}
	if attributes[0]&attrPredecessor != 0 {
		return false
	}
	if attributes[len(attributes)-1]&attrSuccessor != 0 {
		return false
	}
	for i := 1; i < len(attributes)-1; i++ {
		if attributes[i]&attrPredecessor == 0 || attributes[i]&attrSuccessor == 0 {
			return false
		}
	}
	return true
}

// typeConsistent checks that every segment reports the same record type.
func typeConsistent(types []int) bool {
	for _, t := range types {
		if t != types[0] {
			return false
		}
	}
	return true
}

// attrConsistent checks that every segment agrees on the
// EXPLICIT/ENCRYPTED bits (spec §3: "only the record's formatting and
// encryption state needs to agree").
func attrConsistent(attributes []byte) bool {
	want := attributes[0] & fmtEncMask
	for _, a := range attributes {
		if a&fmtEncMask != want {
			return false
		}
	}
	return true
}
