package dlis

import (
	"errors"
	"fmt"

	"github.com/e-zl/dlisio/stream"
)

// Storage Unit Label layout (spec §4.2/§6.4, DLIS §2.3.2), 80 bytes:
//
//	| seq number | dlis version | structure | max record len | set identifier |
//	| 0        3 | 4          8 | 9      14 | 15           19 | 20           79 |
//	bytes: 4     |      5       |     6     |       5          |       60        |
const (
	sulSize               = 80
	sulSeqNumberLen       = 4
	sulVersionOffset      = 4
	sulVersionLen         = 5
	sulStructureOffset    = sulVersionOffset + sulVersionLen
	sulStructureLen       = 6
	sulMaxRecordOffset    = sulStructureOffset + sulStructureLen
	sulMaxRecordLen       = 5
	sulSetIdentOffset     = sulMaxRecordOffset + sulMaxRecordLen
	sulSetIdentLen        = 60
	sulDefaultMinRead int = 15
	sulDefaultMaxRead int = 1700
)

var sulVersionToken = [sulVersionLen]byte{'V', '1', '.', '0', '0'}

// findSULPattern searches buf for a Storage Unit Label candidate,
// mirroring dlis_find_sul's three outcomes: found at a definite offset,
// not found at all, or found a partial/malformed candidate
// ("inconsistent"). Only fields that fit entirely within buf are
// validated — the MIN_READ fast path (15 bytes) only ever covers
// sequence-number/version/structure, never max-record-len or the set
// identifier, so those later fields are validated opportunistically
// when the caller supplied enough bytes to see them (the MAX_READ
// fallback) and simply skipped otherwise.
func findSULPattern(buf []byte) (offset int, found, inconsistent bool) {
	for i := 0; i+sulVersionLen <= len(buf); i++ {
		if !matchesVersionToken(buf[i : i+sulVersionLen]) {
			continue
		}
		start := i - sulVersionOffset
		if start < 0 {
			// The version token is too close to the start of the
			// buffer to leave room for the sequence-number field that
			// must precede it: a candidate, but not a complete one.
			inconsistent = true
			continue
		}
		if start+sulSeqNumberLen > len(buf) {
			inconsistent = true
			continue
		}
		if !isASCIIDigits(buf[start : start+sulSeqNumberLen]) {
			inconsistent = true
			continue
		}
		if structEnd := start + sulStructureOffset + sulStructureLen; structEnd <= len(buf) {
			if !isPrintableASCII(buf[start+sulStructureOffset : structEnd]) {
				inconsistent = true
				continue
			}
		}
		if maxRecEnd := start + sulMaxRecordOffset + sulMaxRecordLen; maxRecEnd <= len(buf) {
			if !isASCIIDigits(buf[start+sulMaxRecordOffset : maxRecEnd]) {
				inconsistent = true
				continue
			}
		}
		return start, true, false
	}
	return 0, false, inconsistent
}

func matchesVersionToken(b []byte) bool {
	for i, c := range sulVersionToken {
		if b[i] != c {
			return false
		}
	}
	return true
}

func isASCIIDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isPrintableASCII(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// FindSUL locates the Storage Unit Label and seeks s to its start (spec
// §4.2). s must be positioned at the logical origin (Ltell() == 0).
//
// If expected is false, a SUL not found within the fast-path budget is
// reported as ErrNotFound immediately. If expected is true, a larger
// fallback read is attempted before giving up, and a successful
// fallback logs a MINOR incident through eh — real files are
// occasionally preceded by a few bytes of unrelated data.
func FindSUL(s stream.Stream, eh ErrorHandler, expected bool, opts ...FindOption) error {
	o := newFindOptions(sulDefaultMinRead, sulDefaultMaxRead, opts...)

	lfrom := s.Ltell()
	pfrom := s.Ptell()

	// The fast path only ever claims success "at offset 0" (spec §4.2);
	// a candidate found later in the MIN_READ window is not trusted on
	// its own, since within such a short window it is indistinguishable
	// from a coincidental match ahead of the fallback's wider look. Treat
	// it the same as "not found" and fall through to the MAX_READ path.
	offset, err := trySUL(s, lfrom, o.minRead)
	if err == nil && offset == 0 {
		return s.Seek(lfrom)
	}
	if err == nil {
		err = fmt.Errorf("%w: searched %d bytes from ltell %d, no storage label found at offset 0", ErrNotFound, o.minRead, lfrom)
	}
	if !expected || !errors.Is(err, ErrNotFound) {
		return err
	}

	if serr := s.Seek(lfrom); serr != nil {
		return serr
	}
	offset, err = trySUL(s, lfrom, o.maxRead)
	if err != nil {
		return err
	}

	if offset != 0 {
		eh.Log(MINOR, "dlis.FindSUL: searching for SUL", "unexpected bytes found before SUL",
			"2.3.2 Storage Unit Label (SUL)", "unexpected bytes are ignored",
			DebugInfo{Ptell: pfrom + offset, Ltell: lfrom + offset})
	}

	return s.Seek(lfrom + offset)
}

// trySUL reads up to toRead bytes from s's current position and searches
// them for a SUL candidate, returning the offset relative to the read's
// start.
func trySUL(s stream.Stream, lfrom int64, toRead int) (int64, error) {
	buf := make([]byte, toRead)
	n, err := readAvailable(s, buf)
	if err != nil {
		return 0, fmt.Errorf("%w: reading for SUL: %v", ErrIoError, err)
	}

	offset, found, inconsistent := findSULPattern(buf[:n])
	switch {
	case found:
		return int64(offset), nil
	case inconsistent:
		return 0, fmt.Errorf("%w: found something that could be part of a SUL near ltell %d", ErrCorrupt, lfrom)
	default:
		return 0, fmt.Errorf("%w: searched %d bytes from ltell %d, no storage label found", ErrNotFound, n, lfrom)
	}
}

// readAvailable reads up to len(buf) bytes, tolerating a short read at
// EOF (spec §4.1: short reads are legal at EOF).
func readAvailable(s stream.Stream, buf []byte) (int, error) {
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
