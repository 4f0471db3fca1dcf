package dlis

import (
	"fmt"

	"github.com/e-zl/dlisio/stream"
)

const (
	vrlMarkerLen         = 2 // 0xFF 0x01
	vrlLenFieldLen       = 2
	vrlPatternLen        = vrlMarkerLen + vrlLenFieldLen
	vrlDefaultMinRead int = 4
	vrlDefaultMaxRead int = 200
)

// findVRLPattern searches buf for the Visible Record envelope marker
// (spec §4.3/§6.4: `0xFF 0x01 len_hi len_lo`).
func findVRLPattern(buf []byte) (offset int, found, inconsistent bool) {
	for i := 0; i < len(buf); i++ {
		if buf[i] != 0xFF {
			continue
		}
		if i+1 >= len(buf) {
			inconsistent = true
			continue
		}
		if buf[i+1] != 0x01 {
			continue
		}
		if i+vrlPatternLen > len(buf) {
			// Saw the two marker bytes but the length field is cut off.
			inconsistent = true
			continue
		}
		return i, true, false
	}
	return 0, false, inconsistent
}

// FindVRL locates the Visible Record envelope marker and seeks s to it
// (spec §4.3). Logs a MINOR incident through eh if the marker was not at
// s's starting position.
func FindVRL(s stream.Stream, eh ErrorHandler, opts ...FindOption) error {
	o := newFindOptions(vrlDefaultMinRead, vrlDefaultMaxRead, opts...)

	lfrom := s.Ltell()
	pfrom := s.Ptell()

	offset, err := tryVRL(s, lfrom, o.minRead)
	if err == nil {
		return s.Seek(lfrom + offset)
	}

	if serr := s.Seek(lfrom); serr != nil {
		return serr
	}
	offset, err = tryVRL(s, lfrom, o.maxRead)
	if err != nil {
		return err
	}

	eh.Log(MINOR, "dlis.FindVRL: searching for VR", "unexpected bytes found before VR", "",
		"unexpected bytes ignored", DebugInfo{Ptell: pfrom + offset, Ltell: lfrom + offset})

	return s.Seek(lfrom + offset)
}

func tryVRL(s stream.Stream, lfrom int64, toRead int) (int64, error) {
	buf := make([]byte, toRead)
	n, err := readAvailable(s, buf)
	if err != nil {
		return 0, fmt.Errorf("%w: reading for VR: %v", ErrIoError, err)
	}

	offset, found, inconsistent := findVRLPattern(buf[:n])
	switch {
	case found:
		return int64(offset), nil
	case inconsistent:
		return 0, fmt.Errorf("%w: found [0xFF 0x01] but length field not intact near ltell %d", ErrCorrupt, lfrom)
	default:
		return 0, fmt.Errorf("%w: searched %d bytes from ltell %d, no visible record envelope found", ErrNotFound, n, lfrom)
	}
}
