// Package dlis implements the physical-to-logical framing engine for DLIS
// (Digital Log Interchange Standard) files: locating the Storage Unit Label
// and Visible Record anchors, reassembling Logical Record Segment chains
// into whole Logical Records, and indexing a Logical File's records into
// offset tables and an object-name fingerprint map.
package dlis

import "errors"

// Error kinds reported by the framing engine. Use errors.Is to recover the
// kind from a wrapped error.
var (
	// ErrIoError wraps an underlying stream failure.
	ErrIoError = errors.New("dlis: io error")
	// ErrEndOfFile is returned when an operation is attempted past the end
	// of the stream.
	ErrEndOfFile = errors.New("dlis: end of file")
	// ErrNotFound is returned when an anchor search exhausts its budget
	// without locating the anchor.
	ErrNotFound = errors.New("dlis: not found")
	// ErrTruncated is returned when a record body is short of its
	// declared length.
	ErrTruncated = errors.New("dlis: truncated")
	// ErrCorrupt is returned on structural inconsistencies that make
	// further interpretation unsafe (len < 4, partial VRL, ambiguous
	// trim, malformed SUL candidate).
	ErrCorrupt = errors.New("dlis: corrupt")
)
