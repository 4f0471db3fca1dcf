package indexcache

import (
	"encoding/binary"
	"errors"
	"time"
)

// idstamp.go adapts massifs/idtimestamp.go's epoch+millis serialization
// from "log replication coordinate" semantics to a plain freshness stamp
// for a checkpoint: when it was produced, not where in a log it
// corresponds to.

// ErrStampBytesTooShort is returned by ParseStamp on a short buffer.
var ErrStampBytesTooShort = errors.New("indexcache: not enough bytes to represent a checkpoint stamp")

// Stamp returns the millisecond-resolution timestamp and commitment
// epoch to record in a Checkpoint at the moment it is produced. The
// epoch is left at 0; this cache has no multi-decade rollover concern
// of its own, but keeps the field so the wire shape matches the
// teacher's idtimestamp convention and has room to grow one if ever
// needed.
func Stamp(now time.Time) (idTimestamp uint64, epoch uint8) {
	return uint64(now.UnixMilli()), 0
}

// StampBytes serializes a stamp the same way massifs/idtimestamp.go's
// IDTimestampBytes does: epoch in byte 0, the 64-bit millis value big
// endian in bytes 1-8.
func StampBytes(idTimestamp uint64, epoch uint8) []byte {
	b := make([]byte, 9)
	b[0] = epoch
	binary.BigEndian.PutUint64(b[1:], idTimestamp)
	return b
}

// ParseStamp is StampBytes's inverse.
func ParseStamp(b []byte) (idTimestamp uint64, epoch uint8, err error) {
	if len(b) < 9 {
		return 0, 0, ErrStampBytesTooShort
	}
	return binary.BigEndian.Uint64(b[1:9]), b[0], nil
}
