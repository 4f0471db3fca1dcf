package indexcache

import (
	"fmt"

	"github.com/google/uuid"
)

// V1CheckpointPrefix is the blob path prefix checkpoints are stored
// under, grounded on the teacher's V1MMRPrefix/TenantMassifPrefix
// convention (tenantblobpaths.go) of a version segment followed by a
// fixed path component.
const V1CheckpointPrefix = "v1/dlis/checkpoints"

// NewLogID generates a fresh identity for a logical file being indexed
// for the first time, the same way the teacher mints a tenant log id
// (storage/prefixeduuid.go's ParsePrefixedLogID/LogID round trip) rather
// than deriving identity from caller-supplied path strings that may
// collide or be reused across unrelated files.
func NewLogID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// CheckpointIdentity builds the blob identity a Checkpoint for logID is
// stored/loaded under, in the same "prefix/uuid" shape as the teacher's
// TenantMassifPrefix, so indexcache.Store and stream.OpenBlob can be
// pointed at the same blob container without a separate naming scheme.
func CheckpointIdentity(logID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.cbor", V1CheckpointPrefix, logID.String())
}
