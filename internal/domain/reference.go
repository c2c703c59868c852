package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	TransferRefPrefix     = "RQTXN"
	BulkRefPrefix         = "BKTXN"
	FeeRefPrefix          = "BFTXN"
	ContributionRefPrefix = "REF"
	ReversalRefPrefix     = "REV"
)

// NewReference returns prefix-<ulid>. ULIDs sort by creation time.
func NewReference(prefix string) string {
	return prefix + "-" + ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// ReversalReference derives the compensating credit reference from the
// original transfer reference.
func ReversalReference(transferRef string) string {
	return ReversalRefPrefix + "-" + transferRef
}
