package ledger

import (
	"encoding/hex"

	"boscoin.io/roster/lib/common"
)

const ScopeNameLength = 8

// ScopeName namespaces a reservation. It is derived from the operation kind,
// the roster and the counterparty, so deposits for different purposes never
// share a bucket.
type ScopeName [ScopeNameLength]byte

func NewScopeName(kind string, rosterID []byte, counterparty string) ScopeName {
	var s ScopeName
	copy(s[:], common.MustMakeObjectHash([]interface{}{kind, rosterID, counterparty}))

	return s
}

func (s ScopeName) String() string {
	return hex.EncodeToString(s[:])
}

func (s ScopeName) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
