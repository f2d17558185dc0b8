package roster

import (
	"github.com/google/uuid"

	"boscoin.io/roster/lib/errors"
)

// RosterNamespace is the root namespace founder namespaces are hashed in.
var RosterNamespace = uuid.Must(uuid.Parse("8f1c6b2e-3d4a-5b6c-9d7e-0f1a2b3c4d5e"))

// RosterID is the 16 byte content-addressed roster identifier.
type RosterID = uuid.UUID

// NewRosterID hashes the founder into a namespace, then the title within
// that namespace. It is pure; the same founder can not get the same id for
// two rosters with the same title, while two founders can share a title.
func NewRosterID(founder, title string) RosterID {
	namespace := uuid.NewSHA1(RosterNamespace, []byte(founder))
	return uuid.NewSHA1(namespace, []byte(title))
}

func ParseRosterID(s string) (RosterID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.InvalidRosterID.Clone().SetData("id", s)
	}

	return id, nil
}
