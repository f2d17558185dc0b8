package roster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common/keypair"
)

func TestNewRosterIDIsPure(t *testing.T) {
	founder := keypair.Random().Address()

	a := NewRosterID(founder, "findme")
	b := NewRosterID(founder, "findme")
	require.Equal(t, a, b)
	require.Equal(t, 16, len(a))
}

func TestNewRosterIDDiffers(t *testing.T) {
	founderA := keypair.Random().Address()
	founderB := keypair.Random().Address()

	require.NotEqual(t, NewRosterID(founderA, "findme"), NewRosterID(founderB, "findme"))
	require.NotEqual(t, NewRosterID(founderA, "findme"), NewRosterID(founderA, "showme"))

	// the namespace step keeps (founder, title) boundaries apart
	require.NotEqual(t, NewRosterID("ab", "c"), NewRosterID("a", "bc"))
}

func TestParseRosterID(t *testing.T) {
	id := NewRosterID(keypair.Random().Address(), "findme")

	parsed, err := ParseRosterID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = ParseRosterID("killme")
	require.Error(t, err)
}
