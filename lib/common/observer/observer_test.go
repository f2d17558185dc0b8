package observer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRosterEvent(t *testing.T) {
	require.Equal(t, "roster-id=findme", RosterEvent("findme"))
	require.NotEqual(t, AllRostersEvent, RosterEvent("*"))
}
