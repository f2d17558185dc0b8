package runner

var (
	// DebugPProf exposes the pprof handlers under the debug router.
	DebugPProf bool = false

	// DebugJSONRPC exposes the storage JSON-RPC service under the debug
	// router.
	DebugJSONRPC bool = false
)

const (
	// HeightClockKey stores the last height of `HeightClock`.
	HeightClockKey = "hc-height"

	// GenesisHeight is the height of a fresh node.
	GenesisHeight = 1
)
