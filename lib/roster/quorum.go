package roster

import (
	"boscoin.io/roster/lib/common"
)

// Quorum is the continuous-decay participation threshold.
//
//   elapsed   = (blocks since open) / period, saturating at 1
//   remaining = 1 - elapsed
//   quorum    = clamp(modifier * remaining * members, min * members, members)
//
// Each multiplication rounds up. Closing early is allowed once the combined
// number of votes reaches the quorum.
func Quorum(members int, elapsed, period common.Height, min, modifier common.Perbill) int {
	if members < 1 {
		return 0
	}

	remaining := common.PerbillFromRational(uint64(elapsed), uint64(period)).Complement()

	quorum := modifier.MulPerbillCeil(remaining).MulCeil(uint64(members))
	if lower := min.MulCeil(uint64(members)); quorum < lower {
		quorum = lower
	}
	if quorum > uint64(members) {
		quorum = uint64(members)
	}

	return int(quorum)
}

// Supermajority is the smallest vote count reaching `share` of `members`.
func Supermajority(members int, share common.Perbill) int {
	if members < 1 {
		return 0
	}

	return int(share.MulCeil(uint64(members)))
}
