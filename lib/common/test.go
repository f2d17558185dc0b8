// Provide test utilities for the common package
package common

// Initialize a new config object for unittests. Periods are short and the
// treasury is set, so every engine path is reachable.
func NewTestConfig() Config {
	p := NewConfig([]byte("roster-unittest"))

	p.BlockTime = 0
	p.RosterDeposit = 1000
	p.NominationDeposit = 100
	p.MembershipDues = 50
	p.ProposalDeposit = 200

	p.NominationVotingPeriod = 10
	p.AwaitingSecondPeriod = 5
	p.ExpulsionVotingPeriod = 10
	p.LockoutPeriod = 20
	p.SecondThreshold = 2
	p.ReparationsPercent = PerbillFromPercent(30)

	p.Treasury = "treasury"

	return p
}
