package roster

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
)

type ProposeChecker struct {
	common.DefaultChecker

	tx       *txn
	Roster   *Roster
	RosterID RosterID
	Motioner string
	Subject  string
	Reason   string
}

func CheckProposeArguments(c common.Checker, args ...interface{}) error {
	checker := c.(*ProposeChecker)

	if err := checkIdentity(checker.Motioner, checker.Subject); err != nil {
		return err
	}
	if checker.Motioner == checker.Subject {
		return errors.InvalidOperation.Clone().SetData("reason", "self-expulsion")
	}

	config := checker.tx.config
	return checkLength(checker.Reason, config.MinReasonLength, config.MaxReasonLength, errors.InvalidReason)
}

func CheckProposeMembership(c common.Checker, args ...interface{}) error {
	checker := c.(*ProposeChecker)

	r, err := checker.tx.getActiveRoster(checker.RosterID)
	if err != nil {
		return err
	}
	if !r.IsMember(checker.Motioner) || !r.IsMember(checker.Subject) {
		return errors.NotMember
	}
	if checker.Subject == r.Founder {
		return errors.FounderImmune
	}

	checker.Roster = r

	return nil
}

func CheckProposeOpenProposals(c common.Checker, args ...interface{}) error {
	checker := c.(*ProposeChecker)

	if checker.Roster.isMotioner(checker.Motioner) {
		return errors.MotionerHasOpenProposal
	}
	if checker.Roster.isSubject(checker.Subject) {
		return errors.SubjectHasOpenProposal
	}

	key := GetExpulsionKey(checker.RosterID, checker.Motioner, checker.Subject)
	if exists, err := checker.tx.st.Has(key); err != nil {
		return err
	} else if exists {
		return errors.ProposalAlreadyExists
	}

	return nil
}

func CheckProposeLockout(c common.Checker, args ...interface{}) error {
	checker := c.(*ProposeChecker)

	if locked, err := checker.tx.lockedOut(checker.RosterID, checker.Motioner); err != nil {
		return err
	} else if locked {
		return errors.LockedOut.Clone().SetData("identity", checker.Motioner)
	}

	return nil
}

var ProposeCheckerFuncs = []common.CheckerFunc{
	CheckProposeArguments,
	CheckProposeMembership,
	CheckProposeOpenProposals,
	CheckProposeLockout,
}

// Propose motions to expel `subject`. The motioner reserves the proposal
// deposit until the proposal is decided.
func (e *Engine) Propose(motioner, subject string, id RosterID, reason string) error {
	return e.run("propose", func(tx *txn) error {
		checker := &ProposeChecker{
			DefaultChecker: common.DefaultChecker{Funcs: ProposeCheckerFuncs},
			tx:             tx,
			RosterID:       id,
			Motioner:       motioner,
			Subject:        subject,
			Reason:         reason,
		}
		if err := common.RunChecker(checker, nil); err != nil {
			return err
		}

		r := checker.Roster
		p := &ExpulsionProposal{
			Motioner:   motioner,
			Subject:    subject,
			RosterID:   id,
			Reason:     reason,
			Seconds:    []string{},
			Votes:      Votes{},
			ProposedAt: tx.now,
			Status:     ProposalProposed,
		}

		if err := r.addExpulsionRef(p.Ref(), tx.config.MaxExpulsions); err != nil {
			return err
		}
		if err := tx.ledger.Reserve(ProposalDepositScope(id, subject), motioner, tx.config.ProposalDeposit); err != nil {
			return err
		}
		if err := tx.st.New(p.Key(), p); err != nil {
			return err
		}
		if err := tx.saveRoster(r); err != nil {
			return err
		}

		tx.emit(ExpulsionOpened{proposalEvent: newProposalEvent(p), Reason: reason})

		return nil
	})
}

func (e *Engine) Second(seconder, motioner, subject string, id RosterID) error {
	return e.run("second", func(tx *txn) error {
		r, err := tx.getActiveRoster(id)
		if err != nil {
			return err
		}
		p, err := tx.getProposal(id, motioner, subject)
		if err != nil {
			return err
		}
		if p.Status != ProposalProposed && p.Status != ProposalSeconded {
			return errors.NotSecondable.Clone().SetData("status", p.Status)
		}
		if !r.IsMember(seconder) {
			return errors.NotMember
		}
		if seconder == motioner || seconder == subject {
			return errors.CannotSecondOwn
		}
		if locked, err := tx.lockedOut(id, seconder); err != nil {
			return err
		} else if locked {
			return errors.LockedOut.Clone().SetData("identity", seconder)
		}
		if p.IsSeconder(seconder) {
			return errors.AlreadySeconded
		}
		if len(p.Seconds) >= tx.config.MaxSeconds {
			return capacityExceeded("seconds", tx.config.MaxSeconds)
		}

		p.Seconds = append(p.Seconds, seconder)
		p.Status = ProposalSeconded
		if err := tx.saveProposal(p); err != nil {
			return err
		}

		tx.emit(ExpulsionSeconded{proposalEvent: newProposalEvent(p), Seconder: seconder})

		return nil
	})
}

// OpenVoting is called by the motioner once the proposal has enough seconds.
func (e *Engine) OpenVoting(motioner, subject string, id RosterID) error {
	return e.run("open-voting", func(tx *txn) error {
		if _, err := tx.getActiveRoster(id); err != nil {
			return err
		}
		p, err := tx.getProposal(id, motioner, subject)
		if err != nil {
			return err
		}
		if p.Status != ProposalSeconded {
			return errors.NotSeconded.Clone().SetData("status", p.Status)
		}
		if len(p.Seconds) < tx.config.SecondThreshold {
			return errors.NotEnoughSeconds.Clone().
				SetData("seconds", len(p.Seconds)).
				SetData("threshold", tx.config.SecondThreshold)
		}

		openedAt := tx.now
		p.VotingOpenedAt = &openedAt
		p.Status = ProposalVoting
		if err := tx.saveProposal(p); err != nil {
			return err
		}

		tx.emit(ExpulsionVotingOpened{proposalEvent: newProposalEvent(p)})

		return nil
	})
}

func (tx *txn) getVotingProposal(id RosterID, motioner, subject string) (*ExpulsionProposal, error) {
	p, err := tx.getProposal(id, motioner, subject)
	if err != nil {
		return nil, err
	}
	if p.Status != ProposalVoting {
		return nil, errors.NotVoting.Clone().SetData("status", p.Status)
	}
	if !p.InVotingPeriod(tx.now, tx.config.ExpulsionVotingPeriod) {
		return nil, errors.NotInVotingPeriod
	}

	return p, nil
}

func (e *Engine) VoteProposal(voter, motioner, subject string, id RosterID, value VoteValue) error {
	return e.run("proposal-vote", func(tx *txn) error {
		if !value.IsValid() {
			return errors.InvalidVote.Clone().SetData("value", value)
		}

		p, err := tx.getVotingProposal(id, motioner, subject)
		if err != nil {
			return err
		}
		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}
		if !r.IsMember(voter) {
			return errors.NotMember
		}
		if p.Votes.Has(voter) {
			return errors.AlreadyVoted
		}
		if len(p.Votes) >= tx.config.MaxVotes {
			return capacityExceeded("votes", tx.config.MaxVotes)
		}

		p.Votes = append(p.Votes, Vote{Voter: voter, Value: value, VotedAt: tx.now})
		if err := tx.saveProposal(p); err != nil {
			return err
		}

		tx.emit(ExpulsionVoted{proposalEvent: newProposalEvent(p), Voter: voter, Value: value})

		return nil
	})
}

func (e *Engine) RecantProposal(voter, motioner, subject string, id RosterID) error {
	return e.run("proposal-recant", func(tx *txn) error {
		p, err := tx.getVotingProposal(id, motioner, subject)
		if err != nil {
			return err
		}
		if !p.Votes.Has(voter) {
			return errors.NotVoted
		}

		p.Votes = p.Votes.Remove(voter)
		if err := tx.saveProposal(p); err != nil {
			return err
		}

		tx.emit(ExpulsionVoteRecanted{proposalEvent: newProposalEvent(p), Voter: voter})

		return nil
	})
}

// CloseProposal decides an open proposal. A proposal left without enough
// seconds, or voted down by a supermajority, is dismissed with prejudice;
// otherwise a decided vote passes or dismisses it.
func (e *Engine) CloseProposal(closer, motioner, subject string, id RosterID) (status ProposalStatus, err error) {
	err = e.run("proposal-close", func(tx *txn) error {
		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}
		if !r.IsMember(closer) {
			return errors.NotMember
		}
		p, err := tx.getProposal(id, motioner, subject)
		if err != nil {
			return err
		}
		if !p.Status.IsOpen() {
			return errors.ProposalConcluded.Clone().SetData("status", p.Status)
		}

		members := len(r.Members)
		ayes, nays, abstains := p.Votes.Tally()
		period := tx.config.ExpulsionVotingPeriod

		var votingElapsed bool
		var elapsed common.Height
		if p.VotingOpenedAt != nil {
			elapsed = tx.now.Since(*p.VotingOpenedAt)
			votingElapsed = elapsed >= period
		}

		var prejudice bool
		if len(p.Seconds) < tx.config.SecondThreshold &&
			tx.now.Since(p.ProposedAt) >= tx.config.AwaitingSecondPeriod {
			prejudice = true
		} else if votingElapsed && nays >= Supermajority(members, tx.config.Supermajority) {
			prejudice = true
		}

		if prejudice {
			if len(tx.config.Treasury) < 1 {
				return errors.TreasuryNotConfigured
			}
			status = ProposalDismissedWithPrejudice
			if err := tx.dismissWithPrejudice(r, p); err != nil {
				return err
			}
			return tx.saveRoster(r)
		}

		if p.Status != ProposalVoting || !votingElapsed {
			return errors.CannotCloseYet.Clone().
				SetData("status", p.Status).
				SetData("elapsed", elapsed)
		}

		quorum := Quorum(members, elapsed, period, tx.config.ExpulsionQuorumMin, tx.config.ExpulsionQuorumModifier)

		log.Debug(
			"closing proposal",
			"id", id,
			"motioner", motioner,
			"subject", subject,
			"closer", closer,
			"ayes", ayes,
			"nays", nays,
			"abstains", abstains,
			"quorum", quorum,
		)

		if nays >= ayes || ayes+nays+abstains < quorum {
			status = ProposalDismissed
			if err := tx.dismissProposal(r, p); err != nil {
				return err
			}
			return tx.saveRoster(r)
		}

		if len(tx.config.Treasury) < 1 {
			return errors.TreasuryNotConfigured
		}
		status = ProposalPassed
		if err := tx.passProposal(r, p); err != nil {
			return err
		}

		return tx.saveRoster(r)
	})

	return
}

// concludeProposal records the decision and queues the record for cleanup.
func (tx *txn) concludeProposal(r *Roster, p *ExpulsionProposal, status ProposalStatus) error {
	p.decide(status, tx.now)
	r.removeExpulsionRef(p.Ref())

	if err := tx.saveProposal(p); err != nil {
		return err
	}

	return tx.conclude(ConcludedExpulsionsKey, p.Key())
}

// dismissProposal refunds the motioner. The caller saves `r`.
func (tx *txn) dismissProposal(r *Roster, p *ExpulsionProposal) error {
	if _, err := tx.unreserveAll(ProposalDepositScope(r.ID, p.Subject), p.Motioner); err != nil {
		return err
	}
	if err := tx.concludeProposal(r, p, ProposalDismissed); err != nil {
		return err
	}

	tx.emit(ExpulsionDismissed{proposalEvent: newProposalEvent(p)})

	return nil
}

// dismissWithPrejudice splits the deposit between the subject and the
// treasury, then locks out the motioner and the seconders.
func (tx *txn) dismissWithPrejudice(r *Roster, p *ExpulsionProposal) error {
	scope := ProposalDepositScope(r.ID, p.Subject)

	deposit, err := tx.ledger.Reserved(scope, p.Motioner)
	if err != nil {
		return err
	}

	reparations := deposit.MulPerbill(tx.config.ReparationsPercent)
	slashed := deposit.MustSub(reparations)

	if err := tx.ledger.TransferReserved(scope, p.Motioner, p.Subject, reparations, false); err != nil {
		return err
	}
	if err := tx.ledger.TransferReserved(scope, p.Motioner, tx.config.Treasury, slashed, false); err != nil {
		return err
	}

	if err := tx.lockOut(r.ID, append([]string{p.Motioner}, p.Seconds...)...); err != nil {
		return err
	}
	if err := tx.concludeProposal(r, p, ProposalDismissedWithPrejudice); err != nil {
		return err
	}

	tx.emit(ExpulsionDismissedWithPrejudice{
		proposalEvent: newProposalEvent(p),
		Reparations:   reparations,
		Slashed:       slashed,
	})

	return nil
}

// passProposal expels the subject and slashes its dues to the treasury. The
// motioner gets the deposit back; seconders are not rewarded.
func (tx *txn) passProposal(r *Roster, p *ExpulsionProposal) error {
	duesScope := MembershipDuesScope(r.ID, p.Subject)

	dues, err := tx.ledger.Reserved(duesScope, p.Subject)
	if err != nil {
		return err
	}
	if err := tx.ledger.TransferReserved(duesScope, p.Subject, tx.config.Treasury, dues, false); err != nil {
		return err
	}
	if _, err := tx.unreserveAll(ProposalDepositScope(r.ID, p.Subject), p.Motioner); err != nil {
		return err
	}

	if r.IsMember(p.Subject) {
		if err := r.removeMember(p.Subject); err != nil {
			return err
		}
		if err := tx.dropParticipant(r, p.Subject, p.Ref()); err != nil {
			return err
		}
		tx.emit(MemberRemoved{rosterEvent: rosterEvent{RosterID: r.ID}, Member: p.Subject})
	}

	if err := tx.concludeProposal(r, p, ProposalPassed); err != nil {
		return err
	}

	tx.emit(ExpulsionPassed{proposalEvent: newProposalEvent(p), Slashed: dues})

	return nil
}
