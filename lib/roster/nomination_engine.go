package roster

import (
	"boscoin.io/roster/lib/errors"
)

// Nominate opens a vote on admitting `nominee`. The nominator keeps the
// nomination deposit reserved until the nominee joins or is rejected.
func (e *Engine) Nominate(nominator string, id RosterID, nominee string) error {
	return e.run("nominate", func(tx *txn) error {
		if err := checkIdentity(nominator, nominee); err != nil {
			return err
		}

		r, err := tx.getActiveRoster(id)
		if err != nil {
			return err
		}
		if !r.IsMember(nominator) {
			return errors.NotMember
		}
		if r.IsMember(nominee) {
			return errors.AlreadyMember
		}

		if exists, err := tx.st.Has(GetNominationKey(nominee, id)); err != nil {
			return err
		} else if exists {
			return errors.NominationAlreadyExists
		}

		if err := r.addNominationRef(nominee, tx.config.MaxNominations); err != nil {
			return err
		}
		if err := tx.ledger.Reserve(NominationDepositScope(id, nominee), nominator, tx.config.NominationDeposit); err != nil {
			return err
		}

		n := &Nomination{
			RosterID:  id,
			Nominee:   nominee,
			Nominator: nominator,
			OpenedAt:  tx.now,
			Votes:     Votes{},
			Status:    NominationPending,
		}
		if err := tx.st.New(n.Key(), n); err != nil {
			return err
		}
		if err := tx.saveRoster(r); err != nil {
			return err
		}

		tx.emit(NominationOpened{
			rosterEvent: rosterEvent{RosterID: id},
			Nominee:     nominee,
			Nominator:   nominator,
		})

		return nil
	})
}

func (tx *txn) getVotingNomination(id RosterID, nominee string) (*Nomination, error) {
	n, err := tx.getNomination(id, nominee)
	if err != nil {
		return nil, err
	}
	if !n.InVotingPeriod(tx.now, tx.config.NominationVotingPeriod) {
		return nil, errors.NotInVotingPeriod
	}

	return n, nil
}

func (e *Engine) VoteNomination(voter string, id RosterID, nominee string, value VoteValue) error {
	return e.run("nomination-vote", func(tx *txn) error {
		if value != Aye && value != Nay {
			return errors.InvalidVote.Clone().SetData("value", value)
		}

		n, err := tx.getVotingNomination(id, nominee)
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
		if n.Votes.Has(voter) {
			return errors.AlreadyVoted
		}
		if len(n.Votes) >= tx.config.MaxVotes {
			return capacityExceeded("votes", tx.config.MaxVotes)
		}

		n.Votes = append(n.Votes, Vote{Voter: voter, Value: value, VotedAt: tx.now})
		if err := tx.saveNomination(n); err != nil {
			return err
		}

		tx.emit(NominationVoted{
			rosterEvent: rosterEvent{RosterID: id},
			Nominee:     nominee,
			Voter:       voter,
			Value:       value,
		})

		return nil
	})
}

func (e *Engine) RecantNomination(voter string, id RosterID, nominee string) error {
	return e.run("nomination-recant", func(tx *txn) error {
		n, err := tx.getVotingNomination(id, nominee)
		if err != nil {
			return err
		}
		if !n.Votes.Has(voter) {
			return errors.NotVoted
		}

		n.Votes = n.Votes.Remove(voter)
		if err := tx.saveNomination(n); err != nil {
			return err
		}

		tx.emit(NominationVoteRecanted{
			rosterEvent: rosterEvent{RosterID: id},
			Nominee:     nominee,
			Voter:       voter,
		})

		return nil
	})
}

// CloseNomination decides a pending nomination. Anyone may close it once the
// voting period elapsed, the votes reach the quorum or every member voted.
// Ties are rejected.
func (e *Engine) CloseNomination(closer string, id RosterID, nominee string) (status NominationStatus, err error) {
	err = e.run("nomination-close", func(tx *txn) error {
		n, err := tx.getNomination(id, nominee)
		if err != nil {
			return err
		}
		if n.Status != NominationPending {
			return errors.NominationNotPending
		}

		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}

		ayes, nays, _ := n.Votes.Tally()
		elapsed := tx.now.Since(n.OpenedAt)
		period := tx.config.NominationVotingPeriod
		quorum := Quorum(len(r.Members), elapsed, period, tx.config.NominationQuorumMin, tx.config.NominationQuorumModifier)

		if elapsed < period && ayes+nays < quorum && !n.Votes.AllVoted(r.Members) {
			return errors.CannotCloseYet.Clone().
				SetData("votes", ayes+nays).
				SetData("quorum", quorum).
				SetData("elapsed", elapsed)
		}

		log.Debug(
			"closing nomination",
			"id", id,
			"nominee", nominee,
			"closer", closer,
			"ayes", ayes,
			"nays", nays,
			"quorum", quorum,
		)

		if ayes <= nays {
			status = NominationRejected
			if err := tx.rejectNomination(r, n); err != nil {
				return err
			}
			return tx.saveRoster(r)
		}

		status = NominationApproved
		n.Status = NominationApproved
		if err := tx.saveNomination(n); err != nil {
			return err
		}

		tx.emit(NominationClosed{
			rosterEvent: rosterEvent{RosterID: id},
			Nominee:     nominee,
			Status:      NominationApproved,
		})

		return nil
	})

	return
}

// rejectNomination refunds the nominator and queues the record for cleanup.
// The caller saves `r`.
func (tx *txn) rejectNomination(r *Roster, n *Nomination) error {
	n.Status = NominationRejected

	if _, err := tx.unreserveAll(NominationDepositScope(r.ID, n.Nominee), n.Nominator); err != nil {
		return err
	}

	r.removeNominationRef(n.Nominee)

	if err := tx.saveNomination(n); err != nil {
		return err
	}
	if err := tx.conclude(ConcludedNominationsKey, n.Key()); err != nil {
		return err
	}

	tx.emit(NominationClosed{
		rosterEvent: rosterEvent{RosterID: r.ID},
		Nominee:     n.Nominee,
		Status:      NominationRejected,
	})

	return nil
}

// settleNomination concludes the nomination of a nominee who joined without
// it. A pending one is rejected; either way the nominator is refunded. The
// caller saves `r`.
func (tx *txn) settleNomination(r *Roster, n *Nomination) error {
	if n.Status == NominationPending {
		return tx.rejectNomination(r, n)
	}

	if _, err := tx.unreserveAll(NominationDepositScope(r.ID, n.Nominee), n.Nominator); err != nil {
		return err
	}
	r.removeNominationRef(n.Nominee)

	return tx.conclude(ConcludedNominationsKey, n.Key())
}

// AddMember lets an approved nominee join. The nominee reserves the
// membership dues and the nominator gets the nomination deposit back.
func (e *Engine) AddMember(member string, id RosterID) error {
	return e.run("add-member", func(tx *txn) error {
		n, err := tx.getNomination(id, member)
		if err != nil {
			return err
		}
		if n.Status != NominationApproved {
			return errors.NominationNotApproved
		}

		r, err := tx.getActiveRoster(id)
		if err != nil {
			return err
		}

		if err := r.addMember(member, tx.config.MaxMembers); err != nil {
			return err
		}
		if !r.hasNominationRef(member) {
			return errors.NominationNotApproved
		}
		r.removeNominationRef(member)

		if err := tx.ledger.Reserve(MembershipDuesScope(id, member), member, tx.config.MembershipDues); err != nil {
			return err
		}
		if _, err := tx.unreserveAll(NominationDepositScope(id, member), n.Nominator); err != nil {
			return err
		}

		if err := tx.conclude(ConcludedNominationsKey, n.Key()); err != nil {
			return err
		}
		if err := tx.saveRoster(r); err != nil {
			return err
		}

		tx.emit(MemberAdded{rosterEvent: rosterEvent{RosterID: id}, Member: member})

		return nil
	})
}
