package roster

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/storage"
)

// Create founds a new roster. The founder is its only member and pays the
// roster deposit.
func (e *Engine) Create(founder, title string) (id RosterID, err error) {
	err = e.run("create", func(tx *txn) error {
		if err := checkIdentity(founder); err != nil {
			return err
		}
		if err := checkLength(title, 1, tx.config.MaxTitleLength, errors.InvalidTitle); err != nil {
			return err
		}

		r := NewRoster(founder, title, tx.now)
		if exists, err := tx.st.Has(GetRosterKey(r.ID)); err != nil {
			return err
		} else if exists {
			return errors.AlreadyExists.Clone().SetData("id", r.ID.String())
		}

		if err := tx.ledger.Reserve(RosterDepositScope(r), founder, tx.config.RosterDeposit); err != nil {
			return err
		}
		if err := tx.st.New(GetRosterKey(r.ID), r); err != nil {
			return err
		}

		id = r.ID
		tx.emit(RosterCreated{
			rosterEvent: rosterEvent{RosterID: r.ID},
			Founder:     founder,
			Title:       title,
		})

		return nil
	})

	return
}

// SetStatus lets the founder activate or deactivate the roster. Deactivating
// rejects every referenced nomination and dismisses every referenced
// proposal, refunding their deposits.
func (e *Engine) SetStatus(caller string, id RosterID, status RosterStatus) error {
	return e.run("set-status", func(tx *txn) error {
		if !status.IsValid() {
			return errors.InvalidStatus.Clone().SetData("status", status)
		}

		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}
		if r.Founder != caller {
			return errors.PermissionDenied
		}
		if r.Status == status {
			return errors.AlreadyInState
		}

		if status == RosterInactive {
			if err := tx.deactivate(r); err != nil {
				return err
			}
		}

		r.Status = status
		if err := tx.saveRoster(r); err != nil {
			return err
		}

		tx.emit(RosterStatusChanged{
			rosterEvent: rosterEvent{RosterID: r.ID},
			Status:      status,
		})

		return nil
	})
}

func (tx *txn) deactivate(r *Roster) error {
	nominees := append([]string{}, r.Nominations...)
	refs := append([]ExpulsionRef{}, r.Expulsions...)

	for _, nominee := range nominees {
		n, err := tx.getNomination(r.ID, nominee)
		if err != nil {
			return err
		}
		if err := tx.rejectNomination(r, n); err != nil {
			return err
		}
	}

	for _, ref := range refs {
		p, err := tx.getProposal(r.ID, ref.Motioner, ref.Subject)
		if err != nil {
			return err
		}
		if !p.Status.IsOpen() {
			r.removeExpulsionRef(ref)
			continue
		}
		if err := tx.dismissProposal(r, p); err != nil {
			return err
		}
	}

	log.Debug("roster deactivated", "id", r.ID, "nominations", len(nominees), "expulsions", len(refs))

	return nil
}

// Remove deletes an inactive roster with its proposal and lockout records,
// then refunds the roster deposit and releases the dues of the members.
func (e *Engine) Remove(caller string, id RosterID) error {
	return e.run("remove", func(tx *txn) error {
		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}
		if r.Founder != caller {
			return errors.PermissionDenied
		}
		if r.IsActive() {
			return errors.StillActive
		}

		proposals, err := tx.st.Keys(GetExpulsionKeyPrefix(id))
		if err != nil {
			return err
		}
		if len(proposals) > tx.config.MaxRemovalBatch {
			return errors.IncompleteCleanup.Clone().
				SetData("records", len(proposals)).
				SetData("limit", tx.config.MaxRemovalBatch)
		}

		lockouts, err := tx.st.Keys(GetLockoutKeyPrefix(id))
		if err != nil {
			return err
		}

		if err := tx.st.RemoveMany(append(proposals, lockouts...)...); err != nil {
			return err
		}
		if err := tx.dropConcluded(ConcludedExpulsionsKey, GetExpulsionKeyPrefix(id)); err != nil {
			return err
		}

		if _, err := tx.unreserveAll(RosterDepositScope(r), r.Founder); err != nil {
			return err
		}
		for _, member := range r.Members {
			if member == r.Founder {
				continue
			}
			if _, err := tx.unreserveAll(MembershipDuesScope(id, member), member); err != nil {
				return err
			}
		}

		if err := tx.st.Remove(GetRosterKey(id)); err != nil {
			return err
		}

		tx.emit(RosterRemoved{rosterEvent: rosterEvent{RosterID: id}})

		return nil
	})
}

// Leave removes `member` by its own request and releases its dues. The
// founder can not leave, neither can a member taking part in an open
// proposal.
func (e *Engine) Leave(member string, id RosterID) error {
	return e.run("leave", func(tx *txn) error {
		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}
		if member == r.Founder {
			return errors.PermissionDenied
		}
		if !r.IsMember(member) {
			return errors.NotMember
		}
		if r.isMotioner(member) || r.isSubject(member) {
			return errors.HasOpenProposal
		}

		if err := r.removeMember(member); err != nil {
			return err
		}
		if err := tx.dropParticipant(r, member); err != nil {
			return err
		}
		if _, err := tx.unreserveAll(MembershipDuesScope(id, member), member); err != nil {
			return err
		}
		if err := tx.saveRoster(r); err != nil {
			return err
		}

		tx.emit(MemberLeft{rosterEvent: rosterEvent{RosterID: id}, Member: member})

		return nil
	})
}

// RemoveMember is a host primitive; the member gets its dues back.
// Votes and seconds it cast on open records of the roster are withdrawn.
func (e *Engine) RemoveMember(id RosterID, member string) error {
	return e.run("remove-member", func(tx *txn) error {
		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}
		if err := r.removeMember(member); err != nil {
			return err
		}
		if err := tx.dropParticipant(r, member); err != nil {
			return err
		}
		if _, err := tx.unreserveAll(MembershipDuesScope(id, member), member); err != nil {
			return err
		}
		if err := tx.saveRoster(r); err != nil {
			return err
		}

		tx.emit(MemberRemoved{rosterEvent: rosterEvent{RosterID: id}, Member: member})

		return nil
	})
}

// ForceAddMembers is a host primitive, it adds members without nomination
// and without dues. A nomination the new member still has is settled and
// the nominator refunded.
func (e *Engine) ForceAddMembers(id RosterID, members ...string) error {
	return e.run("force-add-members", func(tx *txn) error {
		if err := checkIdentity(members...); err != nil {
			return err
		}

		r, err := tx.getRoster(id)
		if err != nil {
			return err
		}

		for _, member := range members {
			if err := r.addMember(member, tx.config.MaxMembers); err != nil {
				return err
			}
			if r.hasNominationRef(member) {
				n, err := tx.getNomination(id, member)
				if err != nil {
					return err
				}
				if err := tx.settleNomination(r, n); err != nil {
					return err
				}
			}
			tx.emit(MemberAdded{rosterEvent: rosterEvent{RosterID: id}, Member: member})
		}

		return tx.saveRoster(r)
	})
}

// dropParticipant withdraws the votes `member` cast on the pending
// nominations and open proposals of `r`, and its seconds on proposals not
// yet in voting. Proposals in `skip` are left alone.
func (tx *txn) dropParticipant(r *Roster, member string, skip ...ExpulsionRef) error {
	for _, nominee := range r.Nominations {
		n, err := tx.getNomination(r.ID, nominee)
		if err != nil {
			return err
		}
		if n.Status != NominationPending || !n.Votes.Has(member) {
			continue
		}
		n.Votes = n.Votes.Remove(member)
		if err := tx.saveNomination(n); err != nil {
			return err
		}
	}

refs:
	for _, ref := range r.Expulsions {
		for _, s := range skip {
			if s == ref {
				continue refs
			}
		}

		p, err := tx.getProposal(r.ID, ref.Motioner, ref.Subject)
		if err != nil {
			return err
		}
		if !p.Status.IsOpen() {
			continue
		}

		var changed bool
		if p.Votes.Has(member) {
			p.Votes = p.Votes.Remove(member)
			changed = true
		}
		if p.Status != ProposalVoting {
			if seconds, found := common.RemoveFromStringArray(p.Seconds, member); found {
				p.Seconds = seconds
				if len(seconds) < 1 {
					p.Status = ProposalProposed
				}
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := tx.saveProposal(p); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) GetRoster(id RosterID) (r *Roster, err error) {
	err = e.read(func(st *storage.LevelDBBackend) error {
		r, err = (&txn{st: st}).getRoster(id)
		return err
	})

	return
}

func (e *Engine) GetNomination(id RosterID, nominee string) (n *Nomination, err error) {
	err = e.read(func(st *storage.LevelDBBackend) error {
		n, err = (&txn{st: st}).getNomination(id, nominee)
		return err
	})

	return
}

func (e *Engine) GetProposal(id RosterID, motioner, subject string) (p *ExpulsionProposal, err error) {
	err = e.read(func(st *storage.LevelDBBackend) error {
		p, err = (&txn{st: st}).getProposal(id, motioner, subject)
		return err
	})

	return
}

// ListRosters pages through stored rosters in key order.
func (e *Engine) ListRosters(options storage.ListOptions) (rosters []*Roster, err error) {
	err = e.read(func(st *storage.LevelDBBackend) error {
		iterFunc, closeFunc := st.GetIterator(RosterPrefix, options)
		defer closeFunc()

		for {
			item, hasNext := iterFunc()
			if !hasNext {
				break
			}

			var r Roster
			if err := common.DecodeJSONValue(item.Value, &r); err != nil {
				return err
			}
			rosters = append(rosters, &r)
		}

		return nil
	})

	return
}

// ListProposals returns every proposal record of the roster, open or
// concluded.
func (e *Engine) ListProposals(id RosterID) (proposals []*ExpulsionProposal, err error) {
	err = e.read(func(st *storage.LevelDBBackend) error {
		return st.Walk(GetExpulsionKeyPrefix(id), func(key, value []byte) (bool, error) {
			var p ExpulsionProposal
			if err := common.DecodeJSONValue(value, &p); err != nil {
				return false, err
			}
			proposals = append(proposals, &p)

			return true, nil
		})
	})

	return
}
