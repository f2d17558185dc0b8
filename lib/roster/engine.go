package roster

import (
	"sync"
	"unicode/utf8"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/storage"
)

// Reservation kinds, see `ledger.NewScopeName`.
const (
	ScopeNewRoster  = "new-roster"
	ScopeNomination = "nomination"
	ScopeMembership = "membership"
	ScopeExpulsion  = "expulsion"
)

func RosterDepositScope(r *Roster) ledger.ScopeName {
	return ledger.NewScopeName(ScopeNewRoster, r.ID[:], r.Founder)
}

func NominationDepositScope(id RosterID, nominee string) ledger.ScopeName {
	return ledger.NewScopeName(ScopeNomination, id[:], nominee)
}

func MembershipDuesScope(id RosterID, member string) ledger.ScopeName {
	return ledger.NewScopeName(ScopeMembership, id[:], member)
}

func ProposalDepositScope(id RosterID, subject string) ledger.ScopeName {
	return ledger.NewScopeName(ScopeExpulsion, id[:], subject)
}

// Engine applies roster, nomination and expulsion operations. Operations are
// serialized; each one runs inside a single storage transaction together with
// its ledger side effects, and its events are emitted only after commit.
type Engine struct {
	sync.RWMutex

	st        *storage.LevelDBBackend
	clock     Clock
	config    common.Config
	sink      EventSink
	newLedger func(*storage.LevelDBBackend) ledger.Ledger
	metrics   *metrics.EngineMetrics
}

func NewEngine(st *storage.LevelDBBackend, clock Clock, config common.Config, sink EventSink) *Engine {
	if sink == nil {
		sink = NewObserverSink()
	}

	return &Engine{
		st:     st,
		clock:  clock,
		config: config,
		sink:   sink,
		newLedger: func(st *storage.LevelDBBackend) ledger.Ledger {
			return ledger.New(st)
		},
		metrics: metrics.Engine,
	}
}

func (e *Engine) SetMetrics(m *metrics.EngineMetrics) {
	e.metrics = m
}

// SetLedger replaces the ledger factory. The factory gets the transaction
// backend of each operation.
func (e *Engine) SetLedger(f func(*storage.LevelDBBackend) ledger.Ledger) {
	e.newLedger = f
}

func (e *Engine) Config() common.Config {
	return e.config
}

// txn is the state of one operation.
type txn struct {
	st     *storage.LevelDBBackend
	ledger ledger.Ledger
	config common.Config
	now    common.Height
	events []Event
}

func (tx *txn) emit(ev Event) {
	tx.events = append(tx.events, ev)
}

func resultOf(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	if e, ok := err.(*errors.Error); ok {
		return string(e.Kind())
	}

	return metrics.ResultError
}

func (e *Engine) run(operation string, fn func(*txn) error) (err error) {
	e.Lock()
	defer e.Unlock()

	defer func() {
		e.metrics.Operation(operation, resultOf(err))
	}()

	var tx *txn
	err = e.st.Update(func(ts *storage.LevelDBBackend) error {
		tx = &txn{
			st:     ts,
			ledger: e.newLedger(ts),
			config: e.config,
			now:    e.clock.Height(),
		}

		return fn(tx)
	})
	if err != nil {
		log.Debug("operation failed", "operation", operation, "height", e.clock.Height(), "error", err)
		return
	}

	log.Debug("operation done", "operation", operation, "height", tx.now, "events", len(tx.events))

	for _, ev := range tx.events {
		e.sink.Emit(ev)
	}

	return
}

func (e *Engine) read(fn func(st *storage.LevelDBBackend) error) error {
	e.RLock()
	defer e.RUnlock()

	return fn(e.st)
}

func checkIdentity(identities ...string) error {
	for _, identity := range identities {
		if !keypair.IsAddress(identity) {
			return errors.InvalidIdentity.Clone().SetData("identity", identity)
		}
	}

	return nil
}

func checkLength(s string, min, max int, invalid *errors.Error) error {
	if !utf8.ValidString(s) {
		return invalid
	}
	if l := len(s); l < min || l > max {
		return invalid.Clone().SetData("length", l).SetData("min", min).SetData("max", max)
	}

	return nil
}

func (tx *txn) getRoster(id RosterID) (*Roster, error) {
	var r Roster
	if err := tx.st.Get(GetRosterKey(id), &r); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, errors.NotFound
		}
		return nil, err
	}

	return &r, nil
}

func (tx *txn) getActiveRoster(id RosterID) (*Roster, error) {
	r, err := tx.getRoster(id)
	if err != nil {
		return nil, err
	}
	if !r.IsActive() {
		return nil, errors.RosterInactive
	}

	return r, nil
}

func (tx *txn) saveRoster(r *Roster) error {
	return tx.st.Put(GetRosterKey(r.ID), r)
}

func (tx *txn) getNomination(id RosterID, nominee string) (*Nomination, error) {
	var n Nomination
	if err := tx.st.Get(GetNominationKey(nominee, id), &n); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, errors.NominationNotFound
		}
		return nil, err
	}

	return &n, nil
}

func (tx *txn) saveNomination(n *Nomination) error {
	return tx.st.Put(n.Key(), n)
}

func (tx *txn) getProposal(id RosterID, motioner, subject string) (*ExpulsionProposal, error) {
	var p ExpulsionProposal
	if err := tx.st.Get(GetExpulsionKey(id, motioner, subject), &p); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, errors.ProposalNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (tx *txn) saveProposal(p *ExpulsionProposal) error {
	return tx.st.Put(p.Key(), p)
}

// lockedOut checks whether `identity` may not motion or second yet.
func (tx *txn) lockedOut(id RosterID, identity string) (bool, error) {
	var until common.Height
	if err := tx.st.Get(GetLockoutKey(id, identity), &until); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return false, nil
		}
		return false, err
	}

	return tx.now < until, nil
}

func (tx *txn) lockOut(id RosterID, identities ...string) error {
	until := tx.now.Add(tx.config.LockoutPeriod)
	for _, identity := range identities {
		if err := tx.st.Put(GetLockoutKey(id, identity), until); err != nil {
			return err
		}
	}

	return nil
}

// unreserveAll releases whatever is held under `scope`.
func (tx *txn) unreserveAll(scope ledger.ScopeName, account string) (common.Amount, error) {
	reserved, err := tx.ledger.Reserved(scope, account)
	if err != nil || reserved == 0 {
		return 0, err
	}

	if _, err = tx.ledger.Unreserve(scope, account, reserved); err != nil {
		return 0, err
	}

	return reserved, nil
}
