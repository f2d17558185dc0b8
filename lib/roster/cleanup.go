package roster

import (
	"strings"

	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/storage"
)

// Concluded records wait in a bounded list until `Cleanup` removes them.
//
// models
//  * 'cl-nomination': []string, keys of concluded `Nomination`s
//  * 'cl-expulsion': []string, keys of concluded `ExpulsionProposal`s
const (
	ConcludedNominationsKey = "cl-nomination"
	ConcludedExpulsionsKey  = "cl-expulsion"
)

func getConcluded(st *storage.LevelDBBackend, list string) (keys []string, err error) {
	if err = st.Get(list, &keys); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return []string{}, nil
		}
		return
	}

	return
}

func (tx *txn) conclude(list, key string) error {
	keys, err := getConcluded(tx.st, list)
	if err != nil {
		return err
	}

	if len(keys) >= tx.config.MaxConcluded {
		return capacityExceeded(list, tx.config.MaxConcluded)
	}

	return tx.st.Put(list, append(keys, key))
}

// drain removes at most `limit` records queued in `list`. A record `live`
// reports as still in use leaves the queue but is kept; it is queued again
// when it concludes.
func (tx *txn) drain(list string, limit int, live func(key string) (bool, error)) (removed, queued int, err error) {
	var keys []string
	if keys, err = getConcluded(tx.st, list); err != nil {
		return
	}
	if len(keys) < 1 {
		return
	}

	n := len(keys)
	if limit > 0 && n > limit {
		n = limit
	}

	var removable []string
	for _, key := range keys[:n] {
		var ok bool
		if ok, err = live(key); err != nil {
			return
		} else if ok {
			log.Debug("concluded key refers to a live record", "list", list, "key", key)
			continue
		}
		removable = append(removable, key)
	}

	if err = tx.st.RemoveMany(removable...); err != nil {
		return
	}

	rest := keys[n:]
	if len(rest) < 1 {
		err = tx.st.RemoveMany(list)
	} else {
		err = tx.st.Put(list, rest)
	}

	return len(removable), len(rest), err
}

// dropConcluded takes the keys starting with `prefix` out of `list`.
func (tx *txn) dropConcluded(list, prefix string) error {
	keys, err := getConcluded(tx.st, list)
	if err != nil {
		return err
	}

	rest := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			rest = append(rest, key)
		}
	}
	if len(rest) == len(keys) {
		return nil
	}
	if len(rest) < 1 {
		return tx.st.RemoveMany(list)
	}

	return tx.st.Put(list, rest)
}

// liveNomination is true while the roster still refers to the nomination,
// that is while it is pending or approved and not yet joined.
func (tx *txn) liveNomination(key string) (bool, error) {
	var n Nomination
	if err := tx.st.Get(key, &n); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return false, nil
		}
		return false, err
	}

	var r Roster
	if err := tx.st.Get(GetRosterKey(n.RosterID), &r); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return false, nil
		}
		return false, err
	}

	return r.hasNominationRef(n.Nominee), nil
}

func (tx *txn) liveProposal(key string) (bool, error) {
	var p ExpulsionProposal
	if err := tx.st.Get(key, &p); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return false, nil
		}
		return false, err
	}

	return p.Status.IsOpen(), nil
}

type CleanupResult struct {
	Nominations int `json:"nominations"`
	Expulsions  int `json:"expulsions"`
}

// Cleanup drains one batch from each concluded list. Running it on empty
// lists does nothing.
func (e *Engine) Cleanup() (result CleanupResult, err error) {
	err = e.run("cleanup", func(tx *txn) error {
		var queued int
		var err error

		result.Nominations, queued, err = tx.drain(ConcludedNominationsKey, tx.config.CleanupBatch, tx.liveNomination)
		if err != nil {
			return err
		}
		e.metrics.Cleanup(metrics.CleanupNominations, result.Nominations, queued)

		result.Expulsions, queued, err = tx.drain(ConcludedExpulsionsKey, tx.config.CleanupBatch, tx.liveProposal)
		if err != nil {
			return err
		}
		e.metrics.Cleanup(metrics.CleanupExpulsions, result.Expulsions, queued)

		return nil
	})

	if err == nil && (result.Nominations > 0 || result.Expulsions > 0) {
		log.Debug("cleaned up concluded records", "nominations", result.Nominations, "expulsions", result.Expulsions)
	}

	return
}

// Concluded returns the keys waiting in `list`.
func (e *Engine) Concluded(list string) (keys []string, err error) {
	err = e.read(func(st *storage.LevelDBBackend) error {
		keys, err = getConcluded(st, list)
		return err
	})

	return
}
