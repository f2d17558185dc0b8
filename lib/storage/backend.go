package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/roster/lib/errors"
)

// core is implemented by both `*leveldb.DB` and `*leveldb.Transaction`.
type core interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

// LevelDBBackend holds every roster, ledger and node record. A backend
// returned by `OpenTransaction` shares the database of its parent and writes
// into the transaction.
type LevelDBBackend struct {
	db   *leveldb.DB
	core core
	tx   *leveldb.Transaction
}

func coreError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}

	return errors.NewError(
		errors.StorageCoreError.Code,
		fmt.Sprintf("%s: %s", errors.StorageCoreError.Message, err.Error()),
	)
}

func NewStorage(config *Config) (*LevelDBBackend, error) {
	var db *leveldb.DB
	var err error

	switch config.Scheme {
	case "file":
		db, err = leveldb.OpenFile(config.Path, nil)
	case "memory":
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	default:
		return nil, errors.StorageCoreError.Clone().SetData("error", "unknown storage scheme: "+config.Scheme)
	}
	if err != nil {
		return nil, coreError(err)
	}

	return &LevelDBBackend{db: db, core: db}, nil
}

// Close closes the database; on a transaction backend it does nothing.
func (st *LevelDBBackend) Close() error {
	if st.db == nil || st.tx != nil {
		return nil
	}

	return st.db.Close()
}

func (st *LevelDBBackend) IsTransaction() bool {
	return st.tx != nil
}

// OpenTransaction returns a backend whose writes are only visible after
// `Commit`. Until then every other write to the database blocks.
func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if st.IsTransaction() {
		return nil, errors.StorageTransactionInProcess
	}

	tx, err := st.db.OpenTransaction()
	if err != nil {
		return nil, coreError(err)
	}

	return &LevelDBBackend{db: st.db, core: tx, tx: tx}, nil
}

func (st *LevelDBBackend) Discard() error {
	if st.tx == nil {
		return errors.StorageTransactionNotOpened
	}

	st.tx.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	if st.tx == nil {
		return errors.StorageTransactionNotOpened
	}

	return coreError(st.tx.Commit())
}

// Update runs `fn` inside a new transaction. The transaction is committed
// when `fn` returns nil and discarded otherwise.
func (st *LevelDBBackend) Update(fn func(ts *LevelDBBackend) error) error {
	ts, err := st.OpenTransaction()
	if err != nil {
		return err
	}

	if err = fn(ts); err != nil {
		ts.Discard()
		return err
	}

	return ts.Commit()
}
