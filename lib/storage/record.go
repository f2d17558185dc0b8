package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
)

type writeMode int

const (
	writeAny writeMode = iota
	writeNew
	writeExisting
)

func encodeValue(v interface{}) ([]byte, error) {
	if serializable, ok := v.(common.Serializable); ok {
		return serializable.Serialize()
	}

	return common.EncodeJSONValue(v)
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.core.Has([]byte(k), nil)
	if err == leveldb.ErrNotFound {
		return false, nil
	}

	return ok, coreError(err)
}

func (st *LevelDBBackend) GetRaw(k string) ([]byte, error) {
	b, err := st.core.Get([]byte(k), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.StorageRecordDoesNotExist
	}

	return b, coreError(err)
}

// Get decodes the json record `k` into `i`.
func (st *LevelDBBackend) Get(k string, i interface{}) error {
	b, err := st.GetRaw(k)
	if err != nil {
		return err
	}

	return coreError(common.DecodeJSONValue(b, i))
}

func (st *LevelDBBackend) write(k string, v interface{}, mode writeMode) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return coreError(err)
	}

	if mode != writeAny {
		exists, err := st.Has(k)
		if err != nil {
			return err
		}
		if mode == writeNew && exists {
			return errors.StorageRecordAlreadyExists
		}
		if mode == writeExisting && !exists {
			return errors.StorageRecordDoesNotExist
		}
	}

	return coreError(st.core.Put([]byte(k), encoded, nil))
}

// New stores a new record, it fails when `k` already exists.
func (st *LevelDBBackend) New(k string, v interface{}) error {
	return st.write(k, v, writeNew)
}

// Set updates an existing record, it fails when `k` does not exist.
func (st *LevelDBBackend) Set(k string, v interface{}) error {
	return st.write(k, v, writeExisting)
}

// Put stores `v` whether `k` exists or not.
func (st *LevelDBBackend) Put(k string, v interface{}) error {
	return st.write(k, v, writeAny)
}

func (st *LevelDBBackend) Remove(k string) error {
	exists, err := st.Has(k)
	if err != nil {
		return err
	}
	if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return coreError(st.core.Delete([]byte(k), nil))
}

// RemoveMany deletes every key in one batch. Missing keys are ignored.
func (st *LevelDBBackend) RemoveMany(keys ...string) error {
	if len(keys) < 1 {
		return nil
	}

	batch := new(leveldb.Batch)
	for _, k := range keys {
		batch.Delete([]byte(k))
	}

	return coreError(st.core.Write(batch, nil))
}
