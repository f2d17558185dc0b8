package storage

import (
	"bytes"
	"sync"

	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"
)

// WalkFunc stops the walk by returning false or an error.
type WalkFunc func(key, value []byte) (bool, error)

func prefixRange(prefix string) *leveldbUtil.Range {
	if len(prefix) < 1 {
		return nil
	}

	return leveldbUtil.BytesPrefix([]byte(prefix))
}

// position moves `iter` to the first item of a page. `cursor` is exclusive;
// it is the last key of the previous page.
func position(iter leveldbIterator.Iterator, cursor []byte, reverse bool) bool {
	if reverse {
		if cursor == nil {
			return iter.Last()
		}
		if iter.Seek(cursor) {
			return iter.Prev()
		}
		return iter.Last()
	}

	if cursor == nil {
		return iter.First()
	}
	if !iter.Seek(cursor) {
		return false
	}
	if bytes.Equal(iter.Key(), cursor) {
		return iter.Next()
	}

	return true
}

// GetIterator pages through the records under `prefix`. The returned
// release func must be called when the caller stops early; it is safe to
// call it more than once.
func (st *LevelDBBackend) GetIterator(prefix string, options ListOptions) (func() (IterItem, bool), func()) {
	reverse, limit := options.Reverse, options.Limit

	iter := st.core.NewIterator(prefixRange(prefix), nil)
	ok := position(iter, options.Cursor, reverse)

	var once sync.Once
	release := func() {
		once.Do(func() {
			ok = false
			iter.Release()
		})
	}

	var n uint64
	next := func() (IterItem, bool) {
		if !ok || (limit > 0 && n >= limit) {
			release()
			return IterItem{}, false
		}

		n++
		item := IterItem{
			N:     n,
			Key:   append([]byte{}, iter.Key()...),
			Value: append([]byte{}, iter.Value()...),
		}

		if reverse {
			ok = iter.Prev()
		} else {
			ok = iter.Next()
		}

		return item, true
	}

	return next, release
}

// Walk calls `fn` for every record under `prefix` in key order. `key` and
// `value` are only valid during the call.
func (st *LevelDBBackend) Walk(prefix string, fn WalkFunc) error {
	iter := st.core.NewIterator(prefixRange(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		next, err := fn(iter.Key(), iter.Value())
		if err != nil {
			return err
		}
		if !next {
			break
		}
	}

	return coreError(iter.Error())
}

// Keys returns every key under `prefix` in order.
func (st *LevelDBBackend) Keys(prefix string) (keys []string, err error) {
	err = st.Walk(prefix, func(key, _ []byte) (bool, error) {
		keys = append(keys, string(key))
		return true, nil
	})

	return
}
