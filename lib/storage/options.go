package storage

// IterItem is one record returned by `GetIterator`; `N` counts from 1.
type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

// ListOptions pages through the records under a prefix. `Cursor` is the
// last key of the previous page and is not returned again. A zero `Limit`
// means no limit.
type ListOptions struct {
	Reverse bool
	Cursor  []byte
	Limit   uint64
}
