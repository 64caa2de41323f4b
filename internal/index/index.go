// Package index defines the polymorphic key → Position map every Engine is
// built on, and its three interchangeable implementations: an ordered map
// over google/btree guarded by a read-write lock, a skip list from
// huandu/skiplist also guarded by a read-write lock, and a disk-persistent
// B+ tree backed by
// go.etcd.io/bbolt. All three satisfy the same Indexer contract so the
// engine's put/get/delete/recovery logic never needs to know which variant
// is mounted.
package index

import (
	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/options"
)

// ErrIndexClosed is returned by any operation attempted after Close.
var ErrIndexClosed = stdErrors.New("index: operation failed, index is closed")

// Indexer is the capability set every index variant implements: put, get,
// delete, key enumeration and snapshot iteration. Put and Delete return the
// position the key previously mapped to, if any, so the engine can account
// reclaimable bytes without a separate lookup.
type Indexer interface {
	// Put inserts or overwrites key's position, returning the position it
	// previously held, if one existed.
	Put(key []byte, pos data.Position) (prev *data.Position, existed bool, err error)

	// Get returns key's current position.
	Get(key []byte) (pos data.Position, found bool, err error)

	// Delete removes key, returning the position it held before removal.
	Delete(key []byte) (prev *data.Position, existed bool, err error)

	// ListKeys returns every key currently indexed, in iteration order.
	ListKeys() ([][]byte, error)

	// Size returns the number of keys currently indexed.
	Size() (int, error)

	// Iterator returns a snapshot iterator over (key, position) pairs
	// taken at the moment of the call; it does not observe later
	// mutations.
	Iterator(opts options.IteratorOptions) (Iterator, error)

	// Close releases any resources (open transactions, backing files)
	// held by the index.
	Close() error
}

// Iterator walks a snapshot of (key, position) pairs in key order (or
// reverse, per its configured options), filtering to a prefix if one was
// configured.
type Iterator interface {
	// Rewind resets the iterator to its first entry.
	Rewind()
	// Seek advances to the first entry whose key is ≥ target (or ≤ target
	// if the iterator was constructed in reverse order).
	Seek(key []byte)
	// Next advances to the following entry; it returns false once
	// exhausted.
	Next() bool
	// Valid reports whether the iterator currently points at an entry.
	Valid() bool
	// Key returns the current entry's key.
	Key() []byte
	// Position returns the current entry's position.
	Position() data.Position
	// Close releases any resources the iterator holds.
	Close()
}

// entry is the (key, position) pair snapshot iterators are built from.
type entry struct {
	key []byte
	pos data.Position
}

// sliceIterator implements Iterator over a pre-sorted snapshot slice; it
// backs all three variants (ordered map, skip list and B+ tree), whose
// native iteration order already matches what the Iterator contract requires.
type sliceIterator struct {
	entries []entry
	opts    options.IteratorOptions
	pos     int
}

func newSliceIterator(entries []entry, opts options.IteratorOptions) *sliceIterator {
	it := &sliceIterator{entries: entries, opts: opts}
	it.Rewind()
	return it
}

func (it *sliceIterator) matchesPrefix(key []byte) bool {
	if len(it.opts.Prefix) == 0 {
		return true
	}
	if len(key) < len(it.opts.Prefix) {
		return false
	}
	for i, b := range it.opts.Prefix {
		if key[i] != b {
			return false
		}
	}
	return true
}

func (it *sliceIterator) Rewind() {
	it.pos = -1
	it.advanceToMatch(0)
}

func (it *sliceIterator) advanceToMatch(from int) {
	for i := from; i < len(it.entries); i++ {
		if it.matchesPrefix(it.entries[i].key) {
			it.pos = i
			return
		}
	}
	it.pos = len(it.entries)
}

func (it *sliceIterator) Seek(key []byte) {
	lo, hi := 0, len(it.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		var before bool
		if it.opts.Reverse {
			before = compareBytes(it.entries[mid].key, key) > 0
		} else {
			before = compareBytes(it.entries[mid].key, key) < 0
		}
		if before {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	it.advanceToMatch(lo)
}

func (it *sliceIterator) Next() bool {
	it.advanceToMatch(it.pos + 1)
	return it.Valid()
}

func (it *sliceIterator) Valid() bool {
	return it.pos >= 0 && it.pos < len(it.entries)
}

func (it *sliceIterator) Key() []byte {
	return it.entries[it.pos].key
}

func (it *sliceIterator) Position() data.Position {
	return it.entries[it.pos].pos
}

func (it *sliceIterator) Close() {}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

// New constructs the index variant named by options.Options.IndexType.
func New(opts *options.Options) (Indexer, error) {
	switch opts.IndexType {
	case options.SkipList:
		return newSkipListIndex(), nil
	case options.BPlusTree:
		return newBPlusTreeIndex(opts.DirPath)
	default:
		return newOrderedMapIndex(), nil
	}
}
