package engine

import (
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/pkg/options"
)

// Iterator is the user-facing cursor over a database's keyspace: a thin
// wrapper around an index.Iterator snapshot that resolves each entry's
// value through the owning Engine on demand, per §4.4's iterator contract.
type Iterator struct {
	engine *Engine
	inner  index.Iterator
}

// Iterator returns a new Iterator snapshotting the current index state.
func (e *Engine) Iterator(opts options.IteratorOptions) (*Iterator, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	inner, err := e.idx.Iterator(opts)
	if err != nil {
		return nil, err
	}

	return &Iterator{engine: e, inner: inner}, nil
}

// Rewind resets the iterator to its first entry.
func (it *Iterator) Rewind() {
	it.inner.Rewind()
}

// Seek advances to the first entry at or past key (per the iterator's
// configured direction).
func (it *Iterator) Seek(key []byte) {
	it.inner.Seek(key)
}

// Next advances to the following entry.
func (it *Iterator) Next() bool {
	return it.inner.Next()
}

// Valid reports whether the iterator currently points at an entry.
func (it *Iterator) Valid() bool {
	return it.inner.Valid()
}

// Key returns the current entry's key.
func (it *Iterator) Key() []byte {
	return it.inner.Key()
}

// Value resolves and returns the current entry's value by reading its
// record off disk.
func (it *Iterator) Value() ([]byte, error) {
	record, err := it.engine.readAt(it.inner.Position())
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// Close releases resources held by the underlying index iterator.
func (it *Iterator) Close() {
	it.inner.Close()
}
