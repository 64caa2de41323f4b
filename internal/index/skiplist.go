package index

import (
	"bytes"
	"sync"

	"github.com/huandu/skiplist"
	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/options"
)

// bytesKey adapts []byte to huandu/skiplist's Comparable interface so keys
// sort the same way they would in the ordered-map variant.
type bytesKey []byte

func (k bytesKey) CompareTo(other any) int {
	return bytes.Compare(k, other.(bytesKey))
}

// skipListIndex keeps the index in a huandu/skiplist skip list guarded by a
// read-write mutex: Get, ListKeys, Size and Iterator share the read lock;
// Put, Delete and Close take the write lock. Reads are not lock-free.
type skipListIndex struct {
	mu     sync.RWMutex
	list   *skiplist.SkipList
	closed bool
}

func newSkipListIndex() *skipListIndex {
	return &skipListIndex{list: skiplist.New(skiplist.GreaterThanFunc(func(a, b any) int {
		return bytes.Compare(a.(bytesKey), b.(bytesKey))
	}))}
}

func (idx *skipListIndex) Put(key []byte, pos data.Position) (*data.Position, bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil, false, ErrIndexClosed
	}

	k := bytesKey(append([]byte(nil), key...))
	if existing := idx.list.Get(k); existing != nil {
		prev := existing.Value.(data.Position)
		idx.list.Set(k, pos)
		return &prev, true, nil
	}

	idx.list.Set(k, pos)
	return nil, false, nil
}

func (idx *skipListIndex) Get(key []byte) (data.Position, bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return data.Position{}, false, ErrIndexClosed
	}

	elem := idx.list.Get(bytesKey(key))
	if elem == nil {
		return data.Position{}, false, nil
	}
	return elem.Value.(data.Position), true, nil
}

func (idx *skipListIndex) Delete(key []byte) (*data.Position, bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil, false, ErrIndexClosed
	}

	elem := idx.list.Remove(bytesKey(key))
	if elem == nil {
		return nil, false, nil
	}
	prev := elem.Value.(data.Position)
	return &prev, true, nil
}

func (idx *skipListIndex) ListKeys() ([][]byte, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, ErrIndexClosed
	}

	keys := make([][]byte, 0, idx.list.Len())
	for e := idx.list.Front(); e != nil; e = e.Next() {
		keys = append(keys, []byte(e.Key().(bytesKey)))
	}
	return keys, nil
}

func (idx *skipListIndex) Size() (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0, ErrIndexClosed
	}
	return idx.list.Len(), nil
}

func (idx *skipListIndex) Iterator(opts options.IteratorOptions) (Iterator, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, ErrIndexClosed
	}

	entries := make([]entry, 0, idx.list.Len())
	for e := idx.list.Front(); e != nil; e = e.Next() {
		entries = append(entries, entry{key: []byte(e.Key().(bytesKey)), pos: e.Value.(data.Position)})
	}

	if opts.Reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	return newSliceIterator(entries, opts), nil
}

func (idx *skipListIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.list = nil
	return nil
}
