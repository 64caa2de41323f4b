package index

import (
	"bytes"
	"sync"

	"github.com/google/btree"
	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/options"
)

// orderedItem is the value type stored in the btree.BTreeG; ordering is by
// key only, position travels along as payload.
type orderedItem struct {
	key []byte
	pos data.Position
}

func orderedLess(a, b orderedItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// orderedMapIndex keeps the index in a google/btree ordered map guarded by a
// read-write mutex; this is the default index variant.
type orderedMapIndex struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[orderedItem]
	closed bool
}

func newOrderedMapIndex() *orderedMapIndex {
	return &orderedMapIndex{tree: btree.NewG(32, orderedLess)}
}

func (idx *orderedMapIndex) Put(key []byte, pos data.Position) (*data.Position, bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil, false, ErrIndexClosed
	}

	old, existed := idx.tree.ReplaceOrInsert(orderedItem{key: key, pos: pos})
	if existed {
		prev := old.pos
		return &prev, true, nil
	}
	return nil, false, nil
}

func (idx *orderedMapIndex) Get(key []byte) (data.Position, bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return data.Position{}, false, ErrIndexClosed
	}

	item, ok := idx.tree.Get(orderedItem{key: key})
	if !ok {
		return data.Position{}, false, nil
	}
	return item.pos, true, nil
}

func (idx *orderedMapIndex) Delete(key []byte) (*data.Position, bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil, false, ErrIndexClosed
	}

	old, existed := idx.tree.Delete(orderedItem{key: key})
	if !existed {
		return nil, false, nil
	}
	prev := old.pos
	return &prev, true, nil
}

func (idx *orderedMapIndex) ListKeys() ([][]byte, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, ErrIndexClosed
	}

	keys := make([][]byte, 0, idx.tree.Len())
	idx.tree.Ascend(func(item orderedItem) bool {
		keys = append(keys, item.key)
		return true
	})
	return keys, nil
}

func (idx *orderedMapIndex) Size() (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0, ErrIndexClosed
	}
	return idx.tree.Len(), nil
}

func (idx *orderedMapIndex) Iterator(opts options.IteratorOptions) (Iterator, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, ErrIndexClosed
	}

	entries := make([]entry, 0, idx.tree.Len())
	idx.tree.Ascend(func(item orderedItem) bool {
		entries = append(entries, entry{key: item.key, pos: item.pos})
		return true
	})

	if opts.Reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	return newSliceIterator(entries, opts), nil
}

func (idx *orderedMapIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.tree = nil
	return nil
}
