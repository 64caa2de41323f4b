package index

import (
	"path/filepath"

	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/options"
	bolt "go.etcd.io/bbolt"
)

// bptreeFileName is the fixed name of the bbolt database file backing the
// persistent index variant, sibling to the data directory's numbered
// segments.
const bptreeFileName = "bptree-index"

// indexBucket is the single bucket every key/position pair lives in.
var indexBucket = []byte("index")

// bPlusTreeIndex persists the index itself to disk via a single bbolt
// bucket; every put/delete runs in its own transaction. Unlike the two
// in-memory variants, the engine does not rebuild this index from the data
// files on open — it survives a restart on its own.
type bPlusTreeIndex struct {
	db *bolt.DB
}

func newBPlusTreeIndex(dirPath string) (*bPlusTreeIndex, error) {
	db, err := bolt.Open(filepath.Join(dirPath, bptreeFileName), 0644, nil)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &bPlusTreeIndex{db: db}, nil
}

func (idx *bPlusTreeIndex) Put(key []byte, pos data.Position) (*data.Position, bool, error) {
	var prev *data.Position

	err := idx.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(indexBucket)
		if old := bucket.Get(key); old != nil {
			decoded, err := data.DecodePosition(old)
			if err != nil {
				return err
			}
			prev = &decoded
		}
		return bucket.Put(key, data.EncodePosition(pos))
	})
	if err != nil {
		return nil, false, err
	}

	return prev, prev != nil, nil
}

func (idx *bPlusTreeIndex) Get(key []byte) (data.Position, bool, error) {
	var pos data.Position
	var found bool

	err := idx.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(indexBucket).Get(key)
		if raw == nil {
			return nil
		}
		decoded, err := data.DecodePosition(raw)
		if err != nil {
			return err
		}
		pos, found = decoded, true
		return nil
	})

	return pos, found, err
}

func (idx *bPlusTreeIndex) Delete(key []byte) (*data.Position, bool, error) {
	var prev *data.Position

	err := idx.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(indexBucket)
		old := bucket.Get(key)
		if old == nil {
			return nil
		}
		decoded, err := data.DecodePosition(old)
		if err != nil {
			return err
		}
		prev = &decoded
		return bucket.Delete(key)
	})
	if err != nil {
		return nil, false, err
	}

	return prev, prev != nil, nil
}

func (idx *bPlusTreeIndex) ListKeys() ([][]byte, error) {
	var keys [][]byte

	err := idx.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(indexBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		return nil
	})

	return keys, err
}

func (idx *bPlusTreeIndex) Size() (int, error) {
	var n int
	err := idx.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(indexBucket).Stats().KeyN
		return nil
	})
	return n, err
}

func (idx *bPlusTreeIndex) Iterator(opts options.IteratorOptions) (Iterator, error) {
	var entries []entry

	err := idx.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(indexBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			pos, err := data.DecodePosition(v)
			if err != nil {
				return err
			}
			entries = append(entries, entry{key: append([]byte(nil), k...), pos: pos})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	return newSliceIterator(entries, opts), nil
}

func (idx *bPlusTreeIndex) Close() error {
	return idx.db.Close()
}
