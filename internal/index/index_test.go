package index

import (
	"testing"

	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndexForTest(t *testing.T, indexType options.IndexType) Indexer {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.IndexType = indexType
	opts.DirPath = t.TempDir()

	idx, err := New(&opts)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexerPutGetDeleteAcrossVariants(t *testing.T) {
	for _, variant := range []options.IndexType{options.OrderedMap, options.SkipList, options.BPlusTree} {
		idx := newIndexForTest(t, variant)

		pos := data.Position{FileID: 1, Offset: 10, Size: 20}
		prev, existed, err := idx.Put([]byte("a"), pos)
		require.NoError(t, err)
		assert.False(t, existed)
		assert.Nil(t, prev)

		got, found, err := idx.Get([]byte("a"))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, pos, got)

		newPos := data.Position{FileID: 2, Offset: 30, Size: 40}
		prev, existed, err = idx.Put([]byte("a"), newPos)
		require.NoError(t, err)
		require.True(t, existed)
		require.NotNil(t, prev)
		assert.Equal(t, pos, *prev)

		size, err := idx.Size()
		require.NoError(t, err)
		assert.Equal(t, 1, size)

		prev, existed, err = idx.Delete([]byte("a"))
		require.NoError(t, err)
		require.True(t, existed)
		assert.Equal(t, newPos, *prev)

		_, found, err = idx.Get([]byte("a"))
		require.NoError(t, err)
		assert.False(t, found)

		_, existed, err = idx.Delete([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, existed)
	}
}

func TestIndexerIteratorOrderAndPrefix(t *testing.T) {
	for _, variant := range []options.IndexType{options.OrderedMap, options.SkipList, options.BPlusTree} {
		idx := newIndexForTest(t, variant)

		keys := [][]byte{[]byte("apple"), []byte("apricot"), []byte("banana")}
		for i, k := range keys {
			_, _, err := idx.Put(k, data.Position{FileID: uint32(i)})
			require.NoError(t, err)
		}

		it, err := idx.Iterator(options.IteratorOptions{Prefix: []byte("ap")})
		require.NoError(t, err)
		defer it.Close()

		var got [][]byte
		for it.Valid() {
			got = append(got, append([]byte{}, it.Key()...))
			it.Next()
		}
		assert.Equal(t, [][]byte{[]byte("apple"), []byte("apricot")}, got)
	}
}

func TestIndexerListKeys(t *testing.T) {
	idx := newIndexForTest(t, options.OrderedMap)

	_, _, err := idx.Put([]byte("b"), data.Position{})
	require.NoError(t, err)
	_, _, err = idx.Put([]byte("a"), data.Position{})
	require.NoError(t, err)

	keys, err := idx.ListKeys()
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, keys)
}
