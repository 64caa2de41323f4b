package engine

import (
	"testing"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openForTest(t *testing.T, mutate func(*options.Options)) *Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DirPath = t.TempDir()
	if mutate != nil {
		mutate(&opts)
	}

	e, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestPutGetDelete(t *testing.T) {
	e := openForTest(t, nil)

	require.NoError(t, e.Put([]byte("k1"), []byte("v1")))

	got, err := e.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, e.Put([]byte("k1"), []byte("v2")))
	got, err = e.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, e.Delete([]byte("k1")))
	_, err = e.Get([]byte("k1"))
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)

	assert.NoError(t, e.Delete([]byte("never-existed")))
}

func TestPutRejectsEmptyKey(t *testing.T) {
	e := openForTest(t, nil)
	assert.ErrorIs(t, e.Put(nil, []byte("v")), errors.ErrKeyIsEmpty)
}

func TestGetUnknownKey(t *testing.T) {
	e := openForTest(t, nil)
	_, err := e.Get([]byte("missing"))
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestRecoveryAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	open := func() *Engine {
		opts := options.NewDefaultOptions()
		opts.DirPath = dir
		e, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
		require.NoError(t, err)
		return e
	}

	e := open()
	require.NoError(t, e.Put([]byte("a"), []byte("1")))
	require.NoError(t, e.Put([]byte("b"), []byte("2")))
	require.NoError(t, e.Delete([]byte("a")))
	require.NoError(t, e.Close())

	reopened := open()
	defer reopened.Close()

	_, err := reopened.Get([]byte("a"))
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)

	got, err := reopened.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestFileRotationAcrossMultipleDataFiles(t *testing.T) {
	e := openForTest(t, func(o *options.Options) { o.DataFileSize = 64 })

	for i := 0; i < 50; i++ {
		key := []byte{'k', byte(i)}
		require.NoError(t, e.Put(key, []byte("some-reasonably-sized-value")))
	}

	stat, err := e.Stat()
	require.NoError(t, err)
	assert.Greater(t, stat.DataFileNum, 1)
	assert.Equal(t, 50, stat.KeyCount)
}

func TestWriteBatchAtomicity(t *testing.T) {
	e := openForTest(t, nil)

	batch, err := e.NewWriteBatch(options.DefaultBatchOptions())
	require.NoError(t, err)

	require.NoError(t, batch.Put([]byte("x"), []byte("1")))
	require.NoError(t, batch.Put([]byte("y"), []byte("2")))

	// Uncommitted writes are invisible.
	_, err = e.Get([]byte("x"))
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)

	require.NoError(t, batch.Commit())

	got, err := e.Get([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	got, err = e.Get([]byte("y"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestWriteBatchSurvivesRecovery(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DirPath = dir

	e, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	require.NoError(t, err)

	batch, err := e.NewWriteBatch(options.DefaultBatchOptions())
	require.NoError(t, err)
	require.NoError(t, batch.Put([]byte("x"), []byte("1")))
	require.NoError(t, batch.Commit())
	require.NoError(t, e.Close())

	reopened, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
}

func TestIteratorOrderAndValueResolution(t *testing.T) {
	e := openForTest(t, nil)

	require.NoError(t, e.Put([]byte("banana"), []byte("2")))
	require.NoError(t, e.Put([]byte("apple"), []byte("1")))

	it, err := e.Iterator(options.DefaultIteratorOptions())
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Valid())
	assert.Equal(t, []byte("apple"), it.Key())
	v, err := it.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.True(t, it.Next())
	assert.Equal(t, []byte("banana"), it.Key())
	assert.False(t, it.Next())
}

func TestFoldStopsEarly(t *testing.T) {
	e := openForTest(t, nil)
	require.NoError(t, e.Put([]byte("a"), []byte("1")))
	require.NoError(t, e.Put([]byte("b"), []byte("2")))
	require.NoError(t, e.Put([]byte("c"), []byte("3")))

	var seen int
	err := e.Fold(func(key, value []byte) bool {
		seen++
		return seen < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestMergeReclaimsSpaceAndPreservesData(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DirPath = dir
	opts.DataFileSize = 64
	opts.DataFileMergeRatio = 0

	e, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		key := []byte{'k', byte(i % 10)}
		require.NoError(t, e.Put(key, []byte("some-reasonably-sized-value")))
	}

	require.NoError(t, e.Merge())
	require.NoError(t, e.Close())

	reopened, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	require.NoError(t, err)
	defer reopened.Close()

	stat, err := reopened.Stat()
	require.NoError(t, err)
	assert.Equal(t, 10, stat.KeyCount)

	for i := 0; i < 10; i++ {
		key := []byte{'k', byte(i)}
		got, err := reopened.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte("some-reasonably-sized-value"), got)
	}
}

func TestMergeRejectsConcurrentMerge(t *testing.T) {
	e := openForTest(t, func(o *options.Options) { o.DataFileMergeRatio = 0 })
	require.NoError(t, e.Put([]byte("a"), []byte("1")))

	e.mergingLock.Lock()
	defer e.mergingLock.Unlock()

	err := e.Merge()
	assert.ErrorIs(t, err, errors.ErrMergeInProgress)
}

func TestDoubleOpenFailsWithDirectoryLock(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DirPath = dir

	e, err := Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	require.NoError(t, err)
	defer e.Close()

	_, err = Open(&Config{Options: &opts, Logger: logger.NewDevelopment("engine-test")})
	assert.ErrorIs(t, err, errors.ErrDatabaseIsUsing)
}

func TestOperationsFailAfterClose(t *testing.T) {
	e := openForTest(t, nil)
	require.NoError(t, e.Close())

	assert.ErrorIs(t, e.Put([]byte("a"), []byte("1")), ErrEngineClosed)
	_, err := e.Get([]byte("a"))
	assert.ErrorIs(t, err, ErrEngineClosed)
}
