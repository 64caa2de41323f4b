package ignite

import (
	"path/filepath"
	"testing"

	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openForTest(t *testing.T) *Instance {
	t.Helper()
	dir := t.TempDir()
	inst, err := Open("ignite-test", options.WithDirPath(dir))
	require.NoError(t, err)
	t.Cleanup(func() { inst.Close() })
	return inst
}

func TestInstancePutGetDelete(t *testing.T) {
	inst := openForTest(t)

	require.NoError(t, inst.Put([]byte("k"), []byte("v")))
	got, err := inst.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, inst.Delete([]byte("k")))
	_, err = inst.Get([]byte("k"))
	assert.Error(t, err)
}

func TestInstanceStatAndListKeys(t *testing.T) {
	inst := openForTest(t)

	require.NoError(t, inst.Put([]byte("a"), []byte("1")))
	require.NoError(t, inst.Put([]byte("b"), []byte("2")))

	stat, err := inst.Stat()
	require.NoError(t, err)
	assert.Equal(t, 2, stat.KeyCount)

	keys, err := inst.ListKeys()
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]byte{[]byte("a"), []byte("b")}, keys)
}

func TestInstanceBackup(t *testing.T) {
	inst := openForTest(t)
	require.NoError(t, inst.Put([]byte("k"), []byte("v")))
	require.NoError(t, inst.Sync())

	backupDir := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, inst.Backup(backupDir))

	restored, err := Open("ignite-test-restore", options.WithDirPath(backupDir))
	require.NoError(t, err)
	defer restored.Close()

	got, err := restored.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestInstanceWriteBatch(t *testing.T) {
	inst := openForTest(t)

	batch, err := inst.NewWriteBatch(options.DefaultBatchOptions())
	require.NoError(t, err)
	require.NoError(t, batch.Put([]byte("x"), []byte("1")))
	require.NoError(t, batch.Commit())

	got, err := inst.Get([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
}
