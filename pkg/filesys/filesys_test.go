package filesys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSizeSumsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("12345"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("1234567890"), 0644))

	size, err := DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(15), size)
}

func TestCopyDirExcludingSkipsNamedFiles(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep"), []byte("data"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "flock"), []byte("lock"), 0644))

	dest := filepath.Join(t.TempDir(), "dest")
	require.NoError(t, CopyDirExcluding(src, dest, []string{"flock"}))

	_, err := os.Stat(filepath.Join(dest, "keep"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dest, "flock"))
	assert.True(t, os.IsNotExist(err))
}

func TestAvailableDiskSpaceReturnsNonZero(t *testing.T) {
	space, err := AvailableDiskSpace(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, space, uint64(0))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0644))

	ok, err := Exists(present)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.False(t, ok)
}
