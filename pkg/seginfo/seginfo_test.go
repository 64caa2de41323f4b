package seginfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseDataFileName(t *testing.T) {
	name := GenerateDataFileName(42)
	assert.Equal(t, "000000042.data", name)

	id, err := ParseDataFileID(name)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)
}

func TestParseDataFileIDRejectsMalformedNames(t *testing.T) {
	cases := []string{"42.data", "000000042.seg", "not-a-number.data", ""}
	for _, name := range cases {
		_, err := ParseDataFileID(name)
		assert.Error(t, err, name)
	}
}

func TestListDataFileIDsSortsAscendingAndSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	for _, id := range []uint32{3, 0, 1} {
		require.NoError(t, os.WriteFile(DataFilePath(dir, id), nil, 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hint-index"), nil, 0644))

	ids, err := ListDataFileIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 3}, ids)
}
