package storage

import (
	"testing"

	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/seginfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFileWriteAndReadLogRecord(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewDevelopment("storage-test")

	df, err := Open(dir, 0, StandardFileIO, log)
	require.NoError(t, err)
	defer df.Close()

	rec := &data.Record{Key: []byte("k"), Value: []byte("v"), Type: data.RecordNormal}
	encoded := data.Encode(rec)

	offset := df.WriteOffset
	n, err := df.Write(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)

	got, size, err := df.ReadLogRecord(offset)
	require.NoError(t, err)
	assert.Equal(t, int64(len(encoded)), size)
	assert.Equal(t, rec.Key, got.Key)
	assert.Equal(t, rec.Value, got.Value)
}

func TestReadLogRecordReportsEOFAtTail(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewDevelopment("storage-test")

	df, err := Open(dir, 0, StandardFileIO, log)
	require.NoError(t, err)
	defer df.Close()

	rec := &data.Record{Key: []byte("k"), Value: []byte("v"), Type: data.RecordNormal}
	_, err = df.Write(data.Encode(rec))
	require.NoError(t, err)

	_, _, err = df.ReadLogRecord(df.WriteOffset)
	assert.Error(t, err)
}

func TestWriteMarkerReadMarkerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewDevelopment("storage-test")

	df, err := OpenAuxiliary(dir, SeqNoFileName, log)
	require.NoError(t, err)
	defer df.Close()

	require.NoError(t, df.WriteMarker("seq-no", 9001))

	value, err := df.ReadMarker()
	require.NoError(t, err)
	assert.Equal(t, uint64(9001), value)
}

func TestSwapIOTypePreservesWriteOffset(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewDevelopment("storage-test")

	df, err := Open(dir, 1, StandardFileIO, log)
	require.NoError(t, err)
	defer df.Close()

	rec := &data.Record{Key: []byte("k"), Value: []byte("v"), Type: data.RecordNormal}
	_, err = df.Write(data.Encode(rec))
	require.NoError(t, err)
	require.NoError(t, df.Sync())

	offsetBefore := df.WriteOffset
	require.NoError(t, df.SwapIOType(seginfo.DataFilePath(dir, 1), MemoryMappedIO))
	assert.Equal(t, offsetBefore, df.WriteOffset)

	require.NoError(t, df.SwapIOType(seginfo.DataFilePath(dir, 1), StandardFileIO))
	assert.Equal(t, offsetBefore, df.WriteOffset)
}
