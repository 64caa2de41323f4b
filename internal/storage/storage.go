// Package storage implements the append-only, numbered segment files an
// IgniteDB directory is built from: ordinary `{file_id:09}.data` data files,
// and the `hint-index`, `merge-finished` and `seq-no` auxiliary files that
// share the same on-disk record format. Every file is read and written
// through a pluggable IOManager, so recovery can scan with a fast read-only
// memory mapping before the engine swaps back to standard file I/O for
// mutation.
package storage

import (
	stdErrors "errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

// Auxiliary file names, siblings of the numbered data files inside a
// database directory.
const (
	HintFileName          = "hint-index"
	MergeFinishedFileName = "merge-finished"
	SeqNoFileName         = "seq-no"
	LockFileName          = "flock"
)

// Open creates or opens the data file identified by fileID inside dirPath,
// backed by the requested IOManager implementation.
func Open(dirPath string, fileID uint32, ioType IOType, log *zap.SugaredLogger) (*DataFile, error) {
	return open(seginfo.DataFilePath(dirPath, fileID), fileID, ioType, log)
}

// OpenAuxiliary opens one of the fixed-name auxiliary files (hint-index,
// merge-finished, seq-no). These always use standard file I/O; they are
// read and written in full at open/close/merge boundaries, never mmap'd.
func OpenAuxiliary(dirPath, name string, log *zap.SugaredLogger) (*DataFile, error) {
	return open(filepath.Join(dirPath, name), 0, StandardFileIO, log)
}

func open(path string, fileID uint32, ioType IOType, log *zap.SugaredLogger) (*DataFile, error) {
	var mgr IOManager
	var err error

	switch ioType {
	case MemoryMappedIO:
		mgr, err = NewMmapIO(path)
	default:
		mgr, err = NewStandardIO(path)
	}
	if err != nil {
		return nil, err
	}

	size, err := mgr.Size()
	if err != nil {
		mgr.Close()
		return nil, err
	}

	return &DataFile{FileID: fileID, WriteOffset: size, io: mgr, log: log}, nil
}

// ReadLogRecord implements read_log_record: it reads at most MaxHeaderSize
// bytes at offset to learn the record's true header width, then reads
// exactly key+value+crc bytes, decodes the full record and returns it
// alongside its total on-disk size. A run of zero bytes at the read head
// (both lengths decoding to zero) means the tail of the file has been
// reached, reported as ErrReadDataFileEOF so the caller can terminate a scan
// cleanly rather than treat it as corruption.
func (df *DataFile) ReadLogRecord(offset int64) (*data.Record, int64, error) {
	df.mu.RLock()
	defer df.mu.RUnlock()

	headerBuf := make([]byte, data.MaxHeaderSize())
	n, err := df.io.ReadAt(headerBuf, offset)
	if err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, 0, errors.ErrFailedReadDataFile
	}
	if n == 0 {
		return nil, 0, errors.ErrReadDataFileEOF
	}
	headerBuf = headerBuf[:n]

	parts, err := data.ParseHeader(headerBuf)
	if err != nil {
		return nil, 0, errors.ErrReadDataFileEOF
	}
	if parts.KeySize == 0 && parts.ValueSize == 0 {
		return nil, 0, errors.ErrReadDataFileEOF
	}

	recordSize := int64(parts.HeaderSize) + int64(parts.KeySize) + int64(parts.ValueSize) + 4
	recordBuf := make([]byte, recordSize)
	if _, err := df.io.ReadAt(recordBuf, offset); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, 0, errors.ErrFailedReadDataFile
	}

	record, err := data.Decode(recordBuf)
	if err != nil {
		return nil, 0, err
	}

	return record, recordSize, nil
}

// Write appends raw, already-encoded record bytes and advances WriteOffset.
// It holds the DataFile's own lock while appending; the engine additionally
// holds its active-file lock around each append.
func (df *DataFile) Write(b []byte) (int, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	n, err := df.io.Write(b)
	if err != nil {
		return n, err
	}
	df.WriteOffset += int64(n)
	return n, nil
}

// Sync flushes the underlying file to stable storage.
func (df *DataFile) Sync() error {
	return df.io.Sync()
}

// WriteHintRecord appends a Normal record mapping key to pos's encoded
// form, the unit record merge writes into the hint-index file.
func (df *DataFile) WriteHintRecord(key []byte, pos data.Position) error {
	rec := &data.Record{Key: key, Value: data.EncodePosition(pos), Type: data.RecordNormal}
	_, err := df.Write(data.Encode(rec))
	return err
}

// WriteMarker writes a single-field marker record, used by merge-finished
// (key "merge.finished", value = decimal file id) and seq-no (arbitrary key,
// value = decimal seq_no).
func (df *DataFile) WriteMarker(key string, value uint64) error {
	rec := &data.Record{
		Key:   []byte(key),
		Value: []byte(fmt.Sprintf("%d", value)),
		Type:  data.RecordNormal,
	}
	_, err := df.Write(data.Encode(rec))
	if err != nil {
		return err
	}
	return df.Sync()
}

// ReadMarker reads back a single marker record written by WriteMarker,
// returning its decimal value.
func (df *DataFile) ReadMarker() (uint64, error) {
	record, _, err := df.ReadLogRecord(0)
	if err != nil {
		return 0, err
	}
	var value uint64
	if _, err := fmt.Sscanf(string(record.Value), "%d", &value); err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to parse marker value")
	}
	return value, nil
}

// SwapIOType closes the current IOManager and reopens the file at path
// through newType, used once recovery's forward scan finishes to drop the
// read-only mmap and return to a writable standard file descriptor.
func (df *DataFile) SwapIOType(path string, newType IOType) error {
	df.mu.Lock()
	defer df.mu.Unlock()

	if err := df.io.Close(); err != nil {
		return err
	}

	var mgr IOManager
	var err error
	switch newType {
	case MemoryMappedIO:
		mgr, err = NewMmapIO(path)
	default:
		mgr, err = NewStandardIO(path)
	}
	if err != nil {
		return err
	}

	df.io = mgr
	return nil
}

// Close releases the underlying IOManager's resources.
func (df *DataFile) Close() error {
	return df.io.Close()
}
