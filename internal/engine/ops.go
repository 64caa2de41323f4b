package engine

import (
	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/internal/storage"
	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
)

// appendLogRecord implements §4.5's append_log_record: it holds the
// active-file write lock for the duration, rotating to a fresh active file
// first if the record wouldn't fit, then appends and returns the record's
// Position.
func (e *Engine) appendLogRecord(rec *data.Record) (data.Position, error) {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	encoded := data.Encode(rec)
	n := int64(len(encoded))

	if e.active.WriteOffset+n > int64(e.opts.DataFileSize) {
		if err := e.active.Sync(); err != nil {
			return data.Position{}, ignerrors.ErrFailedSyncDataFile
		}

		e.olderMu.Lock()
		e.older[e.active.FileID] = e.active
		e.olderMu.Unlock()

		newFile, err := storage.Open(e.opts.DirPath, e.active.FileID+1, storage.StandardFileIO, e.log)
		if err != nil {
			return data.Position{}, err
		}
		e.active = newFile
		e.bytesSinceSync = 0
	}

	offset := e.active.WriteOffset
	if _, err := e.active.Write(encoded); err != nil {
		return data.Position{}, ignerrors.ErrFailedWriteDataFile
	}

	e.bytesSinceSync += uint(n)
	if e.opts.SyncWrites || (e.opts.BytesPerSync > 0 && e.bytesSinceSync >= e.opts.BytesPerSync) {
		if err := e.active.Sync(); err != nil {
			return data.Position{}, ignerrors.ErrFailedSyncDataFile
		}
		e.bytesSinceSync = 0
	}

	return data.Position{FileID: e.active.FileID, Offset: uint64(offset), Size: uint32(n)}, nil
}

// Put implements §4.5 put: a non-transactional (seq_no = 0) write.
func (e *Engine) Put(key, value []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if len(key) == 0 {
		return ignerrors.ErrKeyIsEmpty
	}

	rec := &data.Record{Key: data.KeyWithSeq(key, 0), Value: value, Type: data.RecordNormal}
	pos, err := e.appendLogRecord(rec)
	if err != nil {
		return err
	}

	prev, existed, err := e.idx.Put(key, pos)
	if err != nil {
		return err
	}
	if existed {
		e.reclaimSize.Add(int64(prev.Size))
	}
	return nil
}

// Get implements §4.5 get.
func (e *Engine) Get(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if len(key) == 0 {
		return nil, ignerrors.ErrKeyIsEmpty
	}

	pos, found, err := e.idx.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ignerrors.ErrKeyNotFound
	}

	record, err := e.readAt(pos)
	if err != nil {
		return nil, err
	}
	if record.Type == data.RecordDeleted {
		return nil, ignerrors.ErrKeyNotFound
	}

	return record.Value, nil
}

// readAt resolves a Position to its record, reading from the active file if
// its id matches, otherwise from the older-files map.
func (e *Engine) readAt(pos data.Position) (*data.Record, error) {
	e.activeMu.RLock()
	if e.active != nil && e.active.FileID == pos.FileID {
		df := e.active
		e.activeMu.RUnlock()
		record, _, err := df.ReadLogRecord(int64(pos.Offset))
		return record, err
	}
	e.activeMu.RUnlock()

	e.olderMu.RLock()
	df, ok := e.older[pos.FileID]
	e.olderMu.RUnlock()
	if !ok {
		return nil, ignerrors.ErrDataFileNotFound
	}

	record, _, err := df.ReadLogRecord(int64(pos.Offset))
	return record, err
}

// Delete implements §4.5 delete: a no-op if the key is absent, otherwise a
// tombstone write whose own bytes are immediately reclaimable.
func (e *Engine) Delete(key []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if len(key) == 0 {
		return ignerrors.ErrKeyIsEmpty
	}

	if _, found, err := e.idx.Get(key); err != nil {
		return err
	} else if !found {
		return nil
	}

	rec := &data.Record{Key: data.KeyWithSeq(key, 0), Value: nil, Type: data.RecordDeleted}
	pos, err := e.appendLogRecord(rec)
	if err != nil {
		return err
	}
	e.reclaimSize.Add(int64(pos.Size))

	prev, existed, err := e.idx.Delete(key)
	if err != nil {
		return err
	}
	if existed {
		e.reclaimSize.Add(int64(prev.Size))
	}
	return nil
}

// Sync flushes the active data file to stable storage.
func (e *Engine) Sync() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	e.activeMu.RLock()
	defer e.activeMu.RUnlock()
	return e.active.Sync()
}

// Stat implements §6's stat(): key count, data-file count (older + active),
// reclaimable bytes, and the directory's on-disk size.
func (e *Engine) Stat() (Stat, error) {
	if e.closed.Load() {
		return Stat{}, ErrEngineClosed
	}

	keyCount, err := e.idx.Size()
	if err != nil {
		return Stat{}, err
	}

	e.olderMu.RLock()
	fileCount := len(e.older) + 1
	e.olderMu.RUnlock()

	diskSize, err := filesys.DirSize(e.opts.DirPath)
	if err != nil {
		return Stat{}, err
	}

	return Stat{
		KeyCount:    keyCount,
		DataFileNum: fileCount,
		ReclaimSize: e.reclaimSize.Load(),
		DiskSize:    diskSize,
	}, nil
}

// ListKeys returns every live key in the database.
func (e *Engine) ListKeys() ([][]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	return e.idx.ListKeys()
}

// Fold walks every live key in index order, invoking fn with each (key,
// value) pair; it stops early if fn returns false.
func (e *Engine) Fold(fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	it, err := e.idx.Iterator(options.DefaultIteratorOptions())
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Valid() {
		record, err := e.readAt(it.Position())
		if err != nil {
			return err
		}
		if !fn(it.Key(), record.Value) {
			break
		}
		if !it.Next() {
			break
		}
	}
	return nil
}
