package engine

import (
	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/internal/storage"
	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

// loadDataFiles implements §4.6 steps 6-7: enumerate {file_id:09}.data
// files, open each, and install the highest id as active with the rest in
// the older-files map. An empty directory gets a fresh file 0 as active.
func (e *Engine) loadDataFiles() error {
	ids, err := seginfo.ListDataFileIDs(e.opts.DirPath)
	if err != nil {
		return ignerrors.ErrFailedReadDatabaseDir
	}

	ioType := storage.StandardFileIO
	if e.opts.MMapAtStartup && e.opts.IndexType != options.BPlusTree {
		ioType = storage.MemoryMappedIO
	}

	if len(ids) == 0 {
		active, err := storage.Open(e.opts.DirPath, 0, storage.StandardFileIO, e.log)
		if err != nil {
			return err
		}
		e.active = active
		return nil
	}

	for i, id := range ids {
		isActive := i == len(ids)-1
		fileIOType := ioType
		if isActive {
			// The active file must always be writable.
			fileIOType = storage.StandardFileIO
		}

		df, err := storage.Open(e.opts.DirPath, id, fileIOType, e.log)
		if err != nil {
			return err
		}

		if isActive {
			e.active = df
		} else {
			e.older[id] = df
		}
	}

	return nil
}

// loadHintFile implements the hint file load: every record's key is a user
// key, its value an encoded Position; both are inserted into the index
// directly, bypassing the seq_no/TxnFinished machinery since hint records
// were already resolved by the merge that wrote them.
func (e *Engine) loadHintFile() error {
	exists, err := filesys.Exists(e.hintFilePath())
	if err != nil || !exists {
		return nil
	}

	hint, err := storage.OpenAuxiliary(e.opts.DirPath, storage.HintFileName, e.log)
	if err != nil {
		return err
	}
	defer hint.Close()

	var offset int64
	for {
		record, size, err := hint.ReadLogRecord(offset)
		if err != nil {
			if err == ignerrors.ErrReadDataFileEOF {
				break
			}
			return err
		}

		pos, err := data.DecodePosition(record.Value)
		if err != nil {
			return err
		}
		if _, _, err := e.idx.Put(record.Key, pos); err != nil {
			return err
		}

		offset += size
	}

	return nil
}

func (e *Engine) hintFilePath() string {
	return e.opts.DirPath + "/" + storage.HintFileName
}

// pendingTxn stages a batch's records until its TxnFinished marker is seen.
type pendingTxn struct {
	key []byte
	pos data.Position
	typ data.RecordType
}

// loadDataFileScan implements the §4.6 data file scan: replay every record
// from every file at or above the first un-merged boundary, apply
// non-transactional writes immediately, stage transactional ones until their
// TxnFinished marker arrives, and silently discard any batch that never
// finished. Returns the maximum seq_no observed.
func (e *Engine) loadDataFileScan() (uint64, error) {
	boundary, err := e.readMergeFinishedBoundary()
	if err != nil {
		return 0, err
	}

	pending := make(map[uint64][]pendingTxn)
	var maxSeqNo uint64

	ids := e.allFileIDsAscending()
	for _, id := range ids {
		if id < boundary {
			continue
		}

		df := e.fileByID(id)
		if df == nil {
			continue
		}

		var offset int64
		for {
			record, size, err := df.ReadLogRecord(offset)
			if err != nil {
				if err == ignerrors.ErrReadDataFileEOF {
					break
				}
				return 0, err
			}

			userKey, seqNo, err := data.ParseKeyWithSeq(record.Key)
			if err != nil {
				return 0, err
			}
			if seqNo > maxSeqNo {
				maxSeqNo = seqNo
			}

			pos := data.Position{FileID: id, Offset: uint64(offset), Size: uint32(size)}

			switch {
			case seqNo == 0:
				e.applyRecoveredRecord(userKey, record.Type, pos)
			case record.Type == data.RecordTxnFinished:
				for _, staged := range pending[seqNo] {
					e.applyRecoveredRecord(staged.key, staged.typ, staged.pos)
				}
				delete(pending, seqNo)
			default:
				pending[seqNo] = append(pending[seqNo], pendingTxn{key: userKey, pos: pos, typ: record.Type})
			}

			offset += size
		}

		if id == e.active.FileID {
			e.active.WriteOffset = offset
		}
	}

	return maxSeqNo, nil
}

func (e *Engine) applyRecoveredRecord(key []byte, typ data.RecordType, pos data.Position) {
	if typ == data.RecordDeleted {
		prev, existed, _ := e.idx.Delete(key)
		if existed {
			e.reclaimSize.Add(int64(pos.Size))
			e.reclaimSize.Add(int64(prev.Size))
		}
		return
	}

	prev, existed, _ := e.idx.Put(key, pos)
	if existed {
		e.reclaimSize.Add(int64(prev.Size))
	}
}

func (e *Engine) readMergeFinishedBoundary() (uint32, error) {
	path := e.opts.DirPath + "/" + storage.MergeFinishedFileName
	exists, err := filesys.Exists(path)
	if err != nil || !exists {
		return 0, nil
	}

	df, err := storage.OpenAuxiliary(e.opts.DirPath, storage.MergeFinishedFileName, e.log)
	if err != nil {
		return 0, err
	}
	defer df.Close()

	boundary, err := df.ReadMarker()
	if err != nil {
		return 0, err
	}
	return uint32(boundary), nil
}

func (e *Engine) allFileIDsAscending() []uint32 {
	e.olderMu.RLock()
	ids := make([]uint32, 0, len(e.older)+1)
	for id := range e.older {
		ids = append(ids, id)
	}
	e.olderMu.RUnlock()

	if e.active != nil {
		ids = append(ids, e.active.FileID)
	}

	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func (e *Engine) fileByID(id uint32) *storage.DataFile {
	if e.active != nil && e.active.FileID == id {
		return e.active
	}
	e.olderMu.RLock()
	defer e.olderMu.RUnlock()
	return e.older[id]
}

// swapAllToStandardIO reverts every data file opened with a memory-mapped
// IOManager back to a writable standard file descriptor, once the recovery
// scan that justified mmap has completed.
func (e *Engine) swapAllToStandardIO() error {
	if e.active != nil {
		if err := e.active.SwapIOType(seginfo.DataFilePath(e.opts.DirPath, e.active.FileID), storage.StandardFileIO); err != nil {
			return err
		}
	}

	e.olderMu.Lock()
	defer e.olderMu.Unlock()
	for id, df := range e.older {
		if err := df.SwapIOType(seginfo.DataFilePath(e.opts.DirPath, id), storage.StandardFileIO); err != nil {
			return err
		}
	}
	return nil
}
