package engine

import (
	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/data"
	"github.com/ignitedb/ignite/internal/storage"
	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
)

// Merge implements §4.8: it rewrites every reachable key into a fresh
// sequence of files in a sibling `<dir>-merge` workspace so that records
// superseded by later writes or deletes can be reclaimed. Readers and
// writers continue to operate on the live directory throughout; the merge
// only becomes visible the next time the database is opened, when
// compaction.RecoverFromMerge swaps the workspace in.
func (e *Engine) Merge() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	if !e.mergingLock.TryLock() {
		return ignerrors.ErrMergeInProgress
	}
	defer e.mergingLock.Unlock()

	stat, err := e.Stat()
	if err != nil {
		return err
	}
	if stat.DiskSize == 0 || float32(stat.ReclaimSize)/float32(stat.DiskSize) < e.opts.DataFileMergeRatio {
		return ignerrors.ErrMergeRatioUnreached
	}

	liveEstimate := stat.DiskSize - stat.ReclaimSize
	available, err := filesys.AvailableDiskSpace(e.opts.DirPath)
	if err != nil {
		return err
	}
	if available < uint64(liveEstimate) {
		return ignerrors.ErrMergeNoEnoughSpace
	}

	eligibleIDs, newActiveID, err := e.rotateForMerge()
	if err != nil {
		return err
	}

	mergeDir := compaction.MergeDirPath(e.opts.DirPath)
	if err := filesys.DeleteDir(mergeDir); err != nil {
		return err
	}
	if err := filesys.CreateDir(mergeDir, 0755, true); err != nil {
		return err
	}

	mergeEngine, err := Open(&Config{
		Options: withDirPath(e.opts, mergeDir),
		Logger:  e.log,
	})
	if err != nil {
		return err
	}

	hint, err := storage.OpenAuxiliary(mergeDir, storage.HintFileName, e.log)
	if err != nil {
		mergeEngine.Close()
		return err
	}

	for _, id := range eligibleIDs {
		if err := e.mergeFile(id, mergeEngine, hint); err != nil {
			hint.Close()
			mergeEngine.Close()
			return err
		}
	}

	if err := hint.Sync(); err != nil {
		hint.Close()
		mergeEngine.Close()
		return err
	}
	if err := hint.Close(); err != nil {
		mergeEngine.Close()
		return err
	}

	if err := mergeEngine.Sync(); err != nil {
		mergeEngine.Close()
		return err
	}
	if err := mergeEngine.Close(); err != nil {
		return err
	}

	marker, err := storage.OpenAuxiliary(mergeDir, storage.MergeFinishedFileName, e.log)
	if err != nil {
		return err
	}
	if err := marker.WriteMarker("merge.finished", uint64(newActiveID)); err != nil {
		marker.Close()
		return err
	}
	return marker.Close()
}

// rotateForMerge syncs and demotes the current active file, opens a new
// active file, and returns the ids of every now-immutable file strictly
// below the new active id: the set merge is eligible to rewrite.
func (e *Engine) rotateForMerge() ([]uint32, uint32, error) {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	if err := e.active.Sync(); err != nil {
		return nil, 0, err
	}

	e.olderMu.Lock()
	e.older[e.active.FileID] = e.active
	e.olderMu.Unlock()

	newActiveID := e.active.FileID + 1
	newActive, err := storage.Open(e.opts.DirPath, newActiveID, storage.StandardFileIO, e.log)
	if err != nil {
		return nil, 0, err
	}
	e.active = newActive

	ids := e.allFileIDsAscending()
	eligible := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if id < newActiveID {
			eligible = append(eligible, id)
		}
	}

	return eligible, newActiveID, nil
}

// mergeFile scans every record in file id, strips its seq_no prefix and
// re-emits it with seq_no 0; a record survives iff its (file_id, offset)
// exactly matches the position the live index currently holds for its key
// — anything else has been superseded or deleted and is dropped.
func (e *Engine) mergeFile(id uint32, mergeEngine *Engine, hint *storage.DataFile) error {
	df := e.fileByID(id)
	if df == nil {
		return nil
	}

	var offset int64
	for {
		record, size, err := df.ReadLogRecord(offset)
		if err != nil {
			if err == ignerrors.ErrReadDataFileEOF {
				break
			}
			return err
		}

		userKey, _, err := data.ParseKeyWithSeq(record.Key)
		if err != nil {
			return err
		}

		if record.Type != data.RecordTxnFinished {
			currentPos, found, err := e.idx.Get(userKey)
			if err != nil {
				return err
			}
			if found && currentPos.FileID == id && currentPos.Offset == uint64(offset) {
				rewritten := &data.Record{
					Key:   data.KeyWithSeq(userKey, 0),
					Value: record.Value,
					Type:  record.Type,
				}
				newPos, err := mergeEngine.appendLogRecord(rewritten)
				if err != nil {
					return err
				}
				if err := hint.WriteHintRecord(userKey, newPos); err != nil {
					return err
				}
			}
		}

		offset += size
	}

	return nil
}

// withDirPath returns a copy of opts with DirPath replaced, used to open the
// merge workspace engine with the same configuration as the live one.
func withDirPath(opts *options.Options, dirPath string) *options.Options {
	copied := *opts
	copied.DirPath = dirPath
	return &copied
}
