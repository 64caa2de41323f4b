// Package engine implements the core IgniteDB engine: opening a database
// directory (with crash recovery and merge-swap finalization), the
// put/get/delete write and read paths with single-writer rotation, batch
// commits and the user-facing iterator. It's the coordinator every other
// package (index, storage, compaction) is wired through.
package engine

import (
	stdErrors "errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/storage"
	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned by any operation attempted after Close.
var ErrEngineClosed = stdErrors.New("engine: operation failed, engine is closed")

// Open validates opts, acquires the directory lock, runs merge-recovery and
// the data-file recovery scan, and returns a ready-to-use Engine.
func Open(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, ignerrors.NewValidationError(
			nil, ignerrors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required")
	}

	opts := config.Options
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	exists, err := filesys.Exists(opts.DirPath)
	if err != nil {
		return nil, ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to stat database directory").
			WithPath(opts.DirPath)
	}

	isInitial := !exists
	if err := filesys.CreateDir(opts.DirPath, 0755, true); err != nil {
		return nil, ignerrors.ErrFailedCreateDatabaseDir
	}

	if !isInitial {
		entries, err := filesys.ReadDir(filepath.Join(opts.DirPath, "*"))
		if err != nil {
			return nil, ignerrors.ErrFailedReadDatabaseDir
		}
		isInitial = len(entries) == 0
	}

	dirLock := flock.New(filepath.Join(opts.DirPath, storage.LockFileName))
	locked, err := dirLock.TryLock()
	if err != nil {
		return nil, ignerrors.NewEngineError(err, ignerrors.ErrorCodeIO, "failed to acquire directory lock").
			WithOperation("Open")
	}
	if !locked {
		return nil, ignerrors.ErrDatabaseIsUsing
	}

	e := &Engine{
		opts:      opts,
		log:       config.Logger,
		dirLock:   dirLock,
		isInitial: isInitial,
		older:     make(map[uint32]*storage.DataFile),
	}

	if err := compaction.RecoverFromMerge(opts.DirPath, config.Logger); err != nil {
		dirLock.Unlock()
		return nil, err
	}

	idx, err := index.New(opts)
	if err != nil {
		dirLock.Unlock()
		return nil, err
	}
	e.idx = idx

	if err := e.loadDataFiles(); err != nil {
		idx.Close()
		dirLock.Unlock()
		return nil, err
	}

	if opts.IndexType != options.BPlusTree {
		if err := e.loadHintFile(); err != nil {
			idx.Close()
			dirLock.Unlock()
			return nil, err
		}
		maxSeqNo, err := e.loadDataFileScan()
		if err != nil {
			idx.Close()
			dirLock.Unlock()
			return nil, err
		}
		e.seqNo.Store(maxSeqNo + 1)

		if opts.MMapAtStartup {
			if err := e.swapAllToStandardIO(); err != nil {
				idx.Close()
				dirLock.Unlock()
				return nil, err
			}
		}
	} else {
		if err := e.loadSeqNoFile(); err != nil {
			idx.Close()
			dirLock.Unlock()
			return nil, err
		}
	}

	return e, nil
}

func validateOptions(opts *options.Options) error {
	if opts.DirPath == "" {
		return ignerrors.ErrDirPathIsEmpty
	}
	if opts.DataFileSize == 0 {
		return ignerrors.ErrDataFileSizeTooSmall
	}
	if opts.DataFileMergeRatio < 0 || opts.DataFileMergeRatio > 1 {
		return ignerrors.ErrInvalidMergeRatio
	}
	return nil
}

// Close writes the seq-no marker (so a B+ tree index can restore it on next
// open), syncs the active file, closes every open data file and the index,
// and releases the directory lock. A failure to write the seq-no marker is
// logged, not returned; every later failure is aggregated via multierr
// rather than discarded after the first, since a failed index close or a
// failed unlock are both worth surfacing even if an earlier step also failed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	if err := e.writeSeqNoFile(); err != nil {
		e.log.Warnw("failed to persist seq-no file on close", "error", err)
	}

	var closeErr error

	e.activeMu.Lock()
	if e.active != nil {
		closeErr = multierr.Append(closeErr, e.active.Sync())
		closeErr = multierr.Append(closeErr, e.active.Close())
	}
	e.activeMu.Unlock()

	e.olderMu.Lock()
	for _, df := range e.older {
		closeErr = multierr.Append(closeErr, df.Close())
	}
	e.olderMu.Unlock()

	closeErr = multierr.Append(closeErr, e.idx.Close())
	closeErr = multierr.Append(closeErr, e.dirLock.Unlock())

	return closeErr
}

func (e *Engine) writeSeqNoFile() error {
	df, err := storage.OpenAuxiliary(e.opts.DirPath, storage.SeqNoFileName, e.log)
	if err != nil {
		return err
	}
	defer df.Close()
	return df.WriteMarker("seq-no", e.seqNo.Load())
}

// loadSeqNoFile implements §4.6 step 9 for the B+ tree index variant: if a
// seq-no marker survived a clean shutdown, restore it and remove the file
// (it's a single-use breadcrumb, not a durable log); the active file's
// WriteOffset is already the file's physical size from loadDataFiles, since
// this variant never replays the log to discover it.
func (e *Engine) loadSeqNoFile() error {
	path := filepath.Join(e.opts.DirPath, storage.SeqNoFileName)
	if exists, _ := filesys.Exists(path); !exists {
		return nil
	}

	df, err := storage.OpenAuxiliary(e.opts.DirPath, storage.SeqNoFileName, e.log)
	if err != nil {
		return err
	}
	value, err := df.ReadMarker()
	df.Close()
	if err != nil {
		return err
	}

	e.seqNo.Store(value)
	e.hadSeqNoFile = true
	return os.Remove(path)
}
