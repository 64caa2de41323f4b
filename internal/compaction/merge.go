// Package compaction handles the crash-safe second half of a merge: the
// directory swap that runs at the next engine open after a merge finishes
// writing its `<dir>-merge` workspace. The write half of merge (scanning
// live records into a fresh workspace engine) lives in the engine package
// itself, since it needs full access to the live Engine's index and data
// files; this package stays dependency-free of Engine so the engine package
// can call into it during Open without an import cycle.
package compaction

import (
	"path/filepath"

	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

// MergeDirSuffix names the sibling workspace directory a merge builds its
// clean copy of the keyspace in, e.g. "/var/lib/ignitedb-merge" for a live
// directory at "/var/lib/ignitedb".
const MergeDirSuffix = "-merge"

// MergeDirPath returns the merge workspace sibling of a live database
// directory.
func MergeDirPath(dirPath string) string {
	return dirPath + MergeDirSuffix
}

// RecoverFromMerge implements the merge-recovery-on-open algorithm: if a
// `<dir>-merge` workspace exists, it's either a completed merge awaiting
// finalization (merge-finished is present) or a leftover from a crash
// mid-merge (absent), in which case it's simply discarded. A completed
// merge is finalized by deleting every original data file below the
// boundary, moving the merge workspace's files (including hint-index) into
// the live directory, and removing the workspace.
func RecoverFromMerge(dirPath string, log *zap.SugaredLogger) error {
	mergeDir := MergeDirPath(dirPath)

	exists, err := filesys.Exists(mergeDir)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	finishedPath := filepath.Join(mergeDir, storage.MergeFinishedFileName)
	finishedExists, err := filesys.Exists(finishedPath)
	if err != nil {
		return err
	}
	if !finishedExists {
		log.Warnw("discarding incomplete merge workspace", "path", mergeDir)
		return filesys.DeleteDir(mergeDir)
	}

	boundary, err := readMergeFinishedBoundary(mergeDir, log)
	if err != nil {
		return err
	}

	ids, err := seginfo.ListDataFileIDs(dirPath)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id < boundary {
			if err := filesys.DeleteFile(seginfo.DataFilePath(dirPath, id)); err != nil {
				return err
			}
		}
	}

	entries, err := filesys.ReadDir(filepath.Join(mergeDir, "*"))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		dest := filepath.Join(dirPath, filepath.Base(entry))
		if err := moveFile(entry, dest); err != nil {
			return err
		}
	}

	return filesys.DeleteDir(mergeDir)
}

func moveFile(src, dest string) error {
	if err := filesys.CopyFile(src, dest); err != nil {
		return err
	}
	return filesys.DeleteFile(src)
}

func readMergeFinishedBoundary(dirPath string, log *zap.SugaredLogger) (uint32, error) {
	df, err := storage.OpenAuxiliary(dirPath, storage.MergeFinishedFileName, log)
	if err != nil {
		return 0, err
	}
	defer df.Close()

	value, err := df.ReadMarker()
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}
