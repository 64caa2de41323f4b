// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, durability, indexing strategy, and compaction operations.
package options

import "strings"

// IndexType selects which in-memory (or on-disk) index implementation the
// engine uses to map keys to their latest on-disk position.
type IndexType uint8

const (
	// OrderedMap keeps the index in a google/btree ordered map guarded by a
	// read-write mutex. Good general-purpose default.
	OrderedMap IndexType = iota

	// SkipList keeps the index in a skip list guarded by a read-write mutex;
	// reads share the read lock and are not lock-free.
	SkipList

	// BPlusTree persists the index itself to disk (bptree-index, a single
	// bbolt bucket). The engine skips rebuilding this index from the data
	// files on open; it survives restarts on its own.
	BPlusTree
)

// Options defines the configuration parameters for an Ignite database
// instance. It controls storage layout, durability, indexing and compaction.
type Options struct {
	// DirPath is the directory data files, the index and auxiliary files
	// (hint-index, merge-finished, seq-no, flock) are stored under.
	//
	// Default: "/var/lib/ignitedb"
	DirPath string `json:"dirPath"`

	// DataFileSize is the rotation threshold in bytes: once appending a
	// record would push the active file past this size, the engine closes
	// it and opens a new active file. Must be greater than zero.
	//
	// Default: 256 MiB
	DataFileSize uint64 `json:"dataFileSize"`

	// SyncWrites forces an fsync after every single append.
	SyncWrites bool `json:"syncWrites"`

	// BytesPerSync triggers an fsync once this many unsynced bytes have
	// accumulated on the active file. Zero disables byte-count-triggered
	// syncs (sync still happens on close, rotation and merge boundaries).
	BytesPerSync uint `json:"bytesPerSync"`

	// IndexType selects the in-memory index implementation.
	IndexType IndexType `json:"indexType"`

	// MMapAtStartup reads data files through a memory-mapped IO manager
	// during the recovery scan, then swaps every file back to standard file
	// IO once the scan completes. Speeds up opening a large database.
	MMapAtStartup bool `json:"mmapAtStartup"`

	// DataFileMergeRatio is the minimum reclaimable/total byte ratio that
	// must be crossed before Merge() is allowed to run. Must be in [0, 1].
	DataFileMergeRatio float32 `json:"dataFileMergeRatio"`
}

// BatchOptions configures a WriteBatch.
type BatchOptions struct {
	// MaxBatchNum caps how many staged records a single batch may commit.
	MaxBatchNum uint `json:"maxBatchNum"`

	// SyncWrites forces an fsync of the active data file once the batch's
	// records and its TxnFinished marker have all been appended.
	SyncWrites bool `json:"syncWrites"`
}

// IteratorOptions configures an Iterator.
type IteratorOptions struct {
	// Prefix restricts iteration to keys sharing this prefix. Empty disables
	// filtering.
	Prefix []byte `json:"prefix"`

	// Reverse iterates keys from largest to smallest when true.
	Reverse bool `json:"reverse"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDirPath sets the primary data directory for Ignite.
func WithDirPath(dirPath string) OptionFunc {
	return func(o *Options) {
		dirPath = strings.TrimSpace(dirPath)
		if dirPath != "" {
			o.DirPath = dirPath
		}
	}
}

// WithDataFileSize sets the rotation threshold for data files.
func WithDataFileSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.DataFileSize = size
		}
	}
}

// WithSyncWrites enables or disables per-write fsync.
func WithSyncWrites(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncWrites = sync
	}
}

// WithBytesPerSync sets the cumulative-byte fsync threshold.
func WithBytesPerSync(n uint) OptionFunc {
	return func(o *Options) {
		o.BytesPerSync = n
	}
}

// WithIndexType selects the index implementation.
func WithIndexType(t IndexType) OptionFunc {
	return func(o *Options) {
		o.IndexType = t
	}
}

// WithMMapAtStartup enables memory-mapped reads during the recovery scan.
func WithMMapAtStartup(enabled bool) OptionFunc {
	return func(o *Options) {
		o.MMapAtStartup = enabled
	}
}

// WithDataFileMergeRatio sets the minimum reclaim ratio required to merge.
func WithDataFileMergeRatio(ratio float32) OptionFunc {
	return func(o *Options) {
		if ratio >= 0 && ratio <= 1 {
			o.DataFileMergeRatio = ratio
		}
	}
}

// DefaultBatchOptions returns the default write-batch configuration.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{MaxBatchNum: 10000, SyncWrites: true}
}

// DefaultIteratorOptions returns the default iterator configuration.
func DefaultIteratorOptions() IteratorOptions {
	return IteratorOptions{Prefix: nil, Reverse: false}
}
