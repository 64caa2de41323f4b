package options

const (
	// DefaultDirPath is the default base directory where IgniteDB stores its
	// data files if no other directory is specified.
	DefaultDirPath = "/var/lib/ignitedb"

	// DefaultDataFileSize is the default rotation threshold for data files
	// (256 MiB).
	DefaultDataFileSize uint64 = 256 * 1024 * 1024

	// DefaultDataFileMergeRatio is the default minimum reclaim ratio
	// required before Merge() is allowed to run.
	DefaultDataFileMergeRatio float32 = 0.5
)

// defaultOptions holds the default configuration settings for an IgniteDB instance.
var defaultOptions = Options{
	DirPath:            DefaultDirPath,
	DataFileSize:       DefaultDataFileSize,
	SyncWrites:         false,
	BytesPerSync:       0,
	IndexType:          OrderedMap,
	MMapAtStartup:      false,
	DataFileMergeRatio: DefaultDataFileMergeRatio,
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
