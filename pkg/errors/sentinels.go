package errors

// Sentinel errors give callers a stable identity to compare against with
// errors.Is, while every value below is also reachable via errors.As into its
// structured counterpart (ValidationError, StorageError, IndexError or
// EngineError) for callers that want the extra context.
//
// These names mirror the taxonomy in spec.md §7 exactly so the mapping from
// specification to code is a straight lookup.
var (
	// Input errors.
	ErrKeyIsEmpty          = NewValidationError(nil, ErrorCodeInvalidInput, "key is empty").WithField("key").WithRule("required")
	ErrExceedMaxBatchNum   = NewEngineError(nil, ErrorCodeExceedMaxBatchNum, "batch exceeds configured max batch size").WithOperation("Commit")
	ErrInvalidMergeRatio   = NewValidationError(nil, ErrorCodeInvalidInput, "merge ratio must be within [0, 1]").WithField("data_file_merge_ratio").WithRule("range")
	ErrDirPathIsEmpty      = NewValidationError(nil, ErrorCodeInvalidInput, "database directory path is empty").WithField("dir_path").WithRule("required")
	ErrDataFileSizeTooSmall = NewValidationError(nil, ErrorCodeInvalidInput, "data file size must be greater than zero").WithField("data_file_size").WithRule("range")

	// State errors.
	ErrKeyNotFound           = NewIndexError(nil, ErrorCodeIndexKeyNotFound, "key not found in database")
	ErrDataFileNotFound      = NewStorageError(nil, ErrorCodeIO, "data file not found for position")
	ErrDatabaseIsUsing       = NewEngineError(nil, ErrorCodeDatabaseInUse, "database directory is already in use by another process").WithOperation("Open")
	ErrMergeInProgress       = NewEngineError(nil, ErrorCodeMergeInProgress, "a merge is already in progress").WithOperation("Merge")
	ErrMergeRatioUnreached   = NewEngineError(nil, ErrorCodeMergeRatioUnreached, "reclaimable ratio has not crossed the configured merge threshold").WithOperation("Merge")
	ErrMergeNoEnoughSpace    = NewEngineError(nil, ErrorCodeMergeNoSpace, "not enough free disk space to run merge").WithOperation("Merge")
	ErrUnableToUseWriteBatch = NewEngineError(nil, ErrorCodeWriteBatchUnavailable, "cannot create write batch: seq-no file is absent for a non-initial B+ tree index").WithOperation("NewWriteBatch")

	// Integrity errors.
	ErrInvalidLogRecordCrc   = NewStorageError(nil, ErrorCodeCrcMismatch, "log record failed CRC validation")
	ErrDataDirectoryCorrupted = NewStorageError(nil, ErrorCodeDirectoryCorrupted, "data directory contains a malformed data file name")

	// I/O errors.
	ErrFailedReadDataFile      = NewStorageError(nil, ErrorCodeIO, "failed to read from data file")
	ErrFailedWriteDataFile     = NewStorageError(nil, ErrorCodeIO, "failed to write to data file")
	ErrFailedSyncDataFile      = NewStorageError(nil, ErrorCodeIO, "failed to sync data file")
	ErrFailedOpenDataFile      = NewStorageError(nil, ErrorCodeIO, "failed to open data file")
	ErrFailedCreateDatabaseDir = NewStorageError(nil, ErrorCodeIO, "failed to create database directory")
	ErrFailedReadDatabaseDir   = NewStorageError(nil, ErrorCodeIO, "failed to read database directory")

	// ErrReadDataFileEOF is an internal sentinel used to terminate a forward scan
	// over a data file cleanly; it never escapes the storage/engine boundary.
	ErrReadDataFileEOF = NewStorageError(nil, ErrorCodeIO, "reached end of data file")
)
