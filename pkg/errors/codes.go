package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the header
	// portion of a segment file. Headers contain critical metadata about the
	// segment's structure, so header read failures prevent access to the
	// entire segment and all data it contains.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the actual data
	// content from segment files after successfully reading the header. This
	// represents a more localized failure compared to header problems, as the
	// segment structure is intact but specific data regions are inaccessible.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that the storage system's attempt to
	// recover from a previous failure was unsuccessful. This represents a
	// compound failure where both the original problem and the recovery
	// mechanism have failed, creating a more serious operational situation.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"

	// ErrorCodeCrcMismatch indicates a log record's trailing CRC did not match
	// the recomputed checksum of its header, key and value.
	ErrorCodeCrcMismatch ErrorCode = "LOG_RECORD_CRC_MISMATCH"

	// ErrorCodeDirectoryCorrupted indicates the data directory contains a data
	// file whose name does not follow the `{file_id:09}.data` convention.
	ErrorCodeDirectoryCorrupted ErrorCode = "DATA_DIRECTORY_CORRUPTED"
)

// Engine/index-level error codes cover failures specific to key lookups,
// batch commits and the merge compactor.
const (
	// ErrorCodeIndexKeyNotFound indicates a Get/Delete targeted a key absent
	// from the index.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexCorrupted indicates the index data structure itself is in
	// an inconsistent state (e.g. a put/delete against a persistent index
	// returned an error the engine cannot recover from).
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"

	// ErrorCodeDatabaseInUse indicates the data directory's flock is already
	// held by another process.
	ErrorCodeDatabaseInUse ErrorCode = "DATABASE_IN_USE"

	// ErrorCodeMergeInProgress indicates a merge was requested while another
	// merge was already running.
	ErrorCodeMergeInProgress ErrorCode = "MERGE_IN_PROGRESS"

	// ErrorCodeMergeRatioUnreached indicates reclaimable bytes haven't crossed
	// the configured merge ratio threshold.
	ErrorCodeMergeRatioUnreached ErrorCode = "MERGE_RATIO_UNREACHED"

	// ErrorCodeMergeNoSpace indicates the target volume lacks enough free
	// space to hold an estimate of the live data set.
	ErrorCodeMergeNoSpace ErrorCode = "MERGE_NO_ENOUGH_SPACE"

	// ErrorCodeExceedMaxBatchNum indicates a batch was committed with more
	// staged records than its configured limit.
	ErrorCodeExceedMaxBatchNum ErrorCode = "EXCEED_MAX_BATCH_NUM"

	// ErrorCodeWriteBatchUnavailable indicates a write batch was requested
	// against a B+ tree index with no persisted seq_no and a non-initial
	// directory, where a fresh batch could collide with historical seq_nos.
	ErrorCodeWriteBatchUnavailable ErrorCode = "WRITE_BATCH_UNAVAILABLE"
)
