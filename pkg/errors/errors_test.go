package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseErrorChainingAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewBaseError(cause, ErrorCodeIO, "write failed").
		WithDetail("path", "/data/000000001.data").
		WithDetail("bytes", 128)

	assert.Equal(t, "write failed", err.Error())
	assert.Equal(t, ErrorCodeIO, err.Code())
	assert.Same(t, cause, err.Unwrap())
	assert.Equal(t, "/data/000000001.data", err.Details()["path"])
}

func TestValidationErrorPreservesTypeThroughChaining(t *testing.T) {
	err := NewValidationError(nil, ErrorCodeInvalidInput, "bad field").
		WithField("dir_path").
		WithRule("required").
		WithProvided("").
		WithExpected("non-empty string")

	assert.Equal(t, "dir_path", err.Field())
	assert.Equal(t, "required", err.Rule())
	assert.Equal(t, "", err.Provided())
	assert.Equal(t, "non-empty string", err.Expected())

	var target *ValidationError
	assert.True(t, stderrors.As(err, &target))
}

func TestSentinelErrorsMatchWithErrorsIs(t *testing.T) {
	wrapped := NewIndexError(ErrKeyNotFound, ErrorCodeIndexKeyNotFound, "lookup failed").WithKey("missing")
	assert.ErrorIs(t, wrapped, ErrKeyNotFound)

	var asValidation *ValidationError
	assert.True(t, stderrors.As(ErrKeyIsEmpty, &asValidation))
	assert.Equal(t, "key", asValidation.Field())
}

func TestStorageErrorFluentBuilders(t *testing.T) {
	err := NewStorageError(nil, ErrorCodeIO, "read failed").
		WithSegmentID(3).
		WithOffset(42).
		WithFileName("000000003.data").
		WithPath("/var/lib/ignitedb")

	assert.Equal(t, 3, err.SegmentId())
	assert.Equal(t, 42, err.Offset())
	assert.Equal(t, "000000003.data", err.FileName())
}

func TestKeyNotFoundHelperCarriesContext(t *testing.T) {
	err := NewKeyNotFoundError("user:42")
	require.Equal(t, "user:42", err.Key())
	assert.Equal(t, "Get", err.Operation())
	assert.Equal(t, ErrorCodeIndexKeyNotFound, err.Code())
}
