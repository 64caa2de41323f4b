package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDirPathIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithDirPath("  ")(&o)
	assert.Equal(t, DefaultDirPath, o.DirPath)

	WithDirPath(" /data ")(&o)
	assert.Equal(t, "/data", o.DirPath)
}

func TestWithDataFileSizeIgnoresZero(t *testing.T) {
	o := NewDefaultOptions()
	WithDataFileSize(0)(&o)
	assert.Equal(t, DefaultDataFileSize, o.DataFileSize)

	WithDataFileSize(128)(&o)
	assert.Equal(t, uint64(128), o.DataFileSize)
}

func TestWithDataFileMergeRatioRejectsOutOfRange(t *testing.T) {
	o := NewDefaultOptions()
	WithDataFileMergeRatio(-0.1)(&o)
	assert.Equal(t, DefaultDataFileMergeRatio, o.DataFileMergeRatio)

	WithDataFileMergeRatio(1.1)(&o)
	assert.Equal(t, DefaultDataFileMergeRatio, o.DataFileMergeRatio)

	WithDataFileMergeRatio(0.75)(&o)
	assert.Equal(t, float32(0.75), o.DataFileMergeRatio)
}

func TestWithDefaultOptionsResetsOverrides(t *testing.T) {
	o := NewDefaultOptions()
	WithDirPath("/custom")(&o)
	WithIndexType(SkipList)(&o)

	WithDefaultOptions()(&o)
	assert.Equal(t, NewDefaultOptions(), o)
}

func TestDefaultBatchAndIteratorOptions(t *testing.T) {
	assert.Equal(t, BatchOptions{MaxBatchNum: 10000, SyncWrites: true}, DefaultBatchOptions())
	assert.Equal(t, IteratorOptions{Prefix: nil, Reverse: false}, DefaultIteratorOptions())
}
