package storage

import (
	stdErrors "errors"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/ignitedb/ignite/pkg/errors"
)

// IOType selects which IOManager implementation a DataFile is backed by.
type IOType uint8

const (
	// StandardFileIO reads and writes through a regular *os.File descriptor.
	StandardFileIO IOType = iota
	// MemoryMappedIO serves reads from a read-only mmap of the file;
	// writes are unsupported and swap_io_type must be called before any
	// append is attempted.
	MemoryMappedIO
)

// ErrMmapWriteUnsupported is returned by a MmapIO manager's Write: mmap IO is
// read-only, used only to accelerate the recovery scan.
var ErrMmapWriteUnsupported = stdErrors.New("storage: memory-mapped io manager does not support writes")

// IOManager abstracts positional file I/O so a DataFile can be backed by
// either a plain file descriptor or a read-only memory mapping without
// changing its own logic.
type IOManager interface {
	// ReadAt reads up to len(buf) bytes starting at offset. A short read at
	// the end of the file is reported as io.EOF by MmapIO and as a nil error
	// by StandardIO; callers check the returned count.
	ReadAt(buf []byte, offset int64) (int, error)
	// Write appends b to the underlying file and returns bytes written.
	Write(b []byte) (int, error)
	// Sync flushes any buffered data to stable storage.
	Sync() error
	// Size returns the current size of the underlying file in bytes.
	Size() (int64, error)
	// Close releases any resources (file descriptors, mappings) held by
	// the manager.
	Close() error
}

// StandardIO is the default IOManager: an *os.File opened for append,
// positional reads via pread-equivalent (File.ReadAt).
type StandardIO struct {
	file *os.File
}

// NewStandardIO opens path with O_CREATE|O_RDWR|O_APPEND semantics, creating
// it if absent.
func NewStandardIO(path string) (*StandardIO, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open data file").
			WithPath(path).
			WithDetail("flags", []string{"O_CREATE", "O_RDWR", "O_APPEND"})
	}
	return &StandardIO{file: file}, nil
}

func (s *StandardIO) ReadAt(buf []byte, offset int64) (int, error) {
	n, err := s.file.ReadAt(buf, offset)
	if err != nil && !stdErrors.Is(err, io.EOF) {
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read data file").
			WithOffset(int(offset))
	}
	return n, nil
}

func (s *StandardIO) Write(b []byte) (int, error) {
	n, err := s.file.Write(b)
	if err != nil {
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write data file")
	}
	return n, nil
}

func (s *StandardIO) Sync() error {
	if err := s.file.Sync(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to sync data file")
	}
	return nil
}

func (s *StandardIO) Size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat data file")
	}
	return info.Size(), nil
}

func (s *StandardIO) Close() error {
	return s.file.Close()
}

// MmapIO is a read-only IOManager backed by a memory mapping of the file,
// used to speed up the forward scan recovery performs when mmap_at_startup
// is enabled. It never opens the file for writing.
type MmapIO struct {
	file *os.File
	mem  mmap.MMap
}

// NewMmapIO opens path read-only and maps it into memory. An empty file maps
// to a zero-length region; reads past it simply return io.EOF.
func NewMmapIO(path string) (*MmapIO, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open data file for mmap").
			WithPath(path)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat data file for mmap").
			WithPath(path)
	}

	if info.Size() == 0 {
		return &MmapIO{file: file, mem: nil}, nil
	}

	mem, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to mmap data file").
			WithPath(path)
	}

	return &MmapIO{file: file, mem: mem}, nil
}

func (m *MmapIO) ReadAt(buf []byte, offset int64) (int, error) {
	if m.mem == nil || offset >= int64(len(m.mem)) {
		return 0, io.EOF
	}
	n := copy(buf, m.mem[offset:])
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MmapIO) Write([]byte) (int, error) {
	return 0, ErrMmapWriteUnsupported
}

func (m *MmapIO) Sync() error {
	return nil
}

func (m *MmapIO) Size() (int64, error) {
	info, err := m.file.Stat()
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat data file")
	}
	return info.Size(), nil
}

func (m *MmapIO) Close() error {
	if m.mem != nil {
		if err := m.mem.Unmap(); err != nil {
			m.file.Close()
			return err
		}
	}
	return m.file.Close()
}
