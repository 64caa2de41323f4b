package storage

import (
	"sync"

	"go.uber.org/zap"
)

// DataFile wraps an IOManager with the two pieces of state every append-only
// segment needs on top of raw I/O: an immutable identity (FileID) and a
// monotonically increasing write cursor (WriteOffset). The same type backs
// ordinary numbered data files as well as the hint-index, merge-finished and
// seq-no auxiliary files, which are just DataFiles with id 0 and a
// different record vocabulary.
type DataFile struct {
	FileID      uint32
	WriteOffset int64

	mu  sync.RWMutex
	io  IOManager
	log *zap.SugaredLogger
}

// Config carries everything a DataFile needs to format its own log lines.
type Config struct {
	Logger *zap.SugaredLogger
}
