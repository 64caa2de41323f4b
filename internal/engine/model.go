package engine

import (
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// Engine owns a single database directory: its active and older data files,
// its index, the directory lock, and the bookkeeping (sequence number,
// reclaimable bytes) every write path and the merge compactor need. It
// implements put/get/delete, sync/close, crash recovery on open, and file
// rotation; batch commits, iteration and merge are layered on top of it in
// batch.go, iterator.go and merge.go, and the sibling compaction package
// finishes a merge's directory swap on the next open.
type Engine struct {
	opts *options.Options
	log  *zap.SugaredLogger

	closed atomic.Bool

	dirLock      *flock.Flock
	isInitial    bool
	hadSeqNoFile bool

	idx index.Indexer

	activeMu sync.RWMutex
	active   *storage.DataFile

	olderMu sync.RWMutex
	older   map[uint32]*storage.DataFile

	bytesSinceSync uint

	reclaimSize atomic.Int64

	seqNo atomic.Uint64

	batchCommitMu sync.Mutex
	mergingLock   sync.Mutex
}

// Config holds the parameters needed to open an Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Stat reports point-in-time accounting for a database directory.
type Stat struct {
	KeyCount    int
	DataFileNum int
	ReclaimSize int64
	DiskSize    int64
}
