// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines a pluggable in-memory index with an append-only log
// structure on disk to achieve high throughput. It is designed for
// applications requiring fast read and write operations, such as
// caching, session management, and real-time data processing, aiming
// to provide a simple, efficient, and reliable solution for durable
// key-value storage in Go applications.
package ignite

import (
	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// Instance is the primary entry point for interacting with the Ignite
// store. It wraps the internal engine and the options it was opened with.
type Instance struct {
	engine *engine.Engine
	opts   *options.Options
}

// Open opens (and if necessary creates) an Ignite database directory under
// the given service name, used to tag the instance's structured logger.
func Open(service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	o := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	eng, err := engine.Open(&engine.Config{Options: &o, Logger: log})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, opts: &o}, nil
}

// Put stores a key-value pair in the database. If the key already exists,
// its value is overwritten. The write is appended to the active log file
// before Put returns.
func (i *Instance) Put(key, value []byte) error {
	return i.engine.Put(key, value)
}

// Get retrieves the value associated with key, or ErrKeyNotFound if it
// does not exist (or has been deleted).
func (i *Instance) Get(key []byte) ([]byte, error) {
	return i.engine.Get(key)
}

// Delete removes key from the database. It is a no-op if key does not
// exist.
func (i *Instance) Delete(key []byte) error {
	return i.engine.Delete(key)
}

// Sync flushes the active data file to stable storage.
func (i *Instance) Sync() error {
	return i.engine.Sync()
}

// Stat reports point-in-time accounting for the database directory: key
// count, open data file count, reclaimable bytes and total disk usage.
func (i *Instance) Stat() (engine.Stat, error) {
	return i.engine.Stat()
}

// ListKeys returns every live key currently in the database, in index
// order.
func (i *Instance) ListKeys() ([][]byte, error) {
	return i.engine.ListKeys()
}

// Fold calls fn for every live key-value pair in index order, stopping
// early if fn returns false.
func (i *Instance) Fold(fn func(key, value []byte) bool) error {
	return i.engine.Fold(fn)
}

// NewIterator returns an Iterator over the database's keys, configured by
// opts.
func (i *Instance) NewIterator(opts options.IteratorOptions) (*engine.Iterator, error) {
	return i.engine.Iterator(opts)
}

// NewWriteBatch stages a group of puts/deletes that become visible
// atomically on Commit.
func (i *Instance) NewWriteBatch(opts options.BatchOptions) (*engine.Batch, error) {
	return i.engine.NewWriteBatch(opts)
}

// Merge rewrites the database's data files to reclaim space occupied by
// overwritten and deleted keys. It can run concurrently with reads and
// writes; the merged layout only takes effect on the next Open.
func (i *Instance) Merge() error {
	return i.engine.Merge()
}

// Backup copies the live database directory to dir, excluding the
// directory lock file so the copy can be opened independently.
func (i *Instance) Backup(dir string) error {
	return filesys.CopyDirExcluding(i.opts.DirPath, dir, []string{storage.LockFileName})
}

// Close gracefully shuts down the instance, persisting the sequence
// number marker, syncing and closing every data file and the index, and
// releasing the directory lock.
func (i *Instance) Close() error {
	return i.engine.Close()
}
