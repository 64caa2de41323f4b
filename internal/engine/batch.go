package engine

import (
	"sync"

	"github.com/ignitedb/ignite/internal/data"
	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
)

// Batch stages writes under a reference to its owning Engine, assigning a
// single sequence number to all of them at commit time. It implements §4.7:
// staged puts/deletes are invisible to readers until Commit durably writes
// a TxnFinished marker for the batch's seq_no.
type Batch struct {
	engine *Engine
	opts   options.BatchOptions

	mu     sync.Mutex
	staged map[string]*data.Record
}

// NewWriteBatch stages a new batch under opts. It rejects batch creation
// with UnableToUseWriteBatch when a B+ tree index has no persisted seq_no
// and the directory isn't freshly initialized — without that persisted
// seq_no, a new batch could reuse a historical one.
func (e *Engine) NewWriteBatch(opts options.BatchOptions) (*Batch, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	if e.opts.IndexType == options.BPlusTree && !e.hadSeqNoFile && !e.isInitial {
		return nil, ignerrors.ErrUnableToUseWriteBatch
	}

	return &Batch{engine: e, opts: opts, staged: make(map[string]*data.Record)}, nil
}

// Put stages a Normal write, overwriting any earlier staged entry for key.
func (b *Batch) Put(key, value []byte) error {
	if len(key) == 0 {
		return ignerrors.ErrKeyIsEmpty
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.staged[string(key)] = &data.Record{Key: key, Value: value, Type: data.RecordNormal}
	return nil
}

// Delete stages a Deleted write. If the key has no stage and no index
// entry, it's a no-op; if a stage exists it's simply removed; otherwise a
// tombstone is staged.
func (b *Batch) Delete(key []byte) error {
	if len(key) == 0 {
		return ignerrors.ErrKeyIsEmpty
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, staged := b.staged[string(key)]; staged {
		delete(b.staged, string(key))
		return nil
	}

	if _, found, err := b.engine.idx.Get(key); err != nil {
		return err
	} else if !found {
		return nil
	}

	b.staged[string(key)] = &data.Record{Key: key, Value: nil, Type: data.RecordDeleted}
	return nil
}

// Commit assigns a sequence number and atomically writes every staged
// record followed by a TxnFinished marker, then applies the batch to the
// index. Commits are serialized against each other by the engine's
// batch-commit lock; concurrent readers observe either the whole batch or
// none of it.
func (b *Batch) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.staged) == 0 {
		return nil
	}
	if uint(len(b.staged)) > b.opts.MaxBatchNum {
		return ignerrors.ErrExceedMaxBatchNum
	}

	b.engine.batchCommitMu.Lock()
	defer b.engine.batchCommitMu.Unlock()

	seqNo := b.engine.seqNo.Add(1)

	type staged struct {
		key []byte
		pos data.Position
		rec *data.Record
	}
	written := make([]staged, 0, len(b.staged))

	for _, rec := range b.staged {
		onDisk := &data.Record{Key: data.KeyWithSeq(rec.Key, seqNo), Value: rec.Value, Type: rec.Type}
		pos, err := b.engine.appendLogRecord(onDisk)
		if err != nil {
			return err
		}
		written = append(written, staged{key: rec.Key, pos: pos, rec: rec})
	}

	finish := &data.Record{
		Key:   data.KeyWithSeq([]byte(data.TxnFinishedKey), seqNo),
		Value: nil,
		Type:  data.RecordTxnFinished,
	}
	if _, err := b.engine.appendLogRecord(finish); err != nil {
		return err
	}

	if b.opts.SyncWrites {
		if err := b.engine.Sync(); err != nil {
			return err
		}
	}

	for _, s := range written {
		if s.rec.Type == data.RecordDeleted {
			prev, existed, err := b.engine.idx.Delete(s.key)
			if err != nil {
				return err
			}
			b.engine.reclaimSize.Add(int64(s.pos.Size))
			if existed {
				b.engine.reclaimSize.Add(int64(prev.Size))
			}
			continue
		}

		prev, existed, err := b.engine.idx.Put(s.key, s.pos)
		if err != nil {
			return err
		}
		if existed {
			b.engine.reclaimSize.Add(int64(prev.Size))
		}
	}

	clear(b.staged)
	return nil
}
