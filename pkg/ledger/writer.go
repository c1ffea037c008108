package ledger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/psharma/finledger/pkg/store"
)

// bucketWriter serializes persistence writes for one bucket key. Mutations
// enqueue the latest serialized collection; a single worker drains the queue,
// so writes reach storage in dispatch order. Because every write carries the
// whole collection, intermediate values superseded before the worker gets to
// them are safely coalesced away.
type bucketWriter struct {
	key    string
	bucket store.Bucket
	log    zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	dirty   bool
	busy    bool
	closed  bool
	done    chan struct{}
}

func newBucketWriter(key string, bucket store.Bucket, log zerolog.Logger) *bucketWriter {
	w := &bucketWriter{
		key:    key,
		bucket: bucket,
		log:    log.With().Str("bucket", key).Logger(),
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue replaces any not-yet-written value with the given one and wakes the
// worker. Never blocks the caller on I/O.
func (w *bucketWriter) enqueue(value []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn().Msg("write after close dropped")
		return
	}
	w.pending = value
	w.dirty = true
	w.cond.Broadcast()
}

func (w *bucketWriter) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for !w.dirty && !w.closed {
			w.cond.Wait()
		}
		if !w.dirty && w.closed {
			w.mu.Unlock()
			return
		}
		value := w.pending
		w.pending = nil
		w.dirty = false
		w.busy = true
		w.mu.Unlock()

		// Failure leaves the durable copy stale until the next successful
		// write for this bucket; in-memory state is already committed.
		if err := w.bucket.Write(context.Background(), w.key, value); err != nil {
			w.log.Error().Err(err).Msg("persistence write failed")
		}

		w.mu.Lock()
		w.busy = false
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// flush blocks until every enqueued value has been handed to the bucket.
func (w *bucketWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.dirty || w.busy {
		w.cond.Wait()
	}
}

// close flushes and stops the worker.
func (w *bucketWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
