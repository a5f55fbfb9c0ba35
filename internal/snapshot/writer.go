package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
)

// ErrWriterClosed is returned by Clear after Close.
var ErrWriterClosed = errors.New("snapshot writer closed")

const (
	defaultQueueSize = 256
	defaultOpTimeout = 5 * time.Second
)

type job struct {
	key    string
	data   []byte
	delete bool
	ack    chan error
}

// Writer serializes all snapshot writes through a single goroutine so saves
// and clears for a key are applied in the order they were issued.
type Writer struct {
	store   Store
	logg    *logger.Logger
	metrics *metrics.CateringMetrics
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	done   chan struct{}
}

// WriterOptions tunes the writer queue.
type WriterOptions struct {
	QueueSize int
	OpTimeout time.Duration
}

// NewWriter starts the writer goroutine. Close must be called to stop it.
func NewWriter(store Store, logg *logger.Logger, m *metrics.CateringMetrics, opts WriterOptions) *Writer {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}
	w := &Writer{
		store:   store,
		logg:    logg,
		metrics: m,
		timeout: opts.OpTimeout,
		now:     time.Now,
		jobs:    make(chan job, opts.QueueSize),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Writer) run() {
	defer close(w.done)
	for j := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		var err error
		op := "save"
		if j.delete {
			op = "clear"
			err = w.store.Delete(ctx, j.key)
		} else {
			err = w.store.Put(ctx, j.key, j.data)
		}
		cancel()

		if err != nil {
			w.metrics.SnapshotOp(op, metrics.ResultError)
			w.logg.Error(w.logg.WithField(context.Background(), "snapshot_key", j.key), "snapshot "+op+" failed", err)
		} else {
			w.metrics.SnapshotOp(op, metrics.ResultOK)
		}
		if j.ack != nil {
			j.ack <- err
		}
	}
}

// Save queues s under the scope's key and returns immediately. When the
// queue is full the save is dropped and logged; the caller is never blocked.
func (w *Writer) Save(ctx context.Context, scope string, s Record) {
	if s.SavedAt.IsZero() {
		s.SavedAt = w.now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		w.metrics.SnapshotOp("save", metrics.ResultError)
		w.logg.Error(ctx, "encode snapshot", err)
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.metrics.SnapshotOp("save", metrics.ResultDropped)
		return
	}
	select {
	case w.jobs <- job{key: KeyFor(scope), data: data}:
	default:
		w.metrics.SnapshotOp("save", metrics.ResultDropped)
		w.logg.Warn(ctx, "snapshot queue full; save dropped")
	}
}

// Load reads the snapshot for scope. Missing, unreadable and undecodable
// snapshots all report false.
func (w *Writer) Load(ctx context.Context, scope string) (Record, bool) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	data, err := w.store.Get(ctx, KeyFor(scope))
	if errors.Is(err, ErrNotFound) {
		w.metrics.SnapshotOp("load", "miss")
		return Record{}, false
	}
	if err != nil {
		w.metrics.SnapshotOp("load", metrics.ResultError)
		w.logg.Error(ctx, "snapshot load failed", err)
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		w.metrics.SnapshotOp("load", metrics.ResultInvalid)
		w.logg.Warn(w.logg.WithField(ctx, "error", err.Error()), "discarding undecodable snapshot")
		return Record{}, false
	}
	w.metrics.SnapshotOp("load", metrics.ResultOK)
	return rec, true
}

// Clear deletes the scope's snapshot after every previously queued save has
// been applied, and waits for the delete to finish.
func (w *Writer) Clear(ctx context.Context, scope string) error {
	ack := make(chan error, 1)

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWriterClosed
	}
	select {
	case w.jobs <- job{key: KeyFor(scope), delete: true, ack: ack}:
		w.mu.RUnlock()
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-ack:
		if err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains queued writes, stops the goroutine and closes the store.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	<-w.done
	return w.store.Close()
}
