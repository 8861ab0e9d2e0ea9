package journal

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	writerBuffer = 512
	maxBatch     = 64
)

// Writer records actions in the background so the frame loop never waits on
// the database. Actions are dropped when the buffer is full.
type Writer struct {
	repo    *ActionRepository
	logger  *zap.Logger
	ch      chan *Action
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	written atomic.Int64
}

// NewWriter starts a background writer for repo.
func NewWriter(repo *ActionRepository, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		repo:   repo,
		logger: logger,
		ch:     make(chan *Action, writerBuffer),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w
}

// Write queues an action without blocking.
func (w *Writer) Write(a *Action) {
	select {
	case w.ch <- a:
	default:
		if w.dropped.Add(1) == 1 {
			w.logger.Warn("journal buffer full, dropping actions")
		}
	}
}

// Close flushes queued actions and stops the writer. It must not be called
// concurrently with Write.
func (w *Writer) Close() error {
	w.once.Do(func() { close(w.ch) })
	<-w.done
	if n := w.dropped.Load(); n > 0 {
		w.logger.Warn("journal dropped actions", zap.Int64("dropped", n))
	}
	return nil
}

// Written returns how many actions have been committed.
func (w *Writer) Written() int64 {
	return w.written.Load()
}

// Dropped returns how many actions were discarded because the buffer was full.
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

func (w *Writer) loop() {
	defer close(w.done)

	batch := make([]*Action, 0, maxBatch)
	for a := range w.ch {
		batch = append(batch[:0], a)
	drain:
		for len(batch) < maxBatch {
			select {
			case next, ok := <-w.ch:
				if !ok {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}

		if err := w.repo.CreateBatch(batch); err != nil {
			w.logger.Error("failed to write journal batch", zap.Int("size", len(batch)), zap.Error(err))
			continue
		}
		w.written.Add(int64(len(batch)))
	}
}
