package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/refdb"
	"github.com/katalvlaran/dagmatch/sigindex"
)

// ErrEngineClosed is returned by queries after Close.
var ErrEngineClosed = errors.New("retrieval: engine closed")

// snapshot is one generation of reader, index and retriever.
type snapshot struct {
	reader    *refdb.Reader
	index     *sigindex.Index
	retriever *Retriever
	inflight  sync.WaitGroup
}

// Engine serves retrieval queries over a reference database file.
type Engine struct {
	path  string
	store *sigindex.Store
	opts  []Option
	log   *slog.Logger

	mu     sync.RWMutex
	cur    *snapshot
	closed bool

	reloadMu sync.Mutex
}

// OpenEngine opens the database at dbPath and the signature store described
// by storeCfg, then builds the index. Persisted points are reused when the
// store is at least as new as the database file; otherwise they are
// recomputed and saved.
func OpenEngine(ctx context.Context, dbPath string, storeCfg sigindex.StoreConfig, opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	store, err := sigindex.OpenStore(storeCfg)
	if err != nil {
		return nil, err
	}
	e := &Engine{path: dbPath, store: store, opts: opts, log: log}
	snap, err := e.load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	e.cur = snap

	return e, nil
}

func (e *Engine) load(ctx context.Context) (*snapshot, error) {
	start := time.Now()
	reader, err := refdb.Open(e.path, refdb.WithLogger(e.log))
	if err != nil {
		return nil, err
	}

	pts, source, err := e.points(ctx, reader)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	o := DefaultOptions()
	for _, fn := range e.opts {
		fn(&o)
	}
	iopts := append([]sigindex.Option{
		sigindex.WithDimension(reader.MaxTSVDimension()),
		sigindex.WithLogger(e.log),
	}, o.IndexOptions...)
	ix := sigindex.New(iopts...)
	ix.Build(pts)

	ropts := append(append([]Option(nil), e.opts...), func(ro *Options) {
		if ro.RescoreTop > 0 && ro.Source == nil {
			ro.Source = reader
		}
	})
	reloadsTotal.WithLabelValues(source).Inc()
	e.log.Info("retrieval index ready",
		"db", e.path, "graphs", reader.Len(), "points", len(pts),
		"source", source, "rebuilt_db", reader.Rebuilt(), "elapsed", time.Since(start))

	return &snapshot{reader: reader, index: ix, retriever: NewRetriever(ix, ropts...)}, nil
}

// points returns the index points and where they came from.
func (e *Engine) points(ctx context.Context, reader *refdb.Reader) ([]sigindex.Point, string, error) {
	stale, err := e.store.Stale(reader.ModTime())
	if err != nil {
		e.log.Warn("signature store unreadable, recomputing", "err", err)
		stale = true
	}
	if !stale {
		pts, _, err := e.store.Load()
		if err == nil {
			return pts, "store", nil
		}
		e.log.Warn("signature store load failed, recomputing", "err", err)
	}

	var pts []sigindex.Point
	err = reader.Scan(func(en refdb.Entry, g *dag.DAG) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		pts = append(pts, sigindex.PointsFromDAG(g, en.Offset)...)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if err = e.store.Save(pts, reader.ModTime()); err != nil {
		return nil, "", fmt.Errorf("retrieval: persist signatures: %w", err)
	}

	return pts, "scan", nil
}

// acquire pins the current snapshot; call release when done.
func (e *Engine) acquire() (*snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	e.cur.inflight.Add(1)

	return e.cur, nil
}

// Query runs Retriever.Query against the current generation.
func (e *Engine) Query(ctx context.Context, q *dag.DAG, w, minSimilarity float64) ([]Candidate, error) {
	snap, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer snap.inflight.Done()

	return snap.retriever.Query(ctx, q, w, minSimilarity)
}

// QueryBatch runs Retriever.QueryBatch against the current generation.
func (e *Engine) QueryBatch(ctx context.Context, qs []*dag.DAG, w, minSimilarity float64) ([][]Candidate, error) {
	snap, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer snap.inflight.Done()

	return snap.retriever.QueryBatch(ctx, qs, w, minSimilarity)
}

// Reader returns the current database reader. It stays open until the
// next reload has drained.
func (e *Engine) Reader() *refdb.Reader {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.cur.reader
}

// Index returns the current signature index.
func (e *Engine) Index() *sigindex.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.cur.index
}

// Reload reopens the database and swaps in a fresh index. Queries already
// running finish on the previous generation, whose reader is closed once
// they drain.
func (e *Engine) Reload(ctx context.Context) error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	snap, err := e.load(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.Join(ErrEngineClosed, snap.reader.Close())
	}
	old := e.cur
	e.cur = snap
	e.mu.Unlock()

	go func() {
		old.inflight.Wait()
		if err := old.reader.Close(); err != nil {
			e.log.Warn("closing previous reader", "err", err)
		}
	}()

	return nil
}

// Watch reloads the engine whenever the database file changes, until ctx is
// done. Reload failures are logged and the previous generation stays live.
func (e *Engine) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := refdb.NewWatcher(e.path, debounce, func() {
		if err := e.Reload(ctx); err != nil {
			e.log.Error("reload failed", "db", e.path, "err", err)
		}
	}, e.log)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Run(ctx)

	return nil
}

// Close drains in-flight queries and releases the reader and the store.
func (e *Engine) Close() error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	snap := e.cur
	e.mu.Unlock()

	snap.inflight.Wait()

	return errors.Join(snap.reader.Close(), e.store.Close())
}
