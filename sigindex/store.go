package sigindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// StoreConfig configures the badger-backed point store.
type StoreConfig struct {
	// Path is the badger directory. Ignored when InMemory is true.
	Path string
	// InMemory keeps everything in RAM; meant for tests.
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// Logger receives badger's internal log lines. Nil silences badger.
	Logger *slog.Logger
}

// DefaultStoreConfig returns a durable on-disk configuration rooted at path.
func DefaultStoreConfig(path string) StoreConfig {
	return StoreConfig{Path: path, SyncWrites: true}
}

// InMemoryStoreConfig returns a throwaway configuration.
func InMemoryStoreConfig() StoreConfig {
	return StoreConfig{InMemory: true}
}

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

var (
	pointPrefix = []byte("pt/")
	stampKey    = []byte("meta/stamp")
	countKey    = []byte("meta/count")
)

// Store persists index points between process runs.
type Store struct {
	db *badger.DB
}

// OpenStore opens (creating if needed) the store described by cfg.
func OpenStore(cfg StoreConfig) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrStorageUnavailable)
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &Store{db: db}, nil
}

func pointKey(i int) []byte { return fmt.Appendf(nil, "pt/%010d", i) }

// Save replaces the stored points and records stamp as their build time.
func (s *Store) Save(points []Point, stamp time.Time) error {
	if err := s.db.DropPrefix(pointPrefix); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i := range points {
		raw, err := json.Marshal(&points[i])
		if err != nil {
			return fmt.Errorf("sigindex: encode point %d: %w", i, err)
		}
		if err = wb.Set(pointKey(i), raw); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	ts, err := stamp.MarshalBinary()
	if err != nil {
		return fmt.Errorf("sigindex: encode stamp: %w", err)
	}

	// The stamp goes last: a crash mid-save leaves the store stale, not wrong.
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(countKey, fmt.Appendf(nil, "%d", len(points))); err != nil {
			return err
		}
		return txn.Set(stampKey, ts)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return nil
}

// Load returns the stored points in save order and their stamp.
func (s *Store) Load() ([]Point, time.Time, error) {
	var (
		points []Point
		stamp  time.Time
		count  int
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stampKey)
		if err != nil {
			return err
		}
		if err = item.Value(stamp.UnmarshalBinary); err != nil {
			return fmt.Errorf("%w: stamp: %v", ErrCorruptIndex, err)
		}
		if item, err = txn.Get(countKey); err != nil {
			return err
		}
		if err = item.Value(func(v []byte) error {
			_, err := fmt.Sscanf(string(v), "%d", &count)
			return err
		}); err != nil {
			return fmt.Errorf("%w: count: %v", ErrCorruptIndex, err)
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(pointPrefix); it.ValidForPrefix(pointPrefix); it.Next() {
			var p Point
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &p) }); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrCorruptIndex, it.Item().Key(), err)
			}
			points = append(points, p)
		}

		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(points) != count {
		return nil, time.Time{}, fmt.Errorf("%w: %d points, expected %d", ErrCorruptIndex, len(points), count)
	}

	return points, stamp, nil
}

// Stale reports whether the stored points predate dbModTime. An empty store
// is stale.
func (s *Store) Stale(dbModTime time.Time) (bool, error) {
	var stamp time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stampKey)
		if err != nil {
			return err
		}
		return item.Value(stamp.UnmarshalBinary)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("%w: stamp: %v", ErrCorruptIndex, err)
	}

	return stamp.Before(dbModTime), nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }
