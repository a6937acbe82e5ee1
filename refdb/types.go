package refdb

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/dagmatch/dag"
)

// Sentinel errors.
var (
	ErrStorageUnavailable = errors.New("refdb: storage unavailable")
	ErrCorruptIndex       = errors.New("refdb: corrupt database")
	ErrNoSuchRecord       = errors.New("refdb: no record at offset")
)

const (
	magic = "DAGMDB01"

	kindDAG  byte = 1
	kindTail byte = 2

	recordHeaderSize = 5
	trailerSize      = 24
	validityMark     = 0x56474144 // "DAGV"

	// DefaultCacheSize is the number of decoded DAGs kept by a Reader.
	DefaultCacheSize = 128
)

// Entry describes one stored DAG.
type Entry struct {
	ID     string `json:"id"`
	Class  string `json:"class,omitempty"`
	Offset int64  `json:"offset"`
	Nodes  int    `json:"nodes"`
}

// Options configures a Reader.
type Options struct {
	CacheSize int
	// GraphOptions are applied when rebuilding every stored DAG.
	GraphOptions []dag.Option
	Logger       *slog.Logger
}

// Option customizes Options.
type Option func(*Options)

// WithCacheSize sets the decoded-DAG LRU capacity.
func WithCacheSize(n int) Option { return func(o *Options) { o.CacheSize = n } }

// WithGraphOptions passes dag options to every decoded DAG.
func WithGraphOptions(opts ...dag.Option) Option {
	return func(o *Options) { o.GraphOptions = append(o.GraphOptions, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }
