package retrieval

import (
	"errors"
	"log/slog"
	"runtime"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/matcher"
	"github.com/katalvlaran/dagmatch/sigindex"
)

// Sentinel errors.
var (
	ErrNilGraph      = errors.New("retrieval: nil query graph")
	ErrInvalidWeight = errors.New("retrieval: vote weight outside [0,1]")
)

// Resolution selects how a VoteList becomes a score.
type Resolution int

const (
	// Bipartite counts every node at most once (default).
	Bipartite Resolution = iota
	// NaiveSum adds every vote and may overcount.
	NaiveSum
)

// String implements fmt.Stringer.
func (r Resolution) String() string {
	if r == NaiveSum {
		return "naive-sum"
	}
	return "bipartite"
}

// Source gives random access to stored DAGs; *refdb.Reader satisfies it.
type Source interface {
	ReadAt(offset int64) (*dag.DAG, error)
}

// Candidate is one ranked reference graph.
type Candidate struct {
	GraphID string
	Class   string
	Offset  int64
	Score   float64
	// VoteSum and Votes describe the raw evidence behind Score.
	VoteSum float64
	Votes   int
	// Exact is set for re-scored candidates.
	Exact *matcher.Result
}

// Defaults.
const (
	DefaultK       = 16
	DefaultMinVote = 0.001
)

// Options configures a Retriever.
type Options struct {
	// Radius > 0 selects range queries with Radius²; otherwise KNearest with K.
	Radius float64
	K      int
	// MinVote drops individual votes below it.
	MinVote float64
	// MinTotalVote resolves candidates whose vote sum is below it to zero.
	MinTotalVote float64
	// TypeFilter discards hits whose node type differs from the query node.
	TypeFilter bool
	Resolution Resolution

	// RescoreTop > 0 with a Source runs the pairwise matcher on that many
	// leading candidates.
	RescoreTop     int
	Source         Source
	MatcherOptions []matcher.Option

	// Parallelism bounds QueryBatch workers.
	Parallelism int

	// IndexOptions are used by Engine when it builds the signature index.
	IndexOptions []sigindex.Option

	Logger *slog.Logger
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		K:           DefaultK,
		MinVote:     DefaultMinVote,
		TypeFilter:  true,
		Resolution:  Bipartite,
		Parallelism: runtime.GOMAXPROCS(0),
	}
}

// Option customizes Options.
type Option func(*Options)

// WithRadius switches to range queries of the given radius.
func WithRadius(r float64) Option { return func(o *Options) { o.Radius = r } }

// WithK sets the neighbor count for k-NN mode.
func WithK(k int) Option { return func(o *Options) { o.K = k } }

// WithMinVote sets the per-vote floor.
func WithMinVote(v float64) Option { return func(o *Options) { o.MinVote = v } }

// WithMinTotalVote sets the per-candidate vote-sum floor.
func WithMinTotalVote(v float64) Option { return func(o *Options) { o.MinTotalVote = v } }

// WithTypeFilter toggles node-type filtering of hits.
func WithTypeFilter(on bool) Option { return func(o *Options) { o.TypeFilter = on } }

// WithResolution selects the vote resolution policy.
func WithResolution(r Resolution) Option { return func(o *Options) { o.Resolution = r } }

// WithBipartiteResolution maps the boolean configuration flag onto a Resolution.
func WithBipartiteResolution(on bool) Option {
	return func(o *Options) {
		o.Resolution = NaiveSum
		if on {
			o.Resolution = Bipartite
		}
	}
}

// WithRescore re-scores the top n candidates against src with the matcher.
// Under an Engine src may be nil; the engine's reader is used.
func WithRescore(n int, src Source, opts ...matcher.Option) Option {
	return func(o *Options) {
		o.RescoreTop, o.Source = n, src
		o.MatcherOptions = append(o.MatcherOptions, opts...)
	}
}

// WithMatcherOptions sets the options used for re-scoring.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(o *Options) { o.MatcherOptions = append(o.MatcherOptions, opts...) }
}

// WithParallelism bounds QueryBatch concurrency.
func WithParallelism(n int) Option { return func(o *Options) { o.Parallelism = n } }

// WithIndexOptions passes options to the index an Engine builds.
func WithIndexOptions(opts ...sigindex.Option) Option {
	return func(o *Options) { o.IndexOptions = append(o.IndexOptions, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }
