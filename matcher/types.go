package matcher

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/similarity"
)

// Sentinel errors.
var (
	ErrNilGraph          = errors.New("matcher: nil graph")
	ErrUnknownAlgorithm  = errors.New("matcher: unknown algorithm")
	ErrUnknownSimilarity = errors.New("matcher: unknown similarity function")
)

// Algorithm selects the branching policy.
type Algorithm int

const (
	// Optimal is full branch-and-bound with bipartite re-solving.
	Optimal Algorithm = iota
	// Greedy commits the single best candidate at every step.
	Greedy
	// Topological processes query nodes in DFS index order.
	Topological
	// Adaptive branches only where the best candidates are ambiguous.
	Adaptive
)

var algorithmNames = [...]string{"optimal", "greedy", "topological", "adaptive"}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}

	return algorithmNames[a]
}

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if strings.EqualFold(s, n) {
			return Algorithm(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// SimilarityFunction selects the node similarity measurer.
type SimilarityFunction int

const (
	// LocalSimilarity compares intrinsic attributes only.
	LocalSimilarity SimilarityFunction = iota
	// ContextualSimilarity also compares neighborhoods.
	ContextualSimilarity
)

// String implements fmt.Stringer.
func (f SimilarityFunction) String() string {
	if f == ContextualSimilarity {
		return "contextual"
	}

	return "local"
}

// ParseSimilarityFunction maps "local" or "contextual" to a SimilarityFunction.
func ParseSimilarityFunction(s string) (SimilarityFunction, error) {
	switch strings.ToLower(s) {
	case "local":
		return LocalSimilarity, nil
	case "contextual":
		return ContextualSimilarity, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownSimilarity, s)
}

// Penalties configure relation-preservation re-weighting.
// Break* apply when a relation is broken, Sigma* control level-difference
// decay when it is preserved (0 disables the decay).
type Penalties struct {
	BreakAncestor   float64
	BreakDescendant float64
	BreakSibling    float64
	SigmaAncestor   float64
	SigmaDescendant float64
	SigmaSibling    float64
}

// DefaultPenalties drop pairs that break descent and damp broken siblings.
func DefaultPenalties() Penalties {
	return Penalties{BreakSibling: 0.8}
}

// Options configures a Matcher.
type Options struct {
	// Algorithm is the branching policy.
	Algorithm Algorithm
	// Similarity selects the built-in measurer; ignored when Measurer is set.
	Similarity SimilarityFunction
	// Measurer overrides the built-in similarity function.
	Measurer similarity.Measurer

	// MaxFrontierSize caps the frontier; reaching it truncates the search. <=0 is unbounded.
	MaxFrontierSize int
	// MaxBranchesPerExpansion caps children per expansion. <=0 is unbounded.
	MaxBranchesPerExpansion int

	// TSVWeight and ContextWeight parameterize the built-in measurers.
	TSVWeight     float64
	ContextWeight float64
	// SaliencyParam is the extent at which a node becomes fully salient. <=0 makes every node salient.
	SaliencyParam float64
	// Penalties re-weight remaining pairs after each commit.
	Penalties Penalties
	// AmbiguityMargin is the Adaptive branching window.
	AmbiguityMargin float64
	// Eps is the pruning tolerance.
	Eps float64

	// Logger receives debug summaries. Nil discards.
	Logger *slog.Logger
}

// Default option values.
const (
	DefaultMaxFrontierSize         = 256
	DefaultMaxBranchesPerExpansion = 4
	DefaultAmbiguityMargin         = 0.1
	DefaultEps                     = 1e-9
)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Algorithm:               Optimal,
		Similarity:              LocalSimilarity,
		MaxFrontierSize:         DefaultMaxFrontierSize,
		MaxBranchesPerExpansion: DefaultMaxBranchesPerExpansion,
		TSVWeight:               similarity.DefaultTSVWeight,
		ContextWeight:           similarity.DefaultContextWeight,
		Penalties:               DefaultPenalties(),
		AmbiguityMargin:         DefaultAmbiguityMargin,
		Eps:                     DefaultEps,
	}
}

// Option customizes Options.
type Option func(*Options)

// WithAlgorithm selects the branching policy.
func WithAlgorithm(a Algorithm) Option { return func(o *Options) { o.Algorithm = a } }

// WithSimilarity selects the built-in measurer.
func WithSimilarity(f SimilarityFunction) Option { return func(o *Options) { o.Similarity = f } }

// WithMeasurer installs a custom measurer.
func WithMeasurer(m similarity.Measurer) Option { return func(o *Options) { o.Measurer = m } }

// WithMaxFrontierSize caps the frontier.
func WithMaxFrontierSize(n int) Option { return func(o *Options) { o.MaxFrontierSize = n } }

// WithMaxBranchesPerExpansion caps children per expansion.
func WithMaxBranchesPerExpansion(n int) Option {
	return func(o *Options) { o.MaxBranchesPerExpansion = n }
}

// WithTSVWeight sets the signature weight of the built-in measurers.
func WithTSVWeight(w float64) Option { return func(o *Options) { o.TSVWeight = w } }

// WithContextWeight sets the neighborhood weight of the contextual measurer.
func WithContextWeight(w float64) Option { return func(o *Options) { o.ContextWeight = w } }

// WithSaliencyParam sets the extent of full saliency.
func WithSaliencyParam(p float64) Option { return func(o *Options) { o.SaliencyParam = p } }

// WithPenalties replaces the penalty table.
func WithPenalties(p Penalties) Option { return func(o *Options) { o.Penalties = p } }

// WithAmbiguityMargin sets the Adaptive branching window.
func WithAmbiguityMargin(m float64) Option { return func(o *Options) { o.AmbiguityMargin = m } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// Pair is one committed correspondence.
type Pair struct {
	Query      dag.NodeID
	Model      dag.NodeID
	QueryLabel string
	ModelLabel string
	// Weight is the penalized similarity at commit time.
	Weight float64
}

// Stats describes the search effort.
type Stats struct {
	Expanded    int
	Generated   int
	Pruned      int
	MaxFrontier int
}

// Result is the outcome of one Match call.
type Result struct {
	// Similarity is Partial / Normalization, in [0,1].
	Similarity float64
	// Partial is the best Solution Set's total (committed) similarity.
	Partial float64
	// Normalization is the saliency-aware normalization factor.
	Normalization float64
	// Correspondence lists committed pairs ordered by query DFS index.
	Correspondence []Pair
	// Truncated reports that the frontier cap discarded viable branches.
	Truncated bool
	Algorithm Algorithm
	Stats     Stats
	// Solution is the winning Solution Set.
	Solution *SolutionSet
}
