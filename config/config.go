// Package config loads the matcher and retrieval configuration from YAML.
//
// The top-level keys are the recognized matcher options:
//
//	matchingAlgorithm:          optimal | greedy | topological | adaptive
//	nodeSimilarityFunction:     local | contextual
//	maxFrontierSize:            int >= 0 (0 = unbounded)
//	maxBranchesPerExpansion:    int >= 0 (0 = unbounded)
//	voteWeight:                 float in [0,1]
//	useBipartiteVoteResolution: bool
//
// Nested sections (similarity, penalties, retrieval, index, database) tune
// the rest. Missing keys keep their Default value; unknown keys are errors.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/matcher"
	"github.com/katalvlaran/dagmatch/refdb"
	"github.com/katalvlaran/dagmatch/retrieval"
	"github.com/katalvlaran/dagmatch/sigindex"
	"github.com/katalvlaran/dagmatch/similarity"
)

// ErrInvalidConfig wraps every load and validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full tool configuration.
type Config struct {
	MatchingAlgorithm          string  `yaml:"matchingAlgorithm" validate:"oneof=optimal greedy topological adaptive"`
	NodeSimilarityFunction     string  `yaml:"nodeSimilarityFunction" validate:"oneof=local contextual"`
	MaxFrontierSize            int     `yaml:"maxFrontierSize" validate:"gte=0"`
	MaxBranchesPerExpansion    int     `yaml:"maxBranchesPerExpansion" validate:"gte=0"`
	VoteWeight                 float64 `yaml:"voteWeight" validate:"gte=0,lte=1"`
	UseBipartiteVoteResolution bool    `yaml:"useBipartiteVoteResolution"`

	Similarity Similarity `yaml:"similarity"`
	Penalties  Penalties  `yaml:"penalties"`
	Retrieval  Retrieval  `yaml:"retrieval"`
	Index      Index      `yaml:"index"`
	Database   Database   `yaml:"database"`
}

// Similarity tunes the node measurers.
type Similarity struct {
	TSVWeight       float64 `yaml:"tsvWeight" validate:"gte=0,lte=1"`
	ContextWeight   float64 `yaml:"contextWeight" validate:"gte=0,lte=1"`
	SaliencyParam   float64 `yaml:"saliencyParam" validate:"gte=0"`
	AmbiguityMargin float64 `yaml:"ambiguityMargin" validate:"gte=0"`
}

// Penalties mirrors matcher.Penalties.
type Penalties struct {
	BreakAncestor   float64 `yaml:"breakAncestor" validate:"gte=0,lte=1"`
	BreakDescendant float64 `yaml:"breakDescendant" validate:"gte=0,lte=1"`
	BreakSibling    float64 `yaml:"breakSibling" validate:"gte=0,lte=1"`
	SigmaAncestor   float64 `yaml:"sigmaAncestor" validate:"gte=0"`
	SigmaDescendant float64 `yaml:"sigmaDescendant" validate:"gte=0"`
	SigmaSibling    float64 `yaml:"sigmaSibling" validate:"gte=0"`
}

// Retrieval tunes voting.
type Retrieval struct {
	MinSimilarity float64 `yaml:"minSimilarity" validate:"gte=0,lte=1"`
	Radius        float64 `yaml:"radius" validate:"gte=0"`
	K             int     `yaml:"k" validate:"gte=1"`
	MinVote       float64 `yaml:"minVote" validate:"gte=0"`
	MinTotalVote  float64 `yaml:"minTotalVote" validate:"gte=0"`
	TypeFilter    bool    `yaml:"typeFilter"`
	RescoreTop    int     `yaml:"rescoreTop" validate:"gte=0"`
	Parallelism   int     `yaml:"parallelism" validate:"gte=0"`
}

// Index tunes the signature index and its store.
type Index struct {
	MinResults       int     `yaml:"minResults" validate:"gte=0"`
	EpsilonIncrement float64 `yaml:"epsilonIncrement" validate:"gt=0"`
	StorePath        string  `yaml:"storePath"`
}

// Database tunes the reference database reader.
type Database struct {
	CacheSize       int           `yaml:"cacheSize" validate:"gte=1"`
	MaxTSVDimension int           `yaml:"maxTSVDimension" validate:"gte=0"`
	WatchDebounce   time.Duration `yaml:"watchDebounce" validate:"gte=0"`
}

// Default mirrors the package defaults.
func Default() Config {
	p := matcher.DefaultPenalties()

	return Config{
		MatchingAlgorithm:          matcher.Optimal.String(),
		NodeSimilarityFunction:     matcher.LocalSimilarity.String(),
		MaxFrontierSize:            matcher.DefaultMaxFrontierSize,
		MaxBranchesPerExpansion:    matcher.DefaultMaxBranchesPerExpansion,
		VoteWeight:                 0.5,
		UseBipartiteVoteResolution: true,
		Similarity: Similarity{
			TSVWeight:       similarity.DefaultTSVWeight,
			ContextWeight:   similarity.DefaultContextWeight,
			AmbiguityMargin: matcher.DefaultAmbiguityMargin,
		},
		Penalties: Penalties(p),
		Retrieval: Retrieval{
			MinSimilarity: 0.5,
			K:             retrieval.DefaultK,
			MinVote:       retrieval.DefaultMinVote,
			TypeFilter:    true,
		},
		Index: Index{
			MinResults:       sigindex.DefaultMinResults,
			EpsilonIncrement: sigindex.DefaultEpsilonIncrement,
		},
		Database: Database{
			CacheSize:     refdb.DefaultCacheSize,
			WatchDebounce: refdb.DefaultDebounce,
		},
	}
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return Parse(raw)
}

// Parse decodes YAML over Default and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s: %v violates %s", fe.Namespace(), fe.Value(), rule))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// MatcherOptions converts the matcher settings.
func (c Config) MatcherOptions() []matcher.Option {
	// Both values passed validation, so parsing cannot fail.
	alg, _ := matcher.ParseAlgorithm(c.MatchingAlgorithm)
	sim, _ := matcher.ParseSimilarityFunction(c.NodeSimilarityFunction)

	return []matcher.Option{
		matcher.WithAlgorithm(alg),
		matcher.WithSimilarity(sim),
		matcher.WithMaxFrontierSize(c.MaxFrontierSize),
		matcher.WithMaxBranchesPerExpansion(c.MaxBranchesPerExpansion),
		matcher.WithTSVWeight(c.Similarity.TSVWeight),
		matcher.WithContextWeight(c.Similarity.ContextWeight),
		matcher.WithSaliencyParam(c.Similarity.SaliencyParam),
		matcher.WithAmbiguityMargin(c.Similarity.AmbiguityMargin),
		matcher.WithPenalties(matcher.Penalties(c.Penalties)),
	}
}

// IndexOptions converts the index settings.
func (c Config) IndexOptions() []sigindex.Option {
	return []sigindex.Option{
		sigindex.WithMinResults(c.Index.MinResults),
		sigindex.WithEpsilonIncrement(c.Index.EpsilonIncrement),
	}
}

// ReaderOptions converts the database settings.
func (c Config) ReaderOptions() []refdb.Option {
	opts := []refdb.Option{refdb.WithCacheSize(c.Database.CacheSize)}
	if c.Database.MaxTSVDimension > 0 {
		opts = append(opts, refdb.WithGraphOptions(dag.WithMaxTSVDimension(c.Database.MaxTSVDimension)))
	}

	return opts
}

// RetrievalOptions converts the retrieval settings; extra options apply last.
// Re-scoring uses the matcher settings.
func (c Config) RetrievalOptions(extra ...retrieval.Option) []retrieval.Option {
	opts := []retrieval.Option{
		retrieval.WithRadius(c.Retrieval.Radius),
		retrieval.WithK(c.Retrieval.K),
		retrieval.WithMinVote(c.Retrieval.MinVote),
		retrieval.WithMinTotalVote(c.Retrieval.MinTotalVote),
		retrieval.WithTypeFilter(c.Retrieval.TypeFilter),
		retrieval.WithBipartiteResolution(c.UseBipartiteVoteResolution),
		retrieval.WithMatcherOptions(c.MatcherOptions()...),
		retrieval.WithIndexOptions(c.IndexOptions()...),
	}
	if c.Retrieval.RescoreTop > 0 {
		opts = append(opts, retrieval.WithRescore(c.Retrieval.RescoreTop, nil))
	}
	if c.Retrieval.Parallelism > 0 {
		opts = append(opts, retrieval.WithParallelism(c.Retrieval.Parallelism))
	}

	return append(opts, extra...)
}
