package sigindex

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/dagmatch/dag"
)

// Sentinel errors.
var (
	ErrIndexNotReady      = errors.New("sigindex: index not built")
	ErrInvalidQuery       = errors.New("sigindex: invalid query")
	ErrStorageUnavailable = errors.New("sigindex: storage unavailable")
	ErrCorruptIndex       = errors.New("sigindex: corrupt index")
)

// Point is one indexed node signature tagged with its origin.
type Point struct {
	GraphID string     `json:"graph_id"`
	Offset  int64      `json:"offset"`
	Class   string     `json:"class,omitempty"`
	Node    dag.NodeID `json:"node"`
	Label   string     `json:"label"`
	Type    string     `json:"type,omitempty"`
	TSV     []float64  `json:"tsv"`
	// Mass is the owning graph's total TSV sum.
	Mass float64 `json:"mass"`
}

// Neighbor is a query hit.
type Neighbor struct {
	Point
	DistSquared float64
}

// PointsFromDAG returns one point per node of g with a non-zero TSV.
func PointsFromDAG(g *dag.DAG, offset int64) []Point {
	out := make([]Point, 0, g.Len())
	for _, id := range g.Preorder() {
		if g.TSVNorm(id) == 0 {
			continue
		}
		n := g.Node(id)
		out = append(out, Point{
			GraphID: g.ID(),
			Offset:  offset,
			Class:   g.Class(),
			Node:    id,
			Label:   n.Label,
			Type:    n.Attr.Type,
			TSV:     append([]float64(nil), n.TSV...),
			Mass:    g.TotalTSVSum(),
		})
	}

	return out
}

// Options configures an Index.
type Options struct {
	// Dimension is the minimum index dimension; the longest TSV wins if larger.
	Dimension int
	// MinResults is the back-off target of RangeSearch.
	MinResults int
	// EpsilonIncrement is the first squared-radius increment of the back-off.
	EpsilonIncrement float64
	// Logger receives build summaries. Nil discards.
	Logger *slog.Logger
}

// Defaults.
const (
	DefaultMinResults       = 1
	DefaultEpsilonIncrement = 0.05
)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{MinResults: DefaultMinResults, EpsilonIncrement: DefaultEpsilonIncrement}
}

// Option customizes Options.
type Option func(*Options)

// WithDimension sets the minimum index dimension.
func WithDimension(d int) Option { return func(o *Options) { o.Dimension = d } }

// WithMinResults sets the RangeSearch back-off target.
func WithMinResults(n int) Option { return func(o *Options) { o.MinResults = n } }

// WithEpsilonIncrement sets the first back-off increment.
func WithEpsilonIncrement(eps float64) Option { return func(o *Options) { o.EpsilonIncrement = eps } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }
