package dag

import (
	"errors"
	"fmt"
)

// ErrMalformedGraph is the error kind reported for every structural defect.
var ErrMalformedGraph = errors.New("dag: malformed graph")

// Specific causes. Each wraps ErrMalformedGraph.
var (
	ErrNoRoot            = fmt.Errorf("%w: no root", ErrMalformedGraph)
	ErrMultipleRoots     = fmt.Errorf("%w: multiple roots", ErrMalformedGraph)
	ErrCycle             = fmt.Errorf("%w: cycle detected", ErrMalformedGraph)
	ErrUnreachable       = fmt.Errorf("%w: node unreachable from root", ErrMalformedGraph)
	ErrMissingAttributes = fmt.Errorf("%w: invalid node attributes", ErrMalformedGraph)
	ErrUnknownNode       = fmt.Errorf("%w: unknown node", ErrMalformedGraph)
	ErrSelfLoop          = fmt.Errorf("%w: self-loop", ErrMalformedGraph)
	ErrDuplicateEdge     = fmt.Errorf("%w: duplicate edge", ErrMalformedGraph)
	ErrDuplicateLabel    = fmt.Errorf("%w: duplicate label", ErrMalformedGraph)
)

// NodeID references a node inside the arena of its DAG.
type NodeID int

// DefaultEdgeWeight is used for edges added with a non-positive weight.
const DefaultEdgeWeight = 1.0

// DefaultNodeCost is used for nodes whose Cost is left at zero.
const DefaultNodeCost = 1.0

// Attributes are the domain attributes supplied by the extractor.
type Attributes struct {
	// Extent is the geometric length of the part (>= 0).
	Extent float64

	// Radius samples the radius function along the part (each value >= 0).
	Radius []float64

	// Cost is the node's own contribution to subtree cost. Zero means DefaultNodeCost.
	Cost float64

	// Type is the structural type tag. Nodes of different types never match.
	Type string
}

// Node is a read-only view of one DAG node and its derived metrics.
type Node struct {
	ID    NodeID
	Label string
	Attr  Attributes

	// DFSIndex is the preorder rank assigned by the traversal from the root.
	DFSIndex int
	// Level is the longest-path depth from the root.
	Level int
	// SubtreeCost is Cost plus the subtree costs of all children.
	SubtreeCost float64
	// TSV is the topological signature vector, sorted in descending order.
	TSV []float64
}

// Edge is a directed parent→child connection.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight float64
}

// Relation classifies one node with respect to another.
type Relation uint8

const (
	// Unrelated nodes share no ancestor/descendant or sibling relation.
	Unrelated Relation = iota
	// Ancestor means the other node lies on a path from the root to this node.
	Ancestor
	// Descendant means the other node is reachable from this node.
	Descendant
	// Sibling means the other node is reachable from one of this node's parents.
	Sibling
)

// String implements fmt.Stringer.
func (r Relation) String() string {
	switch r {
	case Ancestor:
		return "ancestor"
	case Descendant:
		return "descendant"
	case Sibling:
		return "sibling"
	default:
		return "unrelated"
	}
}

// options collects Builder settings.
type options struct {
	id       string
	class    string
	maxTSVDm int
}

// Option customizes a Builder.
type Option func(*options)

// WithID sets the graph identifier.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithClass sets the type tag stored alongside the graph in a reference database.
func WithClass(class string) Option {
	return func(o *options) { o.class = class }
}

// WithMaxTSVDimension caps TSV length; the largest entries are kept.
// Non-positive values leave the TSV unbounded.
func WithMaxTSVDimension(k int) Option {
	return func(o *options) {
		if k < 0 {
			k = 0
		}
		o.maxTSVDm = k
	}
}
