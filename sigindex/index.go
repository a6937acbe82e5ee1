// Package sigindex - static kd-tree over zero-padded signature vectors.
//
// Build sorts points into an implicit tree of kdNode records; queries walk it
// recursively and never mutate it, so any number run under the read lock.
//
// Rationale (succinct):
//  1. Every vector is zero-padded to the index dimension (at least one axis).
//     Query components beyond the dimension add a constant tail term to every
//     distance, which is folded into the search radius.
//  2. Each subtree splits on its widest axis at the median; ties in a
//     coordinate break by build order.
//  3. RangeSearch widens the radius when fewer than MinResults points fall
//     inside it. The increment doubles each round and the target is capped
//     at the population, so the loop ends in O(log) rounds.
//  4. KNearest keeps a worst-first max-heap of size k and visits the far
//     side only when the splitting plane is within the current worst.
//
// Complexity:
//   - Build: O(n log² n) with per-level sorting. Memory: O(n·d).
//   - Query: O(log n) expected for well spread points, O(n) worst case.
//
// Determinism:
//   - Results are ordered by squared distance, then build order.

package sigindex

import (
	"container/heap"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
)

// Index is a static kd-tree over Points.
type Index struct {
	mu     sync.RWMutex
	opts   Options
	log    *slog.Logger
	dim    int
	pts    []Point
	coords []float64 // len(pts)*dim, zero-padded
	nodes  []kdNode
	root   int
	built  bool
}

type kdNode struct {
	pt          int
	axis        int
	left, right int // -1 = none
}

// New returns an empty, unbuilt index.
func New(opts ...Option) *Index {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.EpsilonIncrement <= 0 {
		o.EpsilonIncrement = DefaultEpsilonIncrement
	}
	if o.MinResults < 0 {
		o.MinResults = 0
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Index{opts: o, log: log, root: -1}
}

// Build replaces the index contents with points. Point order is the
// tie-break order of every query. The index keeps at least one axis, so
// points with empty signatures sit at the origin.
func (ix *Index) Build(points []Point) {
	dim := max(ix.opts.Dimension, 1)
	for i := range points {
		if len(points[i].TSV) > dim {
			dim = len(points[i].TSV)
		}
	}

	pts := append([]Point(nil), points...)
	coords := make([]float64, len(pts)*dim)
	for i := range pts {
		copy(coords[i*dim:], pts[i].TSV)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dim, ix.pts, ix.coords = dim, pts, coords
	ix.nodes = make([]kdNode, 0, len(pts))
	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	ix.root = ix.split(order)
	ix.built = true
	indexBuilds.Inc()
	ix.log.Debug("sigindex built", "points", len(pts), "dim", dim)
}

// split builds the subtree over idx and returns its node index.
func (ix *Index) split(idx []int) int {
	if len(idx) == 0 {
		return -1
	}
	axis := ix.widestAxis(idx)
	sort.Slice(idx, func(a, b int) bool {
		ca, cb := ix.coord(idx[a], axis), ix.coord(idx[b], axis)
		if ca != cb {
			return ca < cb
		}
		return idx[a] < idx[b]
	})
	mid := len(idx) / 2
	n := len(ix.nodes)
	ix.nodes = append(ix.nodes, kdNode{pt: idx[mid], axis: axis})
	left := ix.split(idx[:mid])
	right := ix.split(idx[mid+1:])
	ix.nodes[n].left, ix.nodes[n].right = left, right

	return n
}

func (ix *Index) widestAxis(idx []int) int {
	best, spread := 0, -1.0
	for a := 0; a < ix.dim; a++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, i := range idx {
			c := ix.coord(i, a)
			lo, hi = math.Min(lo, c), math.Max(hi, c)
		}
		if hi-lo > spread {
			best, spread = a, hi-lo
		}
	}

	return best
}

func (ix *Index) coord(i, axis int) float64 { return ix.coords[i*ix.dim+axis] }

// Len reports the number of indexed points.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.pts)
}

// Built reports whether Build has run.
func (ix *Index) Built() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.built
}

// Dimension reports the padded vector length.
func (ix *Index) Dimension() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.dim
}

// finite rejects query vectors with NaN or infinite components.
func finite(v []float64) error {
	for i, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrInvalidQuery, i, c)
		}
	}

	return nil
}

// query splits v into the in-index part and the squared norm of the rest.
func (ix *Index) query(v []float64) ([]float64, float64) {
	q := make([]float64, ix.dim)
	copy(q, v)
	var tail float64
	for i := ix.dim; i < len(v); i++ {
		tail += v[i] * v[i]
	}

	return q, tail
}

func (ix *Index) dist2(q []float64, i int) float64 {
	var s float64
	row := ix.coords[i*ix.dim : (i+1)*ix.dim]
	for a, c := range row {
		d := q[a] - c
		s += d * d
	}

	return s
}

// RangeSearch returns every point within squared distance r2 of v, widening
// the radius until at least MinResults points are found. Hits are ordered
// by distance, then build order.
func (ix *Index) RangeSearch(v []float64, r2 float64) ([]Neighbor, error) {
	if math.IsNaN(r2) || r2 < 0 {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidQuery, r2)
	}
	if err := finite(v); err != nil {
		return nil, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.built {
		return nil, ErrIndexNotReady
	}

	q, tail := ix.query(v)
	want := min(ix.opts.MinResults, len(ix.pts))
	eps, inc := 0.0, ix.opts.EpsilonIncrement
	var hits []int
	rounds := 0
	for {
		hits = hits[:0]
		ix.collect(ix.root, q, r2+eps-tail, &hits)
		// eps overflows only when the tail does; nothing more can match.
		if len(hits) >= want || math.IsInf(eps, 1) {
			break
		}
		eps += inc
		inc *= 2
		rounds++
	}
	backoffRounds.Observe(float64(rounds))

	return ix.neighbors(q, tail, hits), nil
}

func (ix *Index) collect(n int, q []float64, r2 float64, out *[]int) {
	if n < 0 || r2 < 0 {
		return
	}
	nd := ix.nodes[n]
	if ix.dist2(q, nd.pt) <= r2 {
		*out = append(*out, nd.pt)
	}
	diff := q[nd.axis] - ix.coord(nd.pt, nd.axis)
	near, far := nd.left, nd.right
	if diff > 0 {
		near, far = far, near
	}
	ix.collect(near, q, r2, out)
	if diff*diff <= r2 {
		ix.collect(far, q, r2, out)
	}
}

// KNearest returns the k points closest to v, ordered like RangeSearch.
func (ix *Index) KNearest(v []float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidQuery, k)
	}
	if err := finite(v); err != nil {
		return nil, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.built {
		return nil, ErrIndexNotReady
	}

	q, tail := ix.query(v)
	h := &worstFirst{}
	ix.nearest(ix.root, q, k, h)
	hits := make([]int, 0, h.Len())
	for _, c := range *h {
		hits = append(hits, c.pt)
	}

	return ix.neighbors(q, tail, hits), nil
}

func (ix *Index) nearest(n int, q []float64, k int, h *worstFirst) {
	if n < 0 {
		return
	}
	nd := ix.nodes[n]
	c := candidate{pt: nd.pt, d2: ix.dist2(q, nd.pt)}
	if h.Len() < k {
		heap.Push(h, c)
	} else if c.before((*h)[0]) {
		(*h)[0] = c
		heap.Fix(h, 0)
	}
	diff := q[nd.axis] - ix.coord(nd.pt, nd.axis)
	near, far := nd.left, nd.right
	if diff > 0 {
		near, far = far, near
	}
	ix.nearest(near, q, k, h)
	if h.Len() < k || diff*diff <= (*h)[0].d2 {
		ix.nearest(far, q, k, h)
	}
}

func (ix *Index) neighbors(q []float64, tail float64, hits []int) []Neighbor {
	sort.Ints(hits)
	out := make([]Neighbor, len(hits))
	for i, p := range hits {
		out[i] = Neighbor{Point: ix.pts[p], DistSquared: ix.dist2(q, p) + tail}
	}
	// hits is in build order, so a stable sort on distance keeps it as tie-break.
	sort.SliceStable(out, func(a, b int) bool { return out[a].DistSquared < out[b].DistSquared })

	return out
}

type candidate struct {
	pt int
	d2 float64
}

func (c candidate) before(o candidate) bool {
	if c.d2 != o.d2 {
		return c.d2 < o.d2
	}
	return c.pt < o.pt
}

// worstFirst is a max-heap on (distance, build order).
type worstFirst []candidate

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return h[j].before(h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *worstFirst) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]

	return x
}
