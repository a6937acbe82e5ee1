package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/matcher"
	"github.com/katalvlaran/dagmatch/sigindex"
)

// Retriever answers queries against one built index. Safe for concurrent use.
type Retriever struct {
	ix   *sigindex.Index
	opts Options
	mt   *matcher.Matcher
	log  *slog.Logger
}

// NewRetriever wraps ix. The index may be built later; queries before that
// fail with sigindex.ErrIndexNotReady.
func NewRetriever(ix *sigindex.Index, opts ...Option) *Retriever {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.K <= 0 {
		o.K = DefaultK
	}
	if o.Parallelism <= 0 {
		o.Parallelism = 1
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := &Retriever{ix: ix, opts: o, log: log}
	if o.RescoreTop > 0 && o.Source != nil {
		r.mt = matcher.New(o.MatcherOptions...)
	}

	return r
}

// Options returns the resolved configuration.
func (r *Retriever) Options() Options { return r.opts }

// candidate accumulates the votes for one reference graph.
type candidate struct {
	id, class string
	offset    int64
	votes     VoteList
}

// Query ranks reference graphs against q. w in [0,1] weights model-side
// normalization of each vote; candidates scoring below minSimilarity are
// dropped.
func (r *Retriever) Query(ctx context.Context, q *dag.DAG, w, minSimilarity float64) ([]Candidate, error) {
	if q == nil {
		return nil, ErrNilGraph
	}
	if math.IsNaN(w) || w < 0 || w > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeight, w)
	}
	qid := uuid.NewString()
	start := time.Now()
	log := r.log.With("query_id", qid, "graph", q.ID())

	out, err := r.query(ctx, q, w, minSimilarity, log)
	queryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		queriesTotal.WithLabelValues("error").Inc()
		log.Warn("retrieval failed", "err", err)
		return nil, err
	}
	queriesTotal.WithLabelValues("ok").Inc()
	candidatesReturned.Observe(float64(len(out)))
	log.Debug("retrieval finished", "candidates", len(out), "elapsed", time.Since(start))

	return out, nil
}

func (r *Retriever) query(ctx context.Context, q *dag.DAG, w, minSimilarity float64, log *slog.Logger) ([]Candidate, error) {
	cands, err := r.collect(ctx, q, w)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		score := 0.0
		if c.votes.Sum() >= r.opts.MinTotalVote {
			if r.opts.Resolution == NaiveSum {
				score = c.votes.Sum()
			} else {
				score = c.votes.Resolve()
			}
		}
		if score < minSimilarity {
			continue
		}
		out = append(out, Candidate{
			GraphID: c.id,
			Class:   c.class,
			Offset:  c.offset,
			Score:   score,
			VoteSum: c.votes.Sum(),
			Votes:   c.votes.Len(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Offset < out[j].Offset
	})

	if r.mt != nil {
		if err = r.rescore(ctx, q, out, log); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// collect casts the votes of every query node.
func (r *Retriever) collect(ctx context.Context, q *dag.DAG, w float64) (map[int64]*candidate, error) {
	cands := make(map[int64]*candidate)
	qMass := q.TotalTSVSum()
	if qMass == 0 {
		return cands, nil
	}

	cast := 0
	for _, u := range q.Preorder() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		qNorm := q.TSVNorm(u)
		if qNorm == 0 {
			continue
		}
		node := q.Node(u)
		hits, err := r.neighbors(node.TSV)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if r.opts.TypeFilter && h.Type != node.Attr.Type {
				continue
			}
			v := voteWeight(qNorm, qMass, floats.Norm(h.TSV, 2), h.Mass, h.DistSquared, w)
			if v < r.opts.MinVote {
				continue
			}
			c, ok := cands[h.Offset]
			if !ok {
				c = &candidate{id: h.GraphID, class: h.Class, offset: h.Offset}
				cands[h.Offset] = c
			}
			c.votes.Add(Vote{Query: u, Model: h.Node, Weight: v})
			cast++
		}
	}
	votesCast.Add(float64(cast))

	return cands, nil
}

func (r *Retriever) neighbors(tsv []float64) ([]sigindex.Neighbor, error) {
	if r.opts.Radius > 0 {
		return r.ix.RangeSearch(tsv, r.opts.Radius*r.opts.Radius)
	}
	return r.ix.KNearest(tsv, r.opts.K)
}

func voteWeight(qNorm, qMass, mNorm, mMass, dist2, w float64) float64 {
	mShare := 0.0
	if mMass > 0 {
		mShare = mNorm / mMass
	}

	return ((1-w)*qNorm/qMass + w*mShare) / (1 + math.Sqrt(dist2))
}

// rescore attaches exact matcher results to the leading candidates.
func (r *Retriever) rescore(ctx context.Context, q *dag.DAG, out []Candidate, log *slog.Logger) error {
	n := min(r.opts.RescoreTop, len(out))
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := r.opts.Source.ReadAt(out[i].Offset)
		if err != nil {
			return fmt.Errorf("retrieval: rescore %s: %w", out[i].GraphID, err)
		}
		res, err := r.mt.Match(q, g)
		if err != nil {
			return fmt.Errorf("retrieval: rescore %s: %w", out[i].GraphID, err)
		}
		out[i].Exact = &res
		log.Debug("rescored", "candidate", out[i].GraphID, "vote", out[i].Score, "exact", res.Similarity)
	}

	return nil
}

// QueryBatch runs Query for every graph in qs concurrently. The result for
// qs[i] is at index i. The first failure cancels the rest.
func (r *Retriever) QueryBatch(ctx context.Context, qs []*dag.DAG, w, minSimilarity float64) ([][]Candidate, error) {
	out := make([][]Candidate, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)
	for i, q := range qs {
		g.Go(func() error {
			res, err := r.Query(gctx, q, w, minSimilarity)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
