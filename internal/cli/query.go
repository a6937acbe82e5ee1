package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dagmatch/refdb"
	"github.com/katalvlaran/dagmatch/retrieval"
	"github.com/katalvlaran/dagmatch/sigindex"
)

type queryOptions struct {
	db, queryDB string
	query       int64
	minSim      float64
	weight      float64
	store       string
	cfgPath     string
	rescore     int
}

// queryCommand creates the "query" command.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOptions
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Rank a database against a query graph",
		Example: `  dagmatch query --db ref.db --query 8 --min 0.5
  dagmatch query --db ref.db --query-db probes.db --query 8 --store ./sig --rescore 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.db, "db", "", "reference database")
	cmd.Flags().StringVar(&opts.queryDB, "query-db", "", "database holding the query graph (default: --db)")
	cmd.Flags().Int64Var(&opts.query, "query", 0, "offset of the query graph")
	cmd.Flags().Float64Var(&opts.minSim, "min", -1, "minimum resolved score (default: retrieval.minSimilarity)")
	cmd.Flags().Float64Var(&opts.weight, "w", -1, "model-side vote weight in [0,1] (default: voteWeight)")
	cmd.Flags().StringVar(&opts.store, "store", "", "badger directory for the signature store (default: in memory)")
	cmd.Flags().StringVar(&opts.cfgPath, "config", "", "YAML configuration file")
	cmd.Flags().IntVar(&opts.rescore, "rescore", -1, "re-score this many top candidates with the matcher")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func (c *CLI) runQuery(cmd *cobra.Command, opts queryOptions) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(opts.cfgPath)
	if err != nil {
		return err
	}
	if opts.minSim >= 0 {
		cfg.Retrieval.MinSimilarity = opts.minSim
	}
	if opts.weight >= 0 {
		cfg.VoteWeight = opts.weight
	}
	if opts.rescore >= 0 {
		cfg.Retrieval.RescoreTop = opts.rescore
	}
	if opts.store == "" {
		opts.store = cfg.Index.StorePath
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	sc := sigindex.InMemoryStoreConfig()
	if opts.store != "" {
		sc = sigindex.DefaultStoreConfig(opts.store)
		sc.Logger = c.slog()
	}

	prog := newProgress(c.Logger)
	e, err := retrieval.OpenEngine(ctx, opts.db, sc, cfg.RetrievalOptions(retrieval.WithLogger(c.slog()))...)
	if err != nil {
		return err
	}
	defer e.Close()
	prog.done(fmt.Sprintf("Index ready: %d graphs, %d signatures", e.Reader().Len(), e.Index().Len()))

	qr := e.Reader()
	if opts.queryDB != "" && opts.queryDB != opts.db {
		r, err := refdb.Open(opts.queryDB, append(cfg.ReaderOptions(), refdb.WithLogger(c.slog()))...)
		if err != nil {
			return err
		}
		defer r.Close()
		qr = r
	}
	q, err := qr.ReadAt(opts.query)
	if err != nil {
		return err
	}

	cands, err := e.Query(ctx, q, cfg.VoteWeight, cfg.Retrieval.MinSimilarity)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d candidates for %s (w=%.2f, min=%.2f)\n", len(cands), q.ID(), cfg.VoteWeight, cfg.Retrieval.MinSimilarity)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tOFFSET\tID\tCLASS\tSCORE\tVOTES\tEXACT")
	for i, cd := range cands {
		exact := "-"
		if cd.Exact != nil {
			exact = fmt.Sprintf("%.4f", cd.Exact.Similarity)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.4f\t%d\t%s\n", i+1, cd.Offset, cd.GraphID, cd.Class, cd.Score, cd.Votes, exact)
	}

	return tw.Flush()
}
