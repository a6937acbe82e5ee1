package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dagmatch/matcher"
	"github.com/katalvlaran/dagmatch/refdb"
)

type matchOptions struct {
	db, modelDB  string
	query, model int64
	cfgPath      string
	algorithm    string
	showPairs    bool
}

// matchCommand creates the "match" command.
func (c *CLI) matchCommand() *cobra.Command {
	var opts matchOptions
	cmd := &cobra.Command{
		Use:     "match",
		Short:   "Compare two stored graphs with the pairwise matcher",
		Example: `  dagmatch match --db ref.db --query 8 --model 412 --algorithm greedy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMatch(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.db, "db", "", "database holding the query graph")
	cmd.Flags().StringVar(&opts.modelDB, "model-db", "", "database holding the model graph (default: --db)")
	cmd.Flags().Int64Var(&opts.query, "query", 0, "offset of the query graph")
	cmd.Flags().Int64Var(&opts.model, "model", 0, "offset of the model graph")
	cmd.Flags().StringVar(&opts.cfgPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", "", "override matchingAlgorithm")
	cmd.Flags().BoolVar(&opts.showPairs, "pairs", true, "print the correspondence")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func (c *CLI) runMatch(cmd *cobra.Command, opts matchOptions) error {
	cfg, err := c.loadConfig(opts.cfgPath)
	if err != nil {
		return err
	}
	mopts := append(cfg.MatcherOptions(), matcher.WithLogger(c.slog()))
	if opts.algorithm != "" {
		alg, err := matcher.ParseAlgorithm(opts.algorithm)
		if err != nil {
			return err
		}
		mopts = append(mopts, matcher.WithAlgorithm(alg))
	}

	qr, err := refdb.Open(opts.db, append(cfg.ReaderOptions(), refdb.WithLogger(c.slog()))...)
	if err != nil {
		return err
	}
	defer qr.Close()
	mr := qr
	if opts.modelDB != "" && opts.modelDB != opts.db {
		if mr, err = refdb.Open(opts.modelDB, append(cfg.ReaderOptions(), refdb.WithLogger(c.slog()))...); err != nil {
			return err
		}
		defer mr.Close()
	}

	q, err := qr.ReadAt(opts.query)
	if err != nil {
		return err
	}
	m, err := mr.ReadAt(opts.model)
	if err != nil {
		return err
	}

	res, err := matcher.New(mopts...).Match(q, m)
	if err != nil {
		return err
	}
	if res.Truncated {
		c.Logger.Warn("search truncated by the frontier cap; result may be suboptimal",
			"maxFrontier", res.Stats.MaxFrontier)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s vs %s: similarity %.6f (partial %.4f / %.4f, %s, %d expansions)\n",
		q.ID(), m.ID(), res.Similarity, res.Partial, res.Normalization, res.Algorithm, res.Stats.Expanded)
	if !opts.showPairs {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tMODEL\tWEIGHT")
	for _, p := range res.Correspondence {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\n", p.QueryLabel, p.ModelLabel, p.Weight)
	}

	return tw.Flush()
}
