package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dagmatch/builder"
	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/refdb"
)

type genOptions struct {
	out   string
	count int
	shape string
	nodes int
	depth int
	prob  float64
	seed  int64
	class string
}

// genCommand creates the "gen" command.
func (c *CLI) genCommand() *cobra.Command {
	var opts genOptions
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a reference database of synthetic DAGs",
		Example: `  dagmatch gen --out ref.db --count 50 --shape random --nodes 12 --seed 7
  dagmatch gen --out trees.db --count 4 --shape tree --depth 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGen(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "database file to create")
	cmd.Flags().IntVar(&opts.count, "count", 10, "number of graphs")
	cmd.Flags().StringVar(&opts.shape, "shape", "random", "path, star, tree, random or dag")
	cmd.Flags().IntVar(&opts.nodes, "nodes", 8, "nodes per graph (path, star, random, dag)")
	cmd.Flags().IntVar(&opts.depth, "depth", 3, "tree depth (tree)")
	cmd.Flags().Float64Var(&opts.prob, "p", 0.2, "extra edge probability (dag)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "base random seed; graph i uses seed+i")
	cmd.Flags().StringVar(&opts.class, "class", "", "class tag for every graph (default: the shape)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) runGen(cmd *cobra.Command, opts genOptions) error {
	cons, err := shapeConstructor(opts)
	if err != nil {
		return err
	}
	class := opts.class
	if class == "" {
		class = opts.shape
	}

	prog := newProgress(c.Logger)
	w, err := refdb.Create(opts.out)
	if err != nil {
		return err
	}
	for i := 0; i < opts.count; i++ {
		if err = cmd.Context().Err(); err != nil {
			_ = w.Close()
			return err
		}
		g, err := builder.BuildDAG(
			[]dag.Option{dag.WithID(fmt.Sprintf("%s-%03d", opts.shape, i)), dag.WithClass(class)},
			[]builder.BuilderOption{builder.WithSeed(opts.seed + int64(i))},
			cons,
		)
		if err != nil {
			_ = w.Close()
			return err
		}
		off, err := w.Append(g)
		if err != nil {
			_ = w.Close()
			return err
		}
		c.Logger.Debug("appended", "id", g.ID(), "offset", off, "nodes", g.Len())
	}
	if err = w.Close(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d graphs to %s", opts.count, opts.out))

	return nil
}

func shapeConstructor(opts genOptions) (builder.Constructor, error) {
	switch opts.shape {
	case "path":
		return builder.Path(opts.nodes), nil
	case "star":
		return builder.Star(opts.nodes), nil
	case "tree":
		return builder.BinaryTree(opts.depth), nil
	case "random":
		return builder.RandomTree(opts.nodes), nil
	case "dag":
		return builder.RandomDAG(opts.nodes, opts.prob), nil
	default:
		return nil, fmt.Errorf("unknown shape %q (want path, star, tree, random or dag)", opts.shape)
	}
}
