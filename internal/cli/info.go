package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dagmatch/refdb"
)

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "List the graphs stored in a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := refdb.Open(db, refdb.WithLogger(c.slog()))
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d graphs, max TSV dimension %d", r.Path(), r.Len(), r.MaxTSVDimension())
			if r.Rebuilt() {
				fmt.Fprint(out, " (entry table rebuilt from records)")
			}
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OFFSET\tID\tCLASS\tNODES")
			for _, e := range r.Entries() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.Offset, e.ID, e.Class, e.Nodes)
			}

			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "database file")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
