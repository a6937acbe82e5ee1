package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/dagmatch/retrieval"
	"github.com/katalvlaran/dagmatch/sigindex"
)

// indexCommand creates the "index" command.
func (c *CLI) indexCommand() *cobra.Command {
	var db, store, cfgPath string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Compute and persist the signature index of a database",
		Long:  `index scans the database, extracts one signature per node and saves the points in a badger store. Later queries with the same --store skip the scan while the store is newer than the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if store == "" {
				store = cfg.Index.StorePath
			}
			if store == "" {
				return errors.New("--store is required (or index.storePath in the config)")
			}

			prog := newProgress(c.Logger)
			sc := sigindex.DefaultStoreConfig(store)
			sc.Logger = c.slog()
			e, err := retrieval.OpenEngine(cmd.Context(), db, sc, cfg.RetrievalOptions(retrieval.WithLogger(c.slog()))...)
			if err != nil {
				return err
			}
			n, dim := e.Index().Len(), e.Index().Dimension()
			if err = e.Close(); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Indexed %d signatures of dimension %d into %s", n, dim, store))

			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "database file")
	cmd.Flags().StringVar(&store, "store", "", "badger directory for the signature store")
	cmd.Flags().StringVar(&cfgPath, "config", "", "YAML configuration file")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
