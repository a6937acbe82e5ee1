// Package cli implements the dagmatch command-line interface.
//
// Commands:
//   - gen:   write a reference database of synthetic DAGs
//   - info:  list the graphs stored in a database
//   - index: compute and persist the signature index of a database
//   - match: compare two stored graphs with the pairwise matcher
//   - query: rank a database against a query graph by signature voting
//
// All commands accept --verbose (-v) for debug logging. The charmbracelet
// logger doubles as the slog handler handed to the library packages.
package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/dagmatch/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// slog adapts the CLI logger for library packages.
func (c *CLI) slog() *slog.Logger {
	return slog.New(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "dagmatch",
		Short:        "dagmatch compares and retrieves shape DAGs",
		Long:         `dagmatch matches rooted shape DAGs by branch-and-bound search and ranks reference databases against a query by topological signature voting.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.genCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.matchCommand())
	root.AddCommand(c.queryCommand())

	return root
}

// loadConfig reads path (may be empty) and logs where settings came from.
func (c *CLI) loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path, "algorithm", cfg.MatchingAlgorithm)
	}

	return cfg, nil
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
