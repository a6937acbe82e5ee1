package cli_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dagmatch/internal/cli"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := cli.New(io.Discard, cli.LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()), strings.Join(args, " "))

	return out.String()
}

// TestWorkflow runs gen, info, index, match and query against one database.
func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ref.db")
	store := filepath.Join(dir, "sig")

	run(t, "gen", "--out", db, "--count", "3", "--shape", "tree", "--depth", "2")

	info := run(t, "info", "--db", db)
	require.Contains(t, info, "3 graphs")
	require.Contains(t, info, "tree-000")
	require.Contains(t, info, "tree-002")

	idx := run(t, "index", "--db", db, "--store", store)
	require.Empty(t, idx)

	// The first record sits right after the 8-byte header.
	match := run(t, "match", "--db", db, "--query", "8", "--model", "8")
	require.Contains(t, match, "similarity 1.000000")

	query := run(t, "query", "--db", db, "--query", "8", "--store", store, "--min", "0.9", "--rescore", "1")
	require.Contains(t, query, "3 candidates")
	require.Contains(t, query, "tree-000")
	require.Contains(t, query, "1.0000")
}

// TestBadInput surfaces flag and config errors.
func TestBadInput(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ref.db")
	run(t, "gen", "--out", db, "--count", "1", "--shape", "path", "--nodes", "3")

	for _, args := range [][]string{
		{"gen", "--out", db, "--shape", "hexagon"},
		{"match", "--db", db, "--query", "8", "--model", "9"},
		{"match", "--db", db, "--query", "8", "--model", "8", "--algorithm", "exhaustive"},
		{"query", "--db", db, "--query", "8", "--w", "3"},
		{"info", "--db", filepath.Join(dir, "missing.db")},
	} {
		root := cli.New(io.Discard, cli.LogInfo).RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs(args)
		require.Error(t, root.ExecuteContext(context.Background()), strings.Join(args, " "))
	}
}
