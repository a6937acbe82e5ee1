package refdb_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/dagmatch/builder"
	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/refdb"
)

// RefDBSuite writes a small database per test.
type RefDBSuite struct {
	suite.Suite
	path    string
	graphs  []*dag.DAG
	offsets []int64
}

func (s *RefDBSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "ref.db")
	cons := []builder.Constructor{builder.Path(4), builder.Star(5), builder.BinaryTree(2), builder.RandomTree(12)}
	s.graphs, s.offsets = nil, nil

	w, err := refdb.Create(s.path)
	s.Require().NoError(err)
	for i, c := range cons {
		g, err := builder.BuildDAG(
			[]dag.Option{dag.WithID(string(rune('a' + i))), dag.WithClass("c")},
			[]builder.BuilderOption{builder.WithSeed(int64(i) + 1), builder.WithType("limb")},
			c,
		)
		s.Require().NoError(err)
		off, err := w.Append(g)
		s.Require().NoError(err)
		s.graphs = append(s.graphs, g)
		s.offsets = append(s.offsets, off)
	}
	s.Require().Equal(len(cons), w.Len())
	s.Require().NoError(w.Close())
}

func (s *RefDBSuite) requireSame(want, got *dag.DAG) {
	s.Require().Equal(want.ID(), got.ID())
	s.Require().Equal(want.Class(), got.Class())
	s.Require().Equal(want.Nodes(), got.Nodes())
	s.Require().Equal(want.Edges(), got.Edges())
}

// TestRoundTrip reads every DAG back by offset, twice to hit the cache.
func (s *RefDBSuite) TestRoundTrip() {
	r, err := refdb.Open(s.path, refdb.WithCacheSize(2))
	s.Require().NoError(err)
	defer r.Close()

	s.Require().False(r.Rebuilt())
	s.Require().Equal(len(s.graphs), r.Len())
	maxTSV := 0
	for i, e := range r.Entries() {
		s.Require().Equal(s.offsets[i], e.Offset)
		s.Require().Equal(s.graphs[i].ID(), e.ID)
		s.Require().Equal(s.graphs[i].Len(), e.Nodes)
		maxTSV = max(maxTSV, s.graphs[i].MaxTSVDimension())
	}
	s.Require().Equal(maxTSV, r.MaxTSVDimension())

	for round := 0; round < 2; round++ {
		for i, off := range s.offsets {
			g, err := r.ReadAt(off)
			s.Require().NoError(err)
			s.requireSame(s.graphs[i], g)
		}
	}

	_, err = r.ReadAt(s.offsets[0] + 1)
	s.Require().ErrorIs(err, refdb.ErrNoSuchRecord)
}

// TestScan visits records in file order and propagates callback errors.
func (s *RefDBSuite) TestScan() {
	r, err := refdb.Open(s.path)
	s.Require().NoError(err)
	defer r.Close()

	var ids []string
	s.Require().NoError(r.Scan(func(e refdb.Entry, g *dag.DAG) error {
		ids = append(ids, g.ID())
		return nil
	}))
	s.Require().Equal([]string{"a", "b", "c", "d"}, ids)

	stop := errors.New("stop")
	err = r.Scan(func(refdb.Entry, *dag.DAG) error { return stop })
	s.Require().ErrorIs(err, stop)
}

// TestRebuildAfterTruncation drops the trailer and half of the last record.
func (s *RefDBSuite) TestRebuildAfterTruncation() {
	cut := s.offsets[len(s.offsets)-1] + 9
	s.Require().NoError(os.Truncate(s.path, cut))

	r, err := refdb.Open(s.path)
	s.Require().NoError(err)
	defer r.Close()

	s.Require().True(r.Rebuilt())
	s.Require().Equal(len(s.graphs)-1, r.Len())
	for i, e := range r.Entries() {
		s.Require().Equal(s.offsets[i], e.Offset)
		g, err := r.ReadAt(e.Offset)
		s.Require().NoError(err)
		s.requireSame(s.graphs[i], g)
	}
}

// TestCorruptTrailer flips the checksum and expects a rebuilt, complete table.
func (s *RefDBSuite) TestCorruptTrailer() {
	raw, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	raw[len(raw)-1] ^= 0xFF
	s.Require().NoError(os.WriteFile(s.path, raw, 0o600))

	r, err := refdb.Open(s.path)
	s.Require().NoError(err)
	defer r.Close()
	s.Require().True(r.Rebuilt())
	s.Require().Equal(len(s.graphs), r.Len())
}

func TestRefDBSuite(t *testing.T) {
	suite.Run(t, new(RefDBSuite))
}

// TestOpenErrors covers a missing file and a foreign header.
func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := refdb.Open(filepath.Join(dir, "missing.db"))
	require.ErrorIs(t, err, refdb.ErrStorageUnavailable)

	bad := filepath.Join(dir, "bad.db")
	require.NoError(t, os.WriteFile(bad, []byte("not a database at all"), 0o600))
	_, err = refdb.Open(bad)
	require.ErrorIs(t, err, refdb.ErrCorruptIndex)
}

// TestEmptyDatabase opens a database with no records.
func TestEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	w, err := refdb.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := refdb.Open(path)
	require.NoError(t, err)
	defer r.Close()
	require.False(t, r.Rebuilt())
	require.Zero(t, r.Len())
}

// TestWatcher fires once for a burst of writes.
func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	fired := make(chan struct{}, 4)
	w, err := refdb.NewWatcher(path, 50*time.Millisecond, func() { fired <- struct{}{} }, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
	}
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire")
	}
	select {
	case <-fired:
		t.Fatal("burst fired twice")
	case <-time.After(300 * time.Millisecond):
	}
}
