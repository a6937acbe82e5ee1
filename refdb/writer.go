package refdb

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"math"
	"os"

	"github.com/katalvlaran/dagmatch/dag"
)

// Writer appends DAGs to a new database file. Not safe for concurrent use.
type Writer struct {
	f       *os.File
	bw      *bufio.Writer
	off     int64
	entries []Entry
	maxTSV  int
	closed  bool
}

// Create truncates path and writes the header.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	w := &Writer{f: f, bw: bufio.NewWriter(f)}
	if _, err = w.bw.WriteString(magic); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	w.off = int64(len(magic))

	return w, nil
}

// Append stores g and returns its offset.
func (w *Writer) Append(g *dag.DAG) (int64, error) {
	if w.closed {
		return 0, fmt.Errorf("%w: writer closed", ErrStorageUnavailable)
	}
	raw, err := MarshalDAG(g)
	if err != nil {
		return 0, fmt.Errorf("refdb: encode %s: %w", g.ID(), err)
	}
	off := w.off
	if err = w.record(kindDAG, raw); err != nil {
		return 0, err
	}
	w.entries = append(w.entries, Entry{ID: g.ID(), Class: g.Class(), Offset: off, Nodes: g.Len()})
	w.maxTSV = max(w.maxTSV, g.MaxTSVDimension())

	return off, nil
}

// Len reports the number of DAGs appended so far.
func (w *Writer) Len() int { return len(w.entries) }

func (w *Writer) record(kind byte, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: record of %d bytes", ErrStorageUnavailable, len(payload))
	}
	var hdr [recordHeaderSize]byte
	hdr[0] = kind
	binary.LittleEndian.PutUint32(hdr[1:], uint32(len(payload)))
	if _, err := w.bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err := w.bw.Write(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	w.off += int64(recordHeaderSize + len(payload))

	return nil
}

// Close writes the tail and trailer, then syncs and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	entries := w.entries
	if entries == nil {
		entries = []Entry{}
	}
	tail, err := json.Marshal(wireTail{Entries: entries, MaxTSV: w.maxTSV})
	if err != nil {
		_ = w.f.Close()
		return fmt.Errorf("refdb: encode tail: %w", err)
	}
	tailOff := w.off
	if err = w.record(kindTail, tail); err != nil {
		_ = w.f.Close()
		return err
	}

	var tr [trailerSize]byte
	binary.LittleEndian.PutUint64(tr[0:], uint64(tailOff))
	binary.LittleEndian.PutUint32(tr[8:], uint32(w.maxTSV))
	binary.LittleEndian.PutUint32(tr[12:], uint32(len(w.entries)))
	binary.LittleEndian.PutUint32(tr[16:], validityMark)
	binary.LittleEndian.PutUint32(tr[20:], crc32.ChecksumIEEE(tail))
	if _, err = w.bw.Write(tr[:]); err != nil {
		_ = w.f.Close()
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err = w.bw.Flush(); err == nil {
		err = w.f.Sync()
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return nil
}
