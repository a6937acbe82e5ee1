package refdb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/dagmatch/dag"
)

// Reader serves stored DAGs. ReadAt and Scan are safe for concurrent use.
type Reader struct {
	path    string
	f       *os.File
	size    int64
	modTime time.Time
	opts    Options
	log     *slog.Logger

	entries []Entry
	byOff   map[int64]int
	maxTSV  int
	rebuilt bool

	cache *lru.Cache[int64, *dag.DAG]
}

// Open maps the database at path.
func Open(path string, opts ...Option) (*Reader, error) {
	o := Options{CacheSize: DefaultCacheSize}
	for _, fn := range opts {
		fn(&o)
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	cache, err := lru.New[int64, *dag.DAG](o.CacheSize)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("refdb: cache: %w", err)
	}
	r := &Reader{path: path, f: f, size: st.Size(), modTime: st.ModTime(), opts: o, log: log, cache: cache}

	head := make([]byte, len(magic))
	if _, err = f.ReadAt(head, 0); err != nil || string(head) != magic {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: bad header", ErrCorruptIndex, path)
	}

	if err = r.readTail(); err != nil {
		log.Warn("refdb trailer unusable, scanning records", "path", path, "err", err)
		r.rebuild()
		r.rebuilt = true
	}
	r.byOff = make(map[int64]int, len(r.entries))
	for i, e := range r.entries {
		r.byOff[e.Offset] = i
	}
	log.Debug("refdb opened", "path", path, "entries", len(r.entries), "rebuilt", r.rebuilt)

	return r, nil
}

// readTail loads the entry table through the trailer.
func (r *Reader) readTail() error {
	if r.size < int64(len(magic))+recordHeaderSize+trailerSize {
		return errors.New("file too short for trailer")
	}
	var tr [trailerSize]byte
	if _, err := r.f.ReadAt(tr[:], r.size-trailerSize); err != nil {
		return err
	}
	if binary.LittleEndian.Uint32(tr[16:]) != validityMark {
		return errors.New("validity mark missing")
	}
	tailOff := int64(binary.LittleEndian.Uint64(tr[0:]))
	count := int(binary.LittleEndian.Uint32(tr[12:]))
	sum := binary.LittleEndian.Uint32(tr[20:])
	if tailOff < int64(len(magic)) || tailOff > r.size-trailerSize-recordHeaderSize {
		return fmt.Errorf("tail offset %d out of range", tailOff)
	}

	kind, payload, err := r.record(tailOff)
	if err != nil {
		return err
	}
	if kind != kindTail {
		return fmt.Errorf("record at %d is not a tail", tailOff)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return errors.New("tail checksum mismatch")
	}
	var t wireTail
	if err = json.Unmarshal(payload, &t); err != nil {
		return err
	}
	if len(t.Entries) != count {
		return fmt.Errorf("tail lists %d entries, trailer %d", len(t.Entries), count)
	}
	r.entries, r.maxTSV = t.Entries, t.MaxTSV

	return nil
}

// rebuild reconstructs the entry table from a sequential scan.
func (r *Reader) rebuild() {
	r.entries, r.maxTSV = nil, 0
	off := int64(len(magic))
	for off < r.size {
		kind, payload, err := r.record(off)
		if err != nil || kind != kindDAG {
			break
		}
		g, err := UnmarshalDAG(payload, r.opts.GraphOptions...)
		if err != nil {
			r.log.Warn("refdb dropping undecodable record", "offset", off, "err", err)
			break
		}
		r.entries = append(r.entries, Entry{ID: g.ID(), Class: g.Class(), Offset: off, Nodes: g.Len()})
		r.maxTSV = max(r.maxTSV, g.MaxTSVDimension())
		r.cache.Add(off, g)
		off += int64(recordHeaderSize + len(payload))
	}
}

// record reads the record starting at off.
func (r *Reader) record(off int64) (byte, []byte, error) {
	var hdr [recordHeaderSize]byte
	if _, err := r.f.ReadAt(hdr[:], off); err != nil {
		return 0, nil, err
	}
	n := int64(binary.LittleEndian.Uint32(hdr[1:]))
	if off+recordHeaderSize+n > r.size {
		return 0, nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, n)
	if _, err := r.f.ReadAt(payload, off+recordHeaderSize); err != nil {
		return 0, nil, err
	}

	return hdr[0], payload, nil
}

// ReadAt returns the DAG stored at off.
func (r *Reader) ReadAt(off int64) (*dag.DAG, error) {
	if _, ok := r.byOff[off]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchRecord, off)
	}
	if g, ok := r.cache.Get(off); ok {
		cacheHits.Inc()
		return g, nil
	}
	cacheMisses.Inc()

	g, err := r.load(off)
	if err != nil {
		return nil, err
	}
	r.cache.Add(off, g)

	return g, nil
}

func (r *Reader) load(off int64) (*dag.DAG, error) {
	kind, payload, err := r.record(off)
	if err != nil {
		return nil, fmt.Errorf("%w: offset %d: %v", ErrCorruptIndex, off, err)
	}
	if kind != kindDAG {
		return nil, fmt.Errorf("%w: offset %d holds kind %d", ErrCorruptIndex, off, kind)
	}

	return UnmarshalDAG(payload, r.opts.GraphOptions...)
}

// Scan visits every stored DAG in file order; fn returning an error stops
// the scan and Scan returns it. Scanned DAGs bypass the cache.
func (r *Reader) Scan(fn func(Entry, *dag.DAG) error) error {
	for _, e := range r.entries {
		g, ok := r.cache.Peek(e.Offset)
		if !ok {
			var err error
			if g, err = r.load(e.Offset); err != nil {
				return err
			}
		}
		if err := fn(e, g); err != nil {
			return err
		}
	}

	return nil
}

// Entries returns the entry table in file order (shared, read-only).
func (r *Reader) Entries() []Entry { return r.entries }

// Len reports the number of stored DAGs.
func (r *Reader) Len() int { return len(r.entries) }

// MaxTSVDimension is the longest TSV over all stored DAGs.
func (r *Reader) MaxTSVDimension() int { return r.maxTSV }

// ModTime is the file modification time observed at Open.
func (r *Reader) ModTime() time.Time { return r.modTime }

// Path returns the file path.
func (r *Reader) Path() string { return r.path }

// Rebuilt reports whether the entry table came from a full scan.
func (r *Reader) Rebuilt() bool { return r.rebuilt }

// Close releases the file.
func (r *Reader) Close() error {
	r.cache.Purge()
	return r.f.Close()
}
