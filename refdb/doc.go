// Package refdb stores reference DAGs in a single append-only file and
// serves them back by offset.
//
// Layout (little-endian):
//
//	magic    "DAGMDB01"
//	record*  [kind u8][length u32][payload]
//	tail     record of kind tail: JSON {entries, max_tsv}
//	trailer  [tail offset u64][max tsv u32][count u32][validity u32][crc32 u32]
//
// A DAG payload is the JSON of its raw nodes, edges, id and class; derived
// data (DFS order, levels, TSVs) is recomputed through dag.Builder on read.
// An entry's offset is the file position of its record and serves as the
// stable handle used by the retrieval layer.
//
// When the trailer is missing or fails validation (an interrupted writer,
// a truncated copy) Open scans the records from the header on, keeps every
// record that decodes and reports Rebuilt. Anything after the first bad
// record is ignored.
//
// Errors:
//
//	ErrStorageUnavailable - the file cannot be opened, created or written.
//	ErrCorruptIndex       - bad magic, or a record that cannot be decoded.
//	ErrNoSuchRecord       - ReadAt with an offset that is not an entry.
package refdb
