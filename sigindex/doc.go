// Package sigindex is a static nearest-neighbor index over topological
// signature vectors (TSVs) drawn from every node of a reference database.
//
// The index follows a single-writer-then-many-readers discipline: Build
// loads all points at once and freezes a kd-tree; RangeSearch and KNearest
// may then run concurrently. Build may be called again with the same points
// and yields an identical tree, hence identical query results.
//
// Vectors of different length are compared as if zero-padded to the index
// dimension (the longest TSV seen, or Options.Dimension if larger). Query
// components beyond the index dimension add their square to every distance.
//
// # Epsilon back-off
//
// Structural signatures cluster unevenly, so a fixed radius can return too
// few neighbors. RangeSearch therefore retries with r² + ε, doubling the
// increment after every miss, until at least MinResults points (capped at
// the population) are found. The radius only grows, so the result is always
// a superset of the true radius-r ball.
//
// Store persists points in badger together with the time they were built,
// so a caller can detect that the reference database changed since.
//
// Errors:
//
//	ErrIndexNotReady      - query issued before Build.
//	ErrInvalidQuery       - negative or NaN radius, or k <= 0.
//	ErrStorageUnavailable - the badger store cannot be opened or written.
//	ErrCorruptIndex       - a persisted point or stamp does not decode.
package sigindex
