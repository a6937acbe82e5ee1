// Package builder assembles synthetic shape DAGs for tests, benchmarks and
// sample reference databases.
//
// The package offers the following key components:
//
//   - Orchestration:
//     – BuildDAG:          runs constructors in order on one dag.Builder.
//     – Constructor:       a function that appends a shape to the builder.
//   - Shapes:
//     – Path(n):           a chain of n parts.
//     – Star(n):           a hub with n-1 leaves.
//     – BinaryTree(d):     a complete binary tree of depth d.
//     – RandomTree(n):     a uniformly grown random tree (needs a seed).
//     – RandomDAG(n, p):   RandomTree plus forward cross edges with probability p.
//   - Configuration primitives:
//     – BuilderOption:     mutates builderConfig before use.
//     – IDFn:              node label scheme ("0","1",… or "A","B",…).
//     – WeightFn:          edge weight distribution.
//     – ExtentFn:          node extent as a function of index and depth.
//
// The first constructor creates the composite root (node 0). Every later
// constructor hangs its own top node under that root, so any sequence of
// constructors still yields a single-rooted DAG.
//
// Guarantees:
//
//   - Determinism: same options, seed and constructor order ⇒ identical DAGs.
//   - No runtime panics; option constructors panic on meaningless input.
//   - Errors are sentinels from errors.go wrapped with the method name.
package builder
