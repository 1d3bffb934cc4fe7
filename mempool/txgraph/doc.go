// Package txgraph resolves the dependency structure of a candidate pool.
//
// Every transaction in a block template drags its unconfirmed ancestors in
// with it.  Resolve computes, for each transaction of a mempool.Pool, the
// deduplicated transitive set of ancestors it depends on (its chain), and
// Aggregate derives the fee and weight of the whole bundle formed by the
// transaction and its chain.
//
// # Resolution
//
// Resolution walks parent ids with an explicit stack instead of recursion and
// marks each transaction unvisited, in progress or done.  A transaction that
// is reached again while in progress closes a cycle, which aborts the pass
// with a CycleError:
//
//	stats, err := txgraph.Resolve(pool, txgraph.DefaultResolveConfig())
//	if errors.Is(err, txgraph.ErrCycleDetected) {
//	    // The batch is unusable.
//	}
//
// A parent id that names no transaction in the pool is dropped and logged
// once under the default lenient policy, or returned as a
// DanglingParentError when ResolveConfig.Strict is set.
//
// # Collections
//
// The package also provides the generic Stack and PriorityQueue containers
// used by the resolver and by the fee rate ordering of the mining package.
package txgraph
