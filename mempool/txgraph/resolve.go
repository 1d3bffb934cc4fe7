package txgraph

import (
	"slices"

	"github.com/btcsuite/blockbuilder/mempool"
	"github.com/decred/dcrd/lru"
)

// defaultWarnCacheSize is the number of distinct missing parent ids that are
// remembered so each one is only reported once.
const defaultWarnCacheSize = 1000

// ResolveConfig controls how ancestor chains are resolved.
type ResolveConfig struct {
	// Strict makes a parent id that does not name a transaction in the
	// pool a fatal error.  When false the edge is dropped and the parent
	// treated as already confirmed.
	Strict bool

	// WarnCacheSize bounds the set of missing parent ids that were
	// already reported.  Zero selects the default.
	WarnCacheSize uint
}

// DefaultResolveConfig returns the lenient resolution configuration.
func DefaultResolveConfig() *ResolveConfig {
	return &ResolveConfig{
		WarnCacheSize: defaultWarnCacheSize,
	}
}

// ResolveStats summarizes a resolution pass.
type ResolveStats struct {
	// DanglingEdges counts parent references dropped because the parent
	// is not in the pool.
	DanglingEdges int

	// MaxChainLen is the length of the longest ancestor chain.
	MaxChainLen int

	// TotalChainLen is the sum of all chain lengths.
	TotalChainLen int
}

// visitState is the three colour marking of the depth-first walk.
type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// resolveFrame is a transaction on the explicit walk stack together with the
// position of the next parent id to look at.
type resolveFrame struct {
	handle  mempool.Handle
	next    int
	parents []mempool.Handle
}

// resolver carries the working state of a single resolution pass.
type resolver struct {
	pool   *mempool.Pool
	cfg    *ResolveConfig
	warned lru.Cache
	state  []visitState
	chains [][]mempool.Handle
	mark   []int
	stack  *Stack[*resolveFrame]
	stats  ResolveStats
}

// Resolve computes the deduplicated transitive ancestor chain of every
// transaction in the pool and stores them in the pool.
//
// The walk is an iterative depth-first search with a three colour marking,
// so every chain is computed exactly once and reused by all descendants, and
// a transaction met again while it is still being walked is reported as a
// CycleError.  Chains list every ancestor after its own ancestors.
//
// Resolution is deterministic: running it again on an unchanged pool
// produces identical chains.
func Resolve(pool *mempool.Pool, cfg *ResolveConfig) (*ResolveStats, error) {
	if cfg == nil {
		cfg = DefaultResolveConfig()
	}
	warnSize := cfg.WarnCacheSize
	if warnSize == 0 {
		warnSize = defaultWarnCacheSize
	}

	n := pool.Count()
	r := &resolver{
		pool:   pool,
		cfg:    cfg,
		warned: lru.NewCache(warnSize),
		state:  make([]visitState, n),
		chains: make([][]mempool.Handle, n),
		mark:   make([]int, n),
		stack:  NewStack[*resolveFrame](64),
	}

	for h := range pool.Handles() {
		if r.state[h] != unvisited {
			continue
		}
		if err := r.walk(h); err != nil {
			return nil, err
		}
	}

	if err := pool.SetChains(r.chains); err != nil {
		return nil, err
	}

	if r.stats.DanglingEdges > 0 {
		log.Infof("Dropped %d parent references to transactions "+
			"outside the pool", r.stats.DanglingEdges)
	}
	log.Debugf("Resolved %d chains (longest %d, total %d)", n,
		r.stats.MaxChainLen, r.stats.TotalChainLen)

	return &r.stats, nil
}

// walk resolves the chains of root and every ancestor of root that was not
// resolved yet.
func (r *resolver) walk(root mempool.Handle) error {
	r.state[root] = inProgress
	r.stack.Push(&resolveFrame{handle: root})

	for !r.stack.IsEmpty() {
		frame, _ := r.stack.Peek()
		desc := r.pool.Desc(frame.handle)

		if frame.next < len(desc.ParentIDs) {
			parentID := desc.ParentIDs[frame.next]
			frame.next++

			parent, ok := r.pool.Lookup(parentID)
			if !ok {
				if err := r.dangling(desc.ID, parentID); err != nil {
					return err
				}
				continue
			}

			switch r.state[parent] {
			case inProgress:
				return r.cycleError(parent)

			case done:
				frame.parents = append(frame.parents, parent)

			case unvisited:
				frame.parents = append(frame.parents, parent)
				r.state[parent] = inProgress
				r.stack.Push(&resolveFrame{handle: parent})
			}
			continue
		}

		// Every parent is resolved, so the chain can be assembled.
		chain := r.merge(frame.handle, frame.parents)
		r.chains[frame.handle] = chain
		r.state[frame.handle] = done
		r.stack.Pop()

		r.stats.TotalChainLen += len(chain)
		if len(chain) > r.stats.MaxChainLen {
			r.stats.MaxChainLen = len(chain)
		}
	}

	return nil
}

// merge builds the chain of h as the union of every parent chain followed by
// the parent itself.  Each ancestor is kept once, at its first position.
func (r *resolver) merge(h mempool.Handle,
	parents []mempool.Handle) []mempool.Handle {

	if len(parents) == 0 {
		return nil
	}

	// Marks are stamped with the handle being merged, so the slice never
	// has to be cleared between transactions.
	stamp := int(h) + 1
	var chain []mempool.Handle
	add := func(a mempool.Handle) {
		if r.mark[a] == stamp {
			return
		}
		r.mark[a] = stamp
		chain = append(chain, a)
	}
	for _, parent := range parents {
		for _, ancestor := range r.chains[parent] {
			add(ancestor)
		}
		add(parent)
	}
	return chain
}

// dangling handles a parent id that is not in the pool according to the
// configured policy.
func (r *resolver) dangling(id, parentID string) error {
	if r.cfg.Strict {
		return &DanglingParentError{ID: id, ParentID: parentID}
	}

	r.stats.DanglingEdges++
	if !r.warned.Contains(parentID) {
		r.warned.Add(parentID)
		log.Warnf("Transaction %s spends unknown parent %s, treating "+
			"it as confirmed", id, parentID)
	}
	return nil
}

// cycleError builds the error for a walk that reached parent again while
// parent is still on the stack.
func (r *resolver) cycleError(parent mempool.Handle) error {
	path := []string{r.pool.ID(parent)}
	for frame := range r.stack.Backward() {
		path = append(path, r.pool.ID(frame.handle))
		if frame.handle == parent {
			break
		}
	}
	slices.Reverse(path)
	return &CycleError{Path: path}
}
