// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"fmt"
	"iter"
	"math"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcutil"
)

// Handle is a stable index of a transaction within a Pool.  Handles are
// assigned in insertion order starting at zero and are never reused for the
// lifetime of the pool.
type Handle int

// NoHandle is returned by lookups that do not resolve to a transaction.
const NoHandle Handle = -1

// TxDesc is a descriptor of a candidate transaction as it was loaded from the
// mempool source.  Descriptors are immutable once added to a pool.
type TxDesc struct {
	// ID is the opaque identifier of the transaction.
	ID string

	// Fee is the fee the transaction itself pays.
	Fee btcutil.Amount

	// Weight is the resource cost of the transaction itself.
	Weight int64

	// ParentIDs lists the direct dependencies of the transaction in the
	// order they were given.  An empty list marks a root transaction.
	ParentIDs []string
}

// IsRoot returns whether the descriptor names no parents.
func (d *TxDesc) IsRoot() bool {
	return len(d.ParentIDs) == 0
}

// Phase describes how far a pool has progressed through the resolve,
// aggregate and select passes.
type Phase int

const (
	// PhaseLoaded means only the descriptors are populated.
	PhaseLoaded Phase = iota

	// PhaseResolved means every transaction has its ancestor chain.
	PhaseResolved

	// PhaseAggregated means chain fees and weights are populated too.
	PhaseAggregated
)

var phaseStrings = map[Phase]string{
	PhaseLoaded:     "loaded",
	PhaseResolved:   "resolved",
	PhaseAggregated: "aggregated",
}

// String returns the Phase as a human-readable name.
func (p Phase) String() string {
	if s := phaseStrings[p]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown Phase (%d)", int(p))
}

// Pool is an arena of candidate transactions addressed by Handle.
//
// Descriptors are kept apart from the data derived from them.  Ancestor
// chains and their aggregates are written once per pass by the txgraph
// package, while the inclusion flags are owned by a single selection pass at
// a time.  A Pool is not safe for concurrent mutation.
type Pool struct {
	descs []TxDesc
	index map[string]Handle

	chains      [][]Handle
	chainFee    []btcutil.Amount
	chainWeight []int64
	phase       Phase

	included  []bool
	selecting atomic.Bool
}

// New returns an empty pool with room for capacityHint transactions.
func New(capacityHint int) *Pool {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Pool{
		descs: make([]TxDesc, 0, capacityHint),
		index: make(map[string]Handle, capacityHint),
	}
}

// NormalizeParentIDs returns the passed parent ids with the empty no-parent
// sentinel entries removed.  A nil slice is returned for root transactions.
func NormalizeParentIDs(ids []string) []string {
	var parents []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		parents = append(parents, id)
	}
	return parents
}

// Add inserts the descriptor into the pool and returns its handle.  Adding to
// a pool that was already resolved drops all derived data since the new
// transaction may change existing chains.
func (p *Pool) Add(desc TxDesc) (Handle, error) {
	if desc.ID == "" {
		return NoHandle, ruleError(ErrMalformedRecord,
			"transaction has an empty id")
	}
	if _, ok := p.index[desc.ID]; ok {
		str := fmt.Sprintf("transaction %s already exists", desc.ID)
		return NoHandle, ruleError(ErrDuplicateTx, str)
	}
	if desc.Fee < 0 || desc.Weight < 0 {
		str := fmt.Sprintf("transaction %s has negative fee %d or "+
			"weight %d", desc.ID, int64(desc.Fee), desc.Weight)
		return NoHandle, ruleError(ErrNegativeValue, str)
	}

	desc.ParentIDs = NormalizeParentIDs(desc.ParentIDs)
	h := Handle(len(p.descs))
	p.descs = append(p.descs, desc)
	p.index[desc.ID] = h

	if p.phase != PhaseLoaded {
		log.Debugf("Dropping derived data after adding %s", desc.ID)
		p.resetDerived()
	}
	return h, nil
}

// resetDerived drops the chains, aggregates and inclusion flags.
func (p *Pool) resetDerived() {
	p.chains = nil
	p.chainFee = nil
	p.chainWeight = nil
	p.included = nil
	p.phase = PhaseLoaded
}

// Count returns the number of transactions in the pool.
func (p *Pool) Count() int {
	return len(p.descs)
}

// Lookup returns the handle of the transaction with the passed id.
func (p *Pool) Lookup(id string) (Handle, bool) {
	h, ok := p.index[id]
	if !ok {
		return NoHandle, false
	}
	return h, true
}

// Valid returns whether the handle refers to a transaction in the pool.
func (p *Pool) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(p.descs)
}

// Desc returns the descriptor for the handle.  It panics if the handle is
// not valid, in the same way an out of range slice index does.
func (p *Pool) Desc(h Handle) *TxDesc {
	return &p.descs[h]
}

// ID returns the id of the transaction for the handle.
func (p *Pool) ID(h Handle) string {
	return p.descs[h].ID
}

// Handles returns an iterator over every handle in insertion order.
func (p *Pool) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for i := range p.descs {
			if !yield(Handle(i)) {
				return
			}
		}
	}
}

// Phase returns the current phase of the pool.
func (p *Pool) Phase() Phase {
	return p.phase
}

// SetChains stores the ancestor chain of every transaction.  The slice is
// indexed by handle and is owned by the pool afterwards.  Any previously
// computed aggregates are dropped.
func (p *Pool) SetChains(chains [][]Handle) error {
	if len(chains) != len(p.descs) {
		str := fmt.Sprintf("got %d chains for %d transactions",
			len(chains), len(p.descs))
		return ruleError(ErrUnknownHandle, str)
	}
	for i, chain := range chains {
		for _, h := range chain {
			if !p.Valid(h) || h == Handle(i) {
				str := fmt.Sprintf("chain of %s holds invalid "+
					"handle %d", p.descs[i].ID, h)
				return ruleError(ErrUnknownHandle, str)
			}
		}
	}

	p.chains = chains
	p.chainFee = nil
	p.chainWeight = nil
	p.phase = PhaseResolved
	return nil
}

// SetAggregates stores the chain fee and chain weight of every transaction.
// The pool must be resolved.
func (p *Pool) SetAggregates(fees []btcutil.Amount, weights []int64) error {
	if p.phase < PhaseResolved {
		str := fmt.Sprintf("cannot aggregate a %v pool", p.phase)
		return ruleError(ErrNotResolved, str)
	}
	if len(fees) != len(p.descs) || len(weights) != len(p.descs) {
		str := fmt.Sprintf("got %d fees and %d weights for %d "+
			"transactions", len(fees), len(weights), len(p.descs))
		return ruleError(ErrUnknownHandle, str)
	}

	p.chainFee = fees
	p.chainWeight = weights
	p.phase = PhaseAggregated
	return nil
}

// Chain returns the deduplicated ancestors of the transaction, ordered so
// that every ancestor appears after its own ancestors.  The returned slice
// must not be modified.  It is nil before the pool is resolved.
func (p *Pool) Chain(h Handle) []Handle {
	if p.phase < PhaseResolved {
		return nil
	}
	return p.chains[h]
}

// ChainFee returns the fee of the transaction plus the fees of its chain.
func (p *Pool) ChainFee(h Handle) btcutil.Amount {
	if p.phase < PhaseAggregated {
		return 0
	}
	return p.chainFee[h]
}

// ChainWeight returns the weight of the transaction plus the weights of its
// chain.
func (p *Pool) ChainWeight(h Handle) int64 {
	if p.phase < PhaseAggregated {
		return 0
	}
	return p.chainWeight[h]
}

// FeeRate returns the chain fee per unit of chain weight.  A bundle without
// weight has an infinite fee rate.
func (p *Pool) FeeRate(h Handle) float64 {
	weight := p.ChainWeight(h)
	if weight == 0 {
		return math.Inf(1)
	}
	return float64(p.ChainFee(h)) / float64(weight)
}

// BeginSelection hands the inclusion flags to a new selection pass and
// clears them.  It fails when another pass still holds the flags.
func (p *Pool) BeginSelection() error {
	if !p.selecting.CompareAndSwap(false, true) {
		return ruleError(ErrSelectionInProgress, "another selection "+
			"pass is running on the pool")
	}

	if len(p.included) != len(p.descs) {
		p.included = make([]bool, len(p.descs))
		return nil
	}
	clear(p.included)
	return nil
}

// EndSelection releases the inclusion flags.  The flags keep the outcome of
// the finished pass until the next BeginSelection.
func (p *Pool) EndSelection() {
	p.selecting.Store(false)
}

// MarkIncluded flags the transaction as included in the block being built.
func (p *Pool) MarkIncluded(h Handle) {
	p.included[h] = true
}

// IsIncluded returns whether the transaction was included by the last
// selection pass.
func (p *Pool) IsIncluded(h Handle) bool {
	if int(h) >= len(p.included) {
		return false
	}
	return p.included[h]
}

// BundleFree returns whether neither the transaction nor any member of its
// chain is included yet.
func (p *Pool) BundleFree(h Handle) bool {
	if p.IsIncluded(h) {
		return false
	}
	for _, ancestor := range p.Chain(h) {
		if p.IsIncluded(ancestor) {
			return false
		}
	}
	return true
}
