// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"math/bits"

	"github.com/btcsuite/blockbuilder/mempool"
	"github.com/btcsuite/blockbuilder/mempool/txgraph"
)

// cmpFeeRate compares the fee rates feeA/weightA and feeB/weightB exactly.
// All values must be non-negative.  A bundle without weight ranks above every
// bundle with weight.  The result is negative, zero or positive when the
// first rate is lower, equal or higher.
func cmpFeeRate(feeA, weightA, feeB, weightB int64) int {
	switch {
	case weightA == 0 && weightB == 0:
		return cmpInt64(feeA, feeB)
	case weightA == 0:
		return 1
	case weightB == 0:
		return -1
	}

	// feeA * weightB against feeB * weightA in 128 bits.
	hiA, loA := bits.Mul64(uint64(feeA), uint64(weightB))
	hiB, loB := bits.Mul64(uint64(feeB), uint64(weightA))
	if hiA != hiB {
		if hiA < hiB {
			return -1
		}
		return 1
	}
	if loA < loB {
		return -1
	}
	if loA > loB {
		return 1
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// feeRateOrder returns the less function of the greedy priority queue.
// Bundles are ordered by descending fee rate, then by descending absolute
// chain fee so a descendant is tried before an ancestor paying the same
// rate, and finally by id.
func feeRateOrder(pool *mempool.Pool) func(a, b mempool.Handle) bool {
	return func(a, b mempool.Handle) bool {
		feeA, feeB := int64(pool.ChainFee(a)), int64(pool.ChainFee(b))
		c := cmpFeeRate(feeA, pool.ChainWeight(a), feeB,
			pool.ChainWeight(b))
		if c != 0 {
			return c > 0
		}
		if feeA != feeB {
			return feeA > feeB
		}
		return pool.ID(a) < pool.ID(b)
	}
}

// SelectGreedy selects transactions for a block of at most capacity weight by
// walking bundles in descending fee rate order.
//
// A bundle is committed atomically when neither the transaction nor any
// member of its chain was committed before and its chain weight fits the
// remaining capacity.  Bundles that do not fit or overlap a committed bundle
// are skipped for good.  The result is fast but not guaranteed optimal.
func SelectGreedy(pool *mempool.Pool, capacity int64) (*Selection, error) {
	if err := checkSelectable(pool, capacity); err != nil {
		return nil, err
	}
	if err := pool.BeginSelection(); err != nil {
		return nil, err
	}
	defer pool.EndSelection()

	candidates := make([]mempool.Handle, 0, pool.Count())
	for h := range pool.Handles() {
		candidates = append(candidates, h)
	}
	queue := txgraph.NewPriorityQueueFrom(candidates, feeRateOrder(pool))

	sel := newSelection(StrategyGreedy, capacity)
	var overlapping, oversized int
	for h := range queue.Drain() {
		if !pool.BundleFree(h) {
			overlapping++
			continue
		}
		if pool.ChainWeight(h) > sel.RemainingWeight {
			oversized++
			continue
		}
		sel.commitBundle(pool, h)
	}

	log.Debugf("Greedy selection skipped %d overlapping and %d oversized "+
		"bundles", overlapping, oversized)
	if err := sel.verify(); err != nil {
		return nil, err
	}
	logSelection(sel)
	return sel, nil
}
