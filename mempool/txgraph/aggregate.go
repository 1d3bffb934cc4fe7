package txgraph

import (
	"fmt"
	"math"

	"github.com/btcsuite/blockbuilder/mempool"
	"github.com/btcsuite/btcd/btcutil"
)

// Aggregate computes the chain fee and chain weight of every transaction in a
// resolved pool: its own value plus the values of every member of its chain.
// Chains are already deduplicated, so an ancestor reached along several paths
// is counted once per bundle.
func Aggregate(pool *mempool.Pool) error {
	if pool.Phase() < mempool.PhaseResolved {
		return ErrNotResolved
	}

	n := pool.Count()
	fees := make([]btcutil.Amount, n)
	weights := make([]int64, n)
	for h := range pool.Handles() {
		desc := pool.Desc(h)
		fee, weight := int64(desc.Fee), desc.Weight
		for _, ancestor := range pool.Chain(h) {
			a := pool.Desc(ancestor)
			if !addInt64(&fee, int64(a.Fee)) ||
				!addInt64(&weight, a.Weight) {

				return fmt.Errorf("%w: bundle of %s", ErrAggregateOverflow,
					desc.ID)
			}
		}
		fees[h] = btcutil.Amount(fee)
		weights[h] = weight
	}

	return pool.SetAggregates(fees, weights)
}

// addInt64 adds v to the non-negative sum and reports whether the result
// still fits.
func addInt64(sum *int64, v int64) bool {
	if v > math.MaxInt64-*sum {
		return false
	}
	*sum += v
	return true
}
