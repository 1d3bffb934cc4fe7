// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/btcsuite/blockbuilder/mempool"
	"github.com/btcsuite/blockbuilder/mempool/txgraph"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// testTx is a compact description of a pool transaction for tests.
type testTx struct {
	id      string
	fee     int64
	weight  int64
	parents []string
}

// newTestPool builds a resolved and aggregated pool holding the passed
// transactions in order.
func newTestPool(t *testing.T, txns ...testTx) *mempool.Pool {
	t.Helper()

	pool := mempool.New(len(txns))
	for _, tx := range txns {
		_, err := pool.Add(mempool.TxDesc{
			ID:        tx.id,
			Fee:       btcutil.Amount(tx.fee),
			Weight:    tx.weight,
			ParentIDs: tx.parents,
		})
		require.NoError(t, err)
	}

	_, err := txgraph.Resolve(pool, nil)
	require.NoError(t, err)
	require.NoError(t, txgraph.Aggregate(pool))
	return pool
}

// randomPool generates an acyclic pool of n transactions where a transaction
// has a parent with probability parentPct percent.
func randomPool(t *testing.T, rng *rand.Rand, n, parentPct int) *mempool.Pool {
	t.Helper()

	txns := make([]testTx, n)
	for i := range txns {
		txns[i] = testTx{
			id:     fmt.Sprintf("tx%03d", i),
			fee:    rng.Int63n(10000),
			weight: 1 + rng.Int63n(5000),
		}
		if i == 0 || rng.Intn(100) >= parentPct {
			continue
		}
		for j := 0; j < 1+rng.Intn(2); j++ {
			txns[i].parents = append(txns[i].parents,
				fmt.Sprintf("tx%03d", rng.Intn(i)))
		}
	}
	return newTestPool(t, txns...)
}

// requireClosed ensures a transaction is included exactly when it was
// committed, and that every included transaction has its whole chain
// included before it in the commit order.
func requireClosed(t *testing.T, pool *mempool.Pool, sel *Selection) {
	t.Helper()

	pos := make(map[mempool.Handle]int, len(sel.Handles))
	for i, h := range sel.Handles {
		_, dup := pos[h]
		require.Falsef(t, dup, "%s committed twice", pool.ID(h))
		pos[h] = i
	}

	var weight int64
	var fee btcutil.Amount
	for h := range pool.Handles() {
		_, committed := pos[h]
		require.Equal(t, committed, pool.IsIncluded(h), pool.ID(h))
		if !committed {
			continue
		}
		for _, a := range pool.Chain(h) {
			require.Truef(t, pool.IsIncluded(a), "%s included "+
				"without ancestor %s", pool.ID(h), pool.ID(a))
			require.Less(t, pos[a], pos[h])
		}
		weight += pool.Desc(h).Weight
		fee += pool.Desc(h).Fee
	}

	require.Equal(t, weight, sel.TotalWeight)
	require.Equal(t, fee, sel.TotalFee)
	require.Equal(t, sel.Capacity-weight, sel.RemainingWeight)
	require.LessOrEqual(t, weight, sel.Capacity)
}
