package txgraph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/btcsuite/blockbuilder/mempool"
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

// newTestPool builds a pool holding the passed transactions in order.
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
	return pool
}

// handle returns the handle of id, failing the test when it is unknown.
func handle(t *testing.T, pool *mempool.Pool, id string) mempool.Handle {
	t.Helper()

	h, ok := pool.Lookup(id)
	require.Truef(t, ok, "unknown transaction %s", id)
	return h
}

// chainIDs returns the ids of the chain of id in chain order.
func chainIDs(t *testing.T, pool *mempool.Pool, id string) []string {
	t.Helper()

	var ids []string
	for _, h := range pool.Chain(handle(t, pool, id)) {
		ids = append(ids, pool.ID(h))
	}
	return ids
}

// randomDAG generates n transactions where every transaction only spends
// transactions generated before it, plus an occasional parent outside the
// pool.  The result is always acyclic.
func randomDAG(rng *rand.Rand, n int) []testTx {
	txns := make([]testTx, n)
	for i := range txns {
		tx := testTx{
			id:     fmt.Sprintf("tx%03d", i),
			fee:    rng.Int63n(5000),
			weight: 1 + rng.Int63n(4000),
		}
		if i > 0 {
			numParents := rng.Intn(4)
			for j := 0; j < numParents; j++ {
				tx.parents = append(tx.parents,
					fmt.Sprintf("tx%03d", rng.Intn(i)))
			}
		}
		if rng.Intn(20) == 0 {
			tx.parents = append(tx.parents, "confirmed")
		}
		txns[i] = tx
	}

	// Shuffle so handle order does not follow topological order.
	rng.Shuffle(len(txns), func(i, j int) {
		txns[i], txns[j] = txns[j], txns[i]
	})
	return txns
}
