// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"math"
	"slices"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// TestPoolAdd ensures descriptors are assigned sequential handles, parent
// sentinels are normalized and invalid descriptors are rejected.
func TestPoolAdd(t *testing.T) {
	pool := New(4)

	a, err := pool.Add(TxDesc{ID: "a", Fee: 10, Weight: 100,
		ParentIDs: []string{""}})
	require.NoError(t, err)
	require.Equal(t, Handle(0), a)
	require.True(t, pool.Desc(a).IsRoot())

	b, err := pool.Add(TxDesc{ID: "b", Fee: 5, Weight: 50,
		ParentIDs: []string{"a", "", "z"}})
	require.NoError(t, err)
	require.Equal(t, Handle(1), b)
	require.Equal(t, []string{"a", "z"}, pool.Desc(b).ParentIDs)

	_, err = pool.Add(TxDesc{ID: "a", Fee: 1, Weight: 1})
	require.True(t, IsErrorCode(err, ErrDuplicateTx))

	_, err = pool.Add(TxDesc{ID: "neg", Fee: -1, Weight: 1})
	require.True(t, IsErrorCode(err, ErrNegativeValue))

	_, err = pool.Add(TxDesc{ID: "negw", Fee: 1, Weight: -1})
	require.True(t, IsErrorCode(err, ErrNegativeValue))

	_, err = pool.Add(TxDesc{Fee: 1, Weight: 1})
	require.True(t, IsErrorCode(err, ErrMalformedRecord))

	require.Equal(t, 2, pool.Count())

	h, ok := pool.Lookup("b")
	require.True(t, ok)
	require.Equal(t, b, h)
	require.Equal(t, "b", pool.ID(h))

	h, ok = pool.Lookup("missing")
	require.False(t, ok)
	require.Equal(t, NoHandle, h)

	require.True(t, pool.Valid(a))
	require.False(t, pool.Valid(NoHandle))
	require.False(t, pool.Valid(Handle(2)))

	require.Equal(t, []Handle{0, 1}, slices.Collect(pool.Handles()))
}

// TestPoolPhases ensures derived data is only exposed once the matching
// phase was reached and is dropped when the pool changes.
func TestPoolPhases(t *testing.T) {
	pool := New(0)
	a, err := pool.Add(TxDesc{ID: "a", Fee: 10, Weight: 100})
	require.NoError(t, err)
	b, err := pool.Add(TxDesc{ID: "b", Fee: 5, Weight: 50,
		ParentIDs: []string{"a"}})
	require.NoError(t, err)

	require.Equal(t, PhaseLoaded, pool.Phase())
	require.Nil(t, pool.Chain(b))
	require.Zero(t, pool.ChainFee(b))

	err = pool.SetAggregates([]btcutil.Amount{10, 15}, []int64{100, 150})
	require.True(t, IsErrorCode(err, ErrNotResolved), err)

	// Chains must line up with the pool and never reference the
	// transaction itself.
	require.True(t, IsErrorCode(pool.SetChains([][]Handle{nil}),
		ErrUnknownHandle))
	require.True(t, IsErrorCode(pool.SetChains([][]Handle{nil, {b}}),
		ErrUnknownHandle))
	require.True(t, IsErrorCode(pool.SetChains([][]Handle{nil, {7}}),
		ErrUnknownHandle))

	require.NoError(t, pool.SetChains([][]Handle{nil, {a}}))
	require.Equal(t, PhaseResolved, pool.Phase())
	require.Equal(t, []Handle{a}, pool.Chain(b))
	require.Zero(t, pool.ChainWeight(b))

	err = pool.SetAggregates([]btcutil.Amount{10}, []int64{100, 150})
	require.True(t, IsErrorCode(err, ErrUnknownHandle))

	err = pool.SetAggregates([]btcutil.Amount{10, 15}, []int64{100, 150})
	require.NoError(t, err)
	require.Equal(t, PhaseAggregated, pool.Phase())
	require.Equal(t, btcutil.Amount(15), pool.ChainFee(b))
	require.Equal(t, int64(150), pool.ChainWeight(b))
	require.InDelta(t, 0.1, pool.FeeRate(b), 1e-12)

	_, err = pool.Add(TxDesc{ID: "c", Fee: 1, Weight: 1})
	require.NoError(t, err)
	require.Equal(t, PhaseLoaded, pool.Phase())
	require.Nil(t, pool.Chain(b))
	require.Equal(t, "loaded", pool.Phase().String())
	require.Equal(t, "Unknown Phase (9)", Phase(9).String())
}

// TestPoolFeeRateZeroWeight ensures a weightless bundle ranks above any
// other bundle.
func TestPoolFeeRateZeroWeight(t *testing.T) {
	pool := New(0)
	h, err := pool.Add(TxDesc{ID: "free", Fee: 0, Weight: 0})
	require.NoError(t, err)
	require.NoError(t, pool.SetChains([][]Handle{nil}))
	require.NoError(t, pool.SetAggregates([]btcutil.Amount{0},
		[]int64{0}))

	require.True(t, math.IsInf(pool.FeeRate(h), 1))
}

// TestPoolSelection ensures the inclusion flags are owned by one selection
// pass at a time and are cleared when a new pass begins.
func TestPoolSelection(t *testing.T) {
	pool := New(0)
	a, err := pool.Add(TxDesc{ID: "a", Fee: 10, Weight: 100})
	require.NoError(t, err)
	b, err := pool.Add(TxDesc{ID: "b", Fee: 5, Weight: 50,
		ParentIDs: []string{"a"}})
	require.NoError(t, err)
	require.NoError(t, pool.SetChains([][]Handle{nil, {a}}))

	require.False(t, pool.IsIncluded(a))
	require.True(t, pool.BundleFree(b))

	require.NoError(t, pool.BeginSelection())
	err = pool.BeginSelection()
	require.True(t, IsErrorCode(err, ErrSelectionInProgress))

	pool.MarkIncluded(a)
	require.True(t, pool.IsIncluded(a))
	require.False(t, pool.BundleFree(b))
	require.False(t, pool.BundleFree(a))
	pool.EndSelection()

	// Flags survive the end of the pass until the next one starts.
	require.True(t, pool.IsIncluded(a))

	require.NoError(t, pool.BeginSelection())
	require.False(t, pool.IsIncluded(a))
	require.True(t, pool.BundleFree(b))
	pool.EndSelection()
}
