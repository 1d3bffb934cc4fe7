// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
	"strings"

	"github.com/btcsuite/blockbuilder/mempool"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// Strategy identifies a selection algorithm.
type Strategy int

const (
	// StrategyGreedy packs bundles in descending fee rate order.
	StrategyGreedy Strategy = iota

	// StrategyKnapsack solves the 0/1 knapsack problem over bundles.
	StrategyKnapsack
)

var strategyStrings = map[Strategy]string{
	StrategyGreedy:   "greedy",
	StrategyKnapsack: "knapsack",
}

// String returns the name of the strategy as accepted by ParseStrategy.
func (s Strategy) String() string {
	if str := strategyStrings[s]; str != "" {
		return str
	}
	return fmt.Sprintf("Unknown Strategy (%d)", int(s))
}

// ParseStrategy returns the strategy with the passed name.
func ParseStrategy(name string) (Strategy, error) {
	for strategy, str := range strategyStrings {
		if strings.EqualFold(name, str) {
			return strategy, nil
		}
	}
	str := fmt.Sprintf("unknown selection strategy %q", name)
	return 0, ruleError(ErrUnknownStrategy, str)
}

// Selection is the outcome of a selection pass.
type Selection struct {
	// Strategy is the algorithm that produced the selection.
	Strategy Strategy

	// Capacity is the block weight limit the selection was made for.
	Capacity int64

	// Handles lists the included transactions in the order they were
	// committed.  Every transaction follows its ancestors.
	Handles []mempool.Handle

	// IDs holds the ids of Handles in the same order.
	IDs []string

	// TotalFee is the sum of the fees of the included transactions.
	TotalFee btcutil.Amount

	// TotalWeight is the sum of the weights of the included transactions.
	TotalWeight int64

	// RemainingWeight is the unused part of Capacity.
	RemainingWeight int64

	// Scale is the quantization divisor used by the knapsack selector.
	// It is zero for other strategies.
	Scale int64
}

// newSelection returns an empty selection for the passed capacity.
func newSelection(strategy Strategy, capacity int64) *Selection {
	return &Selection{
		Strategy:        strategy,
		Capacity:        capacity,
		RemainingWeight: capacity,
	}
}

// commitBundle includes the transaction and every member of its chain.  The
// caller must ensure the bundle is free.  Ancestors are committed first, in
// chain order.
func (s *Selection) commitBundle(pool *mempool.Pool, h mempool.Handle) {
	for _, ancestor := range pool.Chain(h) {
		s.commit(pool, ancestor)
	}
	s.commit(pool, h)
}

// commit includes a single transaction and accounts for its unscaled fee and
// weight.
func (s *Selection) commit(pool *mempool.Pool, h mempool.Handle) {
	desc := pool.Desc(h)
	pool.MarkIncluded(h)
	s.Handles = append(s.Handles, h)
	s.IDs = append(s.IDs, desc.ID)
	s.TotalFee += desc.Fee
	s.TotalWeight += desc.Weight
	s.RemainingWeight -= desc.Weight
}

// verify ensures the selection fits its capacity.
func (s *Selection) verify() error {
	if s.TotalWeight > s.Capacity {
		str := fmt.Sprintf("%v selection weighs %d, over the limit of "+
			"%d", s.Strategy, s.TotalWeight, s.Capacity)
		return ruleError(ErrCapacityOverflow, str)
	}
	return nil
}

// Digest returns the double SHA-256 of the newline separated committed ids.
// Two selections with the same digest committed the same transactions in
// the same order.
func (s *Selection) Digest() chainhash.Hash {
	var b strings.Builder
	for _, id := range s.IDs {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	return chainhash.DoubleHashH([]byte(b.String()))
}

// checkSelectable ensures the pool and the capacity can be selected from.
func checkSelectable(pool *mempool.Pool, capacity int64) error {
	if pool.Phase() < mempool.PhaseAggregated {
		str := fmt.Sprintf("cannot select from a %v pool", pool.Phase())
		return ruleError(ErrNotAggregated, str)
	}
	if capacity < 0 {
		str := fmt.Sprintf("negative block weight limit %d", capacity)
		return ruleError(ErrInvalidCapacity, str)
	}
	return nil
}

// logSelection reports a finished selection.
func logSelection(sel *Selection) {
	log.Infof("Selected %d transactions with %v strategy: fee %v, weight "+
		"%d, remaining %d", len(sel.IDs), sel.Strategy, sel.TotalFee,
		sel.TotalWeight, sel.RemainingWeight)
	log.Tracef("Selection: %v", newLogClosure(func() string {
		return spew.Sdump(sel)
	}))
}

// Select runs the selector for the passed strategy with the limits of the
// policy.
func Select(pool *mempool.Pool, policy *Policy,
	strategy Strategy) (*Selection, error) {

	switch strategy {
	case StrategyGreedy:
		return SelectGreedy(pool, policy.BlockMaxWeight)
	case StrategyKnapsack:
		return selectKnapsack(pool, policy.BlockMaxWeight,
			policy.KnapsackScale, policy)
	}
	str := fmt.Sprintf("unknown selection strategy %v", strategy)
	return nil, ruleError(ErrUnknownStrategy, str)
}
