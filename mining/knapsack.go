// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
	"math"

	"github.com/btcsuite/blockbuilder/mempool"
	"golang.org/x/sync/errgroup"
)

// minParallelColumns is the row width below which splitting a row across
// goroutines costs more than it saves.
const minParallelColumns = 1 << 14

// QuantizeWeight divides a bundle weight by scale rounding up, so a quantized
// bundle never weighs less than its share of the real weight.
func QuantizeWeight(weight, scale int64) int64 {
	q := weight / scale
	if weight%scale != 0 {
		q++
	}
	return q
}

// QuantizeCapacity divides the block weight limit by scale rounding up, the
// same way bundle weights are quantized.  A set of bundles that fits the
// quantized limit can still exceed the real one, so the walk back checks
// every bundle against the remaining real capacity.
func QuantizeCapacity(capacity, scale int64) int64 {
	return QuantizeWeight(capacity, scale)
}

// AutoScale returns the smallest scale that keeps the quantized capacity at
// or below factor columns per candidate.
func AutoScale(capacity int64, candidates, factor int) (int64, error) {
	if factor <= 0 {
		str := fmt.Sprintf("auto scale factor %d is not positive", factor)
		return 0, ruleError(ErrInvalidScale, str)
	}
	columns := int64(candidates) * int64(factor)
	if columns < 1 {
		columns = 1
	}
	scale := QuantizeWeight(capacity, columns)
	if scale < 1 {
		scale = 1
	}
	return scale, nil
}

// knapsackTable is the flat (n+1)x(W+1) dynamic programming table.  Cell
// (i, w) holds the best fee reachable with the first i bundles under the
// quantized capacity w.
type knapsackTable struct {
	cells []int64
	cols  int
}

// row returns row i of the table.
func (t *knapsackTable) row(i int) []int64 {
	return t.cells[i*t.cols : (i+1)*t.cols]
}

// fillRow computes the columns [lo, hi) of cur from the previous row for a
// bundle of quantized weight wq and value v.
func fillRow(cur, prev []int64, lo, hi int, wq int64, v int64) {
	for w := lo; w < hi; w++ {
		best := prev[w]
		if wq <= int64(w) {
			if take := prev[int64(w)-wq] + v; take > best {
				best = take
			}
		}
		cur[w] = best
	}
}

// SelectKnapsack selects transactions for a block of at most capacity weight
// by solving the 0/1 knapsack problem where each candidate is an indivisible
// bundle of its chain weight and chain fee.
//
// Weights are quantized with QuantizeWeight and the capacity with
// QuantizeCapacity using scale, or an automatically chosen scale when scale
// is zero or less.  The selection is exact for the quantized problem.  When
// the table is walked back, a bundle that overlaps one already committed is
// skipped so a shared ancestor is never included twice, and a bundle whose
// real chain weight exceeds the remaining real capacity is skipped as well.
// Reported totals use the unscaled values.
func SelectKnapsack(pool *mempool.Pool, capacity,
	scale int64) (*Selection, error) {

	return selectKnapsack(pool, capacity, scale, DefaultPolicy())
}

func selectKnapsack(pool *mempool.Pool, capacity, scale int64,
	policy *Policy) (*Selection, error) {

	if err := checkSelectable(pool, capacity); err != nil {
		return nil, err
	}

	n := pool.Count()
	if scale <= 0 {
		var err error
		scale, err = AutoScale(capacity, n, policy.AutoScaleFactor)
		if err != nil {
			return nil, err
		}
		log.Debugf("Using knapsack scale %d for %d candidates", scale, n)
	}

	maxW := QuantizeCapacity(capacity, scale)
	rows := int64(n) + 1
	if maxW >= policy.MaxTableCells ||
		rows > policy.MaxTableCells/(maxW+1) {

		str := fmt.Sprintf("knapsack table of %d rows and %d columns "+
			"exceeds %d cells, raise the scale", rows, maxW+1,
			policy.MaxTableCells)
		return nil, ruleError(ErrTableTooLarge, str)
	}
	cols := maxW + 1

	weights := make([]int64, n)
	values := make([]int64, n)
	var valueSum int64
	for h := range pool.Handles() {
		weights[h] = QuantizeWeight(pool.ChainWeight(h), scale)
		values[h] = int64(pool.ChainFee(h))
		if values[h] > math.MaxInt64-valueSum {
			return nil, ruleError(ErrValueOverflow, "sum of bundle "+
				"fees overflows the knapsack table")
		}
		valueSum += values[h]
	}

	if err := pool.BeginSelection(); err != nil {
		return nil, err
	}
	defer pool.EndSelection()

	table := &knapsackTable{
		cells: make([]int64, rows*cols),
		cols:  int(cols),
	}
	if err := table.fill(weights, values, policy.Workers); err != nil {
		return nil, err
	}

	sel := newSelection(StrategyKnapsack, capacity)
	sel.Scale = scale

	// Walk back from the last cell.  A bundle whose row improved the cell
	// was taken by the optimum.
	w := maxW
	var overlapping, oversized int
	for i := n; i >= 1; i-- {
		if table.row(i)[w] == table.row(i-1)[w] {
			continue
		}
		h := mempool.Handle(i - 1)
		if !pool.BundleFree(h) {
			overlapping++
			continue
		}
		if pool.ChainWeight(h) > sel.RemainingWeight {
			oversized++
			continue
		}
		sel.commitBundle(pool, h)
		w -= weights[i-1]
	}

	log.Debugf("Knapsack optimum %d for %d columns, committed fee %d, "+
		"skipped %d overlapping and %d oversized bundles",
		table.row(n)[maxW], cols, int64(sel.TotalFee), overlapping,
		oversized)
	if err := sel.verify(); err != nil {
		return nil, err
	}
	logSelection(sel)
	return sel, nil
}

// fill computes every row of the table.  Row i only depends on row i-1, so
// the columns of wide rows are split across workers.
func (t *knapsackTable) fill(weights, values []int64, workers int) error {
	if workers < 2 || t.cols < minParallelColumns {
		for i := 1; i <= len(weights); i++ {
			fillRow(t.row(i), t.row(i-1), 0, t.cols, weights[i-1],
				values[i-1])
		}
		return nil
	}

	chunk := (t.cols + workers - 1) / workers
	for i := 1; i <= len(weights); i++ {
		cur, prev := t.row(i), t.row(i-1)
		wq, v := weights[i-1], values[i-1]

		var g errgroup.Group
		for lo := 0; lo < t.cols; lo += chunk {
			lo, hi := lo, min(lo+chunk, t.cols)
			g.Go(func() error {
				fillRow(cur, prev, lo, hi, wq, v)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
