// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"runtime"
)

const (
	// DefaultBlockMaxWeight is the default block weight limit.
	DefaultBlockMaxWeight = 4000000

	// DefaultKnapsackScale is the default divisor applied to weights and
	// the block weight limit before building the knapsack table.
	DefaultKnapsackScale = 100

	// DefaultAutoScaleFactor is the default number of table columns per
	// candidate targeted when the knapsack scale is chosen automatically.
	DefaultAutoScaleFactor = 4

	// DefaultMaxTableCells is the default upper bound on the number of
	// cells of the knapsack table, 2 GiB worth of int64 values.
	DefaultMaxTableCells = 1 << 28
)

// Policy houses the policy (configuration parameters) which is used to control
// the selection of transactions for a block template.
type Policy struct {
	// BlockMaxWeight is the maximum total weight of the selected
	// transactions.
	BlockMaxWeight int64

	// KnapsackScale is the quantization divisor of the knapsack selector.
	// A value of zero or less selects a scale automatically so the table
	// has about AutoScaleFactor columns per candidate.
	KnapsackScale int64

	// AutoScaleFactor is the number of table columns per candidate used
	// when the scale is selected automatically.
	AutoScaleFactor int

	// MaxTableCells bounds the size of the knapsack table.
	MaxTableCells int64

	// Workers is the number of goroutines that fill each row of the
	// knapsack table.  Values below two fill rows sequentially.
	Workers int
}

// DefaultPolicy returns the default selection policy.
func DefaultPolicy() *Policy {
	return &Policy{
		BlockMaxWeight:  DefaultBlockMaxWeight,
		KnapsackScale:   DefaultKnapsackScale,
		AutoScaleFactor: DefaultAutoScaleFactor,
		MaxTableCells:   DefaultMaxTableCells,
		Workers:         runtime.NumCPU(),
	}
}
